package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "NUTRITION"

type Server struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DataSource struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	ProfilePath     string        `mapstructure:"profile_path"`
	Profile         string        `mapstructure:"profile"`
	HTTPPath        string        `mapstructure:"http_path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type Query struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type Quality struct {
	ExpectedRowsPerYear int64 `mapstructure:"expected_rows_per_year"`
}

type Export struct {
	S3Region string `mapstructure:"s3_region"`
}

type AppConfig struct {
	Server     Server     `mapstructure:"server"`
	DataSource DataSource `mapstructure:"datasource"`
	Query      Query      `mapstructure:"query"`
	Quality    Quality    `mapstructure:"quality"`
	Export     Export     `mapstructure:"export"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("datasource.driver", "duckdb")
	v.SetDefault("datasource.dsn", "nutrition-atlas.db")
	v.SetDefault("datasource.host", "")
	v.SetDefault("datasource.port", 0)
	v.SetDefault("datasource.user", "")
	v.SetDefault("datasource.password", "")
	v.SetDefault("datasource.database", "")
	v.SetDefault("datasource.profile_path", "")
	v.SetDefault("datasource.profile", "")
	v.SetDefault("datasource.http_path", "")
	v.SetDefault("datasource.max_open_conns", 10)
	v.SetDefault("datasource.max_idle_conns", 5)
	v.SetDefault("datasource.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("query.timeout", 30*time.Second)
	v.SetDefault("quality.expected_rows_per_year", 2520)
	v.SetDefault("export.s3_region", "")
}

// Load reads the optional config file, then applies NUTRITION_* environment
// overrides, e.g. NUTRITION_DATASOURCE_DRIVER=mysql.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if c.DataSource.Driver == "" {
		errs = append(errs, errors.New("datasource.driver is required"))
	}
	if c.Query.Timeout <= 0 {
		errs = append(errs, errors.New("query.timeout must be positive"))
	}
	if c.Quality.ExpectedRowsPerYear < 0 {
		errs = append(errs, errors.New("quality.expected_rows_per_year must not be negative"))
	}
	return errors.Join(errs...)
}

func (c *AppConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
