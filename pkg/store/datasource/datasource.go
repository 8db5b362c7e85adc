package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"sort"
	"strconv"
	"time"

	dbsql "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/de-tools/nutrition-atlas/pkg/services/config"
	"github.com/de-tools/nutrition-atlas/pkg/store/duckdb"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sf "github.com/snowflakedb/gosnowflake"
	"github.com/spf13/viper"
)

const (
	DriverMySQL      = "mysql"
	DriverPostgres   = "postgres"
	DriverSQLite     = "sqlite3"
	DriverDuckDB     = "duckdb"
	DriverSnowflake  = "snowflake"
	DriverDatabricks = "databricks"
)

// Settings describe one relational data source. DSN wins over the discrete
// connection fields when both are set.
type Settings struct {
	Driver   string
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Database string

	// ProfilePath points to a snowflake profile (read with viper) or a
	// .databrickscfg file; Profile selects the databricks section.
	ProfilePath string
	Profile     string
	HTTPPath    string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type opener func(ctx context.Context, s Settings) (*sql.DB, error)

var openers = map[string]opener{
	DriverMySQL:      openMySQL,
	DriverPostgres:   openPostgres,
	DriverSQLite:     openSQLite,
	DriverDuckDB:     openDuckDB,
	DriverSnowflake:  openSnowflake,
	DriverDatabricks: openDatabricks,
}

// Drivers lists the supported driver names
func Drivers() []string {
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates the pool for the configured driver and verifies it is reachable
func Open(ctx context.Context, s Settings) (*sql.DB, error) {
	if s.Driver == "" {
		s.Driver = DriverDuckDB
	}
	open, ok := openers[s.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver %q, expected one of %v", s.Driver, Drivers())
	}

	db, err := open(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("open %s data source: %w", s.Driver, err)
	}

	if s.MaxOpenConns > 0 {
		db.SetMaxOpenConns(s.MaxOpenConns)
	}
	if s.MaxIdleConns > 0 {
		db.SetMaxIdleConns(s.MaxIdleConns)
	}
	if s.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(s.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &domain.ConnectionError{Driver: s.Driver, Err: err}
	}

	zerolog.Ctx(ctx).Info().
		Str("driver", s.Driver).
		Int("max_open_conns", s.MaxOpenConns).
		Msg("data source ready")
	return db, nil
}

func openMySQL(_ context.Context, s Settings) (*sql.DB, error) {
	dsn, err := MySQLDSN(s)
	if err != nil {
		return nil, err
	}
	return sql.Open("mysql", dsn)
}

// MySQLDSN builds a go-sql-driver DSN; parseTime is always enabled
func MySQLDSN(s Settings) (string, error) {
	var cfg *mysql.Config
	if s.DSN != "" {
		parsed, err := mysql.ParseDSN(s.DSN)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg = parsed
	} else {
		cfg = mysql.NewConfig()
		cfg.User = s.User
		cfg.Passwd = s.Password
		cfg.Net = "tcp"
		cfg.Addr = hostPort(s.Host, s.Port, 3306)
		cfg.DBName = s.Database
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func openPostgres(_ context.Context, s Settings) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(PostgresDSN(s))
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	return stdlib.OpenDB(*cfg), nil
}

// PostgresDSN returns the configured DSN or a keyword/value connection string
func PostgresDSN(s Settings) string {
	if s.DSN != "" {
		return s.DSN
	}
	host := s.Host
	if host == "" {
		host = "localhost"
	}
	port := s.Port
	if port == 0 {
		port = 5432
	}
	dsn := fmt.Sprintf("host=%s port=%d", host, port)
	if s.User != "" {
		dsn += " user=" + quoteKV(s.User)
	}
	if s.Password != "" {
		dsn += " password=" + quoteKV(s.Password)
	}
	if s.Database != "" {
		dsn += " dbname=" + quoteKV(s.Database)
	}
	return dsn
}

func openSQLite(_ context.Context, s Settings) (*sql.DB, error) {
	dsn := s.DSN
	if dsn == "" {
		dsn = s.Database
	}
	if dsn == "" {
		return nil, fmt.Errorf("sqlite3 requires a dsn or database file")
	}
	return sql.Open("sqlite3", dsn)
}

func openDuckDB(_ context.Context, s Settings) (*sql.DB, error) {
	path := s.DSN
	if path == "" {
		path = s.Database
	}
	return duckdb.NewDB(duckdb.Settings{DbPath: path})
}

func openSnowflake(_ context.Context, s Settings) (*sql.DB, error) {
	dsn := s.DSN
	if dsn == "" {
		cfg, err := LoadSnowflakeConfig(s.ProfilePath)
		if err != nil {
			return nil, err
		}
		dsn, err = sf.DSN(cfg)
		if err != nil {
			return nil, fmt.Errorf("create snowflake dsn: %w", err)
		}
	}
	return sql.Open("snowflake", dsn)
}

// LoadSnowflakeConfig reads a snowflake profile (account, user, password,
// database, warehouse, role) from any format viper understands
func LoadSnowflakeConfig(profilePath string) (*sf.Config, error) {
	if profilePath == "" {
		return nil, fmt.Errorf("snowflake requires a dsn or profile path")
	}
	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg sf.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse snowflake config: %w", err)
	}
	if cfg.Account == "" || cfg.User == "" {
		return nil, fmt.Errorf("snowflake profile requires account and user")
	}
	return &cfg, nil
}

func openDatabricks(ctx context.Context, s Settings) (*sql.DB, error) {
	if s.DSN != "" {
		return sql.Open("databricks", s.DSN)
	}
	if s.ProfilePath == "" {
		return nil, fmt.Errorf("databricks requires a dsn or profile path")
	}

	registry, err := config.NewRegistry(s.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create config registry: %w", err)
	}
	profile := s.Profile
	if profile == "" {
		profile = "DEFAULT"
	}
	warehouse, err := registry.GetConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	httpPath := warehouse.HTTPPath
	if s.HTTPPath != "" {
		httpPath = s.HTTPPath
	}
	if httpPath == "" {
		return nil, fmt.Errorf("databricks profile %s has no http_path", profile)
	}

	opts := []dbsql.ConnOption{
		dbsql.WithServerHostname(warehouse.Hostname()),
		dbsql.WithPort(443),
		dbsql.WithHTTPPath(httpPath),
		dbsql.WithAccessToken(warehouse.Token),
	}
	if warehouse.Catalog != "" || warehouse.Schema != "" {
		opts = append(opts, dbsql.WithInitialNamespace(warehouse.Catalog, warehouse.Schema))
	}

	connector, err := dbsql.NewConnector(opts...)
	if err != nil {
		return nil, fmt.Errorf("create databricks connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

func hostPort(host string, port, fallback int) string {
	if host == "" {
		host = "127.0.0.1"
	}
	if port == 0 {
		port = fallback
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func quoteKV(v string) string {
	for _, r := range v {
		if r == ' ' || r == '\'' || r == '\\' {
			return "'" + escapeKV(v) + "'"
		}
	}
	return v
}

func escapeKV(v string) string {
	out := make([]rune, 0, len(v))
	for _, r := range v {
		if r == '\'' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
