package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmbeddedDrivers(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
	}{
		{name: "duckdb default", settings: Settings{DSN: ":memory:"}},
		{name: "sqlite3", settings: Settings{Driver: DriverSQLite, DSN: ":memory:", MaxOpenConns: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := Open(context.Background(), tt.settings)
			require.NoError(t, err)
			defer db.Close()

			var one int
			require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
			assert.Equal(t, 1, one)
		})
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Settings{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestOpen_UnreachableServerIsConnectionError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Open(ctx, Settings{
		Driver:   DriverMySQL,
		Host:     "127.0.0.1",
		Port:     1,
		User:     "reader",
		Database: "nutrition",
	})
	require.Error(t, err)
	assert.True(t, domain.IsConnectionError(err), "got %v", err)
}

func TestOpen_MissingProfiles(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Settings{Driver: DriverSnowflake})
	assert.ErrorContains(t, err, "profile path")

	_, err = Open(ctx, Settings{Driver: DriverDatabricks})
	assert.ErrorContains(t, err, "profile path")

	_, err = Open(ctx, Settings{Driver: DriverSQLite})
	assert.Error(t, err)
}

func TestOpen_DatabricksProfileWithoutHTTPPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".databrickscfg")
	require.NoError(t, os.WriteFile(path, []byte("[dev]\nhost = https://dbc-1.cloud.databricks.com\ntoken = dapi\n"), 0o600))

	_, err := Open(context.Background(), Settings{Driver: DriverDatabricks, ProfilePath: path, Profile: "dev"})
	assert.ErrorContains(t, err, "http_path")
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := MySQLDSN(Settings{User: "reader", Password: "secret", Host: "db", Database: "nutrition"})
	require.NoError(t, err)
	assert.Equal(t, "reader:secret@tcp(db:3306)/nutrition?parseTime=true", dsn)

	dsn, err = MySQLDSN(Settings{DSN: "root@tcp(localhost:3307)/obesity_db"})
	require.NoError(t, err)
	assert.Equal(t, "root@tcp(localhost:3307)/obesity_db?parseTime=true", dsn)

	_, err = MySQLDSN(Settings{DSN: "not a dsn"})
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	assert.Equal(t, "host=localhost port=5432", PostgresDSN(Settings{}))
	assert.Equal(t,
		"host=pg port=6432 user=reader password='p w' dbname=nutrition",
		PostgresDSN(Settings{Host: "pg", Port: 6432, User: "reader", Password: "p w", Database: "nutrition"}),
	)
	assert.Equal(t, "postgres://x@y/z", PostgresDSN(Settings{DSN: "postgres://x@y/z"}))
}

func TestLoadSnowflakeConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snowflake.yaml")
	content := "account: xy12345\nuser: analyst\npassword: secret\ndatabase: NUTRITION\nwarehouse: COMPUTE_WH\nrole: READER\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadSnowflakeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "xy12345", cfg.Account)
	assert.Equal(t, "analyst", cfg.User)
	assert.Equal(t, "COMPUTE_WH", cfg.Warehouse)
	assert.Equal(t, "READER", cfg.Role)

	incomplete := filepath.Join(t.TempDir(), "incomplete.yaml")
	require.NoError(t, os.WriteFile(incomplete, []byte("password: secret\n"), 0o600))
	_, err = LoadSnowflakeConfig(incomplete)
	assert.Error(t, err)
}

func TestDrivers(t *testing.T) {
	assert.Equal(t, []string{"databricks", "duckdb", "mysql", "postgres", "snowflake", "sqlite3"}, Drivers())
}
