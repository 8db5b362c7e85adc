package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_CreatesObservationTables(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "duckdb-test-*")
	require.NoError(t, err)

	defer func() {
		err := os.RemoveAll(tmpDir)
		if err != nil {
			t.Errorf("failed to cleanup test directory: %v", err)
		}
	}()

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO obesity (country, region, year, gender, age_group, mean_estimate, CI_Width, obesity_level)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"India", "South-East Asia", 2022, "female", "adult", 7.1, 1.2, "Low",
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM obesity WHERE country = ?", "India").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = db.QueryRow("SELECT COUNT(*) FROM malnutrition").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSeedFromCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "malnutrition.csv")
	content := "country,region,year,gender,age_group,mean_estimate,lower_bound,upper_bound,CI_Width,malnutrition_level\n" +
		"India,South-East Asia,2012,female,child,36.2,30.1,42.3,12.2,High\n" +
		"India,South-East Asia,2012,male,child,35.9,30.0,41.8,11.8,High\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	db, err := NewDB(Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	n, err := SeedFromCSV(ctx, db, "malnutrition", path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// seeding again replaces the content
	n, err = SeedFromCSV(ctx, db, "malnutrition", path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM malnutrition").Scan(&count))
	assert.Equal(t, 2, count)

	_, err = SeedFromCSV(ctx, db, "vitamins", path)
	assert.Error(t, err)
}
