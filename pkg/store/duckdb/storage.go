package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/de-tools/nutrition-atlas/pkg/models/store"
	"github.com/marcboeker/go-duckdb/v2"
)

const observationColumnsDDL = `
		country VARCHAR NOT NULL,
		region VARCHAR,
		year INTEGER NOT NULL,
		gender VARCHAR NOT NULL,
		age_group VARCHAR NOT NULL,
		mean_estimate DOUBLE,
		lower_bound DOUBLE,
		upper_bound DOUBLE,
		CI_Width DOUBLE,`

const ObesityTableSchema = `
	CREATE TABLE IF NOT EXISTS obesity (` + observationColumnsDDL + `
		obesity_level VARCHAR
	);
`

const MalnutritionTableSchema = `
	CREATE TABLE IF NOT EXISTS malnutrition (` + observationColumnsDDL + `
		malnutrition_level VARCHAR
	);
`

var bootQueries = []string{
	ObesityTableSchema,
	MalnutritionTableSchema,
}

type Settings struct {
	DbPath  string
	Threads int
}

// NewDB opens a DuckDB database and makes sure both observation tables exist
func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}

// SeedFromCSV replaces the content of an observation table with a CSV file.
// Columns are matched by header name.
func SeedFromCSV(ctx context.Context, db *sql.DB, table, path string) (int64, error) {
	if err := store.ValidateTable(table); err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return 0, fmt.Errorf("truncate %s: %w", table, err)
	}

	// read_csv_auto takes a literal path, it cannot be bound
	literal := "'" + strings.ReplaceAll(path, "'", "''") + "'"
	res, err := tx.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s BY NAME SELECT * FROM read_csv_auto(%s)", table, literal))
	if err != nil {
		return 0, fmt.Errorf("load %s from %s: %w", table, path, err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count seeded rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return inserted, nil
}
