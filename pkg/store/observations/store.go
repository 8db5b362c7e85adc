package observations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/de-tools/nutrition-atlas/pkg/models/store"
	sqlstore "github.com/de-tools/nutrition-atlas/pkg/store/sql"
	"github.com/rs/zerolog"
)

// Store reads full observation tables for the visualization section
type Store interface {
	Snapshot(ctx context.Context, table string) (*domain.TabularResult, error)
	RowsPerYear(ctx context.Context, table string) ([]domain.YearCount, error)
}

type observationStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &observationStore{
		db: db,
	}, nil
}

func (s *observationStore) Snapshot(ctx context.Context, table string) (*domain.TabularResult, error) {
	cols, err := store.TableColumns(table)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY country, year, gender, age_group",
		strings.Join(cols, ", "),
		table,
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr(err, "query %s snapshot", table)
	}
	defer rows.Close()

	result, err := sqlstore.ScanResult(rows)
	if err != nil {
		return nil, wrapErr(err, "read %s snapshot", table)
	}

	zerolog.Ctx(ctx).Debug().
		Str("table", table).
		Int("rows", result.Len()).
		Msg("snapshot loaded")
	return result, nil
}

func (s *observationStore) RowsPerYear(ctx context.Context, table string) ([]domain.YearCount, error) {
	if err := store.ValidateTable(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		"SELECT year, COUNT(*) AS row_count FROM %s GROUP BY year ORDER BY year",
		table,
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr(err, "count %s rows per year", table)
	}
	defer rows.Close()

	counts := make([]domain.YearCount, 0)
	for rows.Next() {
		var c domain.YearCount
		if err := rows.Scan(&c.Year, &c.Rows); err != nil {
			return nil, wrapErr(err, "scan %s year count", table)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err, "iterate %s year counts", table)
	}
	return counts, nil
}

// wrapErr adds context to a driver error; an unreachable data source becomes a
// ConnectionError
func wrapErr(err error, format string, args ...any) error {
	wrapped := fmt.Errorf(format+": %w", append(args, err)...)
	if sqlstore.IsConnectionError(err) {
		return &domain.ConnectionError{Err: wrapped}
	}
	return wrapped
}
