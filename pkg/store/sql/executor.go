package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/de-tools/nutrition-atlas/pkg/sqltext"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const DefaultTimeout = 30 * time.Second

// Executor runs catalogue reports against one configured data source
type Executor interface {
	Execute(ctx context.Context, def domain.ReportDefinition, params map[string]string) (*domain.TabularResult, error)
}

type Settings struct {
	Driver  string
	Timeout time.Duration
}

type executor struct {
	db       *sql.DB
	settings Settings
}

func NewExecutor(db *sql.DB, settings Settings) (Executor, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
	return &executor{
		db:       db,
		settings: settings,
	}, nil
}

func (e *executor) Execute(
	ctx context.Context,
	def domain.ReportDefinition,
	params map[string]string,
) (*domain.TabularResult, error) {
	executionID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().
		Str("report", def.ID).
		Str("section", string(def.Section)).
		Str("execution_id", executionID).
		Logger()

	args, err := BindParams(def.Params, params)
	if err != nil {
		return nil, &domain.QueryError{Report: def.ID, Err: err}
	}
	query := sqltext.Rebind(def.Query, usesDollarPlaceholders(e.settings.Driver))

	ctx, cancel := context.WithTimeout(ctx, e.settings.Timeout)
	defer cancel()

	start := time.Now()
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, e.classify(ctx, nil, def, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to release connection")
		}
	}()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, e.classify(ctx, conn, def, err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close report rows")
		}
	}(rows)

	result, err := ScanResult(rows)
	if err != nil {
		return nil, e.classify(ctx, conn, def, err)
	}
	result.ExecutionID = executionID
	result.Duration = time.Since(start)

	logger.Debug().
		Int("rows", len(result.Rows)).
		Dur("duration", result.Duration).
		Msg("report executed")

	return result, nil
}

// classify maps a driver error onto the error taxonomy. A failed statement on a
// connection that no longer answers a ping is reported as a connection failure.
func (e *executor) classify(ctx context.Context, conn *sql.Conn, def domain.ReportDefinition, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &domain.QueryError{
			Report: def.ID,
			Err:    fmt.Errorf("timed out after %s: %w", e.settings.Timeout, err),
		}
	}
	if IsConnectionError(err) {
		return &domain.ConnectionError{Driver: e.settings.Driver, Err: err}
	}
	if conn == nil {
		return &domain.ConnectionError{Driver: e.settings.Driver, Err: err}
	}
	if pingErr := conn.PingContext(ctx); pingErr != nil && IsConnectionError(pingErr) {
		return &domain.ConnectionError{Driver: e.settings.Driver, Err: err}
	}
	return &domain.QueryError{Report: def.ID, Err: err}
}

func usesDollarPlaceholders(driver string) bool {
	switch driver {
	case "postgres", "pgx":
		return true
	}
	return false
}
