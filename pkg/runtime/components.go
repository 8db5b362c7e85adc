package runtime

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/nutrition-atlas/pkg/catalogue"
	"github.com/de-tools/nutrition-atlas/pkg/render"
	"github.com/de-tools/nutrition-atlas/pkg/services/config"
	"github.com/de-tools/nutrition-atlas/pkg/services/reports"
	"github.com/de-tools/nutrition-atlas/pkg/store/datasource"
	"github.com/de-tools/nutrition-atlas/pkg/store/observations"
	sqlstore "github.com/de-tools/nutrition-atlas/pkg/store/sql"
)

// Components is the wired object graph shared by the web server and the CLI
type Components struct {
	Config  *config.AppConfig
	DB      *sql.DB
	Service *reports.DefaultService
}

// DataSourceSettings maps the application config onto the data source registry
func DataSourceSettings(cfg config.DataSource) datasource.Settings {
	return datasource.Settings{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		ProfilePath:     cfg.ProfilePath,
		Profile:         cfg.Profile,
		HTTPPath:        cfg.HTTPPath,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
}

// Build opens the data source and wires the report service on top of it
func Build(ctx context.Context, cfg *config.AppConfig) (*Components, error) {
	db, err := datasource.Open(ctx, DataSourceSettings(cfg.DataSource))
	if err != nil {
		return nil, err
	}

	components, err := Wire(db, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return components, nil
}

// Wire builds the components around an already opened database
func Wire(db *sql.DB, cfg *config.AppConfig) (*Components, error) {
	cat, err := catalogue.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load report catalogue: %w", err)
	}

	executor, err := sqlstore.NewExecutor(db, sqlstore.Settings{
		Driver:  cfg.DataSource.Driver,
		Timeout: cfg.Query.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create query executor: %w", err)
	}

	observationStore, err := observations.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create observation store: %w", err)
	}

	service := reports.NewService(
		cat,
		executor,
		observationStore,
		render.NewRenderer(render.Settings{}),
		reports.Settings{ExpectedRowsPerYear: cfg.Quality.ExpectedRowsPerYear},
	)

	return &Components{
		Config:  cfg,
		DB:      db,
		Service: service,
	}, nil
}

func (c *Components) Close() error {
	return c.DB.Close()
}
