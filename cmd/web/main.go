package main

import (
	"fmt"
	"os"

	"github.com/de-tools/nutrition-atlas/pkg/runtime"
	"github.com/de-tools/nutrition-atlas/pkg/server"
	"github.com/de-tools/nutrition-atlas/pkg/services/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:          "web",
		Short:        "Start the web server for Nutrition Atlas",
		SilenceUsage: true,
		RunE:         runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the configuration file (defaults and NUTRITION_* environment variables apply)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	components, err := runtime.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s data source: %w", cfg.DataSource.Driver, err)
	}
	defer components.Close()

	// snapshots are read once at start and served read-only afterwards
	if err := components.Service.Init(ctx); err != nil {
		return fmt.Errorf("failed to load observation snapshots: %w", err)
	}

	logger.Info().
		Str("driver", cfg.DataSource.Driver).
		Dur("query_timeout", cfg.Query.Timeout).
		Msg("data source connected")

	quality, err := components.Service.CheckQuality(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("data quality check failed")
	} else if !quality.Consistent {
		logger.Warn().Msg("observation counts differ from the expected population, see /api/v1/quality")
	}

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Address(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Reports: components.Service,
			Logger:  logger,
		},
	})

	return api.Start()
}
