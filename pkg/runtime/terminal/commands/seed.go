package commands

import (
	"fmt"

	"github.com/de-tools/nutrition-atlas/pkg/models/store"
	"github.com/de-tools/nutrition-atlas/pkg/store/datasource"
	"github.com/de-tools/nutrition-atlas/pkg/store/duckdb"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type SeedCmd struct {
	session      Session
	obesity      string
	malnutrition string
}

func NewSeedCmd(session Session) *cobra.Command {
	sc := &SeedCmd{session: session}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the observation tables of the embedded DuckDB database from CSV files",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.obesity, "obesity", "", "CSV file with obesity observations")
	cmd.Flags().StringVar(&sc.malnutrition, "malnutrition", "", "CSV file with malnutrition observations")
	cmd.MarkFlagsOneRequired("obesity", "malnutrition")

	return cmd
}

func (sc *SeedCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	components, err := sc.session.Components(ctx)
	if err != nil {
		return err
	}
	if driver := components.Config.DataSource.Driver; driver != datasource.DriverDuckDB {
		return fmt.Errorf("seeding is only supported for %s, configured driver is %s", datasource.DriverDuckDB, driver)
	}

	files := []struct{ table, path string }{
		{store.TableObesity, sc.obesity},
		{store.TableMalnutrition, sc.malnutrition},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		n, err := duckdb.SeedFromCSV(ctx, components.DB, f.table, f.path)
		if err != nil {
			return err
		}
		zerolog.Ctx(ctx).Info().Str("table", f.table).Str("file", f.path).Int64("rows", n).Msg("table seeded")
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows loaded from %s\n", f.table, n, f.path); err != nil {
			return err
		}
	}
	return nil
}
