package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/nutrition-atlas/pkg/runtime"
	"github.com/de-tools/nutrition-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/nutrition-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/nutrition-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

// Connector builds the runtime components from a config file path
type Connector func(ctx context.Context, configPath string) (*runtime.Components, error)

// CLI represents the command-line interface
type CLI struct {
	connect    Connector
	reporter   *export.Reporter
	rootCmd    *cobra.Command
	configPath string
	components *runtime.Components
}

// Options contain configuration for the CLI
type Options struct {
	Connect Connector
	Output  io.Writer
}

// Connect loads the application config and opens the configured data source
func Connect(ctx context.Context, configPath string) (*runtime.Components, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return runtime.Build(ctx, cfg)
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Connect == nil {
		opts.Connect = Connect
	}

	cli := &CLI{
		connect:  opts.Connect,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

// Execute runs the command line and releases the data source afterwards
func (cli *CLI) Execute(ctx context.Context) error {
	err := cli.rootCmd.ExecuteContext(ctx)
	if closeErr := cli.close(); err == nil {
		err = closeErr
	}
	return err
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

// Components connects on first use; later calls share the same data source
func (cli *CLI) Components(ctx context.Context) (*runtime.Components, error) {
	if cli.components != nil {
		return cli.components, nil
	}
	components, err := cli.connect(ctx, cli.configPath)
	if err != nil {
		return nil, err
	}
	cli.components = components
	return components, nil
}

func (cli *CLI) close() error {
	if cli.components == nil {
		return nil
	}
	err := cli.components.Close()
	cli.components = nil
	return err
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "atlas",
		Short:         "Nutrition analytics reports over the obesity and malnutrition tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "",
		"Path to the configuration file (defaults and NUTRITION_* environment variables apply)")

	cmd.AddCommand(commands.NewSectionsCmd(cli, cli.reporter))
	cmd.AddCommand(commands.NewReportsCmd(cli, cli.reporter))
	cmd.AddCommand(commands.NewChartsCmd(cli, cli.reporter))
	cmd.AddCommand(commands.NewSummaryCmd(cli, cli.reporter))
	cmd.AddCommand(commands.NewQualityCmd(cli, cli.reporter))
	cmd.AddCommand(commands.NewSeedCmd(cli))

	return cmd
}
