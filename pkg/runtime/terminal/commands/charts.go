package commands

import (
	"fmt"

	"github.com/de-tools/nutrition-atlas/pkg/render"
	"github.com/de-tools/nutrition-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/nutrition-atlas/pkg/store/blob"
	"github.com/spf13/cobra"
)

type ChartsCmd struct {
	session  Session
	reporter *export.Reporter
	dir      string
	s3URI    string
	format   string
}

func NewChartsCmd(session Session, reporter *export.Reporter) *cobra.Command {
	cc := &ChartsCmd{session: session, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Visualization charts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the visualization charts",
		Args:  cobra.NoArgs,
		RunE:  cc.list,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Render every chart into a local directory or an S3 prefix",
		Args:  cobra.NoArgs,
		RunE:  cc.export,
	}
	exportCmd.Flags().StringVar(&cc.dir, "dir", "", "Local directory to write the images to")
	exportCmd.Flags().StringVar(&cc.s3URI, "s3", "", "S3 destination as s3://bucket/prefix")
	exportCmd.Flags().StringVar(&cc.format, "format", string(render.FormatPNG), "Image format (png or svg)")
	exportCmd.MarkFlagsMutuallyExclusive("dir", "s3")
	exportCmd.MarkFlagsOneRequired("dir", "s3")

	cmd.AddCommand(list, exportCmd)
	return cmd
}

func (cc *ChartsCmd) list(cmd *cobra.Command, _ []string) error {
	components, err := cc.session.Components(cmd.Context())
	if err != nil {
		return err
	}
	for _, ch := range components.Service.Charts() {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-32s %-12s %s\n", ch.ID, ch.Intent, ch.Title); err != nil {
			return err
		}
	}
	return nil
}

func (cc *ChartsCmd) export(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	format, err := render.ParseFormat(cc.format)
	if err != nil {
		return err
	}

	components, err := cc.session.Components(ctx)
	if err != nil {
		return err
	}

	var sink blob.Sink
	if cc.s3URI != "" {
		sink, err = blob.NewS3Sink(ctx, cc.s3URI, components.Config.Export.S3Region)
	} else {
		sink, err = blob.NewLocalSink(cc.dir)
	}
	if err != nil {
		return fmt.Errorf("failed to create chart sink: %w", err)
	}

	locations, err := components.Service.ExportCharts(ctx, sink, format)
	if err != nil {
		return err
	}
	return cc.reporter.Locations(locations)
}
