package commands

import (
	"github.com/de-tools/nutrition-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type QualityCmd struct {
	session  Session
	reporter *export.Reporter
}

func NewQualityCmd(session Session, reporter *export.Reporter) *cobra.Command {
	qc := &QualityCmd{session: session, reporter: reporter}
	return &cobra.Command{
		Use:   "quality",
		Short: "Report observation counts per year against the expected population",
		Args:  cobra.NoArgs,
		RunE:  qc.run,
	}
}

func (qc *QualityCmd) run(cmd *cobra.Command, _ []string) error {
	components, err := qc.session.Components(cmd.Context())
	if err != nil {
		return err
	}

	report, err := components.Service.CheckQuality(cmd.Context())
	if err != nil {
		return err
	}
	return qc.reporter.Quality(report)
}
