package commands

import (
	"github.com/de-tools/nutrition-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type SummaryCmd struct {
	session  Session
	reporter *export.Reporter
}

func NewSummaryCmd(session Session, reporter *export.Reporter) *cobra.Command {
	sc := &SummaryCmd{session: session, reporter: reporter}
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the narrative summary",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}
}

func (sc *SummaryCmd) run(cmd *cobra.Command, _ []string) error {
	components, err := sc.session.Components(cmd.Context())
	if err != nil {
		return err
	}
	return sc.reporter.Summary(components.Service.Summary())
}
