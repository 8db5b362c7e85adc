package commands

import (
	"github.com/de-tools/nutrition-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type SectionsCmd struct {
	session  Session
	reporter *export.Reporter
}

func NewSectionsCmd(session Session, reporter *export.Reporter) *cobra.Command {
	sc := &SectionsCmd{session: session, reporter: reporter}
	return &cobra.Command{
		Use:   "sections",
		Short: "List dashboard sections",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}
}

func (sc *SectionsCmd) run(cmd *cobra.Command, _ []string) error {
	components, err := sc.session.Components(cmd.Context())
	if err != nil {
		return err
	}
	sc.reporter.Sections(components.Service.Sections())
	return nil
}
