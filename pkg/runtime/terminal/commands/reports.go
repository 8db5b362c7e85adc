package commands

import (
	"fmt"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/de-tools/nutrition-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type ReportsCmd struct {
	session  Session
	reporter *export.Reporter
	params   map[string]string
}

func NewReportsCmd(session Session, reporter *export.Reporter) *cobra.Command {
	rc := &ReportsCmd{session: session, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List and run catalogue reports",
	}

	list := &cobra.Command{
		Use:   "list <section>",
		Short: "List the reports of a section",
		Args:  cobra.ExactArgs(1),
		RunE:  rc.list,
	}

	run := &cobra.Command{
		Use:   "run <section> <report>",
		Short: "Run a report and print its result table",
		Args:  cobra.ExactArgs(2),
		RunE:  rc.run,
	}
	run.Flags().StringToStringVarP(&rc.params, "param", "p", nil, "Report parameter as name=value, repeatable")

	cmd.AddCommand(list, run)
	return cmd
}

func (rc *ReportsCmd) list(cmd *cobra.Command, args []string) error {
	components, err := rc.session.Components(cmd.Context())
	if err != nil {
		return err
	}

	section := domain.SectionID(args[0])
	names, err := components.Service.Reports(section)
	if err != nil {
		return err
	}
	return rc.reporter.Reports(section, names)
}

func (rc *ReportsCmd) run(cmd *cobra.Command, args []string) error {
	components, err := rc.session.Components(cmd.Context())
	if err != nil {
		return err
	}

	section := domain.SectionID(args[0])
	result, err := components.Service.OnReportSelected(cmd.Context(), section, args[1], rc.params)
	if err != nil {
		return fmt.Errorf("report %s/%s: %w", section, args[1], err)
	}
	return rc.reporter.Result(args[1], result)
}
