package export

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/template"
	"time"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/de-tools/nutrition-atlas/pkg/render"
	"github.com/olekukonko/tablewriter"
)

// Reporter prints catalogue content and query results to a terminal
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

// Result prints a query result as a table followed by its execution metadata
func (r *Reporter) Result(title string, result *domain.TabularResult) error {
	if _, err := fmt.Fprintf(r.writer, "\n%s\n\n", title); err != nil {
		return err
	}
	if result.Len() == 0 {
		_, err := fmt.Fprintln(r.writer, "No data.")
		return err
	}
	render.WriteTable(r.writer, result)
	_, err := fmt.Fprintf(r.writer, "%d rows in %s (execution %s)\n",
		result.Len(), result.Duration.Round(time.Microsecond), result.ExecutionID)
	return err
}

func (r *Reporter) Sections(sections []domain.Section) {
	table := tablewriter.NewWriter(r.writer)
	table.SetHeader([]string{"Section", "Title", "Reports"})
	table.SetAutoFormatHeaders(false)
	for _, s := range sections {
		table.Append([]string{string(s.ID), s.Title, strconv.Itoa(len(s.Reports))})
	}
	table.Render()
}

func (r *Reporter) Reports(section domain.SectionID, names []string) error {
	if len(names) == 0 {
		_, err := fmt.Fprintf(r.writer, "Section %s has no reports\n", section)
		return err
	}
	if _, err := fmt.Fprintf(r.writer, "Reports in %s:\n", section); err != nil {
		return err
	}
	for i, name := range names {
		if _, err := fmt.Fprintf(r.writer, "%3d. %s\n", i+1, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) Summary(summary domain.Summary) error {
	tmpl := `
{{.Title}}
{{range .Sections}}
=== {{.Title}} ===
{{range .Bullets}}- {{.}}
{{end}}{{if .Note}}
{{.Note}}
{{end}}{{end}}{{if .Recommendations}}
Recommendations
{{range .Recommendations}}
=== {{.Title}} ===
{{range .Bullets}}- {{.}}
{{end}}{{end}}{{end}}`

	t, err := template.New("summary").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, summary)
}

// Quality prints rows per year for every table, flagging years that differ from the expected count
func (r *Reporter) Quality(report domain.QualityReport) error {
	for _, q := range report.Tables {
		if _, err := fmt.Fprintf(r.writer, "\n%s (consistent: %t)\n", q.Table, q.Consistent); err != nil {
			return err
		}
		table := tablewriter.NewWriter(r.writer)
		table.SetHeader([]string{"Year", "Rows", "Expected", "Consistent"})
		table.SetAutoFormatHeaders(false)
		for _, y := range q.Years {
			table.Append([]string{
				strconv.FormatInt(y.Year, 10),
				strconv.FormatInt(y.Rows, 10),
				strconv.FormatInt(y.Expected, 10),
				strconv.FormatBool(y.Consistent),
			})
		}
		table.Render()
	}
	_, err := fmt.Fprintf(r.writer, "\nPopulation consistent: %t\n", report.Consistent)
	return err
}

func (r *Reporter) Locations(locations []string) error {
	for _, l := range locations {
		if _, err := fmt.Fprintln(r.writer, l); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(r.writer, "%d charts exported\n", len(locations))
	return err
}
