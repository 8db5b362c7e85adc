package adapters

import (
	"math"

	"github.com/de-tools/nutrition-atlas/pkg/models/api"
	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
)

func MapReportDomainToApi(r domain.ReportDefinition) api.Report {
	res := api.Report{
		ID:      r.ID,
		Name:    r.Name,
		Display: string(r.Display),
		Columns: append([]string(nil), r.Columns...),
	}
	for _, p := range r.Params {
		res.Params = append(res.Params, api.Param{
			Name:        p.Name,
			Type:        string(p.Type),
			Default:     p.Default,
			Description: p.Description,
		})
	}
	return res
}

func MapSectionDomainToApi(s domain.Section) api.Section {
	res := api.Section{
		ID:          string(s.ID),
		Title:       s.Title,
		Description: s.Description,
		Reports:     make([]api.Report, 0, len(s.Reports)),
	}
	for _, r := range s.Reports {
		res.Reports = append(res.Reports, MapReportDomainToApi(r))
	}
	return res
}

func MapSectionsDomainToApi(sections []domain.Section) []api.Section {
	res := make([]api.Section, 0, len(sections))
	for _, s := range sections {
		res = append(res, MapSectionDomainToApi(s))
	}
	return res
}

// MapResultDomainToApi keeps column and row order. Non-finite floats become null.
func MapResultDomainToApi(def domain.ReportDefinition, r *domain.TabularResult) api.Result {
	res := api.Result{
		ExecutionID: r.ExecutionID,
		Section:     string(def.Section),
		Report:      def.ID,
		Display:     string(def.Display),
		Columns:     make([]api.Column, 0, len(r.Columns)),
		Rows:        make([][]any, 0, len(r.Rows)),
		DurationMs:  r.Duration.Milliseconds(),
	}
	for _, c := range r.Columns {
		res.Columns = append(res.Columns, api.Column{Name: c.Name, Type: c.DatabaseType})
	}
	for _, row := range r.Rows {
		out := make([]any, len(row))
		for i, v := range row {
			if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				continue
			}
			out[i] = v
		}
		res.Rows = append(res.Rows, out)
	}
	return res
}

func MapSummaryDomainToApi(s domain.Summary) api.Summary {
	return api.Summary{
		Title:           s.Title,
		Sections:        mapSummarySections(s.Sections),
		Recommendations: mapSummarySections(s.Recommendations),
	}
}

func mapSummarySections(sections []domain.SummarySection) []api.SummarySection {
	res := make([]api.SummarySection, 0, len(sections))
	for _, s := range sections {
		res = append(res, api.SummarySection{
			Title:   s.Title,
			Bullets: append([]string(nil), s.Bullets...),
			Note:    s.Note,
		})
	}
	return res
}

func MapQualityDomainToApi(q domain.QualityReport) api.QualityReport {
	res := api.QualityReport{
		Consistent: q.Consistent,
		Tables:     make([]api.TableQuality, 0, len(q.Tables)),
	}
	for _, t := range q.Tables {
		tq := api.TableQuality{
			Table:      t.Table,
			Consistent: t.Consistent,
			Years:      make([]api.YearCount, 0, len(t.Years)),
		}
		for _, y := range t.Years {
			tq.Years = append(tq.Years, api.YearCount{
				Year:       y.Year,
				Rows:       y.Rows,
				Expected:   y.Expected,
				Consistent: y.Consistent,
			})
		}
		res.Tables = append(res.Tables, tq)
	}
	return res
}
