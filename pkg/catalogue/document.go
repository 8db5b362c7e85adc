package catalogue

import (
	"strings"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
)

// document mirrors catalogue.yaml

type document struct {
	Sections []sectionDoc `yaml:"sections"`
	Charts   []chartDoc   `yaml:"charts"`
	Summary  summaryDoc   `yaml:"summary"`
}

type sectionDoc struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Reports     []reportDoc `yaml:"reports"`
}

type reportDoc struct {
	ID      string     `yaml:"id"`
	Name    string     `yaml:"name"`
	Tables  []string   `yaml:"tables"`
	Params  []paramDoc `yaml:"params"`
	Columns []string   `yaml:"columns"`
	Display string     `yaml:"display"`
	Query   string     `yaml:"query"`
}

type paramDoc struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Default     string `yaml:"default"`
	Description string `yaml:"description"`
}

type chartDoc struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Source      string  `yaml:"source"`
	Intent      string  `yaml:"intent"`
	X           string  `yaml:"x"`
	Y           string  `yaml:"y"`
	Index       string  `yaml:"index"`
	Series      string  `yaml:"series"`
	Value       string  `yaml:"value"`
	Label       string  `yaml:"label"`
	Field       string  `yaml:"field"`
	Aggregation string  `yaml:"aggregation"`
	Limit       int     `yaml:"limit"`
	SortDesc    bool    `yaml:"sort_desc"`
	Bins        int     `yaml:"bins"`
	Hole        float64 `yaml:"hole"`
}

type summaryDoc struct {
	Title           string              `yaml:"title"`
	Sections        []summarySectionDoc `yaml:"sections"`
	Recommendations []summarySectionDoc `yaml:"recommendations"`
}

type summarySectionDoc struct {
	Title   string   `yaml:"title"`
	Bullets []string `yaml:"bullets"`
	Note    string   `yaml:"note"`
}

func (s sectionDoc) toDomain() domain.Section {
	id := domain.SectionID(strings.ToLower(s.ID))
	section := domain.Section{
		ID:          id,
		Title:       s.Title,
		Description: s.Description,
		Reports:     make([]domain.ReportDefinition, 0, len(s.Reports)),
	}
	for _, r := range s.Reports {
		display := domain.DisplayIntent(r.Display)
		if display == "" {
			display = domain.DisplayTable
		}
		def := domain.ReportDefinition{
			ID:      r.ID,
			Section: id,
			Name:    r.Name,
			Query:   strings.TrimSpace(r.Query),
			Tables:  r.Tables,
			Columns: r.Columns,
			Display: display,
		}
		for _, p := range r.Params {
			pt := domain.ParamType(p.Type)
			if pt == "" {
				pt = domain.ParamTypeString
			}
			def.Params = append(def.Params, domain.Param{
				Name:        p.Name,
				Type:        pt,
				Default:     p.Default,
				Description: p.Description,
			})
		}
		section.Reports = append(section.Reports, def)
	}
	return section
}

func (c chartDoc) toDomain() domain.ChartDefinition {
	agg := domain.Aggregation(c.Aggregation)
	if agg == "" {
		agg = domain.AggregationMean
	}
	return domain.ChartDefinition{
		ID:          c.ID,
		Title:       c.Title,
		Source:      c.Source,
		Intent:      domain.DisplayIntent(c.Intent),
		X:           c.X,
		Y:           c.Y,
		Index:       c.Index,
		Series:      c.Series,
		Value:       c.Value,
		Label:       c.Label,
		Field:       c.Field,
		Aggregation: agg,
		Limit:       c.Limit,
		SortDesc:    c.SortDesc,
		Bins:        c.Bins,
		Hole:        c.Hole,
	}
}

func (s summaryDoc) toDomain() domain.Summary {
	conv := func(in []summarySectionDoc) []domain.SummarySection {
		out := make([]domain.SummarySection, 0, len(in))
		for _, sec := range in {
			out = append(out, domain.SummarySection{Title: sec.Title, Bullets: sec.Bullets, Note: sec.Note})
		}
		return out
	}
	return domain.Summary{
		Title:           s.Title,
		Sections:        conv(s.Sections),
		Recommendations: conv(s.Recommendations),
	}
}
