package catalogue

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalogue.yaml
var embedded []byte

// Catalogue is the read-only registry of sections, reports, charts and the summary
type Catalogue interface {
	ListSections() []domain.Section
	ListReports(section domain.SectionID) ([]string, error)
	GetDefinition(section domain.SectionID, name string) (domain.ReportDefinition, error)
	Charts() []domain.ChartDefinition
	GetChart(id string) (domain.ChartDefinition, error)
	Summary() domain.Summary
}

type catalogue struct {
	sections []domain.Section
	index    map[domain.SectionID]int
	charts   []domain.ChartDefinition
	summary  domain.Summary
}

// Default returns the catalogue embedded in the binary
func Default() (Catalogue, error) {
	return Load(bytes.NewReader(embedded))
}

// Load parses and validates a catalogue document
func Load(r io.Reader) (Catalogue, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}

	c := &catalogue{
		index: make(map[domain.SectionID]int, len(doc.Sections)),
	}
	for _, s := range doc.Sections {
		section := s.toDomain()
		if _, exists := c.index[section.ID]; exists {
			return nil, fmt.Errorf("duplicate section %q", section.ID)
		}
		c.index[section.ID] = len(c.sections)
		c.sections = append(c.sections, section)
	}
	for _, ch := range doc.Charts {
		c.charts = append(c.charts, ch.toDomain())
	}
	c.summary = doc.Summary.toDomain()

	if err := Validate(c.sections, c.charts); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *catalogue) ListSections() []domain.Section {
	sections := make([]domain.Section, 0, len(c.sections))
	for _, s := range c.sections {
		cp := s
		cp.Reports = make([]domain.ReportDefinition, 0, len(s.Reports))
		for _, r := range s.Reports {
			cp.Reports = append(cp.Reports, copyDefinition(r))
		}
		sections = append(sections, cp)
	}
	return sections
}

func (c *catalogue) ListReports(section domain.SectionID) ([]string, error) {
	s, err := c.section(section)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.Reports))
	for _, r := range s.Reports {
		names = append(names, r.Name)
	}
	return names, nil
}

// GetDefinition looks a report up by its name; the report id is accepted as an alias
func (c *catalogue) GetDefinition(section domain.SectionID, name string) (domain.ReportDefinition, error) {
	s, err := c.section(section)
	if err != nil {
		return domain.ReportDefinition{}, err
	}
	for _, r := range s.Reports {
		if r.Name == name || r.ID == name {
			return copyDefinition(r), nil
		}
	}
	return domain.ReportDefinition{}, &domain.NotFoundError{Kind: "report", Section: section, Name: name}
}

func (c *catalogue) Charts() []domain.ChartDefinition {
	return append([]domain.ChartDefinition(nil), c.charts...)
}

func (c *catalogue) GetChart(id string) (domain.ChartDefinition, error) {
	for _, ch := range c.charts {
		if ch.ID == id {
			return ch, nil
		}
	}
	return domain.ChartDefinition{}, &domain.NotFoundError{Kind: "chart", Section: domain.SectionVisualization, Name: id}
}

func (c *catalogue) Summary() domain.Summary {
	return copySummary(c.summary)
}

func (c *catalogue) section(id domain.SectionID) (*domain.Section, error) {
	i, ok := c.index[domain.SectionID(strings.ToLower(string(id)))]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "section", Name: string(id)}
	}
	return &c.sections[i], nil
}

func copyDefinition(r domain.ReportDefinition) domain.ReportDefinition {
	r.Tables = append([]string(nil), r.Tables...)
	r.Params = append([]domain.Param(nil), r.Params...)
	r.Columns = append([]string(nil), r.Columns...)
	return r
}

func copySummary(s domain.Summary) domain.Summary {
	cp := func(in []domain.SummarySection) []domain.SummarySection {
		out := make([]domain.SummarySection, 0, len(in))
		for _, sec := range in {
			sec.Bullets = append([]string(nil), sec.Bullets...)
			out = append(out, sec)
		}
		return out
	}
	return domain.Summary{
		Title:           s.Title,
		Sections:        cp(s.Sections),
		Recommendations: cp(s.Recommendations),
	}
}
