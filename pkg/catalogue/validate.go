package catalogue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/de-tools/nutrition-atlas/pkg/models/store"
	"github.com/de-tools/nutrition-atlas/pkg/sqltext"
)

// Validate checks catalogue content against the observation schema
func Validate(sections []domain.Section, charts []domain.ChartDefinition) error {
	schema := store.Schema()
	var errs []error

	for _, s := range sections {
		ids := make(map[string]bool)
		names := make(map[string]bool)
		for _, r := range s.Reports {
			if r.ID == "" || r.Name == "" {
				errs = append(errs, fmt.Errorf("section %s: report without id or name", s.ID))
				continue
			}
			if ids[r.ID] || names[r.Name] {
				errs = append(errs, fmt.Errorf("section %s: duplicate report %q", s.ID, r.ID))
			}
			ids[r.ID], names[r.Name] = true, true
			if err := validateReport(r, schema); err != nil {
				errs = append(errs, fmt.Errorf("section %s, report %s: %w", s.ID, r.ID, err))
			}
		}
	}

	chartIDs := make(map[string]bool)
	for _, ch := range charts {
		if chartIDs[ch.ID] {
			errs = append(errs, fmt.Errorf("duplicate chart %q", ch.ID))
		}
		chartIDs[ch.ID] = true
		if err := validateChart(ch, schema); err != nil {
			errs = append(errs, fmt.Errorf("chart %s: %w", ch.ID, err))
		}
	}

	return errors.Join(errs...)
}

func validateReport(r domain.ReportDefinition, schema map[string][]string) error {
	if r.Query == "" {
		return errors.New("empty query")
	}
	if len(r.Columns) == 0 {
		return errors.New("no declared columns")
	}
	if len(r.Tables) == 0 {
		return errors.New("no declared tables")
	}
	for _, t := range r.Tables {
		if _, ok := schema[t]; !ok {
			return fmt.Errorf("unknown table %q", t)
		}
	}
	if !validDisplay(r.Display) {
		return fmt.Errorf("unsupported display %q", r.Display)
	}

	seen := make(map[string]bool)
	for _, p := range r.Params {
		if p.Name == "" || seen[p.Name] {
			return fmt.Errorf("invalid or duplicate param %q", p.Name)
		}
		seen[p.Name] = true
		switch p.Type {
		case domain.ParamTypeInt, domain.ParamTypeFloat, domain.ParamTypeString:
		default:
			return fmt.Errorf("param %s has unsupported type %q", p.Name, p.Type)
		}
		if p.Default == "" {
			continue
		}
		if _, err := ParseParam(p, p.Default); err != nil {
			return fmt.Errorf("param %s default: %w", p.Name, err)
		}
	}
	if n := sqltext.Placeholders(r.Query); n != len(r.Params) {
		return fmt.Errorf("query has %d placeholders, %d params declared", n, len(r.Params))
	}

	known := make(map[string]bool)
	for _, t := range r.Tables {
		for _, c := range schema[t] {
			known[strings.ToLower(c)] = true
		}
	}
	names := sqltext.BareNames(r.Query)
	for _, d := range names.Defined {
		known[strings.ToLower(d)] = true
	}
	for _, ref := range names.Refs {
		if !known[strings.ToLower(ref)] {
			return fmt.Errorf("column %s is not in %s", ref, strings.Join(r.Tables, ", "))
		}
	}

	aliases := sqltext.TableAliases(r.Query, r.Tables)
	for _, ref := range sqltext.QualifiedRefs(r.Query) {
		table, ok := aliases[ref.Qualifier]
		if !ok {
			continue
		}
		if !hasColumn(schema[table], ref.Column) {
			return fmt.Errorf("column %s.%s is not in table %s", ref.Qualifier, ref.Column, table)
		}
	}
	return nil
}

func validateChart(ch domain.ChartDefinition, schema map[string][]string) error {
	cols, ok := schema[ch.Source]
	if !ok {
		return fmt.Errorf("unknown source table %q", ch.Source)
	}

	var required []string
	switch ch.Intent {
	case domain.DisplayLine:
		required = []string{ch.X, ch.Y}
	case domain.DisplayStackedBar:
		required = []string{ch.Index, ch.Series}
		if ch.Aggregation != domain.AggregationCount {
			required = append(required, ch.Value)
		}
	case domain.DisplayPie, domain.DisplayDonut:
		required = []string{ch.Label, ch.Value}
	case domain.DisplayHistogram:
		required = []string{ch.Field}
	default:
		return fmt.Errorf("unsupported chart intent %q", ch.Intent)
	}

	switch ch.Aggregation {
	case domain.AggregationMean, domain.AggregationSum, domain.AggregationCount:
	default:
		return fmt.Errorf("unsupported aggregation %q", ch.Aggregation)
	}

	for _, c := range required {
		if c == "" {
			return fmt.Errorf("%s chart is missing a key column", ch.Intent)
		}
		if !hasColumn(cols, c) {
			return fmt.Errorf("column %q is not in table %s", c, ch.Source)
		}
	}
	return nil
}

// ParseParam converts a raw string into the Go value bound for a param
func ParseParam(p domain.Param, raw string) (any, error) {
	switch p.Type {
	case domain.ParamTypeInt:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer: %w", p.Name, err)
		}
		return v, nil
	case domain.ParamTypeFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number: %w", p.Name, err)
		}
		return v, nil
	case domain.ParamTypeString:
		return raw, nil
	default:
		return nil, fmt.Errorf("%s has unsupported type %q", p.Name, p.Type)
	}
}

func validDisplay(d domain.DisplayIntent) bool {
	switch d {
	case domain.DisplayTable, domain.DisplayLine, domain.DisplayStackedBar,
		domain.DisplayPie, domain.DisplayDonut, domain.DisplayHistogram:
		return true
	}
	return false
}

func hasColumn(cols []string, name string) bool {
	for _, c := range cols {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
