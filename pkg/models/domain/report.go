package domain

// SectionID identifies a dashboard section
type SectionID string

const (
	SectionObesity       SectionID = "obesity"
	SectionMalnutrition  SectionID = "malnutrition"
	SectionCombined      SectionID = "combined"
	SectionVisualization SectionID = "visualization"
	SectionSummary       SectionID = "summary"
)

// Section is a named group of reports shown as one dashboard tab
type Section struct {
	ID          SectionID
	Title       string
	Description string
	Reports     []ReportDefinition
}

type ParamType string

const (
	ParamTypeString ParamType = "string"
	ParamTypeInt    ParamType = "int"
	ParamTypeFloat  ParamType = "float"
)

// Param is a positional query parameter. Params are bound in declaration order.
type Param struct {
	Name        string
	Type        ParamType
	Default     string
	Description string
}

// DisplayIntent tells the presentation layer how a result should be drawn
type DisplayIntent string

const (
	DisplayTable      DisplayIntent = "table"
	DisplayLine       DisplayIntent = "line"
	DisplayStackedBar DisplayIntent = "stacked_bar"
	DisplayPie        DisplayIntent = "pie"
	DisplayDonut      DisplayIntent = "donut"
	DisplayHistogram  DisplayIntent = "histogram"
)

// ReportDefinition is an immutable named query template
type ReportDefinition struct {
	ID      string
	Section SectionID
	Name    string
	Query   string
	Tables  []string
	Params  []Param
	Columns []string
	Display DisplayIntent
}

type Aggregation string

const (
	AggregationMean  Aggregation = "mean"
	AggregationSum   Aggregation = "sum"
	AggregationCount Aggregation = "count"
)

// ChartDefinition describes one fixed chart of the visualization section.
// Which keys are relevant depends on Intent:
//   - line: X, Y
//   - stacked_bar: Index, Series, Value, Aggregation
//   - pie, donut: Label, Value, Aggregation, Limit, SortDesc
//   - histogram: Field, Bins
type ChartDefinition struct {
	ID          string
	Title       string
	Source      string
	Intent      DisplayIntent
	X           string
	Y           string
	Index       string
	Series      string
	Value       string
	Label       string
	Field       string
	Aggregation Aggregation
	Limit       int
	SortDesc    bool
	Bins        int
	Hole        float64
}
