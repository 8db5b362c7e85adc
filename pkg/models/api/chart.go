package api

type Chart struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source string `json:"source"`
	Intent string `json:"intent"`
}

type Point struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type StackedSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

type Slice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent string  `json:"percent"`
}

type Bin struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// ChartData carries one of points, stacked series, slices or bins
type ChartData struct {
	Chart  Chart           `json:"chart"`
	Points []Point         `json:"points,omitempty"`
	Index  []string        `json:"index,omitempty"`
	Series []StackedSeries `json:"series,omitempty"`
	Slices []Slice         `json:"slices,omitempty"`
	Hole   float64         `json:"hole,omitempty"`
	Bins   []Bin           `json:"bins,omitempty"`
}
