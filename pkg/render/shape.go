package render

import (
	"fmt"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
)

// Shaped is chart data ready to be drawn or serialized. Exactly one of the
// payload fields is set, depending on Intent.
type Shaped struct {
	Chart  domain.ChartDefinition
	Points []Point
	Matrix *Matrix
	Slices []Slice
	Bins   []Bin
}

// Shape runs the shaping function that matches the chart intent
func Shape(def domain.ChartDefinition, result *domain.TabularResult) (*Shaped, error) {
	shaped := &Shaped{Chart: def}
	var err error
	switch def.Intent {
	case domain.DisplayLine:
		shaped.Points, err = LineSeries(result, def.X, def.Y)
	case domain.DisplayStackedBar:
		shaped.Matrix, err = Pivot(result, def.Index, def.Series, def.Value, def.Aggregation)
	case domain.DisplayPie, domain.DisplayDonut:
		shaped.Slices, err = PieSlices(result, def.Label, def.Value, def.Aggregation, def.Limit, def.SortDesc)
	case domain.DisplayHistogram:
		shaped.Bins, err = HistogramBins(result, def.Field, def.Bins)
	default:
		return nil, fmt.Errorf("chart %s: intent %q cannot be shaped", def.ID, def.Intent)
	}
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", def.ID, err)
	}
	return shaped, nil
}
