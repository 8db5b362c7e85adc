package adapters

import (
	"github.com/de-tools/nutrition-atlas/pkg/models/api"
	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/de-tools/nutrition-atlas/pkg/render"
)

func MapChartDomainToApi(c domain.ChartDefinition) api.Chart {
	return api.Chart{
		ID:     c.ID,
		Title:  c.Title,
		Source: c.Source,
		Intent: string(c.Intent),
	}
}

func MapChartsDomainToApi(charts []domain.ChartDefinition) []api.Chart {
	res := make([]api.Chart, 0, len(charts))
	for _, c := range charts {
		res = append(res, MapChartDomainToApi(c))
	}
	return res
}

// MapShapedToApi flattens shaped chart data. Stacked series are dense, with
// missing cells reported as zero.
func MapShapedToApi(s *render.Shaped) api.ChartData {
	res := api.ChartData{Chart: MapChartDomainToApi(s.Chart)}

	for _, p := range s.Points {
		res.Points = append(res.Points, api.Point{Label: p.Label, X: p.X, Y: p.Y})
	}

	if s.Matrix != nil {
		res.Index = append([]string(nil), s.Matrix.Index...)
		for _, ser := range s.Matrix.Series {
			values := make([]float64, 0, len(s.Matrix.Index))
			for _, idx := range s.Matrix.Index {
				values = append(values, s.Matrix.Value(idx, ser))
			}
			res.Series = append(res.Series, api.StackedSeries{Name: ser, Values: values})
		}
	}

	for _, sl := range s.Slices {
		res.Slices = append(res.Slices, api.Slice{Label: sl.Label, Value: sl.Value, Percent: sl.PercentLabel})
	}
	if s.Chart.Intent == domain.DisplayDonut {
		res.Hole = s.Chart.Hole
	}

	for _, b := range s.Bins {
		res.Bins = append(res.Bins, api.Bin{Label: b.Label, Lower: b.Lower, Upper: b.Upper, Count: b.Count})
	}
	return res
}
