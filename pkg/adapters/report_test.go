package adapters

import (
	"math"
	"testing"
	"time"

	"github.com/de-tools/nutrition-atlas/pkg/models/api"
	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/de-tools/nutrition-atlas/pkg/render"
	"github.com/stretchr/testify/assert"
)

func TestMapResultDomainToApi(t *testing.T) {
	def := domain.ReportDefinition{ID: "by-gender", Section: domain.SectionObesity, Display: domain.DisplayTable}
	result := &domain.TabularResult{
		ExecutionID: "exec-1",
		Columns:     []domain.Column{{Name: "gender", DatabaseType: "VARCHAR"}, {Name: "average_obesity", DatabaseType: "DOUBLE"}},
		Rows: [][]any{
			{"female", 12.5},
			{"male", math.NaN()},
		},
		Duration: 1500 * time.Millisecond,
	}

	assert.Equal(t, api.Result{
		ExecutionID: "exec-1",
		Section:     "obesity",
		Report:      "by-gender",
		Display:     "table",
		Columns:     []api.Column{{Name: "gender", Type: "VARCHAR"}, {Name: "average_obesity", Type: "DOUBLE"}},
		Rows:        [][]any{{"female", 12.5}, {"male", nil}},
		DurationMs:  1500,
	}, MapResultDomainToApi(def, result))
}

func TestMapShapedToApi_DenseStackedSeries(t *testing.T) {
	shaped := &render.Shaped{
		Chart: domain.ChartDefinition{ID: "levels", Intent: domain.DisplayStackedBar},
		Matrix: &render.Matrix{
			Index:  []string{"2012", "2013"},
			Series: []string{"adult", "child"},
			Cells: map[string]map[string]float64{
				"2012": {"child": 10, "adult": 5},
				"2013": {"child": 8},
			},
		},
	}

	data := MapShapedToApi(shaped)
	assert.Equal(t, []string{"2012", "2013"}, data.Index)
	assert.Equal(t, []api.StackedSeries{
		{Name: "adult", Values: []float64{5, 0}},
		{Name: "child", Values: []float64{10, 8}},
	}, data.Series)
}

func TestMapShapedToApi_Donut(t *testing.T) {
	shaped := &render.Shaped{
		Chart:  domain.ChartDefinition{ID: "top", Intent: domain.DisplayDonut, Hole: 0.6},
		Slices: []render.Slice{{Label: "Tonga", Value: 40, Percent: 100, PercentLabel: "100.00%"}},
	}
	data := MapShapedToApi(shaped)
	assert.Equal(t, 0.6, data.Hole)
	assert.Equal(t, []api.Slice{{Label: "Tonga", Value: 40, Percent: "100.00%"}}, data.Slices)
}

func TestMapSectionsDomainToApi(t *testing.T) {
	sections := []domain.Section{{
		ID:    domain.SectionObesity,
		Title: "Obesity Queries",
		Reports: []domain.ReportDefinition{{
			ID:      "country-trend",
			Name:    "Obesity trend in India over the years",
			Display: domain.DisplayLine,
			Columns: []string{"country", "average_obesity", "year"},
			Params:  []domain.Param{{Name: "country", Type: domain.ParamTypeString, Default: "India"}},
		}},
	}}

	res := MapSectionsDomainToApi(sections)
	assert.Len(t, res, 1)
	assert.Equal(t, "line", res[0].Reports[0].Display)
	assert.Equal(t, []api.Param{{Name: "country", Type: "string", Default: "India"}}, res[0].Reports[0].Params)
}
