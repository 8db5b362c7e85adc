package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG, "":
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

type Renderer interface {
	Render(w io.Writer, result *domain.TabularResult, def domain.ChartDefinition, format Format) error
}

type Settings struct {
	Width  int
	Height int
}

type renderer struct {
	settings Settings
}

func NewRenderer(settings Settings) Renderer {
	if settings.Width <= 0 {
		settings.Width = 1024
	}
	if settings.Height <= 0 {
		settings.Height = 512
	}
	return &renderer{settings: settings}
}

func (r *renderer) Render(w io.Writer, result *domain.TabularResult, def domain.ChartDefinition, format Format) error {
	shaped, err := Shape(def, result)
	if err != nil {
		return err
	}
	provider := format.provider()

	switch def.Intent {
	case domain.DisplayLine:
		err = r.line(w, provider, shaped)
	case domain.DisplayStackedBar:
		err = r.stackedBar(w, provider, shaped)
	case domain.DisplayPie:
		err = r.pie(w, provider, shaped)
	case domain.DisplayDonut:
		err = r.donut(w, provider, shaped)
	case domain.DisplayHistogram:
		err = r.histogram(w, provider, shaped)
	}
	if err != nil {
		return fmt.Errorf("render chart %s: %w", def.ID, err)
	}
	return nil
}

func (r *renderer) background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}

func (r *renderer) line(w io.Writer, provider chart.RendererProvider, shaped *Shaped) error {
	xs := make([]float64, 0, len(shaped.Points))
	ys := make([]float64, 0, len(shaped.Points))
	ticks := make([]chart.Tick, 0, len(shaped.Points))
	for _, p := range shaped.Points {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
		ticks = append(ticks, chart.Tick{Value: p.X, Label: p.Label})
	}
	// go-chart takes the x range from the ticks, so a single point is framed by
	// two unlabelled ticks around it
	if len(xs) == 1 {
		x := xs[0]
		xs = append(xs, x)
		ys = append(ys, ys[0])
		ticks = []chart.Tick{{Value: x - 0.5}, ticks[0], {Value: x + 0.5}}
	}

	lo, hi := ys[0], ys[0]
	for _, y := range ys {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	var yRange *chart.ContinuousRange
	if lo == hi {
		yRange = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	yAxis := chart.YAxis{Name: shaped.Chart.Y}
	if yRange != nil {
		yAxis.Range = yRange
	}

	ch := chart.Chart{
		Title:      shaped.Chart.Title,
		Width:      r.settings.Width,
		Height:     r.settings.Height,
		Background: r.background(),
		XAxis:      chart.XAxis{Name: shaped.Chart.X, Ticks: ticks},
		YAxis:      yAxis,
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: shaped.Chart.Y,
				Style: chart.Style{
					StrokeWidth: 2,
					StrokeColor: chart.ColorBlue,
					DotWidth:    4,
					DotColor:    chart.ColorBlue,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return ch.Render(provider, w)
}

func (r *renderer) stackedBar(w io.Writer, provider chart.RendererProvider, shaped *Shaped) error {
	m := shaped.Matrix
	bars := make([]chart.StackedBar, 0, len(m.Index))
	for _, idx := range m.Index {
		values := make([]chart.Value, 0, len(m.Series))
		for i, ser := range m.Series {
			v := m.Value(idx, ser)
			if v <= 0 {
				continue
			}
			values = append(values, chart.Value{
				Label: ser,
				Value: v,
				Style: chart.Style{FillColor: paletteColor(i), StrokeColor: paletteColor(i)},
			})
		}
		if len(values) == 0 {
			continue
		}
		bars = append(bars, chart.StackedBar{Name: idx, Values: values})
	}
	if len(bars) == 0 {
		return domain.ErrNoData
	}
	for i := range bars {
		bars[i].Width = barWidth(r.settings.Width, len(bars))
	}

	ch := chart.StackedBarChart{
		Title:      shaped.Chart.Title,
		Width:      r.settings.Width,
		Height:     r.settings.Height,
		Background: r.background(),
		BarSpacing: barSpacing(r.settings.Width, len(bars)),
		Bars:       bars,
	}
	return ch.Render(provider, w)
}

func (r *renderer) pie(w io.Writer, provider chart.RendererProvider, shaped *Shaped) error {
	ch := chart.PieChart{
		Title:      shaped.Chart.Title,
		Width:      r.settings.Height,
		Height:     r.settings.Height,
		Background: r.background(),
		Values:     sliceValues(shaped.Slices),
	}
	return ch.Render(provider, w)
}

func (r *renderer) donut(w io.Writer, provider chart.RendererProvider, shaped *Shaped) error {
	ch := chart.DonutChart{
		Title:      shaped.Chart.Title,
		Width:      r.settings.Height,
		Height:     r.settings.Height,
		Background: r.background(),
		Values:     sliceValues(shaped.Slices),
	}
	return ch.Render(provider, w)
}

func (r *renderer) histogram(w io.Writer, provider chart.RendererProvider, shaped *Shaped) error {
	bars := make([]chart.Value, 0, len(shaped.Bins))
	var most float64
	for _, b := range shaped.Bins {
		bars = append(bars, chart.Value{Label: b.Label, Value: float64(b.Count)})
		most = math.Max(most, float64(b.Count))
	}

	ch := chart.BarChart{
		Title:      shaped.Chart.Title,
		Width:      r.settings.Width,
		Height:     r.settings.Height,
		Background: r.background(),
		BarWidth:   barWidth(r.settings.Width, len(bars)),
		BarSpacing: barSpacing(r.settings.Width, len(bars)),
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: math.Ceil(most * 1.1)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.FormatFloat(f, 'f', 0, 64)
				}
				return ""
			},
		},
		Bars: bars,
	}
	return ch.Render(provider, w)
}

// sliceValues drops empty slices, which cannot be drawn
func sliceValues(slices []Slice) []chart.Value {
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", s.Label, s.PercentLabel),
			Value: s.Value,
		})
	}
	return values
}

func barWidth(width, bars int) int {
	if bars == 0 {
		return 0
	}
	return max(4, min(60, (width-100)/bars*2/3))
}

func barSpacing(width, bars int) int {
	if bars == 0 {
		return 0
	}
	return max(2, min(40, (width-100)/bars/3))
}

func paletteColor(i int) drawing.Color {
	return chart.DefaultColors[i%len(chart.DefaultColors)]
}
