package render

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
)

// maxDiscreteValues is the largest number of distinct integer values a
// histogram field may have before it is binned as continuous
const maxDiscreteValues = 50

type Point struct {
	Label string
	X     float64
	Y     float64
}

// Matrix is a pivot of index x series. Missing cells are absent and read as zero.
type Matrix struct {
	Index  []string
	Series []string
	Cells  map[string]map[string]float64
}

func (m *Matrix) Value(index, series string) float64 {
	return m.Cells[index][series]
}

type Slice struct {
	Label        string
	Value        float64
	Percent      float64
	PercentLabel string
}

type Bin struct {
	Label string
	Lower float64
	Upper float64
	Count int
}

// LineSeries groups rows by x and averages y, ordered by x ascending
func LineSeries(result *domain.TabularResult, x, y string) ([]Point, error) {
	if result.Len() == 0 {
		return nil, domain.ErrNoData
	}
	xi, err := column(result, x)
	if err != nil {
		return nil, err
	}
	yi, err := column(result, y)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, row := range result.Rows {
		v, ok := toFloat(row[yi])
		if !ok {
			continue
		}
		key := keyOf(row[xi])
		sums[key] += v
		counts[key]++
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("column %s has no numeric values: %w", y, domain.ErrNoData)
	}

	keys := sortedKeys(counts)
	numeric := allNumeric(keys)
	points := make([]Point, 0, len(keys))
	for i, key := range keys {
		p := Point{Label: key, Y: sums[key] / float64(counts[key]), X: float64(i)}
		if numeric {
			p.X, _ = strconv.ParseFloat(key, 64)
		}
		points = append(points, p)
	}
	return points, nil
}

// Pivot builds an index x series matrix. Count ignores the value column
// content and counts rows.
func Pivot(result *domain.TabularResult, index, series, value string, agg domain.Aggregation) (*Matrix, error) {
	if result.Len() == 0 {
		return nil, domain.ErrNoData
	}
	ii, err := column(result, index)
	if err != nil {
		return nil, err
	}
	si, err := column(result, series)
	if err != nil {
		return nil, err
	}
	vi := -1
	if agg != domain.AggregationCount {
		if vi, err = column(result, value); err != nil {
			return nil, err
		}
	}

	acc := newAccumulator(agg)
	for _, row := range result.Rows {
		idx, ser := keyOf(row[ii]), keyOf(row[si])
		v := 1.0
		if vi >= 0 {
			f, ok := toFloat(row[vi])
			if !ok {
				continue
			}
			v = f
		}
		acc.add(idx+"\x00"+ser, v)
	}

	m := &Matrix{Cells: make(map[string]map[string]float64)}
	indexSet := make(map[string]int)
	seriesSet := make(map[string]int)
	for key := range acc.counts {
		idx, ser := splitKey(key)
		if m.Cells[idx] == nil {
			m.Cells[idx] = make(map[string]float64)
		}
		m.Cells[idx][ser] = acc.value(key)
		indexSet[idx]++
		seriesSet[ser]++
	}
	if len(m.Cells) == 0 {
		return nil, domain.ErrNoData
	}
	m.Index = sortedKeys(indexSet)
	m.Series = sortedKeys(seriesSet)
	return m, nil
}

// PieSlices aggregates value per label. Percent labels carry two decimals and
// always add up to exactly 100.00.
func PieSlices(
	result *domain.TabularResult,
	label, value string,
	agg domain.Aggregation,
	limit int,
	sortDesc bool,
) ([]Slice, error) {
	if result.Len() == 0 {
		return nil, domain.ErrNoData
	}
	li, err := column(result, label)
	if err != nil {
		return nil, err
	}
	vi := -1
	if agg != domain.AggregationCount {
		if vi, err = column(result, value); err != nil {
			return nil, err
		}
	}

	acc := newAccumulator(agg)
	for _, row := range result.Rows {
		v := 1.0
		if vi >= 0 {
			f, ok := toFloat(row[vi])
			if !ok {
				continue
			}
			v = f
		}
		acc.add(keyOf(row[li]), v)
	}

	slices := make([]Slice, 0, len(acc.counts))
	for _, key := range sortedKeys(acc.counts) {
		v := acc.value(key)
		if v < 0 {
			return nil, fmt.Errorf("slice %q has negative value %g", key, v)
		}
		slices = append(slices, Slice{Label: key, Value: v})
	}
	if sortDesc {
		sort.SliceStable(slices, func(i, j int) bool {
			return slices[i].Value > slices[j].Value
		})
	}
	if limit > 0 && len(slices) > limit {
		slices = slices[:limit]
	}
	if len(slices) == 0 {
		return nil, domain.ErrNoData
	}

	if err := assignPercentages(slices); err != nil {
		return nil, err
	}
	return slices, nil
}

// assignPercentages distributes 10000 hundredths of a percent with the
// largest remainder method
func assignPercentages(slices []Slice) error {
	var total float64
	for _, s := range slices {
		total += s.Value
	}
	if total <= 0 {
		return fmt.Errorf("slice values add up to zero: %w", domain.ErrNoData)
	}

	const units = 10000
	type share struct {
		pos       int
		remainder float64
	}
	shares := make([]share, len(slices))
	hundredths := make([]int, len(slices))
	assigned := 0
	for i, s := range slices {
		exact := s.Value / total * units
		floor := math.Floor(exact)
		hundredths[i] = int(floor)
		assigned += int(floor)
		shares[i] = share{pos: i, remainder: exact - floor}
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].remainder > shares[j].remainder
	})
	for k := 0; assigned < units; k++ {
		hundredths[shares[k%len(shares)].pos]++
		assigned++
	}

	for i := range slices {
		slices[i].Percent = float64(hundredths[i]) / 100
		slices[i].PercentLabel = fmt.Sprintf("%d.%02d%%", hundredths[i]/100, hundredths[i]%100)
	}
	return nil
}

// HistogramBins counts field values. Text and low cardinality integer fields
// get one bin per distinct value; other numeric fields are split into bins
// equal width bins (Sturges' rule when bins is zero).
func HistogramBins(result *domain.TabularResult, field string, bins int) ([]Bin, error) {
	if result.Len() == 0 {
		return nil, domain.ErrNoData
	}
	fi, err := column(result, field)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	values := make([]float64, 0, len(result.Rows))
	numeric, integral := true, true
	for _, row := range result.Rows {
		if row[fi] == nil {
			continue
		}
		counts[keyOf(row[fi])]++
		f, ok := toFloat(row[fi])
		if !ok {
			numeric = false
			continue
		}
		if f != math.Trunc(f) {
			integral = false
		}
		values = append(values, f)
	}
	if len(counts) == 0 {
		return nil, domain.ErrNoData
	}

	if !numeric || (integral && len(counts) <= maxDiscreteValues) {
		out := make([]Bin, 0, len(counts))
		for _, key := range sortedKeys(counts) {
			b := Bin{Label: key, Count: counts[key]}
			if f, err := strconv.ParseFloat(key, 64); err == nil {
				b.Lower, b.Upper = f, f
			}
			out = append(out, b)
		}
		return out, nil
	}

	if bins <= 0 {
		bins = int(math.Ceil(math.Log2(float64(len(values))) + 1))
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Label: formatFloat(lo), Lower: lo, Upper: hi, Count: len(values)}}, nil
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		lower := lo + float64(i)*width
		upper := lower + width
		if i == bins-1 {
			upper = hi
		}
		out[i] = Bin{
			Label: fmt.Sprintf("%s-%s", formatFloat(lower), formatFloat(upper)),
			Lower: lower,
			Upper: upper,
		}
	}
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out, nil
}

type accumulator struct {
	agg    domain.Aggregation
	sums   map[string]float64
	counts map[string]int
}

func newAccumulator(agg domain.Aggregation) *accumulator {
	return &accumulator{
		agg:    agg,
		sums:   make(map[string]float64),
		counts: make(map[string]int),
	}
}

func (a *accumulator) add(key string, v float64) {
	a.sums[key] += v
	a.counts[key]++
}

func (a *accumulator) value(key string) float64 {
	switch a.agg {
	case domain.AggregationCount:
		return float64(a.counts[key])
	case domain.AggregationSum:
		return a.sums[key]
	default:
		return a.sums[key] / float64(a.counts[key])
	}
}

func column(result *domain.TabularResult, name string) (int, error) {
	i, ok := result.ColumnIndex(name)
	if !ok {
		return -1, fmt.Errorf("result has no column %q", name)
	}
	return i, nil
}

func splitKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == 0 {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

func keyOf(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return formatFloat(val)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, !math.IsNaN(val)
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// sortedKeys orders keys numerically when all of them are numbers
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	if allNumeric(keys) {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.ParseFloat(keys[i], 64)
			b, _ := strconv.ParseFloat(keys[j], 64)
			return a < b
		})
		return keys
	}
	sort.Strings(keys)
	return keys
}

func allNumeric(keys []string) bool {
	for _, k := range keys {
		if _, err := strconv.ParseFloat(k, 64); err != nil {
			return false
		}
	}
	return true
}
