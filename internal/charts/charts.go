// Package charts turns projected data into chart-ready geometry. Every builder is a pure
// transform; payloads hold raw floats and rely on the bundle sanitizer for rounding.
package charts

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"gothesis/domain/core"
	"gothesis/internal/config"
	"gothesis/internal/stats"
	"gothesis/internal/tabular"
)

// Point is one (x, y) pair
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Builder holds the geometry constants
type Builder struct {
	cfg config.ChartsConfig
}

// NewBuilder creates a builder with the given constants
func NewBuilder(cfg config.ChartsConfig) *Builder {
	return &Builder{cfg: cfg}
}

// ============================================================================
// HISTOGRAM
// ============================================================================

// Bin is one histogram bar
type Bin struct {
	Label string  `json:"name"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Mid   float64 `json:"mean_x"`
	Count int     `json:"count"`
}

// HistogramPayload is a frequency histogram with a fitted normal curve on the same scale
type HistogramPayload struct {
	Bins  []Bin   `json:"histogram"`
	Curve []Point `json:"normal_curve"`
	Mean  float64 `json:"mean"`
	SD    float64 `json:"sd"` // maximum-likelihood (population) estimate
}

// Histogram bins values into equal-width bins over [min, max] and overlays the normal
// density scaled by n * bin width. A constant sample gets one unit-wide range around the
// value and no curve.
func (b *Builder) Histogram(values []float64) (HistogramPayload, error) {
	n := len(values)
	if n == 0 {
		return HistogramPayload{}, core.NewInsufficientDataError("histogram needs at least one value")
	}
	bins := b.cfg.HistogramBins
	lo, hi := minMax(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)

	counts := make([]int, bins)
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}

	p := HistogramPayload{Bins: make([]Bin, bins), Curve: []Point{}}
	for i := range counts {
		lower := lo + float64(i)*width
		upper := lo + float64(i+1)*width
		if i == bins-1 {
			upper = hi
		}
		p.Bins[i] = Bin{
			Label: fmt.Sprintf("%.2f-%.2f", lower, upper),
			Lower: lower,
			Upper: upper,
			Mid:   (lower + upper) / 2,
			Count: counts[i],
		}
	}

	p.Mean, p.SD = stat.PopMeanStdDev(values, nil)
	if p.SD > 0 {
		dataLo, dataHi := minMax(values)
		scale := float64(n) * width
		for _, x := range Linspace(dataLo, dataHi, b.cfg.CurvePoints) {
			p.Curve = append(p.Curve, Point{X: x, Y: stats.NormalPDF(x, p.Mean, p.SD) * scale})
		}
	}
	return p, nil
}

// ============================================================================
// BOXPLOT
// ============================================================================

// BoxGroup is the five-number summary of one group. Whiskers are the most extreme
// observations inside the Tukey fence.
type BoxGroup struct {
	Label        string    `json:"category"`
	N            int       `json:"n"`
	LowerWhisker float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	UpperWhisker float64   `json:"max"`
	LowerFence   float64   `json:"lower_fence"`
	UpperFence   float64   `json:"upper_fence"`
	Outliers     []float64 `json:"outliers"`
}

// BoxplotPayload holds one box per group
type BoxplotPayload struct {
	Groups []BoxGroup `json:"groups"`
}

// Boxplot summarises every non-empty group
func (b *Builder) Boxplot(groups []tabular.Group) BoxplotPayload {
	p := BoxplotPayload{Groups: []BoxGroup{}}
	for _, g := range groups {
		if len(g.Values) == 0 {
			continue
		}
		p.Groups = append(p.Groups, Box(g.Label, g.Values))
	}
	return p
}

// Box computes the type-7 quartiles, Tukey fences, whiskers and outliers of one sample
func Box(label string, values []float64) BoxGroup {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := stats.Quantile7(sorted, 0.25)
	q3 := stats.Quantile7(sorted, 0.75)
	iqr := q3 - q1
	box := BoxGroup{
		Label:        label,
		N:            len(sorted),
		Q1:           q1,
		Median:       stats.Quantile7(sorted, 0.5),
		Q3:           q3,
		LowerFence:   q1 - 1.5*iqr,
		UpperFence:   q3 + 1.5*iqr,
		LowerWhisker: math.NaN(),
		UpperWhisker: math.NaN(),
		Outliers:     []float64{},
	}
	for _, v := range sorted {
		if v < box.LowerFence || v > box.UpperFence {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		if math.IsNaN(box.LowerWhisker) {
			box.LowerWhisker = v
		}
		box.UpperWhisker = v
	}
	return box
}

// ============================================================================
// SCATTER + REGRESSION LINE
// ============================================================================

// ScatterPayload is the raw point cloud plus its least-squares line
type ScatterPayload struct {
	Points    []Point `json:"scatter"`
	Line      []Point `json:"line"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	Equation  string  `json:"equation"`
}

// ScatterRegression fits y = a*x + b over the observed x range
func (b *Builder) ScatterRegression(x, y []float64) (ScatterPayload, error) {
	if len(x) != len(y) || len(x) < 2 {
		return ScatterPayload{}, core.NewInsufficientDataError("scatter chart needs at least two matched pairs")
	}
	p := ScatterPayload{Points: make([]Point, len(x)), Line: []Point{}}
	for i := range x {
		p.Points[i] = Point{X: x[i], Y: y[i]}
	}

	p.Intercept, p.Slope = stat.LinearRegression(x, y, nil, false)
	p.RSquared = stat.RSquared(x, y, nil, p.Intercept, p.Slope)
	p.Equation = fmt.Sprintf("Y = %.2fX + %.2f", p.Slope, p.Intercept)

	lo, hi := minMax(x)
	for _, xv := range Linspace(lo, hi, b.cfg.LinePoints) {
		p.Line = append(p.Line, Point{X: xv, Y: p.Slope*xv + p.Intercept})
	}
	return p, nil
}

// ============================================================================
// QQ PLOT
// ============================================================================

// QQPayload pairs theoretical normal quantiles (x) with sample quantiles (y)
type QQPayload struct {
	Points []Point `json:"points"`
}

// QQ maps quantiles at probabilities evenly spaced over [0.01, 0.99] against the sorted
// sample, keeping every step-th pair with step = max(1, n / max points).
func (b *Builder) QQ(values []float64) QQPayload {
	n := len(values)
	p := QQPayload{Points: []Point{}}
	if n == 0 {
		return p
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	probs := Linspace(0.01, 0.99, n)

	step := max(1, n/b.cfg.QQMaxPoints)
	for i := 0; i < n; i += step {
		p.Points = append(p.Points, Point{X: stats.NormalQuantile(probs[i]), Y: sorted[i]})
	}
	return p
}

// ============================================================================
// BARS
// ============================================================================

// Bar is one labelled bar; Value is a count for frequency charts or a coefficient for
// item charts
type Bar struct {
	Label string  `json:"name"`
	Value float64 `json:"value"`
}

// BarPayload is an ordered list of bars
type BarPayload struct {
	Bars []Bar `json:"bars"`
}

// Frequency counts labels, sorts descending (ties by label) and keeps the top N
func (b *Builder) Frequency(labels []string) BarPayload {
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	bars := make([]Bar, 0, len(counts))
	for l, c := range counts {
		bars = append(bars, Bar{Label: l, Value: float64(c)})
	}
	sort.Slice(bars, func(i, j int) bool {
		if bars[i].Value != bars[j].Value {
			return bars[i].Value > bars[j].Value
		}
		return bars[i].Label < bars[j].Label
	})
	if len(bars) > b.cfg.FrequencyTopN {
		bars = bars[:b.cfg.FrequencyTopN]
	}
	return BarPayload{Bars: bars}
}

// Values builds bars from labels and values in the given order
func Values(labels []string, values []float64) BarPayload {
	bars := make([]Bar, len(labels))
	for i := range labels {
		bars[i] = Bar{Label: labels[i], Value: values[i]}
	}
	return BarPayload{Bars: bars}
}

// ============================================================================
// HELPERS
// ============================================================================

// Linspace returns n evenly spaced values over [lo, hi], both ends included
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func minMax(x []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range x {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
