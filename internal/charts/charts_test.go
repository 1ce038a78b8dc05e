package charts

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"gothesis/internal/config"
	"gothesis/internal/stats"
	"gothesis/internal/tabular"
)

func newTestBuilder() *Builder {
	return NewBuilder(config.Default().Charts)
}

func TestHistogram_BinsAndCurve(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = stats.NormalQuantile((float64(i) + 0.5) / 30)
	}
	p, err := newTestBuilder().Histogram(values)
	require.NoError(t, err)

	require.Len(t, p.Bins, 15)
	total := 0
	for _, b := range p.Bins {
		total += b.Count
	}
	assert.Equal(t, 30, total)
	assert.Equal(t, values[0], p.Bins[0].Lower)
	assert.Equal(t, values[29], p.Bins[14].Upper)

	require.Len(t, p.Curve, 100)
	assert.Equal(t, values[0], p.Curve[0].X)
	assert.Equal(t, values[29], p.Curve[99].X)

	// density scaled to counts: peak near n * width * pdf(mean)
	width := p.Bins[0].Upper - p.Bins[0].Lower
	peak := 0.0
	for _, pt := range p.Curve {
		peak = math.Max(peak, pt.Y)
	}
	assert.InDelta(t, 30*width/(p.SD*math.Sqrt(2*math.Pi)), peak, 0.05)
}

func TestHistogram_ConstantSample(t *testing.T) {
	p, err := newTestBuilder().Histogram([]float64{4, 4, 4})
	require.NoError(t, err)
	assert.Empty(t, p.Curve)
	assert.InDelta(t, 3.5, p.Bins[0].Lower, 1e-12)
	assert.InDelta(t, 4.5, p.Bins[14].Upper, 1e-12)

	_, err = newTestBuilder().Histogram(nil)
	assert.Error(t, err)
}

func TestBox_KnownSample(t *testing.T) {
	box := Box("all", []float64{1, 2, 3, 4, 5, 6, 7, 8, 100})
	assert.Equal(t, 3.0, box.Q1)
	assert.Equal(t, 5.0, box.Median)
	assert.Equal(t, 7.0, box.Q3)
	assert.Equal(t, -3.0, box.LowerFence)
	assert.Equal(t, 13.0, box.UpperFence)
	assert.Equal(t, []float64{100}, box.Outliers)
	assert.Equal(t, 1.0, box.LowerWhisker)
	assert.Equal(t, 8.0, box.UpperWhisker)
}

func TestBox_OutlierAndWhiskerProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOfN(rapid.Float64Range(-1000, 1000), 1, 60).Draw(t, "values")
		box := Box("g", values)

		var inside []float64
		wantOutliers := 0
		for _, v := range values {
			if v < box.LowerFence || v > box.UpperFence {
				wantOutliers++
			} else {
				inside = append(inside, v)
			}
		}
		if len(box.Outliers) != wantOutliers {
			t.Fatalf("expected %d outliers, got %d", wantOutliers, len(box.Outliers))
		}
		if len(inside) == 0 {
			t.Fatalf("median must always be inside the fence")
		}
		sort.Float64s(inside)
		if box.LowerWhisker != inside[0] || box.UpperWhisker != inside[len(inside)-1] {
			t.Fatalf("whiskers %v..%v, expected %v..%v", box.LowerWhisker, box.UpperWhisker, inside[0], inside[len(inside)-1])
		}
	})
}

func TestBoxplot_SkipsEmptyGroups(t *testing.T) {
	p := newTestBuilder().Boxplot([]tabular.Group{
		{Label: "a", Values: []float64{1, 2, 3}},
		{Label: "empty"},
	})
	require.Len(t, p.Groups, 1)
	assert.Equal(t, "a", p.Groups[0].Label)
}

func TestScatterRegression(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{3, 5, 7, 9, 11}
	p, err := newTestBuilder().ScatterRegression(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p.Slope, 1e-12)
	assert.InDelta(t, 1.0, p.Intercept, 1e-12)
	assert.InDelta(t, 1.0, p.RSquared, 1e-12)
	assert.Equal(t, "Y = 2.00X + 1.00", p.Equation)
	require.Len(t, p.Line, 100)
	assert.Equal(t, 1.0, p.Line[0].X)
	assert.Equal(t, 5.0, p.Line[99].X)
	assert.Len(t, p.Points, 5)
}

func TestQQ_Downsampling(t *testing.T) {
	b := newTestBuilder()

	small := b.QQ([]float64{3, 1, 2})
	require.Len(t, small.Points, 3)
	assert.Equal(t, 1.0, small.Points[0].Y)
	assert.InDelta(t, stats.NormalQuantile(0.01), small.Points[0].X, 1e-12)
	assert.InDelta(t, 0.0, small.Points[1].X, 1e-12)

	large := make([]float64, 250)
	for i := range large {
		large[i] = float64(i)
	}
	// step = 250 / 100 = 2
	assert.Len(t, b.QQ(large).Points, 125)
}

func TestFrequency_TopNDescending(t *testing.T) {
	var labels []string
	for i := 0; i < 20; i++ {
		for j := 0; j <= i; j++ {
			labels = append(labels, fmt.Sprintf("c%02d", i))
		}
	}
	labels = append(labels, "tie-a", "tie-b")

	p := newTestBuilder().Frequency(labels)
	require.Len(t, p.Bars, 15)
	assert.Equal(t, Bar{Label: "c19", Value: 20}, p.Bars[0])
	for i := 1; i < len(p.Bars); i++ {
		assert.GreaterOrEqual(t, p.Bars[i-1].Value, p.Bars[i].Value)
	}

	ties := newTestBuilder().Frequency([]string{"b", "a", "b", "a", "c"})
	assert.Equal(t, []Bar{{"a", 2}, {"b", 2}, {"c", 1}}, ties.Bars)
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Linspace(0, 1, 5))
	assert.Equal(t, []float64{0.01}, Linspace(0.01, 0.99, 1))
	assert.Nil(t, Linspace(0, 1, 0))
}
