package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestQuantile7(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	assert.InDelta(t, 2.75, Quantile7(sorted, 0.25), 1e-12)
	assert.InDelta(t, 4.5, Quantile7(sorted, 0.5), 1e-12)
	assert.InDelta(t, 6.25, Quantile7(sorted, 0.75), 1e-12)
	assert.Equal(t, 1.0, Quantile7(sorted, 0))
	assert.Equal(t, 8.0, Quantile7(sorted, 1))
	assert.True(t, math.IsNaN(Quantile7(nil, 0.5)))
}

func TestRanks_AveragesTies(t *testing.T) {
	ranks, ties := Ranks([]float64{10, 20, 20, 30, 20})
	assert.Equal(t, []float64{1, 3, 3, 5, 3}, ranks)
	assert.Equal(t, 24.0, ties) // one run of three: 27 - 3
}

func TestDistributions(t *testing.T) {
	assert.InDelta(t, 0.05, TTestPValue(2.228, 10), 1e-3)
	assert.InDelta(t, 0.05, FTestPValue(4.103, 2, 10), 1e-3)
	assert.InDelta(t, 0.05, ChiSquarePValue(3.841, 1), 1e-3)
	assert.InDelta(t, 1.959964, NormalQuantile(0.975), 1e-6)
	assert.InDelta(t, 4.103, FQuantile(0.95, 2, 10), 1e-3)
	assert.Equal(t, 0.0, CorrelationPValue(1, 10))
	assert.True(t, math.IsNaN(TTestPValue(1, 0)))
}

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.Equal(t, 8, s.N)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.138, s.SD, 1e-3)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, 4.5, s.Median, 1e-12)
	assert.InDelta(t, 4.0, s.Q1, 1e-12)
	assert.InDelta(t, 5.5, s.Q3, 1e-12)

	single, err := Describe([]float64{3})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(single.SD))

	_, err = Describe(nil)
	assert.Error(t, err)
}

func TestPValuesStayInUnitInterval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.SliceOfN(rapid.Float64Range(-50, 50), 3, 25).Draw(t, "a")
		b := rapid.SliceOfN(rapid.Float64Range(-50, 50), 3, 25).Draw(t, "b")

		check := func(name string, p float64) {
			if !math.IsNaN(p) && (p < 0 || p > 1) {
				t.Fatalf("%s p-value out of range: %v", name, p)
			}
		}
		if r, err := StudentTTest(a, b); err == nil {
			check("student", r.PValue)
		}
		if r, err := WelchTTest(a, b); err == nil {
			check("welch", r.PValue)
		}
		if r, err := MannWhitney(a, b); err == nil {
			check("mann-whitney", r.PValue)
		}
		if _, p, err := ShapiroWilk(a); err == nil {
			check("shapiro", p)
		}
		if _, p, _, _, err := Levene([][]float64{a, b}); err == nil {
			check("levene", p)
		}
		if r, err := OneWayANOVA([][]float64{a, b}); err == nil {
			check("anova", r.PValue)
		}
		if r, err := KruskalWallis([][]float64{a, b}); err == nil {
			check("kruskal", r.PValue)
		}
	})
}
