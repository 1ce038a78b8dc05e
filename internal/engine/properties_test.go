package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"gothesis/domain/analysis"
	"gothesis/domain/core"
	"gothesis/domain/dataset"
)

func drawGroups(t *rapid.T, k int) *dataset.Dataset {
	var labels []string
	var values []float64
	for g := 0; g < k; g++ {
		n := rapid.IntRange(3, 12).Draw(t, "n")
		shift := rapid.Float64Range(-20, 20).Draw(t, "shift")
		for i := 0; i < n; i++ {
			labels = append(labels, string(rune('a'+g)))
			values = append(values, shift+rapid.Float64Range(-10, 10).Draw(t, "v"))
		}
	}
	return dataset.MustNew(
		dataset.NewCategoricalColumn("group", labels),
		dataset.NewNumericColumn("score", values),
	)
}

func runRapid(t *rapid.T, ds *dataset.Dataset, kind string, vars ...string) (*analysis.Bundle, error) {
	req, err := analysis.NewRequest(kind, vars)
	require.NoError(t, err)
	return newTestEngine().Run(context.Background(), ds, req)
}

func assertUnitP(t *rapid.T, p float64) {
	if !math.IsNaN(p) {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestTwoGroupVariantFollowsHomogeneity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b, err := runRapid(t, drawGroups(t, 2), "independent-ttest", "group", "score")
		require.NoError(t, err)

		homogeneity, ok := b.Assumption(analysis.AssumptionHomogeneity)
		require.True(t, ok)
		if homogeneity.Passed {
			assert.Equal(t, variantStudent, b.Outcome.Variant)
		} else {
			assert.Equal(t, variantWelchT, b.Outcome.Variant)
		}
		assertUnitP(t, b.Outcome.PValue)
	})
}

func TestPostHocOnlyWhenSignificant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.IntRange(2, 4).Draw(t, "k")
		kind := rapid.SampledFrom([]string{"oneway-anova", "kruskal-wallis"}).Draw(t, "kind")
		b, err := runRapid(t, drawGroups(t, k), kind, "group", "score")
		if core.IsDataAdequacyError(err) {
			return
		}
		require.NoError(t, err)

		p := b.Outcome.PValue
		assertUnitP(t, p)
		if analysis.Significant(p) {
			require.NotNil(t, b.PostHoc)
			assert.Len(t, b.PostHoc.Comparisons, k*(k-1)/2)
			for _, c := range b.PostHoc.Comparisons {
				assertUnitP(t, c.PValue)
			}
		} else {
			assert.Nil(t, b.PostHoc)
		}
	})
}

// Alpha-if-deleted for item i equals alpha computed on the remaining items alone.
func TestAlphaIfDeletedRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.IntRange(3, 5).Draw(t, "k")
		n := rapid.IntRange(5, 15).Draw(t, "n")
		names := make([]string, k)
		cols := make([]dataset.Column, k)
		for j := range cols {
			names[j] = string(rune('a' + j))
			values := make([]float64, n)
			for i := range values {
				values[i] = float64(rapid.IntRange(1, 5).Draw(t, "answer"))
			}
			cols[j] = dataset.NewNumericColumn(names[j], values)
		}
		ds := dataset.MustNew(cols...)

		full, err := runRapid(t, ds, "reliability", names...)
		if err != nil {
			require.ErrorIs(t, err, core.ErrInsufficientData)
			return
		}
		for i := range names {
			want := full.Details.Float(i, "Alpha if Deleted")
			rest := append(append([]string(nil), names[:i]...), names[i+1:]...)
			sub, err := runRapid(t, ds, "reliability", rest...)
			if err != nil {
				require.ErrorIs(t, err, core.ErrInsufficientData)
				assert.True(t, math.IsNaN(want))
				continue
			}
			assert.InDelta(t, sub.Outcome.Statistic, want, 1e-12)
		}
	})
}

func TestCorrelationPValueInUnitInterval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(3, 30).Draw(t, "n")
		x := make([]float64, n)
		y := make([]float64, n)
		for i := range x {
			x[i] = rapid.Float64Range(-100, 100).Draw(t, "x")
			y[i] = rapid.Float64Range(-100, 100).Draw(t, "y")
		}
		ds := dataset.MustNew(dataset.NewNumericColumn("x", x), dataset.NewNumericColumn("y", y))
		b, err := runRapid(t, ds, "correlation-analysis", "x", "y")
		require.NoError(t, err)
		assertUnitP(t, b.Outcome.PValue)
		if !math.IsNaN(b.Outcome.Statistic) {
			assert.LessOrEqual(t, math.Abs(b.Outcome.Statistic), 1.0)
		}
	})
}
