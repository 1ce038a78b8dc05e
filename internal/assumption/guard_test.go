package assumption

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gothesis/domain/analysis"
	"gothesis/internal/stats"
	"gothesis/internal/tabular"
)

func normalScores(n int, shift, scale float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = shift + scale*stats.NormalQuantile((float64(i+1)-0.375)/(float64(n)+0.25))
	}
	return out
}

func TestNormality_AllGroupsPass(t *testing.T) {
	groups := []tabular.Group{
		{Label: "a", Values: normalScores(20, 0, 1)},
		{Label: "b", Values: normalScores(25, 5, 2)},
	}
	r := Normality(groups)
	assert.Equal(t, analysis.AssumptionNormality, r.Kind)
	assert.True(t, r.Passed)
	require.Len(t, r.Results, 2)
	for _, g := range r.Results {
		assert.True(t, g.Passed)
		assert.Empty(t, g.Reason)
	}
}

func TestNormality_SmallGroupFailsWithReason(t *testing.T) {
	groups := []tabular.Group{
		{Label: "a", Values: normalScores(20, 0, 1)},
		{Label: "tiny", Values: []float64{1, 2}},
	}
	r := Normality(groups)
	assert.False(t, r.Passed)
	assert.True(t, r.Results[0].Passed)
	assert.False(t, r.Results[1].Passed)
	assert.Equal(t, ReasonTooFew, r.Results[1].Reason)
	assert.True(t, math.IsNaN(r.Results[1].PValue))
}

func TestNormality_ConstantGroup(t *testing.T) {
	r := Normality([]tabular.Group{{Label: "flat", Values: []float64{3, 3, 3, 3}}})
	assert.False(t, r.Passed)
	assert.Equal(t, ReasonConstant, r.Results[0].Reason)
}

func TestNormality_Empty(t *testing.T) {
	assert.False(t, Normality(nil).Passed)
}

func TestHomogeneity(t *testing.T) {
	equal := []tabular.Group{
		{Label: "a", Values: []float64{1, 2, 3}},
		{Label: "b", Values: []float64{4, 5, 6}},
		{Label: "c", Values: []float64{7, 8, 9}},
	}
	r := Homogeneity(equal)
	assert.Equal(t, analysis.AssumptionHomogeneity, r.Kind)
	assert.True(t, r.Passed)
	require.Len(t, r.Results, 1)
	assert.Equal(t, 9, r.Results[0].N)

	unequal := []tabular.Group{
		{Label: "a", Values: []float64{1, 2, 3, 4, 5}},
		{Label: "b", Values: []float64{10, 20, 30, 40, 50}},
	}
	assert.False(t, Homogeneity(unequal).Passed)
}

func TestHomogeneity_Untestable(t *testing.T) {
	r := Homogeneity([]tabular.Group{{Label: "a", Values: []float64{1}}, {Label: "b", Values: []float64{2, 3}}})
	assert.False(t, r.Passed)
	assert.NotEmpty(t, r.Results[0].Reason)
}

func TestDescribe(t *testing.T) {
	r := Normality([]tabular.Group{
		{Label: "a", Values: normalScores(20, 0, 1)},
		{Label: "tiny", Values: []float64{1}},
		{Label: "flat", Values: []float64{2, 2, 2}},
	})
	assert.Equal(t, "Shapiro-Wilk failed for 'tiny', 'flat'", Describe(r))

	ok := Normality([]tabular.Group{{Label: "a", Values: normalScores(20, 0, 1)}})
	assert.Equal(t, "Shapiro-Wilk passed for every group", Describe(ok))
}

func TestNormality_LargeGroupIsTestedWithNote(t *testing.T) {
	r := Normality([]tabular.Group{
		{Label: "big", Values: normalScores(6000, 10, 2)},
		{Label: "small", Values: normalScores(30, 10, 2)},
	})
	require.Len(t, r.Results, 2)
	big := r.Results[0]
	assert.Empty(t, big.Reason)
	assert.False(t, math.IsNaN(big.PValue))
	assert.True(t, big.Passed)
	assert.Contains(t, big.Note, "approximate above 5000")
	assert.Empty(t, r.Results[1].Note)

	notes := Notes([]analysis.AssumptionReport{r, Homogeneity([]tabular.Group{{Label: "x", Values: []float64{1, 2, 3}}, {Label: "y", Values: []float64{2, 3, 4}}})})
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "'big'")
}
