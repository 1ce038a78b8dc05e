package narrative

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFormatP(t *testing.T) {
	assert.Equal(t, "< 0.001", FormatP(0.0004))
	assert.Equal(t, "0.001", FormatP(0.001))
	assert.Equal(t, "0.050", FormatP(0.05))
	assert.Equal(t, "n/a", FormatP(math.NaN()))
}

func TestStrength(t *testing.T) {
	cases := []struct {
		r    float64
		want string
	}{
		{0.1, "very weak"},
		{-0.2, "weak"},
		{0.45, "moderate"},
		{-0.6, "strong"},
		{0.8, "very strong"},
		{1, "very strong"},
	}
	for _, c := range cases {
		if got := Strength(c.r); got != c.want {
			t.Errorf("Strength(%v): expected %q, got %q", c.r, c.want, got)
		}
	}
}

func TestSignificanceWordingMatchesThreshold(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.Float64Range(0, 1).Draw(t, "p")
		r := rapid.Float64Range(-1, 1).Draw(t, "r")
		want := p <= 0.05

		texts := []string{
			Normality("x", p),
			Comparative("Independent Samples T-Test", p, "between groups of 'g'"),
			Correlation(r, p, "x", "y"),
			ChiSquare(p, "a", "b"),
			Regression(p, 0.5, "y"),
		}
		for _, text := range texts {
			got := strings.Contains(text, significantPhrase)
			if got != want {
				t.Fatalf("p=%v: expected significant=%v in %q", p, want, text)
			}
			if strings.Contains(text, notSignificantPhrase) == want {
				t.Fatalf("p=%v: contradictory wording in %q", p, text)
			}
			cites := "p > 0.05"
			if want {
				cites = "p ≤ 0.05"
			}
			if !strings.Contains(text, cites) {
				t.Fatalf("p=%v: threshold %q not cited in %q", p, cites, text)
			}
		}
	})
}

func TestBoundaryIsSignificant(t *testing.T) {
	assert.Contains(t, Comparative("test", 0.05, "between groups"), significantPhrase)
	assert.Contains(t, Comparative("test", 0.0500001, "between groups"), notSignificantPhrase)
}

func TestCorrelation_PerfectPositive(t *testing.T) {
	text := Correlation(1, 0, "x", "y")
	assert.Contains(t, text, "positive relationship is statistically significant and very strong")
	assert.Contains(t, text, "p < 0.001")
}

func TestReliability(t *testing.T) {
	text := Reliability(0.85, 5, nil)
	assert.Contains(t, text, "in the high category (0.8 ≤ α < 0.9)")
	assert.Contains(t, text, "is reliable")
	assert.NotContains(t, text, "removal")

	text = Reliability(0.55, 4, []string{"q3"})
	assert.Contains(t, text, "low category")
	assert.Contains(t, text, "not reliable")
	assert.Contains(t, text, "removal: q3")

	assert.Equal(t, "very high", ReliabilityLevel(0.9))
	assert.Equal(t, "acceptable", ReliabilityLevel(0.7))
}

func TestValidityAndDescriptive(t *testing.T) {
	assert.Equal(t, "Item validity: 3 item(s) valid, 1 item(s) not valid (criteria: r > 0.3 and p ≤ 0.05).", Validity(3, 1))
	assert.Contains(t, Descriptive(30, 2), "30 observations")
}

func TestEffect_CitesCutoffs(t *testing.T) {
	cases := []struct {
		kind  string
		value float64
		want  string
	}{
		{"cohen_d", -3.162, "Cohen's d = -3.162, a large effect (|d| ≥ 0.8)."},
		{"cohen_d", 0.5, "Cohen's d = 0.500, a medium effect (0.5 ≤ |d| < 0.8)."},
		{"cohen_d", 0.1, "Cohen's d = 0.100, a negligible effect (|d| < 0.2)."},
		{"partial_eta_squared", 0.03, "Partial η² = 0.030, a small effect (0.01 ≤ η² < 0.06)."},
		{"eta_squared_h", 0.2, "η²(H) = 0.200, a large effect (η²(H) ≥ 0.14)."},
		{"rank_biserial", -0.35, "Rank-biserial r = -0.350, a medium effect (0.3 ≤ |r| < 0.5)."},
		{"cramers_v", 0.05, "Cramér's V = 0.050, a negligible effect (V < 0.1)."},
		{"cohen_d", math.NaN(), "Cohen's d is undefined for these data."},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Effect(c.kind, c.value), "%s %v", c.kind, c.value)
	}
}

func TestMagnitude(t *testing.T) {
	assert.Equal(t, "large", Magnitude("cohen_d", -0.8))
	assert.Equal(t, "small", Magnitude("partial_eta_squared", 0.01))
	assert.Equal(t, "negligible", Magnitude("cramers_v", 0.09))
	assert.Equal(t, "", Magnitude("rank_biserial", math.NaN()))
	assert.Equal(t, "", Magnitude("r_squared", 0.4))
}

func TestUntestableResultsAreNotCalledInsignificant(t *testing.T) {
	nan := math.NaN()
	texts := []string{
		Normality("x", nan),
		Comparative("One-way ANOVA", nan, "in 'score' across the 3 groups of 'class'"),
		Correlation(nan, nan, "x", "y"),
		ChiSquare(nan, "a", "b"),
		Regression(nan, 0, "y"),
	}
	for _, text := range texts {
		assert.Contains(t, text, untestedPhrase)
		assert.NotContains(t, text, notSignificantPhrase)
		assert.NotContains(t, text, "p > 0.05")
		assert.NotContains(t, text, "NaN")
	}
}
