// Package narrative renders deterministic, rule-based interpretations of test results.
// Every template decides significance with analysis.Significant and cites the threshold
// it applied.
package narrative

import (
	"fmt"
	"math"
	"strings"

	"gothesis/domain/analysis"
)

const (
	significantPhrase    = "is statistically significant"
	notSignificantPhrase = "is not statistically significant"
	untestedPhrase       = "could not be tested"
)

// FormatP renders a p-value for reports: "< 0.001" below one in a thousand, else 3 decimals
func FormatP(p float64) string {
	switch {
	case math.IsNaN(p):
		return "n/a"
	case p < 0.001:
		return "< 0.001"
	}
	return fmt.Sprintf("%.3f", p)
}

// pExpr renders "p < 0.001" or "p = 0.123"
func pExpr(p float64) string {
	f := FormatP(p)
	if strings.HasPrefix(f, "<") {
		return "p " + f
	}
	return "p = " + f
}

// threshold cites the comparison against the fixed alpha
func threshold(p float64) string {
	switch {
	case math.IsNaN(p):
		return "not testable"
	case analysis.Significant(p):
		return "p ≤ 0.05"
	}
	return "p > 0.05"
}

func verdict(p float64) string {
	switch {
	case math.IsNaN(p):
		return untestedPhrase
	case analysis.Significant(p):
		return significantPhrase
	}
	return notSignificantPhrase
}

// Normality interprets a Shapiro-Wilk result for one variable
func Normality(variable string, p float64) string {
	if math.IsNaN(p) {
		return fmt.Sprintf("The Shapiro-Wilk test for '%s' %s, so normality is unknown.", variable, untestedPhrase)
	}
	head := fmt.Sprintf("The Shapiro-Wilk test for '%s' gives %s (%s).", variable, pExpr(p), threshold(p))
	if analysis.Significant(p) {
		return head + " The departure from normality " + significantPhrase +
			", so the data are not normally distributed and a non-parametric test is recommended."
	}
	return head + " The departure from normality " + notSignificantPhrase +
		", so the data are normally distributed and the normality assumption is met."
}

// Comparative interprets a difference test between groups or measurements
func Comparative(test string, p float64, context string) string {
	return fmt.Sprintf("The %s gives %s (%s). The difference %s %s.", test, pExpr(p), threshold(p), context, verdict(p))
}

// Strength bins |r| at 0.2, 0.4, 0.6 and 0.8
func Strength(r float64) string {
	a := math.Abs(r)
	switch {
	case a >= 0.8:
		return "very strong"
	case a >= 0.6:
		return "strong"
	case a >= 0.4:
		return "moderate"
	case a >= 0.2:
		return "weak"
	}
	return "very weak"
}

func strengthBounds(r float64) string {
	a := math.Abs(r)
	switch {
	case a >= 0.8:
		return "|r| ≥ 0.8"
	case a >= 0.6:
		return "0.6 ≤ |r| < 0.8"
	case a >= 0.4:
		return "0.4 ≤ |r| < 0.6"
	case a >= 0.2:
		return "0.2 ≤ |r| < 0.4"
	}
	return "|r| < 0.2"
}

// Direction names the sign of a coefficient
func Direction(r float64) string {
	if r < 0 {
		return "negative"
	}
	return "positive"
}

// Correlation interprets a Pearson coefficient between two variables
func Correlation(r, p float64, v1, v2 string) string {
	if math.IsNaN(r) {
		return fmt.Sprintf("Pearson correlation between '%s' and '%s' is undefined because one of them is constant, so the relationship %s.", v1, v2, untestedPhrase)
	}
	head := fmt.Sprintf("Pearson correlation between '%s' and '%s' gives r = %.3f with %s (%s).", v1, v2, r, pExpr(p), threshold(p))
	if analysis.Significant(p) {
		return fmt.Sprintf("%s The %s relationship %s and %s (%s).", head, Direction(r), significantPhrase, Strength(r), strengthBounds(r))
	}
	return fmt.Sprintf("%s The relationship %s.", head, notSignificantPhrase)
}

// effectScale holds the conventional small, medium and large cut-offs of one effect
// size family (Cohen 1988)
type effectScale struct {
	label  string
	symbol string
	abs    bool
	cuts   [3]float64
}

var effectScales = map[string]effectScale{
	"cohen_d":             {label: "Cohen's d", symbol: "|d|", abs: true, cuts: [3]float64{0.2, 0.5, 0.8}},
	"partial_eta_squared": {label: "Partial η²", symbol: "η²", cuts: [3]float64{0.01, 0.06, 0.14}},
	"eta_squared_h":       {label: "η²(H)", symbol: "η²(H)", cuts: [3]float64{0.01, 0.06, 0.14}},
	"rank_biserial":       {label: "Rank-biserial r", symbol: "|r|", abs: true, cuts: [3]float64{0.1, 0.3, 0.5}},
	"cramers_v":           {label: "Cramér's V", symbol: "V", cuts: [3]float64{0.1, 0.3, 0.5}},
}

var magnitudes = [3]string{"small", "medium", "large"}

// grade returns the index of the highest cut-off v reaches, or -1 below the smallest
func (sc effectScale) grade(v float64) int {
	if sc.abs {
		v = math.Abs(v)
	}
	for i := 2; i >= 0; i-- {
		if v >= sc.cuts[i] {
			return i
		}
	}
	return -1
}

func (sc effectScale) bounds(i int) string {
	f := func(v float64) string { return fmt.Sprintf("%g", v) }
	switch i {
	case -1:
		return fmt.Sprintf("%s < %s", sc.symbol, f(sc.cuts[0]))
	case 2:
		return fmt.Sprintf("%s ≥ %s", sc.symbol, f(sc.cuts[2]))
	}
	return fmt.Sprintf("%s ≤ %s < %s", f(sc.cuts[i]), sc.symbol, f(sc.cuts[i+1]))
}

// Magnitude grades an effect size as negligible, small, medium or large. Unknown kinds
// and NaN give "".
func Magnitude(kind string, v float64) string {
	sc, ok := effectScales[kind]
	if !ok || math.IsNaN(v) {
		return ""
	}
	if i := sc.grade(v); i >= 0 {
		return magnitudes[i]
	}
	return "negligible"
}

// Effect reports an effect size with its magnitude and the cut-offs that placed it there,
// e.g. "Cohen's d = 0.912, a large effect (|d| ≥ 0.8)."
func Effect(kind string, v float64) string {
	sc, ok := effectScales[kind]
	if !ok {
		return fmt.Sprintf("%s = %.3f.", kind, v)
	}
	if math.IsNaN(v) {
		return fmt.Sprintf("%s is undefined for these data.", sc.label)
	}
	return fmt.Sprintf("%s = %.3f, a %s effect (%s).", sc.label, v, Magnitude(kind, v), sc.bounds(sc.grade(v)))
}

// ChiSquare interprets a test of association between two categorical variables
func ChiSquare(p float64, v1, v2 string) string {
	return fmt.Sprintf("The chi-square test of independence gives %s (%s). The association between '%s' and '%s' %s.",
		pExpr(p), threshold(p), v1, v2, verdict(p))
}

// Regression interprets the omnibus F test and R²
func Regression(p, rSquared float64, dependent string) string {
	return fmt.Sprintf("The regression model %s (%s, %s). R² = %.3f: the predictors explain %.1f%% of the variance in '%s'.",
		verdict(p), pExpr(p), threshold(p), rSquared, rSquared*100, dependent)
}

// ReliabilityLevel grades alpha at 0.9, 0.8 and 0.7
func ReliabilityLevel(alpha float64) string {
	switch {
	case alpha >= 0.9:
		return "very high"
	case alpha >= 0.8:
		return "high"
	case alpha >= 0.7:
		return "acceptable"
	}
	return "low"
}

func levelBounds(alpha float64) string {
	switch {
	case alpha >= 0.9:
		return "α ≥ 0.9"
	case alpha >= 0.8:
		return "0.8 ≤ α < 0.9"
	case alpha >= 0.7:
		return "0.7 ≤ α < 0.8"
	}
	return "α < 0.7"
}

// Reliable applies the 0.6 cut-off
func Reliable(alpha float64) bool {
	return alpha >= 0.6
}

// Reliability interprets Cronbach's alpha; flagged items are named in a trailing sentence
func Reliability(alpha float64, items int, flagged []string) string {
	status := "reliable"
	if !Reliable(alpha) {
		status = "not reliable"
	}
	cutoff := "α ≥ 0.6"
	if !Reliable(alpha) {
		cutoff = "α < 0.6"
	}
	out := fmt.Sprintf("Cronbach's alpha across %d items is %.3f, in the %s category (%s), so the instrument is %s (%s).",
		items, alpha, ReliabilityLevel(alpha), levelBounds(alpha), status, cutoff)
	if len(flagged) > 0 {
		out += fmt.Sprintf(" Items with corrected item-total correlation below 0.3 may need revision or removal: %s.", strings.Join(flagged, ", "))
	} else {
		out += " Every item has a corrected item-total correlation of at least 0.3."
	}
	return out
}

// Validity summarises item validity counts
func Validity(valid, invalid int) string {
	return fmt.Sprintf("Item validity: %d item(s) valid, %d item(s) not valid (criteria: r > 0.3 and p ≤ 0.05).", valid, invalid)
}

// Descriptive introduces a descriptive profile
func Descriptive(n, variables int) string {
	return fmt.Sprintf("Descriptive statistics profile %d observations across %d variable(s). See the table and charts for distribution details.", n, variables)
}

// Join concatenates per-variable statements into paragraphs
func Join(statements []string) string {
	return strings.Join(statements, "\n\n")
}
