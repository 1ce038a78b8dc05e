// Package assumption checks the distributional preconditions of parametric tests.
// Reports are built once and never modified.
package assumption

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gothesis/domain/analysis"
	"gothesis/internal/stats"
	"gothesis/internal/tabular"
)

const (
	ShapiroWilk = "Shapiro-Wilk"
	Levene      = "Levene (median-centred)"

	minNormalityN = 3
	// Royston's p-value calibration ends here
	maxCalibratedN = 5000
)

// Reason strings for groups that could not be tested
const (
	ReasonTooFew   = "too few observations"
	ReasonConstant = "all values are identical"
)

// Normality runs Shapiro-Wilk on every group. Untestable groups count as failed and
// carry a reason; the report passes only when every group passes.
func Normality(groups []tabular.Group) analysis.AssumptionReport {
	report := analysis.AssumptionReport{
		Kind:    analysis.AssumptionNormality,
		Test:    ShapiroWilk,
		Results: make([]analysis.GroupResult, 0, len(groups)),
		Passed:  len(groups) > 0,
	}
	for _, g := range groups {
		res := analysis.GroupResult{
			Group:     g.Label,
			N:         len(g.Values),
			Statistic: math.NaN(),
			PValue:    math.NaN(),
		}
		switch {
		case len(g.Values) < minNormalityN:
			res.Reason = ReasonTooFew
		default:
			w, p, err := stats.ShapiroWilk(g.Values)
			switch {
			case errors.Is(err, stats.ErrConstantSample):
				res.Reason = ReasonConstant
			case err != nil:
				res.Reason = err.Error()
			default:
				res.Statistic, res.PValue = w, p
				res.Passed = p > analysis.Alpha
				if res.N > maxCalibratedN {
					res.Note = fmt.Sprintf("Shapiro-Wilk p-value for '%s' is approximate above %d observations, and at n = %d even trivial departures from normality are significant", g.Label, maxCalibratedN, res.N)
				}
			}
		}
		report.Passed = report.Passed && res.Passed
		report.Results = append(report.Results, res)
	}
	return report
}

// Homogeneity runs one median-centred Levene test across all groups. A test that cannot
// be computed is reported as failed, which routes callers to the robust variant.
func Homogeneity(groups []tabular.Group) analysis.AssumptionReport {
	res := analysis.GroupResult{
		Group:     "all groups",
		Statistic: math.NaN(),
		PValue:    math.NaN(),
	}
	for _, g := range groups {
		res.N += len(g.Values)
	}
	w, p, _, _, err := stats.Levene(tabular.Values(groups))
	if err != nil {
		res.Reason = err.Error()
	} else {
		res.Statistic, res.PValue = w, p
		res.Passed = !math.IsNaN(p) && p > analysis.Alpha
		if math.IsNaN(p) {
			res.Reason = "test statistic undefined"
		}
	}
	return analysis.AssumptionReport{
		Kind:    analysis.AssumptionHomogeneity,
		Test:    Levene,
		Results: []analysis.GroupResult{res},
		Passed:  res.Passed,
	}
}

// Describe renders one-line status of a report for warnings, e.g.
// "Shapiro-Wilk failed for 'b', 'c'"
func Describe(r analysis.AssumptionReport) string {
	var failed []string
	for _, g := range r.Results {
		if !g.Passed {
			failed = append(failed, "'"+g.Group+"'")
		}
	}
	if len(failed) == 0 {
		return fmt.Sprintf("%s passed for every group", r.Test)
	}
	return fmt.Sprintf("%s failed for %s", r.Test, strings.Join(failed, ", "))
}

// Notes collects the caveats attached to computed results across reports
func Notes(reports []analysis.AssumptionReport) []string {
	var out []string
	for _, r := range reports {
		for _, g := range r.Results {
			if g.Note != "" {
				out = append(out, g.Note+".")
			}
		}
	}
	return out
}
