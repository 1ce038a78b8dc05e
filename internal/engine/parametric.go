package engine

import (
	"fmt"
	"math"
	"strings"

	"gothesis/domain/analysis"
	"gothesis/domain/core"
	"gothesis/internal/assumption"
	"gothesis/internal/charts"
	"gothesis/internal/narrative"
	"gothesis/internal/stats"
	"gothesis/internal/tabular"
)

const (
	variantStudent     = "Student's t-test"
	variantWelchT      = "Welch's t-test"
	variantPairedT     = "Paired t-test"
	variantANOVA       = "One-way ANOVA"
	variantWelchANOVA  = "Welch's ANOVA"
	procedureTukey     = "Tukey HSD"
	procedureGamesHow  = "Games-Howell"
	procedureBonferMWU = "Mann-Whitney U (Bonferroni)"
)

// groupSummary tabulates n, mean, sd and standard error per group
func groupSummary(first string, groups []tabular.Group) (*analysis.Table, error) {
	t := analysis.NewTable(first, "N", "Mean", "SD", "SE")
	for _, g := range groups {
		s, err := stats.Describe(g.Values)
		if err != nil {
			return nil, err
		}
		t.AddRow(g.Label, s.N, s.Mean, s.SD, s.SE)
	}
	return t, nil
}

// splitGroups partitions the dependent variable and enforces the allowed group count
func splitGroups(j job, exact int) ([]tabular.Group, error) {
	groupVar, depVar := j.req.GroupVar(), j.req.DependentVar()
	groups, err := j.proj.Split(groupVar, depVar)
	if err != nil {
		return nil, err
	}
	switch {
	case exact > 0 && len(groups) != exact:
		return nil, core.NewGroupCountError(groupVar, fmt.Sprintf("exactly %d", exact), len(groups))
	case exact == 0 && len(groups) < 2:
		return nil, core.NewGroupCountError(groupVar, "at least 2", len(groups))
	}
	return groups, nil
}

// independentTTest compares two group means. Unequal variances route to Welch's test;
// non-normal groups only add a warning.
func (e *Engine) independentTTest(j job) (*analysis.Bundle, error) {
	groups, err := splitGroups(j, 2)
	if err != nil {
		return nil, err
	}
	groupVar, depVar := j.req.GroupVar(), j.req.DependentVar()

	normal := assumption.Normality(groups)
	homogeneous := assumption.Homogeneity(groups)
	b := &analysis.Bundle{
		SampleSize:  j.proj.Rows(),
		Assumptions: []analysis.AssumptionReport{normal, homogeneous},
	}

	variant := variantStudent
	test := stats.StudentTTest
	if !homogeneous.Passed {
		variant = variantWelchT
		test = stats.WelchTTest
		b.Warnings = append(b.Warnings, "Group variances are unequal (Levene's test); Welch's t-test was used instead of Student's t-test.")
	}
	if !normal.Passed {
		b.Warnings = append(b.Warnings, fmt.Sprintf("Normality assumption violated: %s; consider the Mann-Whitney U test.", assumption.Describe(normal)))
	}
	j.log.Debug("t-test variant %s (homogeneity passed: %v)", variant, homogeneous.Passed)

	a, c := groups[0], groups[1]
	res, err := test(a.Values, c.Values)
	if err != nil {
		return nil, err
	}
	if err := defined(variant, res.T, res.PValue); err != nil {
		return nil, err
	}

	if b.Summary, err = groupSummary(groupVar, groups); err != nil {
		return nil, err
	}
	details := analysis.NewTable("Test", "t", "df", "p", "Mean Difference", "SE", "95% CI Lower", "95% CI Upper", "Cohen's d")
	details.AddRow(variant, res.T, res.DF, res.PValue, res.MeanDiff, res.SE, res.CILower, res.CIUpper, res.CohenD)
	b.Details = details

	b.Outcome = &analysis.TestOutcome{
		Variant:       variant,
		StatisticName: "t",
		Statistic:     res.T,
		DF:            ptr(res.DF),
		PValue:        res.PValue,
		EffectSize:    effect("cohen_d", res.CohenD),
	}
	b.Charts = append(b.Charts, boxplotChart("group_comparison", fmt.Sprintf("%s by %s", depVar, groupVar),
		charts.ColorTwoGroup, groupVar, depVar, e.charts.Boxplot(groups)))
	b.Narrative = narrative.Comparative(variant, res.PValue,
		fmt.Sprintf("in '%s' between %s", depVar, quoted(groupLabels(groups)))) +
		" " + narrative.Effect("cohen_d", res.CohenD)
	return b, nil
}

// pairedTTest tests the mean of first - second against zero
func (e *Engine) pairedTTest(j job) (*analysis.Bundle, error) {
	first, second := j.req.Pair()
	cols, err := numericColumns(j.proj, []string{first, second})
	if err != nil {
		return nil, err
	}
	x, y := cols[0], cols[1]

	diffs := tabular.Group{Label: "differences", Values: stats.Differences(x, y)}
	normal := assumption.Normality([]tabular.Group{diffs})
	b := &analysis.Bundle{
		SampleSize:  j.proj.Rows(),
		Assumptions: []analysis.AssumptionReport{normal},
	}
	if !normal.Passed {
		b.Warnings = append(b.Warnings, "Paired differences are not normally distributed (Shapiro-Wilk); consider the Wilcoxon signed-rank test.")
	}

	res, err := stats.PairedTTest(x, y)
	if err != nil {
		return nil, err
	}
	if err := defined(variantPairedT, res.T, res.PValue); err != nil {
		return nil, err
	}

	measurements := []tabular.Group{{Label: first, Values: x}, {Label: second, Values: y}}
	if b.Summary, err = groupSummary("Measurement", measurements); err != nil {
		return nil, err
	}
	details := analysis.NewTable("Test", "t", "df", "p", "Mean Difference", "SE", "95% CI Lower", "95% CI Upper", "Cohen's d")
	details.AddRow(variantPairedT, res.T, res.DF, res.PValue, res.MeanDiff, res.SE, res.CILower, res.CIUpper, res.CohenD)
	b.Details = details

	b.Outcome = &analysis.TestOutcome{
		Variant:       variantPairedT,
		StatisticName: "t",
		Statistic:     res.T,
		DF:            ptr(res.DF),
		PValue:        res.PValue,
		EffectSize:    effect("cohen_d", res.CohenD),
	}
	b.Charts = append(b.Charts, boxplotChart("paired_comparison", fmt.Sprintf("%s vs %s", first, second),
		charts.ColorPaired, "Measurement", "Value", e.charts.Boxplot(measurements)))
	b.Narrative = narrative.Comparative(variantPairedT, res.PValue, fmt.Sprintf("between '%s' and '%s'", first, second)) +
		fmt.Sprintf(" The mean difference is %.3f. %s", res.MeanDiff, narrative.Effect("cohen_d", res.CohenD))
	return b, nil
}

// oneWayANOVA compares k group means. Unequal variances route to Welch's ANOVA, and the
// post-hoc procedure follows the same branch: Tukey HSD or Games-Howell.
func (e *Engine) oneWayANOVA(j job) (*analysis.Bundle, error) {
	groups, err := splitGroups(j, 0)
	if err != nil {
		return nil, err
	}
	groupVar, depVar := j.req.GroupVar(), j.req.DependentVar()

	normal := assumption.Normality(groups)
	homogeneous := assumption.Homogeneity(groups)
	b := &analysis.Bundle{
		SampleSize:  j.proj.Rows(),
		Assumptions: []analysis.AssumptionReport{normal, homogeneous},
	}
	if !normal.Passed {
		b.Warnings = append(b.Warnings, fmt.Sprintf("Normality assumption violated: %s; consider the Kruskal-Wallis H test.", assumption.Describe(normal)))
	}

	values := tabular.Values(groups)
	variant, procedure := variantANOVA, procedureTukey
	test, posthoc := stats.OneWayANOVA, stats.TukeyHSD
	if !homogeneous.Passed {
		variant, procedure = variantWelchANOVA, procedureGamesHow
		test, posthoc = stats.WelchANOVA, stats.GamesHowell
		b.Warnings = append(b.Warnings, "Group variances are unequal (Levene's test); Welch's ANOVA was used.")
	}
	j.log.Debug("anova variant %s (homogeneity passed: %v)", variant, homogeneous.Passed)

	res, err := test(values)
	if err != nil {
		return nil, err
	}
	if err := defined(variant, res.F, res.PValue); err != nil {
		return nil, err
	}

	if b.Summary, err = groupSummary(groupVar, groups); err != nil {
		return nil, err
	}
	details := analysis.NewTable("Test", "F", "df1", "df2", "p", "Partial Eta Squared")
	details.AddRow(variant, res.F, res.DF1, res.DF2, res.PValue, res.EtaSquared)
	b.Details = details

	b.Outcome = &analysis.TestOutcome{
		Variant:       variant,
		StatisticName: "F",
		Statistic:     res.F,
		DF:            ptr(res.DF1),
		DF2:           ptr(res.DF2),
		PValue:        res.PValue,
		EffectSize:    effect("partial_eta_squared", res.EtaSquared),
	}

	text := narrative.Comparative(variant, res.PValue,
		fmt.Sprintf("in '%s' across the %d groups of '%s'", depVar, len(groups), groupVar)) +
		" " + narrative.Effect("partial_eta_squared", res.EtaSquared)

	if analysis.Significant(res.PValue) {
		pairs, err := posthoc(values)
		if err != nil {
			return nil, err
		}
		b.PostHoc = postHoc(procedure, groups, pairs)
		text += " " + postHocSentence(b.PostHoc)
		if n := untestedPairs(b.PostHoc); n > 0 {
			b.Warnings = append(b.Warnings, fmt.Sprintf("%s could not compute a p-value for %d pair(s); those groups have no variance.", procedure, n))
		}
		j.log.Debug("anova post-hoc %s: %d comparisons", procedure, len(pairs))
	} else {
		j.log.Debug("anova post-hoc skipped (p=%.4f)", res.PValue)
	}

	b.Charts = append(b.Charts, boxplotChart("anova_boxplot", fmt.Sprintf("%s by %s", depVar, groupVar),
		charts.ColorANOVA, groupVar, depVar, e.charts.Boxplot(groups)))
	b.Narrative = text
	return b, nil
}

// postHoc labels index-based comparisons with their group names
func postHoc(procedure string, groups []tabular.Group, pairs []stats.PairwiseComparison) *analysis.PostHocResult {
	out := &analysis.PostHocResult{Procedure: procedure, Comparisons: make([]analysis.Comparison, len(pairs))}
	for i, p := range pairs {
		out.Comparisons[i] = analysis.Comparison{
			GroupA:     groups[p.A].Label,
			GroupB:     groups[p.B].Label,
			Difference: p.Difference,
			Statistic:  p.Statistic,
			PValue:     p.PValue,
		}
	}
	return out
}

func postHocSentence(ph *analysis.PostHocResult) string {
	var sig []string
	for _, c := range ph.Comparisons {
		if analysis.Significant(c.PValue) {
			sig = append(sig, fmt.Sprintf("'%s' vs '%s'", c.GroupA, c.GroupB))
		}
	}
	var out string
	if len(sig) == 0 {
		out = fmt.Sprintf("%s finds no pair of groups that differs at p ≤ 0.05.", ph.Procedure)
	} else {
		out = fmt.Sprintf("%s finds %d pair(s) differing at p ≤ 0.05: %s.", ph.Procedure, len(sig), strings.Join(sig, ", "))
	}
	if n := untestedPairs(ph); n > 0 {
		out += fmt.Sprintf(" %d pair(s) could not be tested and are not counted.", n)
	}
	return out
}

// untestedPairs counts comparisons whose p-value is NaN
func untestedPairs(ph *analysis.PostHocResult) int {
	n := 0
	for _, c := range ph.Comparisons {
		if math.IsNaN(c.PValue) {
			n++
		}
	}
	return n
}
