package engine

import (
	"fmt"
	"math"

	"gothesis/domain/analysis"
	"gothesis/internal/charts"
	"gothesis/internal/narrative"
	"gothesis/internal/stats"
	"gothesis/internal/tabular"
)

// medianSummary tabulates n and median per group
func medianSummary(first string, groups []tabular.Group) (*analysis.Table, []float64, error) {
	t := analysis.NewTable(first, "N", "Median")
	medians := make([]float64, len(groups))
	for i, g := range groups {
		s, err := stats.Describe(g.Values)
		if err != nil {
			return nil, nil, err
		}
		medians[i] = s.Median
		t.AddRow(g.Label, s.N, s.Median)
	}
	return t, medians, nil
}

// mannWhitney compares two independent groups by ranks. No assumption checks run.
func (e *Engine) mannWhitney(j job) (*analysis.Bundle, error) {
	groups, err := splitGroups(j, 2)
	if err != nil {
		return nil, err
	}
	groupVar, depVar := j.req.GroupVar(), j.req.DependentVar()

	res, err := stats.MannWhitney(groups[0].Values, groups[1].Values)
	if err != nil {
		return nil, err
	}
	if err := defined("Mann-Whitney U", res.PValue); err != nil {
		return nil, err
	}

	b := &analysis.Bundle{SampleSize: j.proj.Rows()}
	if b.Summary, _, err = medianSummary(groupVar, groups); err != nil {
		return nil, err
	}
	details := analysis.NewTable("Test", "U", "Z", "p", "Rank-Biserial r")
	details.AddRow("Mann-Whitney U", res.U, res.Z, res.PValue, res.RankBiserial)
	b.Details = details

	b.Outcome = &analysis.TestOutcome{
		Variant:       "Mann-Whitney U",
		StatisticName: "U",
		Statistic:     res.U,
		PValue:        res.PValue,
		EffectSize:    effect("rank_biserial", res.RankBiserial),
	}
	b.Charts = append(b.Charts, boxplotChart("median_comparison", fmt.Sprintf("%s by %s", depVar, groupVar),
		charts.ColorMannWhitney, groupVar, depVar, e.charts.Boxplot(groups)))
	b.Narrative = narrative.Comparative("Mann-Whitney U test", res.PValue,
		fmt.Sprintf("in the distribution of '%s' between %s", depVar, quoted(groupLabels(groups)))) +
		" " + narrative.Effect("rank_biserial", res.RankBiserial)
	return b, nil
}

// kruskalWallis compares k independent groups by ranks. A significant result is followed
// by pairwise Mann-Whitney tests with Bonferroni-adjusted p-values.
func (e *Engine) kruskalWallis(j job) (*analysis.Bundle, error) {
	groups, err := splitGroups(j, 0)
	if err != nil {
		return nil, err
	}
	groupVar, depVar := j.req.GroupVar(), j.req.DependentVar()

	res, err := stats.KruskalWallis(tabular.Values(groups))
	if err != nil {
		return nil, err
	}
	if err := defined("Kruskal-Wallis H", res.H, res.PValue); err != nil {
		return nil, err
	}

	b := &analysis.Bundle{SampleSize: j.proj.Rows()}
	summary, medians, err := medianSummary(groupVar, groups)
	if err != nil {
		return nil, err
	}
	b.Summary = summary
	details := analysis.NewTable("Test", "H", "df", "p", "Eta Squared (H)")
	details.AddRow("Kruskal-Wallis H", res.H, res.DF, res.PValue, res.EtaSquared)
	b.Details = details

	b.Outcome = &analysis.TestOutcome{
		Variant:       "Kruskal-Wallis H",
		StatisticName: "H",
		Statistic:     res.H,
		DF:            ptr(res.DF),
		PValue:        res.PValue,
		EffectSize:    effect("eta_squared_h", res.EtaSquared),
	}

	text := narrative.Comparative("Kruskal-Wallis H test", res.PValue,
		fmt.Sprintf("in '%s' across the %d groups of '%s'", depVar, len(groups), groupVar)) +
		" " + narrative.Effect("eta_squared_h", res.EtaSquared)
	if analysis.Significant(res.PValue) {
		ph, err := bonferroniMannWhitney(groups, medians)
		if err != nil {
			return nil, err
		}
		b.PostHoc = ph
		text += " " + postHocSentence(ph)
		j.log.Debug("kruskal-wallis post-hoc: %d comparisons", len(ph.Comparisons))
	} else {
		j.log.Debug("kruskal-wallis post-hoc skipped (p=%.4f)", res.PValue)
	}

	b.Charts = append(b.Charts, boxplotChart("kw_boxplot", fmt.Sprintf("%s by %s", depVar, groupVar),
		charts.ColorKruskal, groupVar, depVar, e.charts.Boxplot(groups)))
	b.Narrative = text
	return b, nil
}

// bonferroniMannWhitney runs every pairwise Mann-Whitney test and multiplies each p-value
// by the number of comparisons, capped at 1
func bonferroniMannWhitney(groups []tabular.Group, medians []float64) (*analysis.PostHocResult, error) {
	m := float64(len(groups) * (len(groups) - 1) / 2)
	ph := &analysis.PostHocResult{Procedure: procedureBonferMWU, Comparisons: []analysis.Comparison{}}
	for a := 0; a < len(groups); a++ {
		for c := a + 1; c < len(groups); c++ {
			res, err := stats.MannWhitney(groups[a].Values, groups[c].Values)
			if err != nil {
				return nil, err
			}
			p := res.PValue
			if !math.IsNaN(p) {
				p = math.Min(1, p*m)
			}
			ph.Comparisons = append(ph.Comparisons, analysis.Comparison{
				GroupA:     groups[a].Label,
				GroupB:     groups[c].Label,
				Difference: medians[a] - medians[c],
				Statistic:  res.U,
				PValue:     p,
			})
		}
	}
	return ph, nil
}

// wilcoxon runs the signed-rank test on first - second
func (e *Engine) wilcoxon(j job) (*analysis.Bundle, error) {
	first, second := j.req.Pair()
	cols, err := numericColumns(j.proj, []string{first, second})
	if err != nil {
		return nil, err
	}
	x, y := cols[0], cols[1]

	res, err := stats.Wilcoxon(x, y)
	if err != nil {
		return nil, err
	}
	if err := defined("Wilcoxon signed-rank", res.PValue); err != nil {
		return nil, err
	}

	measurements := []tabular.Group{{Label: first, Values: x}, {Label: second, Values: y}}
	b := &analysis.Bundle{SampleSize: j.proj.Rows()}
	if b.Summary, _, err = medianSummary("Measurement", measurements); err != nil {
		return nil, err
	}
	method := "normal approximation"
	if res.Exact {
		method = "exact"
	}
	details := analysis.NewTable("Test", "W", "W+", "W-", "Non-zero Pairs", "p", "Method", "Rank-Biserial r")
	details.AddRow("Wilcoxon signed-rank", res.W, res.WPlus, res.WMinus, res.N, res.PValue, method, res.RankBiserial)
	b.Details = details
	if dropped := len(x) - res.N; dropped > 0 {
		b.Warnings = append(b.Warnings, fmt.Sprintf("%d pair(s) with zero difference were excluded from the ranking.", dropped))
	}

	b.Outcome = &analysis.TestOutcome{
		Variant:       "Wilcoxon signed-rank (" + method + ")",
		StatisticName: "W",
		Statistic:     res.W,
		PValue:        res.PValue,
		EffectSize:    effect("rank_biserial", res.RankBiserial),
	}
	b.Charts = append(b.Charts, boxplotChart("paired_comparison", fmt.Sprintf("%s vs %s", first, second),
		charts.ColorPaired, "Measurement", "Value", e.charts.Boxplot(measurements)))
	b.Narrative = narrative.Comparative("Wilcoxon signed-rank test", res.PValue, fmt.Sprintf("between '%s' and '%s'", first, second)) +
		" " + narrative.Effect("rank_biserial", res.RankBiserial)
	return b, nil
}
