package engine

import (
	"fmt"
	"math"

	"gothesis/domain/analysis"
	"gothesis/domain/core"
	"gothesis/internal/charts"
	"gothesis/internal/narrative"
	"gothesis/internal/stats"
)

const (
	itemTotalCutoff  = 0.3
	confidenceLevel  = 0.95
	recommendKeep    = "keep"
	recommendRemoval = "consider removal"
)

// reliabilityStatus labels alpha for the summary table. Cut-offs are inclusive, like the
// levels the narrative reports.
func reliabilityStatus(alpha float64) string {
	switch {
	case alpha >= 0.8:
		return "highly reliable"
	case narrative.Reliable(alpha):
		return "reliable"
	case alpha >= 0.4:
		return "less reliable"
	}
	return "unreliable"
}

// reliability computes Cronbach's alpha with its Feldt interval, and per item the
// corrected item-total correlation and the alpha of the scale without that item.
func (e *Engine) reliability(j job) (*analysis.Bundle, error) {
	names := j.req.Items()
	items, err := numericColumns(j.proj, names)
	if err != nil {
		return nil, err
	}

	alpha, lower, upper, err := stats.CronbachAlpha(items, confidenceLevel)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(alpha) {
		return nil, core.NewInsufficientDataError("the total score has zero variance, so Cronbach's alpha is undefined")
	}

	b := &analysis.Bundle{SampleSize: j.proj.Rows()}
	summary := analysis.NewTable("Cronbach's Alpha", "95% CI Lower", "95% CI Upper", "N of Items", "N", "Status")
	summary.AddRow(alpha, lower, upper, len(items), j.proj.Rows(), reliabilityStatus(alpha))
	b.Summary = summary

	totals := stats.RowSums(items)
	details := analysis.NewTable("Item", "Mean", "SD", "Corrected Item-Total r", "Alpha if Deleted", "Recommendation")
	correlations := make([]float64, len(items))
	var flagged []string
	for i, item := range items {
		rest := make([]float64, len(item))
		for k := range item {
			rest[k] = totals[k] - item[k]
		}
		corr, err := stats.Pearson(item, rest)
		if err != nil {
			return nil, err
		}
		correlations[i] = corr.R

		ifDeleted, err := alphaWithout(items, i)
		if err != nil {
			return nil, err
		}

		s, err := stats.Describe(item)
		if err != nil {
			return nil, err
		}
		rec := recommendKeep
		if !(corr.R >= itemTotalCutoff) {
			rec = recommendRemoval
			flagged = append(flagged, names[i])
		}
		details.AddRow(names[i], s.Mean, s.SD, corr.R, ifDeleted, rec)
	}
	b.Details = details

	b.Outcome = &analysis.TestOutcome{
		Variant:       "Cronbach's alpha",
		StatisticName: "alpha",
		Statistic:     alpha,
		PValue:        math.NaN(),
		EffectSize:    analysis.EffectSize{Kind: "alpha", Value: alpha, Magnitude: narrative.ReliabilityLevel(alpha)},
	}
	if len(flagged) > 0 {
		b.Warnings = append(b.Warnings, fmt.Sprintf("%d item(s) have a corrected item-total correlation below %.1f.", len(flagged), itemTotalCutoff))
	}
	b.Charts = append(b.Charts, chart("item_validity_plot", analysis.ChartBar, "Corrected item-total correlation",
		charts.ColorReliability, "Item", "r", charts.Values(names, correlations)))
	b.Narrative = narrative.Reliability(alpha, len(items), flagged)
	return b, nil
}

// alphaWithout recomputes alpha with item i left out; fewer than two remaining items give NaN
func alphaWithout(items [][]float64, i int) (float64, error) {
	if len(items)-1 < 2 {
		return math.NaN(), nil
	}
	rest := make([][]float64, 0, len(items)-1)
	rest = append(rest, items[:i]...)
	rest = append(rest, items[i+1:]...)
	alpha, _, _, err := stats.CronbachAlpha(rest, confidenceLevel)
	return alpha, err
}

// validity correlates every item with the total score; an item is valid when r > 0.3
// and p ≤ 0.05
func (e *Engine) validity(j job) (*analysis.Bundle, error) {
	names := j.req.Items()
	items, err := numericColumns(j.proj, names)
	if err != nil {
		return nil, err
	}
	totals := stats.RowSums(items)

	b := &analysis.Bundle{SampleSize: j.proj.Rows()}
	table := analysis.NewTable("Item", "r", "p", "Status")
	correlations := make([]float64, len(items))
	valid := 0
	for i, item := range items {
		res, err := stats.Pearson(item, totals)
		if err != nil {
			return nil, err
		}
		correlations[i] = res.R
		status := "Not valid"
		if res.R > itemTotalCutoff && analysis.Significant(res.PValue) {
			status = "Valid"
			valid++
		}
		table.AddRow(names[i], res.R, res.PValue, status)
	}
	b.Summary = table

	if invalid := len(items) - valid; invalid > 0 {
		b.Warnings = append(b.Warnings, fmt.Sprintf("%d item(s) do not meet the validity criteria.", invalid))
	}
	b.Charts = append(b.Charts, chart("validity_plot", analysis.ChartBar, "Item-total correlation",
		charts.ColorValidity, "Item", "r", charts.Values(names, correlations)))
	b.Narrative = narrative.Validity(valid, len(items)-valid)
	return b, nil
}
