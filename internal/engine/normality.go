package engine

import (
	"fmt"
	"math"

	"gothesis/domain/analysis"
	"gothesis/domain/core"
	"gothesis/domain/dataset"
	"gothesis/internal/assumption"
	"gothesis/internal/charts"
	"gothesis/internal/narrative"
	"gothesis/internal/tabular"
)

// normality runs Shapiro-Wilk on each variable over its own observed rows. The first
// variable is the primary outcome.
func (e *Engine) normality(j job) (*analysis.Bundle, error) {
	for _, name := range j.req.Variables {
		if t := j.proj.Type(name); t != dataset.TypeNumeric {
			return nil, core.NewVariableTypeError(name, "numeric", string(t))
		}
	}

	groups := make([]tabular.Group, 0, len(j.req.Variables))
	for _, name := range j.req.Variables {
		p, err := tabular.Project(j.ds, name)
		if err != nil {
			return nil, err
		}
		values, err := p.Numeric(name)
		if err != nil {
			return nil, err
		}
		groups = append(groups, tabular.Group{Label: name, Values: values})
	}

	report := assumption.Normality(groups)
	b := &analysis.Bundle{
		SampleSize:  j.proj.Rows(),
		Assumptions: []analysis.AssumptionReport{report},
	}

	table := analysis.NewTable("Variable", "N", "W", "p", "Normal")
	var statements []string
	for i, r := range report.Results {
		verdict := "No"
		switch {
		case r.Reason != "":
			verdict = "Untestable"
			b.Warnings = append(b.Warnings, fmt.Sprintf("'%s' could not be tested for normality: %s", r.Group, r.Reason))
			statements = append(statements, fmt.Sprintf("The Shapiro-Wilk test for '%s' could not be run: %s.", r.Group, r.Reason))
		case r.Passed:
			verdict = "Yes"
			statements = append(statements, narrative.Normality(r.Group, r.PValue))
		default:
			statements = append(statements, narrative.Normality(r.Group, r.PValue))
		}
		table.AddRow(r.Group, r.N, r.Statistic, r.PValue, verdict)

		values := groups[i].Values
		if len(values) == 0 {
			continue
		}
		hist, err := e.charts.Histogram(values)
		if err != nil {
			return nil, err
		}
		b.Charts = append(b.Charts,
			chart(r.Group+"_norm_dist", analysis.ChartHistogram, "Distribution of "+r.Group, charts.ColorNormality, r.Group, "Frequency", hist),
			chart(r.Group+"_qq", analysis.ChartQQ, "Normal Q-Q plot of "+r.Group, charts.ColorQQ,
				"Theoretical Quantiles", fmt.Sprintf("Sample Quantiles (%s)", r.Group), e.charts.QQ(values)),
		)
	}

	first := report.Results[0]
	b.Summary = table
	b.Outcome = &analysis.TestOutcome{
		Variant:       assumption.ShapiroWilk,
		StatisticName: "W",
		Statistic:     first.Statistic,
		PValue:        first.PValue,
		EffectSize:    analysis.EffectSize{Kind: "none", Value: math.NaN()},
	}
	b.Narrative = narrative.Join(statements)
	j.log.Debug("normality: %s", assumption.Describe(report))
	return b, nil
}
