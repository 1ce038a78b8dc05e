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

// correlation computes Pearson r for every pair of variables over the complete rows.
// The first pair is the primary outcome and gets the scatter chart.
func (e *Engine) correlation(j job) (*analysis.Bundle, error) {
	names := j.req.Variables
	cols, err := numericColumns(j.proj, names)
	if err != nil {
		return nil, err
	}

	b := &analysis.Bundle{SampleSize: j.proj.Rows()}
	table := analysis.NewTable("Variable 1", "Variable 2", "N", "r", "p", "95% CI Lower", "95% CI Upper", "Strength")
	var statements []string
	for a := 0; a < len(names); a++ {
		for c := a + 1; c < len(names); c++ {
			res, err := stats.Pearson(cols[a], cols[c])
			if err != nil {
				return nil, err
			}
			strength := narrative.Strength(res.R)
			if math.IsNaN(res.R) {
				strength = ""
				b.Warnings = append(b.Warnings, fmt.Sprintf("Correlation between '%s' and '%s' is undefined because one of them is constant.", names[a], names[c]))
			}
			table.AddRow(names[a], names[c], res.N, res.R, res.PValue, res.CILower, res.CIUpper, strength)
			statements = append(statements, narrative.Correlation(res.R, res.PValue, names[a], names[c]))

			if b.Outcome == nil {
				b.Outcome = &analysis.TestOutcome{
					Variant:       "Pearson correlation",
					StatisticName: "r",
					Statistic:     res.R,
					DF:            ptr(float64(res.N - 2)),
					PValue:        res.PValue,
					EffectSize:    analysis.EffectSize{Kind: "r", Value: res.R, Magnitude: strength},
				}
			}
		}
	}
	b.Summary = table

	scatter, err := e.charts.ScatterRegression(cols[0], cols[1])
	if err != nil {
		return nil, err
	}
	b.Charts = append(b.Charts, chart("scatter_corr", analysis.ChartScatterRegression,
		fmt.Sprintf("%s vs %s", names[1], names[0]), charts.ColorCorrelation, names[0], names[1], scatter))
	b.Narrative = narrative.Join(statements)
	return b, nil
}

// linearRegression fits the last variable on all the others with an intercept
func (e *Engine) linearRegression(j job) (*analysis.Bundle, error) {
	predictors, depVar := j.req.Predictors(), j.req.DependentVar()
	xs, err := numericColumns(j.proj, predictors)
	if err != nil {
		return nil, err
	}
	y, err := j.proj.Numeric(depVar)
	if err != nil {
		return nil, err
	}

	res, err := stats.OLS(xs, y)
	if err != nil {
		return nil, err
	}

	residuals := assumption.Normality([]tabular.Group{{Label: "residuals", Values: res.Residuals}})
	b := &analysis.Bundle{
		SampleSize:  res.N,
		Assumptions: []analysis.AssumptionReport{residuals},
	}
	if !residuals.Passed {
		b.Warnings = append(b.Warnings, "Residuals are not normally distributed (Shapiro-Wilk); coefficient p-values may be unreliable.")
	}

	model := analysis.NewTable("R", "R Square", "Adjusted R Square", "Std. Error of the Estimate", "F", "df1", "df2", "p")
	model.AddRow(res.R, res.RSquared, res.AdjRSquared, res.StdError, res.F, res.DF1, res.DF2, res.PValue)
	b.Summary = model

	coefficients := analysis.NewTable("Term", "B", "SE", "t", "p")
	terms := append([]string{"(Intercept)"}, predictors...)
	var statements []string
	for i, c := range res.Coefficients {
		coefficients.AddRow(terms[i], c.B, c.SE, c.T, c.PValue)
		if i == 0 {
			continue
		}
		role := "is a statistically significant predictor"
		if !analysis.Significant(c.PValue) {
			role = "is not a statistically significant predictor"
		}
		statements = append(statements, fmt.Sprintf("'%s' %s of '%s' (B = %.3f, p %s).", terms[i], role, depVar, c.B, pText(c.PValue)))
	}
	b.Details = coefficients

	b.Outcome = &analysis.TestOutcome{
		Variant:       "Ordinary least squares",
		StatisticName: "F",
		Statistic:     res.F,
		DF:            ptr(res.DF1),
		DF2:           ptr(res.DF2),
		PValue:        res.PValue,
		EffectSize:    effect("r_squared", res.RSquared),
	}

	if len(xs) == 1 {
		scatter, err := e.charts.ScatterRegression(xs[0], y)
		if err != nil {
			return nil, err
		}
		b.Charts = append(b.Charts, chart("regression_fit", analysis.ChartScatterRegression,
			fmt.Sprintf("%s on %s", depVar, predictors[0]), charts.ColorRegression, predictors[0], depVar, scatter))
	}

	b.Narrative = narrative.Regression(res.PValue, res.RSquared, depVar)
	if len(statements) > 0 {
		b.Narrative += " " + strings.Join(statements, " ")
	}
	return b, nil
}

// chiSquare cross-tabulates two categorical variables and tests their independence
func (e *Engine) chiSquare(j job) (*analysis.Bundle, error) {
	rowVar, colVar := j.req.Pair()
	rows, err := j.proj.Categorical(rowVar)
	if err != nil {
		return nil, err
	}
	cols, err := j.proj.Categorical(colVar)
	if err != nil {
		return nil, err
	}
	rowLevels, _ := j.proj.Levels(rowVar)
	colLevels, _ := j.proj.Levels(colVar)
	if len(rowLevels) < 2 {
		return nil, core.NewGroupCountError(rowVar, "at least 2", len(rowLevels))
	}
	if len(colLevels) < 2 {
		return nil, core.NewGroupCountError(colVar, "at least 2", len(colLevels))
	}

	observed := crossTab(rows, cols, rowLevels, colLevels)
	res, err := stats.ChiSquareIndependence(observed)
	if err != nil {
		return nil, err
	}
	if err := defined("Pearson chi-square", res.ChiSquare, res.PValue); err != nil {
		return nil, err
	}

	b := &analysis.Bundle{SampleSize: j.proj.Rows()}
	header := append([]string{rowVar + " \\ " + colVar}, colLevels...)
	crosstab := analysis.NewTable(append(header, "Total")...)
	colTotals := make([]float64, len(colLevels))
	for i, level := range rowLevels {
		row := []any{level}
		total := 0.0
		for c, v := range observed[i] {
			row = append(row, int(v))
			total += v
			colTotals[c] += v
		}
		crosstab.AddRow(append(row, int(total))...)
	}
	totalRow := []any{"Total"}
	for _, v := range colTotals {
		totalRow = append(totalRow, int(v))
	}
	crosstab.AddRow(append(totalRow, j.proj.Rows())...)
	b.Summary = crosstab

	details := analysis.NewTable("Test", "Chi-Square", "df", "p", "Cramer's V", "Yates Correction", "Min Expected Count")
	details.AddRow("Pearson chi-square", res.ChiSquare, res.DF, res.PValue, res.CramersV, res.YatesApplied, res.MinExpected)
	b.Details = details

	if low := cellsBelow(res.Expected, 5); low > 0 {
		b.Warnings = append(b.Warnings, fmt.Sprintf("%d cell(s) have an expected count below 5; the chi-square approximation may be unreliable.", low))
	}

	b.Outcome = &analysis.TestOutcome{
		Variant:       "Pearson chi-square",
		StatisticName: "chi2",
		Statistic:     res.ChiSquare,
		DF:            ptr(res.DF),
		PValue:        res.PValue,
		EffectSize:    effect("cramers_v", res.CramersV),
	}
	if res.YatesApplied {
		b.Outcome.Variant += " (Yates continuity correction)"
	}
	b.Charts = append(b.Charts, chart("bar_count", analysis.ChartBar, "Frequency of "+rowVar,
		charts.ColorChiSquare, rowVar, "Count", e.charts.Frequency(rows)))
	b.Narrative = narrative.ChiSquare(res.PValue, rowVar, colVar) +
		" " + narrative.Effect("cramers_v", res.CramersV)
	return b, nil
}

func crossTab(rows, cols, rowLevels, colLevels []string) [][]float64 {
	ri := indexOf(rowLevels)
	ci := indexOf(colLevels)
	out := make([][]float64, len(rowLevels))
	for i := range out {
		out[i] = make([]float64, len(colLevels))
	}
	for k := range rows {
		out[ri[rows[k]]][ci[cols[k]]]++
	}
	return out
}

func indexOf(levels []string) map[string]int {
	m := make(map[string]int, len(levels))
	for i, l := range levels {
		m[l] = i
	}
	return m
}

func cellsBelow(expected [][]float64, limit float64) int {
	n := 0
	for _, row := range expected {
		for _, v := range row {
			if v < limit {
				n++
			}
		}
	}
	return n
}

// pText renders "< 0.001" or "= 0.123" for inline use after "p"
func pText(p float64) string {
	f := narrative.FormatP(p)
	if f[0] == '<' {
		return f
	}
	return "= " + f
}
