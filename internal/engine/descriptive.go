package engine

import (
	"fmt"
	"math"

	"gothesis/domain/analysis"
	"gothesis/domain/dataset"
	"gothesis/internal/charts"
	"gothesis/internal/narrative"
	"gothesis/internal/stats"
	"gothesis/internal/tabular"
)

// descriptive profiles every variable on its own rows: numeric columns get a summary,
// a histogram and a boxplot; categorical columns a frequency table and a bar chart.
func (e *Engine) descriptive(j job) (*analysis.Bundle, error) {
	b := &analysis.Bundle{SampleSize: j.proj.Rows()}
	summary := analysis.NewTable("Variable", "Type", "N", "Mean", "SD", "SE", "Min", "Q1", "Median", "Q3", "Max", "Skewness", "Kurtosis")
	freq := analysis.NewTable("Variable", "Category", "Count", "Percent")

	for _, name := range j.req.Variables {
		p, err := tabular.Project(j.ds, name)
		if err != nil {
			return nil, err
		}
		if p.Rows() == 0 {
			b.Warnings = append(b.Warnings, fmt.Sprintf("'%s' has no observed values", name))
			continue
		}

		if p.Type(name) == dataset.TypeNumeric {
			values, err := p.Numeric(name)
			if err != nil {
				return nil, err
			}
			s, err := stats.Describe(values)
			if err != nil {
				return nil, err
			}
			summary.AddRow(name, string(dataset.TypeNumeric), s.N, s.Mean, s.SD, s.SE, s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Skewness, s.Kurtosis)

			hist, err := e.charts.Histogram(values)
			if err != nil {
				return nil, err
			}
			b.Charts = append(b.Charts,
				chart(name+"_dist", analysis.ChartHistogram, "Distribution of "+name, charts.ColorDistribution, name, "Frequency", hist),
				boxplotChart(name+"_boxplot", "Boxplot of "+name, charts.ColorBoxplot, "", name,
					charts.BoxplotPayload{Groups: []charts.BoxGroup{charts.Box("All Data", values)}}),
			)
			continue
		}

		labels, err := p.Categorical(name)
		if err != nil {
			return nil, err
		}
		levels, _ := p.Levels(name)
		counts := make(map[string]int, len(levels))
		for _, l := range labels {
			counts[l]++
		}
		nan := math.NaN()
		summary.AddRow(name, string(dataset.TypeCategorical), len(labels), nan, nan, nan, nan, nan, nan, nan, nan, nan, nan)
		for _, l := range levels {
			freq.AddRow(name, l, counts[l], 100*float64(counts[l])/float64(len(labels)))
		}
		b.Charts = append(b.Charts, chart(name+"_bar", analysis.ChartBar, "Frequency of "+name, charts.ColorFrequency, name, "Count", e.charts.Frequency(labels)))
	}

	b.Summary = summary
	if len(freq.Rows) > 0 {
		b.Details = freq
	}
	b.Narrative = narrative.Descriptive(j.proj.Rows(), len(j.req.Variables))
	return b, nil
}
