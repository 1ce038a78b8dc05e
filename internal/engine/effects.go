package engine

import (
	"fmt"
	"math"

	"gothesis/domain/analysis"
	"gothesis/domain/core"
	"gothesis/internal/charts"
	"gothesis/internal/narrative"
)

// effect grades value on its family's conventional cut-offs
func effect(kind string, value float64) analysis.EffectSize {
	return analysis.EffectSize{Kind: kind, Value: value, Magnitude: narrative.Magnitude(kind, value)}
}

// defined rejects a result whose statistic or p-value is NaN. That happens when the
// groups carry no variance at all, and such a result has nothing to report.
func defined(test string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) {
			return core.NewInsufficientDataError(fmt.Sprintf("%s is undefined because the data have no variance", test))
		}
	}
	return nil
}

// chart wraps a payload with presentation hints
func chart(key string, kind analysis.ChartKind, title, color, xLabel, yLabel string, payload any) analysis.ChartSpec {
	return analysis.ChartSpec{
		Key:     key,
		Kind:    kind,
		Title:   title,
		Color:   color,
		XLabel:  xLabel,
		YLabel:  yLabel,
		Payload: payload,
	}
}

func boxplotChart(key, title, color, xLabel, yLabel string, payload charts.BoxplotPayload) analysis.ChartSpec {
	return chart(key, analysis.ChartBoxplot, title, color, xLabel, yLabel, payload)
}
