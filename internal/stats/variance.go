package stats

import (
	"math"
	"sort"
)

// Levene runs the median-centred Levene test (Brown-Forsythe) across groups: a one-way
// ANOVA on absolute deviations from each group's median.
func Levene(groups [][]float64) (w, p, df1, df2 float64, err error) {
	k := len(groups)
	if k < 2 {
		return math.NaN(), math.NaN(), 0, 0, tooFew("Levene's test (groups)", 2, k)
	}
	deviations := make([][]float64, k)
	total := 0
	for i, g := range groups {
		if len(g) < 2 {
			return math.NaN(), math.NaN(), 0, 0, tooFew("Levene's test (per group)", 2, len(g))
		}
		sorted := append([]float64(nil), g...)
		sort.Float64s(sorted)
		med := Quantile7(sorted, 0.5)
		dev := make([]float64, len(g))
		for j, v := range g {
			dev[j] = math.Abs(v - med)
		}
		deviations[i] = dev
		total += len(g)
	}
	res, err := OneWayANOVA(deviations)
	if err != nil {
		return math.NaN(), math.NaN(), 0, 0, err
	}
	if res.SSWithin == 0 && res.SSBetween == 0 {
		// every group has an identical deviation profile
		return 0, 1, res.DF1, res.DF2, nil
	}
	return res.F, res.PValue, float64(k - 1), float64(total - k), nil
}
