package stats

import "math"

// CronbachAlpha computes alpha for item columns (each column one item, equal lengths)
// together with the Feldt confidence interval at the given level.
func CronbachAlpha(items [][]float64, level float64) (alpha, lower, upper float64, err error) {
	k := len(items)
	if k < 2 {
		return math.NaN(), math.NaN(), math.NaN(), tooFew("Cronbach's alpha (items)", 2, k)
	}
	n := len(items[0])
	if n < 2 {
		return math.NaN(), math.NaN(), math.NaN(), tooFew("Cronbach's alpha", 2, n)
	}

	totals := make([]float64, n)
	itemVar := 0.0
	for _, item := range items {
		_, v := meanVar(item)
		itemVar += v
		for i, x := range item {
			totals[i] += x
		}
	}
	_, totalVar := meanVar(totals)
	if totalVar == 0 {
		return math.NaN(), math.NaN(), math.NaN(), nil
	}
	fk := float64(k)
	alpha = fk / (fk - 1) * (1 - itemVar/totalVar)

	df1 := float64(n - 1)
	df2 := df1 * (fk - 1)
	tail := (1 - level) / 2
	lower = 1 - (1-alpha)*FQuantile(1-tail, df1, df2)
	upper = 1 - (1-alpha)*FQuantile(tail, df1, df2)
	return alpha, lower, upper, nil
}

// RowSums adds item columns row by row
func RowSums(items [][]float64) []float64 {
	if len(items) == 0 {
		return nil
	}
	totals := make([]float64, len(items[0]))
	for _, item := range items {
		for i, x := range item {
			totals[i] += x
		}
	}
	return totals
}
