package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTestPValue computes the two-tailed p-value of a t statistic. Fractional degrees of
// freedom are allowed for the Welch family.
func TTestPValue(tStatistic, df float64) float64 {
	if df <= 0 || math.IsNaN(tStatistic) {
		return math.NaN()
	}
	if math.IsInf(tStatistic, 0) {
		return 0
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return clampP(2 * (1 - tDist.CDF(math.Abs(tStatistic))))
}

// TQuantile is the inverse CDF of Student's t
func TQuantile(p, df float64) float64 {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(p)
}

// CorrelationPValue tests r against zero through its t transform
func CorrelationPValue(r float64, n int) float64 {
	if n < 3 || math.IsNaN(r) {
		return math.NaN()
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	return TTestPValue(r*math.Sqrt(df/(1-r*r)), df)
}

// FTestPValue computes the upper-tail p-value of the F distribution (ANOVA, regression)
func FTestPValue(fStatistic, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 || math.IsNaN(fStatistic) {
		return math.NaN()
	}
	if math.IsInf(fStatistic, 1) {
		return 0
	}
	fDist := distuv.F{D1: df1, D2: df2}
	return clampP(1 - fDist.CDF(fStatistic))
}

// FQuantile is the inverse CDF of F(d1, d2), derived from the Beta(d1/2, d2/2) quantile
func FQuantile(p, df1, df2 float64) float64 {
	x := distuv.Beta{Alpha: df1 / 2, Beta: df2 / 2}.Quantile(p)
	if x >= 1 {
		return math.Inf(1)
	}
	return (df2 * x) / (df1 * (1 - x))
}

// ChiSquarePValue computes the upper-tail p-value of the chi-square distribution
func ChiSquarePValue(chiSquare, df float64) float64 {
	if df <= 0 || math.IsNaN(chiSquare) {
		return math.NaN()
	}
	chiDist := distuv.ChiSquared{K: df}
	return clampP(1 - chiDist.CDF(chiSquare))
}

// NormalCDF computes the standard normal CDF
func NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalQuantile computes the standard normal inverse CDF
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// NormalPDF evaluates the normal density with the given location and scale
func NormalPDF(x, mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma}.Prob(x)
}

// zTwoTailed converts a z score into a two-tailed p-value
func zTwoTailed(z float64) float64 {
	if math.IsNaN(z) {
		return math.NaN()
	}
	return clampP(2 * (1 - NormalCDF(math.Abs(z))))
}

// wilcoxonExactPValue is the exact two-sided p-value of the signed-rank statistic for n
// untied, non-zero differences, counting sign assignments by dynamic programming over
// the subset sums of ranks 1..n.
func wilcoxonExactPValue(wPlus float64, n int) float64 {
	wObs := int(math.Round(wPlus))
	totalRankSum := n * (n + 1) / 2
	if wObs < 0 {
		wObs = 0
	}
	if wObs > totalRankSum {
		wObs = totalRankSum
	}

	// P(W+ <= w) with w = min(W+, total-W+), doubled by symmetry
	w := wObs
	if totalRankSum-wObs < w {
		w = totalRankSum - wObs
	}

	dp := make([]uint64, totalRankSum+1)
	dp[0] = 1
	for r := 1; r <= n; r++ {
		for s := totalRankSum; s >= r; s-- {
			dp[s] += dp[s-r]
		}
	}

	var cum uint64
	for s := 0; s <= w; s++ {
		cum += dp[s]
	}
	total := math.Ldexp(1, n)
	return clampP(2 * float64(cum) / total)
}
