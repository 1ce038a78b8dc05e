package stats

import "math"

// ANOVAResult is a one-way analysis of variance
type ANOVAResult struct {
	F          float64
	DF1        float64
	DF2        float64
	PValue     float64
	SSBetween  float64
	SSWithin   float64
	MSWithin   float64
	EtaSquared float64 // SSbetween / SStotal; equals partial eta squared for one factor
}

// OneWayANOVA is the classic equal-variance F test
func OneWayANOVA(groups [][]float64) (ANOVAResult, error) {
	k := len(groups)
	if k < 2 {
		return ANOVAResult{}, tooFew("ANOVA (groups)", 2, k)
	}
	n := 0
	grand := 0.0
	for _, g := range groups {
		if len(g) == 0 {
			return ANOVAResult{}, tooFew("ANOVA (per group)", 1, 0)
		}
		n += len(g)
		grand += sum(g)
	}
	if n <= k {
		return ANOVAResult{}, tooFew("ANOVA", k+1, n)
	}
	grand /= float64(n)

	var ssb, ssw float64
	for _, g := range groups {
		m := sum(g) / float64(len(g))
		ssb += float64(len(g)) * (m - grand) * (m - grand)
		for _, v := range g {
			ssw += (v - m) * (v - m)
		}
	}
	r := ANOVAResult{
		DF1:       float64(k - 1),
		DF2:       float64(n - k),
		SSBetween: ssb,
		SSWithin:  ssw,
	}
	r.MSWithin = ssw / r.DF2
	r.EtaSquared = ssb / (ssb + ssw)
	switch {
	case ssw > 0:
		r.F = (ssb / r.DF1) / r.MSWithin
	case ssb > 0:
		r.F = math.Inf(1)
	default:
		r.F = math.NaN()
	}
	r.PValue = FTestPValue(r.F, r.DF1, r.DF2)
	return r, nil
}

// WelchANOVA is the heteroscedasticity-robust one-way test (Welch 1951). EtaSquared
// keeps the unweighted SSbetween / SStotal.
func WelchANOVA(groups [][]float64) (ANOVAResult, error) {
	classic, err := OneWayANOVA(groups)
	if err != nil {
		return ANOVAResult{}, err
	}
	k := float64(len(groups))
	weights := make([]float64, len(groups))
	means := make([]float64, len(groups))
	var wsum, wmean float64
	for i, g := range groups {
		if len(g) < 2 {
			return ANOVAResult{}, tooFew("Welch's ANOVA (per group)", 2, len(g))
		}
		m, v := meanVar(g)
		if v == 0 {
			return ANOVAResult{}, tooFew("Welch's ANOVA (non-constant groups)", 2, 1)
		}
		means[i] = m
		weights[i] = float64(len(g)) / v
		wsum += weights[i]
		wmean += weights[i] * m
	}
	wmean /= wsum

	var between, lambda float64
	for i, g := range groups {
		between += weights[i] * (means[i] - wmean) * (means[i] - wmean)
		frac := 1 - weights[i]/wsum
		lambda += frac * frac / float64(len(g)-1)
	}
	numerator := between / (k - 1)
	denominator := 1 + 2*(k-2)/(k*k-1)*lambda

	r := classic
	r.F = numerator / denominator
	r.DF1 = k - 1
	r.DF2 = (k*k - 1) / (3 * lambda)
	r.PValue = FTestPValue(r.F, r.DF1, r.DF2)
	return r, nil
}
