package stats

import (
	"math"

	"gothesis/domain/core"
)

// TTestResult is the outcome of a two-sample or paired t-test
type TTestResult struct {
	T        float64
	DF       float64
	PValue   float64
	MeanDiff float64
	SE       float64
	CohenD   float64
	CILower  float64 // 95% interval of the mean difference
	CIUpper  float64
}

// StudentTTest is the pooled-variance two-sample t-test
func StudentTTest(a, b []float64) (TTestResult, error) {
	na, nb := len(a), len(b)
	if na < 2 || nb < 2 {
		return TTestResult{}, tooFew("the t-test (per group)", 2, min(na, nb))
	}
	ma, va := meanVar(a)
	mb, vb := meanVar(b)
	df := float64(na + nb - 2)
	pooled := (float64(na-1)*va + float64(nb-1)*vb) / df
	se := math.Sqrt(pooled * (1/float64(na) + 1/float64(nb)))
	return tResult(ma-mb, se, df, CohenD(ma, mb, va, vb, na, nb)), nil
}

// WelchTTest is the unequal-variance t-test with Welch-Satterthwaite degrees of freedom
func WelchTTest(a, b []float64) (TTestResult, error) {
	na, nb := len(a), len(b)
	if na < 2 || nb < 2 {
		return TTestResult{}, tooFew("Welch's t-test (per group)", 2, min(na, nb))
	}
	ma, va := meanVar(a)
	mb, vb := meanVar(b)
	se := math.Sqrt(va/float64(na) + vb/float64(nb))
	return tResult(ma-mb, se, WelchDF(va, vb, na, nb), CohenD(ma, mb, va, vb, na, nb)), nil
}

// PairedTTest tests the mean of a - b against zero. Cohen's d is the mean difference
// over the standard deviation of the differences.
func PairedTTest(a, b []float64) (TTestResult, error) {
	if len(a) != len(b) {
		return TTestResult{}, core.NewInsufficientDataError("paired samples have different lengths")
	}
	n := len(a)
	if n < 2 {
		return TTestResult{}, tooFew("the paired t-test", 2, n)
	}
	d := Differences(a, b)
	md, vd := meanVar(d)
	se := math.Sqrt(vd / float64(n))
	cohen := math.NaN()
	if vd > 0 {
		cohen = md / math.Sqrt(vd)
	}
	return tResult(md, se, float64(n-1), cohen), nil
}

// Differences returns a[i] - b[i]
func Differences(a, b []float64) []float64 {
	d := make([]float64, len(a))
	for i := range a {
		d[i] = a[i] - b[i]
	}
	return d
}

// WelchDF is the Welch-Satterthwaite approximation
func WelchDF(va, vb float64, na, nb int) float64 {
	qa := va / float64(na)
	qb := vb / float64(nb)
	den := qa*qa/float64(na-1) + qb*qb/float64(nb-1)
	if den == 0 {
		return float64(na + nb - 2)
	}
	return (qa + qb) * (qa + qb) / den
}

// CohenD computes Cohen's d with the pooled standard deviation
func CohenD(mean1, mean2, var1, var2 float64, n1, n2 int) float64 {
	if n1+n2 <= 2 {
		return math.NaN()
	}
	pooled := math.Sqrt((float64(n1-1)*var1 + float64(n2-1)*var2) / float64(n1+n2-2))
	if pooled == 0 {
		return math.NaN()
	}
	return (mean1 - mean2) / pooled
}

func tResult(diff, se, df, d float64) TTestResult {
	r := TTestResult{DF: df, MeanDiff: diff, SE: se, CohenD: d}
	switch {
	case se > 0:
		r.T = diff / se
	case diff == 0:
		r.T = math.NaN()
	default:
		r.T = math.Copysign(math.Inf(1), diff)
	}
	r.PValue = TTestPValue(r.T, df)
	margin := TQuantile(0.975, df) * se
	r.CILower, r.CIUpper = diff-margin, diff+margin
	return r
}
