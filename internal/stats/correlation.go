package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"gothesis/domain/core"
)

// CorrelationResult is a Pearson product-moment correlation
type CorrelationResult struct {
	R       float64
	N       int
	PValue  float64
	CILower float64 // 95% Fisher-z interval
	CIUpper float64
}

// Pearson correlates x and y. A constant input gives NaN for every figure.
func Pearson(x, y []float64) (CorrelationResult, error) {
	n := len(x)
	if n != len(y) {
		return CorrelationResult{}, core.NewInsufficientDataError("paired samples have different lengths")
	}
	if n < 3 {
		return CorrelationResult{}, tooFew("a correlation", 3, n)
	}
	res := CorrelationResult{N: n, CILower: math.NaN(), CIUpper: math.NaN()}
	res.R = stat.Correlation(x, y, nil)
	if !math.IsNaN(res.R) {
		res.R = math.Max(-1, math.Min(1, res.R))
	}
	res.PValue = CorrelationPValue(res.R, n)
	if n > 3 && !math.IsNaN(res.R) && math.Abs(res.R) < 1 {
		z := math.Atanh(res.R)
		half := NormalQuantile(0.975) / math.Sqrt(float64(n-3))
		res.CILower = math.Tanh(z - half)
		res.CIUpper = math.Tanh(z + half)
	}
	return res, nil
}
