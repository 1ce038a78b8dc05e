// Package stats holds the numerical routines behind every analysis: distributions,
// assumption tests, parametric and rank-based tests, post-hoc procedures, correlation,
// regression, contingency tables and scale reliability. Functions are pure and never
// mutate their inputs.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"gothesis/domain/core"
)

func tooFew(test string, need, got int) error {
	return core.NewInsufficientDataError(fmt.Sprintf("%s needs at least %d observations, got %d", test, need, got))
}

func sortedCopy(x []float64) []float64 {
	out := append([]float64(nil), x...)
	sort.Float64s(out)
	return out
}

func meanVar(x []float64) (mean, variance float64) {
	return stat.MeanVariance(x, nil)
}

func sum(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s
}

// Quantile7 is the linear-interpolation sample quantile (Hyndman-Fan type 7) of an
// already sorted slice
func Quantile7(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	hi := math.Ceil(h)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

// Ranks assigns average ranks (1-based) and returns the tie term sum(t^3 - t) over
// every group of tied values
func Ranks(x []float64) (ranks []float64, tieTerm float64) {
	n := len(x)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	ranks = make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		if t := float64(j - i + 1); t > 1 {
			tieTerm += t*t*t - t
		}
		i = j + 1
	}
	return ranks, tieTerm
}

func clampP(p float64) float64 {
	if math.IsNaN(p) {
		return p
	}
	return math.Max(0, math.Min(1, p))
}
