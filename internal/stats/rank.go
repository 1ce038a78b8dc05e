package stats

import (
	"math"

	"gothesis/domain/core"
)

// MannWhitneyResult is a two-sample rank-sum test
type MannWhitneyResult struct {
	U            float64 // U of the first sample: pairs where a > b, ties counting half
	Z            float64
	PValue       float64
	RankBiserial float64 // 2U/(n1*n2) - 1, positive when the first sample tends to be larger
}

// MannWhitney runs the two-sided Mann-Whitney U test through the tie-corrected normal
// approximation with continuity correction.
func MannWhitney(a, b []float64) (MannWhitneyResult, error) {
	n1, n2 := len(a), len(b)
	if n1 < 1 || n2 < 1 {
		return MannWhitneyResult{}, tooFew("the Mann-Whitney U test (per group)", 1, min(n1, n2))
	}
	pooled := append(append([]float64(nil), a...), b...)
	ranks, ties := Ranks(pooled)
	r1 := sum(ranks[:n1])

	f1, f2 := float64(n1), float64(n2)
	n := f1 + f2
	u := r1 - f1*(f1+1)/2
	mu := f1 * f2 / 2
	sigma := math.Sqrt(f1 * f2 / 12 * ((n + 1) - ties/(n*(n-1))))

	res := MannWhitneyResult{U: u, RankBiserial: 2*u/(f1*f2) - 1}
	if sigma == 0 {
		res.Z, res.PValue = math.NaN(), math.NaN()
		return res, nil
	}
	dev := math.Max(0, math.Abs(u-mu)-0.5)
	res.Z = math.Copysign(dev/sigma, u-mu)
	res.PValue = zTwoTailed(res.Z)
	return res, nil
}

// KruskalResult is a k-sample rank test
type KruskalResult struct {
	H          float64
	DF         float64
	PValue     float64
	EtaSquared float64 // (H - k + 1) / (n - k)
}

// KruskalWallis runs the tie-corrected Kruskal-Wallis H test
func KruskalWallis(groups [][]float64) (KruskalResult, error) {
	k := len(groups)
	if k < 2 {
		return KruskalResult{}, tooFew("the Kruskal-Wallis test (groups)", 2, k)
	}
	var pooled []float64
	for _, g := range groups {
		if len(g) == 0 {
			return KruskalResult{}, tooFew("the Kruskal-Wallis test (per group)", 1, 0)
		}
		pooled = append(pooled, g...)
	}
	n := float64(len(pooled))
	if int(n) <= k {
		return KruskalResult{}, tooFew("the Kruskal-Wallis test", k+1, int(n))
	}
	ranks, ties := Ranks(pooled)

	acc := 0.0
	offset := 0
	for _, g := range groups {
		r := sum(ranks[offset : offset+len(g)])
		acc += r * r / float64(len(g))
		offset += len(g)
	}
	h := 12/(n*(n+1))*acc - 3*(n+1)
	correction := 1 - ties/(n*n*n-n)

	res := KruskalResult{DF: float64(k - 1)}
	if correction <= 0 {
		res.H, res.PValue, res.EtaSquared = math.NaN(), math.NaN(), math.NaN()
		return res, nil
	}
	res.H = h / correction
	res.PValue = ChiSquarePValue(res.H, res.DF)
	res.EtaSquared = (res.H - float64(k) + 1) / (n - float64(k))
	return res, nil
}

// WilcoxonResult is a signed-rank test on paired samples
type WilcoxonResult struct {
	W            float64 // min(W+, W-)
	WPlus        float64
	WMinus       float64
	N            int // non-zero differences
	PValue       float64
	Exact        bool
	RankBiserial float64 // (W+ - W-) / (W+ + W-)
}

// exactWilcoxonLimit bounds the exact distribution to sizes whose 2^n fits in uint64
const exactWilcoxonLimit = 50

// Wilcoxon runs the two-sided signed-rank test on a - b. Zero differences are dropped.
// Without ties and with few pairs the exact null distribution is used, otherwise the
// tie-corrected normal approximation.
func Wilcoxon(a, b []float64) (WilcoxonResult, error) {
	if len(a) != len(b) {
		return WilcoxonResult{}, core.NewInsufficientDataError("paired samples have different lengths")
	}
	var diffs []float64
	for _, d := range Differences(a, b) {
		if d != 0 {
			diffs = append(diffs, d)
		}
	}
	n := len(diffs)
	if n < 1 {
		return WilcoxonResult{}, tooFew("the Wilcoxon test (non-zero differences)", 1, 0)
	}
	abs := make([]float64, n)
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}
	ranks, ties := Ranks(abs)

	res := WilcoxonResult{N: n}
	for i, d := range diffs {
		if d > 0 {
			res.WPlus += ranks[i]
		} else {
			res.WMinus += ranks[i]
		}
	}
	res.W = math.Min(res.WPlus, res.WMinus)
	res.RankBiserial = (res.WPlus - res.WMinus) / (res.WPlus + res.WMinus)

	if ties == 0 && n <= exactWilcoxonLimit {
		res.Exact = true
		res.PValue = wilcoxonExactPValue(res.WPlus, n)
		return res, nil
	}

	fn := float64(n)
	mu := fn * (fn + 1) / 4
	sigma := math.Sqrt(fn*(fn+1)*(2*fn+1)/24 - ties/48)
	if sigma == 0 {
		res.PValue = math.NaN()
		return res, nil
	}
	res.PValue = zTwoTailed((res.W - mu) / sigma)
	return res, nil
}
