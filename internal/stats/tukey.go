package stats

import (
	"math"

	"gonum.org/v1/gonum/integrate"
)

// Gauss-Legendre nodes and weights (positive half) for the studentized range integrals
var (
	rangeNodes = [6]float64{
		0.981560634246719250690549090149,
		0.904117256370474856678465866119,
		0.769902674194304687036893833213,
		0.587317954286617447296702418941,
		0.367831498998180193752691536644,
		0.125233408511468915472441369464,
	}
	rangeWeights = [6]float64{
		0.047175336386511827194615961485,
		0.106939325995318430960254718194,
		0.160078328543346226334652529543,
		0.203167426723065921749064455810,
		0.233492536538354808760849898925,
		0.249147045813402785000562436043,
	}
	dfNodes = [8]float64{
		0.989400934991649932596154173450,
		0.944575023073232576077988415535,
		0.865631202387831743880467897712,
		0.755404408355003033895101194847,
		0.617876244402643748446671764049,
		0.458016777657227386342419442984,
		0.281603550779258913230460501460,
		0.950125098376374401853193354250e-1,
	}
	dfWeights = [8]float64{
		0.271524594117540948517805724560e-1,
		0.622535239386478928628438369944e-1,
		0.951585116824927848099251076022e-1,
		0.124628971255533872052476282192,
		0.149595988816576732081501730547,
		0.169156519395002538189312079030,
		0.182603415044923588866763667969,
		0.189450610455068496285396723208,
	}
)

// rangeProb is P(range of cc standard normals < w), Hartley's form integrated by
// 12-point Legendre quadrature over [w/2, 8].
func rangeProb(w, cc float64) float64 {
	const (
		bb   = 8.0
		c1   = -30.0
		c2   = -50.0
		c3   = 60.0
		wlar = 3.0
	)
	qsqz := w * 0.5
	if qsqz >= bb {
		return 1
	}

	prW := 2*NormalCDF(qsqz) - 1
	if prW >= math.Exp(c2/cc) {
		prW = math.Pow(prW, cc)
	} else {
		prW = 0
	}

	wincr := 3.0
	if w > wlar {
		wincr = 2.0
	}

	blb := qsqz
	binc := (bb - qsqz) / wincr
	bub := blb + binc
	einsum := 0.0
	cc1 := cc - 1

	for wi := 1.0; wi <= wincr; wi++ {
		elsum := 0.0
		a := 0.5 * (bub + blb)
		b := 0.5 * (bub - blb)
		for jj := 1; jj <= 12; jj++ {
			var j int
			var xx float64
			if jj > 6 {
				j = 12 - jj + 1
				xx = rangeNodes[j-1]
			} else {
				j = jj
				xx = -rangeNodes[j-1]
			}
			ac := a + b*xx
			qexpo := ac * ac
			if qexpo > c3 {
				break
			}
			pplus := 2 * NormalCDF(ac)
			pminus := 2 * NormalCDF(ac-w)
			rinsum := pplus*0.5 - pminus*0.5
			if rinsum >= math.Exp(c1/cc1) {
				elsum += rangeWeights[j-1] * math.Exp(-0.5*qexpo) * math.Pow(rinsum, cc1)
			}
		}
		elsum *= 2 * b * cc / math.Sqrt(2*math.Pi)
		einsum += elsum
		blb = bub
		bub += binc
	}

	prW += einsum
	if prW <= math.Exp(c1) {
		return 0
	}
	return math.Min(1, prW)
}

// PTukey is the CDF of the studentized range for k groups and df error degrees of
// freedom (Copenhaver and Holland 1988). Below two degrees of freedom, where Welch pairs
// of tiny groups land, the outer integral is taken by smallDFRange instead.
func PTukey(q, k, df float64) float64 {
	if math.IsNaN(q) || math.IsNaN(df) || k < 2 || df <= 0 {
		return math.NaN()
	}
	if q <= 0 {
		return 0
	}
	if math.IsInf(q, 1) {
		return 1
	}
	if df > 25000 {
		return rangeProb(q, k)
	}
	if df < 2 {
		return smallDFRange(q, k, df)
	}

	const (
		eps1 = -30.0
		eps2 = 1.0e-14
	)
	f2 := df * 0.5
	lg, _ := math.Lgamma(f2)
	f2lf := f2*math.Log(df) - df*math.Ln2 - lg
	f21 := f2 - 1
	ff4 := df * 0.25

	var ulen float64
	switch {
	case df <= 100:
		ulen = 1
	case df <= 800:
		ulen = 0.5
	case df <= 5000:
		ulen = 0.25
	default:
		ulen = 0.125
	}
	f2lf += math.Log(ulen)

	ans := 0.0
	for i := 1; i <= 50; i++ {
		otsum := 0.0
		twa1 := float64(2*i-1) * ulen
		for jj := 1; jj <= 16; jj++ {
			var j int
			var t1, qsqz float64
			if jj > 8 {
				j = jj - 8 - 1
				t1 = f2lf + f21*math.Log(twa1+dfNodes[j]*ulen) - (dfNodes[j]*ulen+twa1)*ff4
			} else {
				j = jj - 1
				t1 = f2lf + f21*math.Log(twa1-dfNodes[j]*ulen) + (dfNodes[j]*ulen-twa1)*ff4
			}
			if t1 >= eps1 {
				if jj > 8 {
					qsqz = q * math.Sqrt((dfNodes[j]*ulen+twa1)*0.5)
				} else {
					qsqz = q * math.Sqrt((-(dfNodes[j]*ulen)+twa1)*0.5)
				}
				otsum += rangeProb(qsqz, k) * dfWeights[j] * math.Exp(t1)
			}
		}
		if float64(i)*ulen >= 1 && otsum <= eps2 {
			break
		}
		ans += otsum
	}
	return math.Min(1, ans)
}

// smallDFRange integrates rangeProb(q*s, k) against the density of s = sqrt(chi2(df)/df).
// With s = u^(2/df) the s^(df-1) pole at zero and the heavy right tail both flatten out,
// so a composite Simpson rule over u in [0, (100/df)^(df/4)] is enough.
func smallDFRange(q, k, df float64) float64 {
	const intervals = 4000
	lg, _ := math.Lgamma(df / 2)
	scale := 2 * math.Exp(math.Ln2+df/2*math.Log(df/2)-lg) / df
	upper := math.Pow(100/df, df/4)

	x := make([]float64, intervals+1)
	f := make([]float64, intervals+1)
	for i := range x {
		u := upper * float64(i) / intervals
		x[i] = u
		if u == 0 {
			continue
		}
		s := math.Pow(u, 2/df)
		f[i] = scale * u * math.Exp(-df*s*s/2) * rangeProb(q*s, k)
	}
	return math.Max(0, math.Min(1, integrate.Simpsons(x, f)))
}

// TukeyPValue is the upper tail of the studentized range
func TukeyPValue(q, k, df float64) float64 {
	return clampP(1 - PTukey(q, k, df))
}

// PairwiseComparison is one adjusted contrast between two groups
type PairwiseComparison struct {
	A, B       int // group indexes
	Difference float64
	Statistic  float64
	PValue     float64
}

// TukeyHSD compares every pair of groups with the pooled within-group variance. Statistic
// is the t-like ratio; the studentized range is sqrt(2)*|T|.
func TukeyHSD(groups [][]float64) ([]PairwiseComparison, error) {
	anova, err := OneWayANOVA(groups)
	if err != nil {
		return nil, err
	}
	k := float64(len(groups))
	means := groupMeans(groups)
	var out []PairwiseComparison
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			diff := means[i] - means[j]
			se := math.Sqrt(anova.MSWithin * (1/float64(len(groups[i])) + 1/float64(len(groups[j]))))
			t := safeRatio(diff, se)
			out = append(out, PairwiseComparison{
				A: i, B: j, Difference: diff, Statistic: t,
				PValue: TukeyPValue(math.Sqrt2*math.Abs(t), k, anova.DF2),
			})
		}
	}
	return out, nil
}

// GamesHowell compares every pair of groups without assuming equal variances, using
// Welch degrees of freedom per pair.
func GamesHowell(groups [][]float64) ([]PairwiseComparison, error) {
	k := float64(len(groups))
	if len(groups) < 2 {
		return nil, tooFew("Games-Howell (groups)", 2, len(groups))
	}
	means := make([]float64, len(groups))
	vars := make([]float64, len(groups))
	for i, g := range groups {
		if len(g) < 2 {
			return nil, tooFew("Games-Howell (per group)", 2, len(g))
		}
		means[i], vars[i] = meanVar(g)
	}
	var out []PairwiseComparison
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			ni, nj := len(groups[i]), len(groups[j])
			diff := means[i] - means[j]
			se := math.Sqrt(vars[i]/float64(ni) + vars[j]/float64(nj))
			t := safeRatio(diff, se)
			df := WelchDF(vars[i], vars[j], ni, nj)
			out = append(out, PairwiseComparison{
				A: i, B: j, Difference: diff, Statistic: t,
				PValue: TukeyPValue(math.Sqrt2*math.Abs(t), k, df),
			})
		}
	}
	return out, nil
}

func groupMeans(groups [][]float64) []float64 {
	means := make([]float64, len(groups))
	for i, g := range groups {
		means[i] = sum(g) / float64(len(g))
	}
	return means
}

func safeRatio(num, den float64) float64 {
	switch {
	case den > 0:
		return num / den
	case num == 0:
		return math.NaN()
	default:
		return math.Copysign(math.Inf(1), num)
	}
}
