package stats

import (
	"errors"
	"math"
)

// ErrConstantSample is returned when every observation is identical
var ErrConstantSample = errors.New("all observations are identical")

// Royston (1995) polynomial coefficients
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// poly evaluates c[0] + c[1]x + c[2]x^2 + ...
func poly(c []float64, x float64) float64 {
	r := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		r = r*x + c[i]
	}
	return r
}

// ShapiroWilk tests x for normality using Royston's approximation (AS R94). The p-value
// is calibrated for 3 <= n <= 5000 and only approximate above that.
func ShapiroWilk(x []float64) (w, p float64, err error) {
	n := len(x)
	if n < 3 {
		return math.NaN(), math.NaN(), tooFew("Shapiro-Wilk", 3, n)
	}
	sorted := sortedCopy(x)
	if sorted[n-1]-sorted[0] < 1e-19 {
		return math.NaN(), math.NaN(), ErrConstantSample
	}

	half := n / 2
	a := make([]float64, half)
	an := float64(n)

	if n == 3 {
		a[0] = math.Sqrt(0.5)
	} else {
		m := make([]float64, half)
		summ2 := 0.0
		for i := 0; i < half; i++ {
			m[i] = NormalQuantile((float64(i+1) - 0.375) / (an + 0.25))
			summ2 += m[i] * m[i]
		}
		summ2 *= 2
		ssumm2 := math.Sqrt(summ2)
		rsn := 1 / math.Sqrt(an)
		a1 := poly(swC1, rsn) - m[0]/ssumm2

		i1 := 1
		var fac float64
		if n > 5 {
			i1 = 2
			a2 := -m[1]/ssumm2 + poly(swC2, rsn)
			fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
			a[1] = a2
		} else {
			fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
		}
		a[0] = a1
		for i := i1; i < half; i++ {
			a[i] = -m[i] / fac
		}
	}

	mean, _ := meanVar(sorted)
	ssq := 0.0
	for _, v := range sorted {
		ssq += (v - mean) * (v - mean)
	}
	num := 0.0
	for i := 0; i < half; i++ {
		num += a[i] * (sorted[n-1-i] - sorted[i])
	}
	w = math.Min(1, num*num/ssq)

	return w, shapiroWilkPValue(w, n), nil
}

func shapiroWilkPValue(w float64, n int) float64 {
	if n == 3 {
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		return clampP(p)
	}
	w1 := 1 - w
	if w1 <= 0 {
		return 1
	}
	y := math.Log(w1)
	an := float64(n)

	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		xx := math.Log(an)
		m = poly(swC5, xx)
		s = math.Exp(poly(swC6, xx))
	}
	return clampP(1 - NormalCDF((y-m)/s))
}
