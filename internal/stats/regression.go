package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"gothesis/domain/core"
)

// Coefficient is one term of a fitted linear model; index 0 is the intercept
type Coefficient struct {
	B      float64
	SE     float64
	T      float64
	PValue float64
}

// RegressionResult is an ordinary least squares fit with intercept
type RegressionResult struct {
	N            int
	Coefficients []Coefficient
	R            float64
	RSquared     float64
	AdjRSquared  float64
	StdError     float64 // standard error of the estimate
	F            float64
	DF1          float64
	DF2          float64
	PValue       float64
	Residuals    []float64
	Fitted       []float64
}

// OLS regresses y on the predictor columns with an added intercept. A rank-deficient
// design is reported as core.ErrSingularDesign.
func OLS(predictors [][]float64, y []float64) (RegressionResult, error) {
	n := len(y)
	p := len(predictors)
	if p == 0 {
		return RegressionResult{}, core.NewInsufficientDataError("regression needs at least one predictor")
	}
	if n <= p+1 {
		return RegressionResult{}, tooFew("the regression", p+2, n)
	}
	for _, col := range predictors {
		if len(col) != n {
			return RegressionResult{}, core.NewInsufficientDataError("predictor and outcome lengths differ")
		}
	}

	x := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		for j, col := range predictors {
			x.Set(i, j+1, col[i])
		}
	}
	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) || errors.Is(err, mat.ErrSingular) {
			return RegressionResult{}, fmt.Errorf("%w: predictors are collinear or constant", core.ErrSingularDesign)
		}
		return RegressionResult{}, err
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), yv)
	var beta mat.VecDense
	beta.MulVec(&inv, &xty)

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)

	ymean, _ := meanVar(y)
	res := RegressionResult{
		N:         n,
		Residuals: make([]float64, n),
		Fitted:    make([]float64, n),
		DF1:       float64(p),
		DF2:       float64(n - p - 1),
	}
	var sse, sst float64
	for i := 0; i < n; i++ {
		res.Fitted[i] = fitted.AtVec(i)
		res.Residuals[i] = y[i] - res.Fitted[i]
		sse += res.Residuals[i] * res.Residuals[i]
		sst += (y[i] - ymean) * (y[i] - ymean)
	}
	if sst == 0 {
		return RegressionResult{}, fmt.Errorf("%w: outcome is constant", core.ErrSingularDesign)
	}
	ssr := sst - sse
	mse := sse / res.DF2

	res.RSquared = 1 - sse/sst
	res.R = math.Sqrt(math.Max(0, res.RSquared))
	res.AdjRSquared = 1 - (1-res.RSquared)*float64(n-1)/res.DF2
	res.StdError = math.Sqrt(mse)
	res.F = safeRatio(ssr/res.DF1, mse)
	res.PValue = FTestPValue(res.F, res.DF1, res.DF2)

	res.Coefficients = make([]Coefficient, p+1)
	for j := 0; j <= p; j++ {
		c := Coefficient{B: beta.AtVec(j), SE: math.Sqrt(mse * inv.At(j, j))}
		c.T = safeRatio(c.B, c.SE)
		c.PValue = TTestPValue(c.T, res.DF2)
		res.Coefficients[j] = c
	}
	return res, nil
}
