package stats

import (
	"math"
)

// ChiSquareResult is Pearson's test of independence on a contingency table
type ChiSquareResult struct {
	ChiSquare    float64
	DF           float64
	PValue       float64
	CramersV     float64
	Expected     [][]float64
	MinExpected  float64
	YatesApplied bool
}

// ChiSquareIndependence tests an r x c table of observed counts. Yates' continuity
// correction is applied when the table has one degree of freedom.
func ChiSquareIndependence(observed [][]float64) (ChiSquareResult, error) {
	r := len(observed)
	if r < 2 {
		return ChiSquareResult{}, tooFew("the chi-square test (row categories)", 2, r)
	}
	c := len(observed[0])
	if c < 2 {
		return ChiSquareResult{}, tooFew("the chi-square test (column categories)", 2, c)
	}

	rowSums := make([]float64, r)
	colSums := make([]float64, c)
	total := 0.0
	for i, row := range observed {
		for j, v := range row {
			rowSums[i] += v
			colSums[j] += v
			total += v
		}
	}
	if total == 0 {
		return ChiSquareResult{}, tooFew("the chi-square test", 1, 0)
	}

	res := ChiSquareResult{
		DF:           float64((r - 1) * (c - 1)),
		Expected:     make([][]float64, r),
		MinExpected:  math.Inf(1),
		YatesApplied: r == 2 && c == 2,
	}
	for i := range observed {
		res.Expected[i] = make([]float64, c)
		for j := range observed[i] {
			e := rowSums[i] * colSums[j] / total
			res.Expected[i][j] = e
			res.MinExpected = math.Min(res.MinExpected, e)

			dev := math.Abs(observed[i][j] - e)
			if res.YatesApplied {
				dev = math.Max(0, dev-math.Min(0.5, dev))
			}
			if e > 0 {
				res.ChiSquare += dev * dev / e
			}
		}
	}
	res.PValue = ChiSquarePValue(res.ChiSquare, res.DF)
	res.CramersV = math.Sqrt(res.ChiSquare / (total * float64(min(r, c)-1)))
	return res, nil
}
