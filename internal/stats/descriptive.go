package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"
)

// Summary is the descriptive profile of one numeric sample
type Summary struct {
	N        int
	Mean     float64
	SD       float64 // sample standard deviation (n-1)
	SE       float64
	Min      float64
	Q1       float64
	Median   float64
	Q3       float64
	Max      float64
	Skewness float64
	Kurtosis float64 // excess kurtosis
}

// Describe computes the summary of x. An empty sample is an error; a single observation
// yields NaN for every dispersion figure.
func Describe(x []float64) (Summary, error) {
	if len(x) == 0 {
		return Summary{}, tooFew("descriptive statistics", 1, 0)
	}
	data := mstats.Float64Data(x)

	s := Summary{N: len(x), SD: math.NaN(), SE: math.NaN(), Skewness: math.NaN(), Kurtosis: math.NaN()}

	var err error
	if s.Mean, err = data.Mean(); err != nil {
		return Summary{}, err
	}
	if s.Min, err = data.Min(); err != nil {
		return Summary{}, err
	}
	if s.Max, err = data.Max(); err != nil {
		return Summary{}, err
	}
	if s.Median, err = data.Median(); err != nil {
		return Summary{}, err
	}

	sorted := sortedCopy(x)
	s.Q1 = Quantile7(sorted, 0.25)
	s.Q3 = Quantile7(sorted, 0.75)

	if len(x) > 1 {
		if s.SD, err = data.StandardDeviationSample(); err != nil {
			return Summary{}, err
		}
		s.SE = s.SD / math.Sqrt(float64(len(x)))
	}

	popSD, err := data.StandardDeviationPopulation()
	if err != nil {
		return Summary{}, err
	}
	if popSD > 0 {
		s.Skewness = moment(x, s.Mean, popSD, 3)
		s.Kurtosis = moment(x, s.Mean, popSD, 4) - 3
	}
	return s, nil
}

func moment(x []float64, mean, sd float64, k float64) float64 {
	acc := 0.0
	for _, v := range x {
		acc += math.Pow((v-mean)/sd, k)
	}
	return acc / float64(len(x))
}
