package regression

import (
	"gonum.org/v1/gonum/stat"
)

// OLS fits y = a + b*x and returns the slope with its R². minObs decides
// the quality flag; fewer than two points (or a flat benchmark) cannot
// produce a slope at all.
func OLS(y, x []float64, minObs int) (Result, error) {
	n := len(y)
	if len(x) < n {
		n = len(x)
	}
	y = y[:n]
	x = x[:n]

	if n < 2 {
		return Result{
			Observations: n,
			Quality:      QualityInsufficientHistory,
		}, nil
	}

	if stat.Variance(x, nil) < zeroVarianceEpsilon {
		return Result{
			Observations: n,
			Quality:      QualityInsufficientHistory,
		}, ErrZeroVariance
	}

	_, beta := stat.LinearRegression(x, y, nil, false)
	r := stat.Correlation(x, y, nil)

	quality := QualityOk
	if n < minObs {
		quality = QualityInsufficientHistory
	}

	return Result{
		Beta:         beta,
		RSquared:     float64Ptr(r * r),
		Observations: n,
		Quality:      quality,
	}, nil
}
