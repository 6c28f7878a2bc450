package regression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Ridge fits y against the factor columns with an L2 penalty, solving
// (ZᵀZ + αI)b = Zᵀy on standardized columns and rescaling the
// coefficients back to return-space betas. Columns with ~zero variance
// get a zero coefficient rather than blowing up the solve.
func Ridge(y []float64, columns [][]float64, alpha float64, minObs int) (MultiResult, error) {
	k := len(columns)
	if k == 0 {
		return MultiResult{}, fmt.Errorf("ridge requires at least one factor column")
	}

	n := len(y)
	for _, col := range columns {
		if len(col) != n {
			return MultiResult{}, fmt.Errorf("ridge column length %d does not match %d observations", len(col), n)
		}
	}

	if n < 2 {
		return MultiResult{
			Betas:        make([]float64, k),
			Observations: n,
			Quality:      QualityInsufficientHistory,
			Alpha:        alpha,
		}, nil
	}

	yMean := stat.Mean(y, nil)
	centered := make([]float64, n)
	for i, v := range y {
		centered[i] = v - yMean
	}

	// standardize columns; remember scale to map coefficients back
	means := make([]float64, k)
	scales := make([]float64, k)
	live := []int{}
	for j, col := range columns {
		means[j] = stat.Mean(col, nil)
		scales[j] = stat.StdDev(col, nil)
		if scales[j]*scales[j] < zeroVarianceEpsilon {
			continue
		}
		live = append(live, j)
	}
	if len(live) == 0 {
		return MultiResult{
			Betas:        make([]float64, k),
			Observations: n,
			Quality:      QualityInsufficientHistory,
			Alpha:        alpha,
		}, ErrZeroVariance
	}
	zData := []float64{}
	for i := 0; i < n; i++ {
		for _, j := range live {
			zData = append(zData, (columns[j][i]-means[j])/scales[j])
		}
	}

	z := mat.NewDense(n, len(live), zData)
	yVec := mat.NewVecDense(n, centered)

	var ztz mat.Dense
	ztz.Mul(z.T(), z)
	for i := 0; i < len(live); i++ {
		ztz.Set(i, i, ztz.At(i, i)+alpha)
	}

	var zty mat.VecDense
	zty.MulVec(z.T(), yVec)

	var coef mat.VecDense
	if err := coef.SolveVec(&ztz, &zty); err != nil {
		return MultiResult{}, fmt.Errorf("failed to solve ridge system: %w", err)
	}

	betas := make([]float64, k)
	for i, j := range live {
		betas[j] = coef.AtVec(i) / scales[j]
	}

	// R² from fitted values in standardized space
	var fitted mat.VecDense
	fitted.MulVec(z, &coef)
	ssr, sst := 0.0, 0.0
	for i := 0; i < n; i++ {
		resid := centered[i] - fitted.AtVec(i)
		ssr += resid * resid
		sst += centered[i] * centered[i]
	}
	var rSquared *float64
	if sst > 0 {
		rSquared = float64Ptr(1 - ssr/sst)
	}

	quality := QualityOk
	if n < minObs {
		quality = QualityInsufficientHistory
	}

	return MultiResult{
		Betas:        betas,
		RSquared:     rSquared,
		Observations: n,
		Quality:      quality,
		Alpha:        alpha,
	}, nil
}
