package regression

import (
	"errors"
)

const (
	// trailing regression windows, in trading days
	BetaWindowDays   = 90
	SpreadWindowDays = 180

	// minimum paired observations before a fit is considered reliable
	MinObservations       = 30
	SpreadMinObservations = 60

	DefaultRidgeAlpha = 1.0

	zeroVarianceEpsilon = 1e-12
)

var ErrZeroVariance = errors.New("benchmark series has zero variance")

type Quality string

const (
	QualityOk                  Quality = "ok"
	QualityInsufficientHistory Quality = "insufficient_history"
)

// Result is a single-factor fit. When Quality is insufficient_history the
// beta is not reliable but is still returned so callers can persist it
// for audit.
type Result struct {
	Beta         float64
	RSquared     *float64
	Observations int
	Quality      Quality
}

// MultiResult is a multivariate fit; Betas is ordered like the input
// factor columns.
type MultiResult struct {
	Betas        []float64
	RSquared     *float64
	Observations int
	Quality      Quality
	Alpha        float64
}

func float64Ptr(f float64) *float64 {
	return &f
}
