package domain

import (
	"time"
)

// FactorBeta is one symbol's exposure to one factor on one date, as read
// back from the factor store.
type FactorBeta struct {
	Symbol          string
	FactorName      string
	CalculationDate time.Time
	Beta            float64
	RSquared        *float64
	Observations    int
	Reliable        bool
}

// PortfolioExposures is the aggregated result for one portfolio. Partial
// is set when some held symbols had no exposure rows; the aggregation
// still covers everything that did.
type PortfolioExposures struct {
	PortfolioID    string             `json:"portfolioId"`
	Date           time.Time          `json:"date"`
	Exposures      map[string]float64 `json:"exposures"`
	Partial        bool               `json:"partial"`
	MissingSymbols []string           `json:"missingSymbols,omitempty"`
	FromCache      bool               `json:"fromCache"`
}
