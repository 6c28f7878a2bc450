package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PositionWeight is a read-only snapshot of one position, provided by the
// portfolio collaborator. OptionDelta is nil for plain equity positions.
type PositionWeight struct {
	Symbol      string
	Quantity    decimal.Decimal
	MarketValue decimal.Decimal
	OptionDelta *float64
	AsOf        time.Time
}

// EffectiveBeta scales a symbol beta by option delta where applicable.
func (p PositionWeight) EffectiveBeta(symbolBeta float64) float64 {
	if p.OptionDelta != nil {
		return *p.OptionDelta * symbolBeta
	}
	return symbolBeta
}

type PortfolioPositions struct {
	PortfolioID uuid.UUID
	Positions   []PositionWeight
}

// GrossValue is the sum of absolute position market values, used as the
// weighting denominator so short positions get negative weights against
// a positive base.
func (p PortfolioPositions) GrossValue() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range p.Positions {
		total = total.Add(pos.MarketValue.Abs())
	}
	return total
}

func (p PortfolioPositions) HeldSymbols() []string {
	seen := map[string]bool{}
	symbols := []string{}
	for _, pos := range p.Positions {
		if !seen[pos.Symbol] {
			symbols = append(symbols, pos.Symbol)
			seen[pos.Symbol] = true
		}
	}
	return symbols
}
