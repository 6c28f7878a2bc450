package repository

import (
	"fmt"
	"riskfactors/internal/domain"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PositionRepository is the portfolio collaborator: current positions
// with quantity, market value and option delta for a portfolio id. The
// aggregator treats its output as read-only.
type PositionRepository interface {
	GetPositions(portfolioID uuid.UUID) (*domain.PortfolioPositions, error)
}

// NewAlpacaPositionRepository serves positions from the wired brokerage
// account. Deployments with first-class portfolio storage inject their
// own implementation instead.
func NewAlpacaPositionRepository(alpacaRepository AlpacaRepository) PositionRepository {
	return alpacaPositionRepositoryHandler{AlpacaRepository: alpacaRepository}
}

type alpacaPositionRepositoryHandler struct {
	AlpacaRepository AlpacaRepository
}

func (h alpacaPositionRepositoryHandler) GetPositions(portfolioID uuid.UUID) (*domain.PortfolioPositions, error) {
	positions, err := h.AlpacaRepository.GetPositions()
	if err != nil {
		return nil, fmt.Errorf("failed to load positions for %s: %w", portfolioID, err)
	}

	out := &domain.PortfolioPositions{
		PortfolioID: portfolioID,
	}
	now := time.Now().UTC()
	for _, p := range positions {
		marketValue := decimal.Zero
		if p.MarketValue != nil {
			marketValue = *p.MarketValue
		}
		out.Positions = append(out.Positions, domain.PositionWeight{
			Symbol:      p.Symbol,
			Quantity:    p.Qty,
			MarketValue: marketValue,
			AsOf:        now,
		})
	}

	return out, nil
}
