package repository

import (
	"database/sql"
	"fmt"
	"riskfactors/internal/db/models/postgres/public/model"
	"riskfactors/internal/db/models/postgres/public/table"
	"riskfactors/internal/domain"
	"time"

	. "github.com/go-jet/jet/v2/postgres"
)

type AdjustedPriceRepository interface {
	Add(tx *sql.Tx, prices []model.AdjustedPrice) error
	List(symbol string, start, end time.Time) ([]domain.AssetPrice, error)
	ListMany(symbols []string, start, end time.Time) (map[string][]domain.AssetPrice, error)
}

func NewAdjustedPriceRepository(db *sql.DB) AdjustedPriceRepository {
	return &AdjustedPriceRepositoryHandler{
		Db: db,
	}
}

type AdjustedPriceRepositoryHandler struct {
	Db *sql.DB
}

func (h *AdjustedPriceRepositoryHandler) Add(tx *sql.Tx, adjPrices []model.AdjustedPrice) error {
	if len(adjPrices) == 0 {
		return nil
	}

	query := table.AdjustedPrice.
		INSERT(table.AdjustedPrice.AllColumns).
		MODELS(adjPrices).
		ON_CONFLICT(
			table.AdjustedPrice.Symbol, table.AdjustedPrice.Date,
		).DO_UPDATE(
		SET(
			table.AdjustedPrice.Price.SET(table.AdjustedPrice.EXCLUDED.Price),
		),
	)

	_, err := query.Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to add adjusted prices to db: %w", err)
	}

	return nil
}

func (h *AdjustedPriceRepositoryHandler) List(symbol string, start, end time.Time) ([]domain.AssetPrice, error) {
	query := table.AdjustedPrice.
		SELECT(table.AdjustedPrice.AllColumns).
		WHERE(
			AND(
				table.AdjustedPrice.Symbol.EQ(String(symbol)),
				table.AdjustedPrice.Date.BETWEEN(DateT(start), DateT(end)),
			),
		).
		ORDER_BY(table.AdjustedPrice.Date.ASC())

	result := []model.AdjustedPrice{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for %s: %w", symbol, err)
	}

	out := []domain.AssetPrice{}
	for _, p := range result {
		out = append(out, domain.AssetPrice{
			Symbol: p.Symbol,
			Date:   p.Date,
			Price:  p.Price,
		})
	}

	return out, nil
}

// ListMany loads full histories for a set of symbols in one query, keyed
// by symbol with prices ascending by date.
func (h *AdjustedPriceRepositoryHandler) ListMany(symbols []string, start, end time.Time) (map[string][]domain.AssetPrice, error) {
	if len(symbols) == 0 {
		return map[string][]domain.AssetPrice{}, nil
	}

	symbolExprs := []Expression{}
	for _, s := range symbols {
		symbolExprs = append(symbolExprs, String(s))
	}

	query := table.AdjustedPrice.
		SELECT(table.AdjustedPrice.AllColumns).
		WHERE(
			AND(
				table.AdjustedPrice.Symbol.IN(symbolExprs...),
				table.AdjustedPrice.Date.BETWEEN(DateT(start), DateT(end)),
			),
		).
		ORDER_BY(table.AdjustedPrice.Symbol.ASC(), table.AdjustedPrice.Date.ASC())

	result := []model.AdjustedPrice{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for %d symbols: %w", len(symbols), err)
	}

	out := map[string][]domain.AssetPrice{}
	for _, p := range result {
		out[p.Symbol] = append(out[p.Symbol], domain.AssetPrice{
			Symbol: p.Symbol,
			Date:   p.Date,
			Price:  p.Price,
		})
	}

	return out, nil
}

