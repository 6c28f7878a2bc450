package repository

import (
	"database/sql"
	"fmt"
	"riskfactors/internal/db/models/postgres/public/model"
	"riskfactors/internal/db/models/postgres/public/table"
	"time"

	. "github.com/go-jet/jet/v2/postgres"
)

type SymbolDailyMetricRepository interface {
	AddMany(tx *sql.Tx, in []*model.SymbolDailyMetric) error
	Get(symbol string, date time.Time) (*model.SymbolDailyMetric, error)
	ListOnDate(date time.Time) ([]model.SymbolDailyMetric, error)
}

func NewSymbolDailyMetricRepository(db *sql.DB) SymbolDailyMetricRepository {
	return symbolDailyMetricRepositoryHandler{Db: db}
}

type symbolDailyMetricRepositoryHandler struct {
	Db *sql.DB
}

func (h symbolDailyMetricRepositoryHandler) AddMany(tx *sql.Tx, in []*model.SymbolDailyMetric) error {
	if len(in) == 0 {
		return nil
	}

	for _, x := range in {
		x.CreatedAt = time.Now().UTC()
		x.UpdatedAt = time.Now().UTC()
	}
	query := table.SymbolDailyMetric.
		INSERT(table.SymbolDailyMetric.MutableColumns).
		MODELS(in).
		ON_CONFLICT(
			table.SymbolDailyMetric.Symbol,
			table.SymbolDailyMetric.MetricsDate,
		).
		DO_UPDATE(
			SET(
				table.SymbolDailyMetric.ClosePrice.SET(table.SymbolDailyMetric.EXCLUDED.ClosePrice),
				table.SymbolDailyMetric.Return1d.SET(table.SymbolDailyMetric.EXCLUDED.Return1d),
				table.SymbolDailyMetric.ReturnMtd.SET(table.SymbolDailyMetric.EXCLUDED.ReturnMtd),
				table.SymbolDailyMetric.ReturnYtd.SET(table.SymbolDailyMetric.EXCLUDED.ReturnYtd),
				table.SymbolDailyMetric.Return1m.SET(table.SymbolDailyMetric.EXCLUDED.Return1m),
				table.SymbolDailyMetric.Return3m.SET(table.SymbolDailyMetric.EXCLUDED.Return3m),
				table.SymbolDailyMetric.Return1y.SET(table.SymbolDailyMetric.EXCLUDED.Return1y),
				table.SymbolDailyMetric.AnnualizedVolatility.SET(table.SymbolDailyMetric.EXCLUDED.AnnualizedVolatility),
				table.SymbolDailyMetric.MarketBeta.SET(table.SymbolDailyMetric.EXCLUDED.MarketBeta),
				table.SymbolDailyMetric.InterestRateBeta.SET(table.SymbolDailyMetric.EXCLUDED.InterestRateBeta),
				table.SymbolDailyMetric.MomentumBeta.SET(table.SymbolDailyMetric.EXCLUDED.MomentumBeta),
				table.SymbolDailyMetric.ValueBeta.SET(table.SymbolDailyMetric.EXCLUDED.ValueBeta),
				table.SymbolDailyMetric.SizeBeta.SET(table.SymbolDailyMetric.EXCLUDED.SizeBeta),
				table.SymbolDailyMetric.QualityBeta.SET(table.SymbolDailyMetric.EXCLUDED.QualityBeta),
				table.SymbolDailyMetric.LowVolBeta.SET(table.SymbolDailyMetric.EXCLUDED.LowVolBeta),
				table.SymbolDailyMetric.GrowthBeta.SET(table.SymbolDailyMetric.EXCLUDED.GrowthBeta),
				table.SymbolDailyMetric.UpdatedAt.SET(table.SymbolDailyMetric.EXCLUDED.UpdatedAt),
			),
		)

	_, err := query.Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to upsert symbol daily metrics: %w", err)
	}

	return nil
}

func (h symbolDailyMetricRepositoryHandler) Get(symbol string, date time.Time) (*model.SymbolDailyMetric, error) {
	query := table.SymbolDailyMetric.
		SELECT(table.SymbolDailyMetric.AllColumns).
		WHERE(
			AND(
				table.SymbolDailyMetric.Symbol.EQ(String(symbol)),
				table.SymbolDailyMetric.MetricsDate.EQ(DateT(date)),
			),
		).
		LIMIT(1)

	out := model.SymbolDailyMetric{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily metric for %s on %s: %w", symbol, date.Format(time.DateOnly), err)
	}

	return &out, nil
}

func (h symbolDailyMetricRepositoryHandler) ListOnDate(date time.Time) ([]model.SymbolDailyMetric, error) {
	query := table.SymbolDailyMetric.
		SELECT(table.SymbolDailyMetric.AllColumns).
		WHERE(table.SymbolDailyMetric.MetricsDate.EQ(DateT(date))).
		ORDER_BY(table.SymbolDailyMetric.Symbol.ASC())

	out := []model.SymbolDailyMetric{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily metrics on %s: %w", date.Format(time.DateOnly), err)
	}

	return out, nil
}
