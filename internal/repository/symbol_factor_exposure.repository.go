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

type SymbolFactorExposureRepository interface {
	AddMany(tx *sql.Tx, in []*model.SymbolFactorExposure) error
	// GetManyOnDate bulk-loads exposures for exactly the given symbols on
	// one date - a single query regardless of symbol count.
	GetManyOnDate(symbols []string, date time.Time) ([]domain.FactorBeta, error)
	ListForSymbol(symbol string, date time.Time) ([]model.SymbolFactorExposure, error)
	// LatestCalculationDate resolves the most recent date with stored
	// exposures on or before the given date; nil when the store is empty.
	LatestCalculationDate(onOrBefore time.Time) (*time.Time, error)
}

func NewSymbolFactorExposureRepository(db *sql.DB) SymbolFactorExposureRepository {
	return symbolFactorExposureRepositoryHandler{Db: db}
}

type symbolFactorExposureRepositoryHandler struct {
	Db *sql.DB
}

func (h symbolFactorExposureRepositoryHandler) AddMany(tx *sql.Tx, in []*model.SymbolFactorExposure) error {
	if len(in) == 0 {
		return nil
	}

	for _, x := range in {
		x.CreatedAt = time.Now().UTC()
		x.UpdatedAt = time.Now().UTC()
	}
	query := table.SymbolFactorExposure.
		INSERT(table.SymbolFactorExposure.MutableColumns).
		MODELS(in).
		ON_CONFLICT(
			table.SymbolFactorExposure.Symbol,
			table.SymbolFactorExposure.FactorID,
			table.SymbolFactorExposure.CalculationDate,
		).
		DO_UPDATE(
			SET(
				table.SymbolFactorExposure.BetaValue.SET(table.SymbolFactorExposure.EXCLUDED.BetaValue),
				table.SymbolFactorExposure.RSquared.SET(table.SymbolFactorExposure.EXCLUDED.RSquared),
				table.SymbolFactorExposure.Observations.SET(table.SymbolFactorExposure.EXCLUDED.Observations),
				table.SymbolFactorExposure.QualityFlag.SET(table.SymbolFactorExposure.EXCLUDED.QualityFlag),
				table.SymbolFactorExposure.CalculationMethod.SET(table.SymbolFactorExposure.EXCLUDED.CalculationMethod),
				table.SymbolFactorExposure.RegularizationAlpha.SET(table.SymbolFactorExposure.EXCLUDED.RegularizationAlpha),
				table.SymbolFactorExposure.WindowDays.SET(table.SymbolFactorExposure.EXCLUDED.WindowDays),
				table.SymbolFactorExposure.UpdatedAt.SET(table.SymbolFactorExposure.EXCLUDED.UpdatedAt),
			),
		)

	_, err := query.Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to upsert symbol factor exposures: %w", err)
	}

	return nil
}

func (h symbolFactorExposureRepositoryHandler) GetManyOnDate(symbols []string, date time.Time) ([]domain.FactorBeta, error) {
	if len(symbols) == 0 {
		return []domain.FactorBeta{}, nil
	}

	symbolExprs := []Expression{}
	for _, s := range symbols {
		symbolExprs = append(symbolExprs, String(s))
	}

	query := table.SymbolFactorExposure.
		INNER_JOIN(
			table.FactorDefinition,
			table.FactorDefinition.FactorID.EQ(table.SymbolFactorExposure.FactorID),
		).
		SELECT(
			table.SymbolFactorExposure.AllColumns,
			table.FactorDefinition.Name,
		).
		WHERE(
			AND(
				table.SymbolFactorExposure.Symbol.IN(symbolExprs...),
				table.SymbolFactorExposure.CalculationDate.EQ(DateT(date)),
			),
		)

	rows := []struct {
		model.SymbolFactorExposure
		model.FactorDefinition
	}{}
	err := query.Query(h.Db, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk fetch exposures on %s: %w", date.Format(time.DateOnly), err)
	}

	out := []domain.FactorBeta{}
	for _, r := range rows {
		out = append(out, domain.FactorBeta{
			Symbol:          r.SymbolFactorExposure.Symbol,
			FactorName:      r.FactorDefinition.Name,
			CalculationDate: r.SymbolFactorExposure.CalculationDate,
			Beta:            r.SymbolFactorExposure.BetaValue,
			RSquared:        r.SymbolFactorExposure.RSquared,
			Observations:    int(r.SymbolFactorExposure.Observations),
			Reliable:        r.SymbolFactorExposure.QualityFlag == model.QualityFlag_Ok,
		})
	}

	return out, nil
}

func (h symbolFactorExposureRepositoryHandler) ListForSymbol(symbol string, date time.Time) ([]model.SymbolFactorExposure, error) {
	query := table.SymbolFactorExposure.
		SELECT(table.SymbolFactorExposure.AllColumns).
		WHERE(
			AND(
				table.SymbolFactorExposure.Symbol.EQ(String(symbol)),
				table.SymbolFactorExposure.CalculationDate.EQ(DateT(date)),
			),
		)

	out := []model.SymbolFactorExposure{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list exposures for %s: %w", symbol, err)
	}

	return out, nil
}

func (h symbolFactorExposureRepositoryHandler) LatestCalculationDate(onOrBefore time.Time) (*time.Time, error) {
	query := table.SymbolFactorExposure.
		SELECT(table.SymbolFactorExposure.CalculationDate).
		WHERE(table.SymbolFactorExposure.CalculationDate.LT_EQ(DateT(onOrBefore))).
		ORDER_BY(table.SymbolFactorExposure.CalculationDate.DESC()).
		LIMIT(1)

	out := []model.SymbolFactorExposure{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest calculation date: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}

	return &out[0].CalculationDate, nil
}
