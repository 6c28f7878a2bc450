package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"riskfactors/internal/db/models/postgres/public/model"
	"riskfactors/internal/domain"
	"riskfactors/internal/regression"
	"riskfactors/internal/repository"
	"time"
)

// style factor ordering is fixed so ridge columns and result rows line up
var styleFactorNames = []string{"momentum", "value", "size", "quality", "low_vol", "growth"}

// BenchmarkData is loaded once per run and shared read-only across all
// symbol computations.
type BenchmarkData struct {
	Date    time.Time
	Factors []model.FactorDefinition
	// benchmark symbol -> daily return series over the longest window
	Returns map[string]domain.ReturnSeries
}

func (b *BenchmarkData) factorsByType(t model.FactorType) []model.FactorDefinition {
	out := []model.FactorDefinition{}
	for _, f := range b.Factors {
		if f.FactorType == t {
			out = append(out, f)
		}
	}
	return out
}

func (b *BenchmarkData) factorByName(name string) (model.FactorDefinition, bool) {
	for _, f := range b.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return model.FactorDefinition{}, false
}

type SymbolFactorService interface {
	LoadBenchmarks(date time.Time) (*BenchmarkData, error)
	// ComputeForSymbol runs every factor family for one symbol and
	// upserts the exposure rows inside the caller's transaction.
	ComputeForSymbol(ctx context.Context, tx *sql.Tx, symbol string, benchmarks *BenchmarkData) error
}

func NewSymbolFactorService(
	returnProvider ReturnSeriesProvider,
	factorDefinitionRepository repository.FactorDefinitionRepository,
	exposureRepository repository.SymbolFactorExposureRepository,
) SymbolFactorService {
	return symbolFactorServiceHandler{
		ReturnProvider:             returnProvider,
		FactorDefinitionRepository: factorDefinitionRepository,
		ExposureRepository:         exposureRepository,
	}
}

// ReturnSeriesProvider is the slice of the price service this package
// needs; declared here so tests can swap in fakes without a db.
type ReturnSeriesProvider interface {
	GetReturnSeries(symbol string, end time.Time, windowDays int) (domain.ReturnSeries, error)
	GetReturnSeriesMany(symbols []string, end time.Time, windowDays int) (map[string]domain.ReturnSeries, error)
}

type symbolFactorServiceHandler struct {
	ReturnProvider             ReturnSeriesProvider
	FactorDefinitionRepository repository.FactorDefinitionRepository
	ExposureRepository         repository.SymbolFactorExposureRepository
}

func (h symbolFactorServiceHandler) LoadBenchmarks(date time.Time) (*BenchmarkData, error) {
	factors, err := h.FactorDefinitionRepository.List()
	if err != nil {
		return nil, err
	}
	if len(factors) == 0 {
		return nil, fmt.Errorf("no factor definitions configured")
	}

	benchmarkSet := map[string]bool{}
	for _, f := range factors {
		benchmarkSet[f.BenchmarkSymbol] = true
		if f.SecondaryBenchmarkSymbol != nil {
			benchmarkSet[*f.SecondaryBenchmarkSymbol] = true
		}
	}
	benchmarks := []string{}
	for s := range benchmarkSet {
		benchmarks = append(benchmarks, s)
	}

	returns, err := h.ReturnProvider.GetReturnSeriesMany(benchmarks, date, regression.SpreadWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark returns: %w", err)
	}

	return &BenchmarkData{
		Date:    date,
		Factors: factors,
		Returns: returns,
	}, nil
}

func (h symbolFactorServiceHandler) ComputeForSymbol(ctx context.Context, tx *sql.Tx, symbol string, benchmarks *BenchmarkData) error {
	symbolReturns, err := h.ReturnProvider.GetReturnSeries(symbol, benchmarks.Date, regression.SpreadWindowDays)
	if err != nil {
		return fmt.Errorf("failed to load returns for %s: %w", symbol, err)
	}

	betas := ComputeSymbolBetas(symbolReturns, benchmarks)

	rows := []*model.SymbolFactorExposure{}
	for _, beta := range betas {
		factor, ok := benchmarks.factorByName(beta.FactorName)
		if !ok {
			return fmt.Errorf("computed beta for unknown factor %s", beta.FactorName)
		}
		rows = append(rows, &model.SymbolFactorExposure{
			Symbol:              symbol,
			FactorID:            factor.FactorID,
			CalculationDate:     benchmarks.Date,
			BetaValue:           beta.Beta,
			RSquared:            beta.RSquared,
			Observations:        int32(beta.Observations),
			QualityFlag:         model.QualityFlag(beta.Quality),
			CalculationMethod:   beta.Method,
			RegularizationAlpha: beta.RegularizationAlpha,
			WindowDays:          int32(beta.WindowDays),
		})
	}

	return h.ExposureRepository.AddMany(tx, rows)
}

// SymbolBeta is one computed (not yet persisted) factor fit.
type SymbolBeta struct {
	FactorName          string
	Beta                float64
	RSquared            *float64
	Observations        int
	Quality             regression.Quality
	Method              model.CalculationMethod
	RegularizationAlpha *float64
	WindowDays          int
}

// ComputeSymbolBetas runs all four factor families over one symbol's
// return series. Pure given the preloaded benchmark data; both the
// store-backed pipeline and the legacy position-level backend call this,
// which is what makes their outputs comparable.
func ComputeSymbolBetas(symbolReturns domain.ReturnSeries, benchmarks *BenchmarkData) []SymbolBeta {
	out := []SymbolBeta{}

	// market and interest-rate betas: single-factor OLS over 90 days
	for _, f := range benchmarks.factorsByType(model.FactorType_Macro) {
		out = append(out, olsBeta(f.Name, symbolReturns, benchmarks.Returns[f.BenchmarkSymbol],
			regression.BetaWindowDays, regression.MinObservations, model.CalculationMethod_Ols))
	}

	// six style factors fit simultaneously with an L2 penalty
	out = append(out, ridgeBetas(symbolReturns, benchmarks)...)

	// four spread factors: OLS against a benchmark return difference
	for _, f := range benchmarks.factorsByType(model.FactorType_Spread) {
		spreadSeries := domain.ReturnSeries{}
		if f.SecondaryBenchmarkSymbol != nil {
			spreadSeries = regression.Spread(
				benchmarks.Returns[f.BenchmarkSymbol],
				benchmarks.Returns[*f.SecondaryBenchmarkSymbol],
			)
		}
		out = append(out, olsBeta(f.Name, symbolReturns, spreadSeries,
			regression.SpreadWindowDays, regression.SpreadMinObservations, model.CalculationMethod_SpreadOls))
	}

	return out
}

func olsBeta(factorName string, symbolReturns, benchmarkReturns domain.ReturnSeries, windowDays, minObs int, method model.CalculationMethod) SymbolBeta {
	_, aligned := regression.Align(
		regression.Tail(symbolReturns, windowDays),
		regression.Tail(benchmarkReturns, windowDays),
	)

	y, x := []float64{}, []float64{}
	if len(aligned) == 2 {
		y, x = aligned[0], aligned[1]
	}
	result, err := regression.OLS(y, x, minObs)
	if err != nil && !errors.Is(err, regression.ErrZeroVariance) {
		result = regression.Result{Quality: regression.QualityInsufficientHistory}
	}

	return SymbolBeta{
		FactorName:   factorName,
		Beta:         result.Beta,
		RSquared:     result.RSquared,
		Observations: result.Observations,
		Quality:      result.Quality,
		Method:       method,
		WindowDays:   windowDays,
	}
}

func ridgeBetas(symbolReturns domain.ReturnSeries, benchmarks *BenchmarkData) []SymbolBeta {
	alpha := regression.DefaultRidgeAlpha

	styleFactors := []model.FactorDefinition{}
	series := []domain.ReturnSeries{regression.Tail(symbolReturns, regression.BetaWindowDays)}
	for _, name := range styleFactorNames {
		f, ok := benchmarks.factorByName(name)
		if !ok {
			continue
		}
		styleFactors = append(styleFactors, f)
		series = append(series, regression.Tail(benchmarks.Returns[f.BenchmarkSymbol], regression.BetaWindowDays))
	}

	_, aligned := regression.Align(series...)

	y := []float64{}
	columns := make([][]float64, len(styleFactors))
	if len(aligned) == len(styleFactors)+1 {
		y = aligned[0]
		copy(columns, aligned[1:])
	} else {
		for i := range columns {
			columns[i] = []float64{}
		}
	}

	result, err := regression.Ridge(y, columns, alpha, regression.MinObservations)
	if err != nil && !errors.Is(err, regression.ErrZeroVariance) {
		result = regression.MultiResult{
			Betas:   make([]float64, len(styleFactors)),
			Quality: regression.QualityInsufficientHistory,
			Alpha:   alpha,
		}
	}

	out := []SymbolBeta{}
	for i, f := range styleFactors {
		beta := 0.0
		if i < len(result.Betas) {
			beta = result.Betas[i]
		}
		out = append(out, SymbolBeta{
			FactorName:          f.Name,
			Beta:                beta,
			RSquared:            result.RSquared,
			Observations:        result.Observations,
			Quality:             result.Quality,
			Method:              model.CalculationMethod_Ridge,
			RegularizationAlpha: &alpha,
			WindowDays:          regression.BetaWindowDays,
		})
	}
	return out
}
