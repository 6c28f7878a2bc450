package app

import (
	"context"
	"database/sql"
	"fmt"
	"riskfactors/internal/batch"
	"riskfactors/internal/cache"
	"riskfactors/internal/db/models/postgres/public/model"
	"riskfactors/internal/domain"
	"riskfactors/internal/logger"
	"riskfactors/internal/prices"
	"riskfactors/internal/repository"
	"riskfactors/internal/util"
	"time"

	"github.com/google/uuid"
)

const DefaultRunBudget = time.Hour

type RunInput struct {
	Date time.Time
	// SymbolOverride restricts the run to the given symbols; empty means
	// every active universe symbol.
	SymbolOverride []string
	// Budget bounds the run's wall clock; zero means DefaultRunBudget.
	Budget time.Duration
}

type RunReport struct {
	BatchRunID          uuid.UUID     `json:"batchRunId"`
	RunDate             time.Time     `json:"runDate"`
	SymbolsTotal        int           `json:"symbolsTotal"`
	PricesIngested      int           `json:"pricesIngested"`
	Factors             *batch.Report `json:"-"`
	Metrics             *batch.Report `json:"-"`
	FactorFailures      int           `json:"factorFailures"`
	FactorFailedSymbols []string      `json:"factorFailedSymbols,omitempty"`
	MetricFailures      int           `json:"metricFailures"`
	MetricFailedSymbols []string      `json:"metricFailedSymbols,omitempty"`
	Elapsed             time.Duration `json:"-"`
	ElapsedMs           int64         `json:"elapsedMs"`
}

type UniverseBatchService interface {
	Run(ctx context.Context, in RunInput) (*RunReport, error)
}

func NewUniverseBatchService(
	db *sql.DB,
	universeRepository repository.UniverseSymbolRepository,
	batchRunRepository repository.BatchRunRepository,
	factorDefinitionRepository repository.FactorDefinitionRepository,
	exposureRepository repository.SymbolFactorExposureRepository,
	metricRepository repository.SymbolDailyMetricRepository,
	adjPriceRepository repository.AdjustedPriceRepository,
	priceService prices.PriceService,
	symbolFactorService SymbolFactorService,
	aggregationCache *cache.AggregationCache,
) UniverseBatchService {
	return universeBatchServiceHandler{
		Db:                         db,
		UniverseRepository:         universeRepository,
		BatchRunRepository:         batchRunRepository,
		FactorDefinitionRepository: factorDefinitionRepository,
		ExposureRepository:         exposureRepository,
		MetricRepository:           metricRepository,
		AdjPriceRepository:         adjPriceRepository,
		PriceService:               priceService,
		SymbolFactorService:        symbolFactorService,
		Cache:                      aggregationCache,
	}
}

type universeBatchServiceHandler struct {
	Db                         *sql.DB
	UniverseRepository         repository.UniverseSymbolRepository
	BatchRunRepository         repository.BatchRunRepository
	FactorDefinitionRepository repository.FactorDefinitionRepository
	ExposureRepository         repository.SymbolFactorExposureRepository
	MetricRepository           repository.SymbolDailyMetricRepository
	AdjPriceRepository         repository.AdjustedPriceRepository
	PriceService               prices.PriceService
	SymbolFactorService        SymbolFactorService
	Cache                      *cache.AggregationCache
	BatchOptions               batch.Options
}

// Run executes one full universe recompute: price ingestion, every
// factor family for every symbol, metric denormalization, then cache
// invalidation. Prices commit durably before any regression starts, so
// a failed run never leaves the price store behind. Symbol and group
// failures are reported and the run continues with the survivors; only
// phase failures, an exhausted budget, or a pass with no survivors fail
// the run.
func (h universeBatchServiceHandler) Run(ctx context.Context, in RunInput) (*RunReport, error) {
	start := time.Now()
	log := logger.FromContext(ctx)
	profile := domain.ProfileFromContext(ctx)

	budget := in.Budget
	if budget <= 0 {
		budget = DefaultRunBudget
	}
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	date := util.NewDate(in.Date.Year(), int(in.Date.Month()), in.Date.Day())

	symbols := in.SymbolOverride
	if len(symbols) == 0 {
		active, err := h.UniverseRepository.ListActive()
		if err != nil {
			return nil, err
		}
		for _, s := range active {
			symbols = append(symbols, s.Symbol)
		}
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("universe has no active symbols")
	}

	run, err := h.BatchRunRepository.Add(model.BatchRun{
		RunDate:      date,
		State:        model.BatchRunState_Started,
		SymbolsTotal: int32(len(symbols)),
	})
	if err != nil {
		return nil, err
	}
	log.Infof("batch run %s started for %s with %d symbols", run.BatchRunID, date.Format(time.DateOnly), len(symbols))

	fail := func(stage string, stageErr error) (*RunReport, error) {
		wrapped := fmt.Errorf("%s: %w", stage, stageErr)
		if failErr := h.BatchRunRepository.Fail(run.BatchRunID, wrapped); failErr != nil {
			log.Errorf("failed to record batch run failure: %v", failErr)
		}
		return nil, wrapped
	}

	factorDefinitions, err := h.FactorDefinitionRepository.List()
	if err != nil {
		return fail("loading factor definitions", err)
	}

	endPhase := profile.StartPhase("price_ingestion")
	ingested, err := h.ingestPrices(ctx, symbols, factorDefinitions, date)
	endPhase()
	if err != nil {
		return fail("price ingestion", err)
	}
	if err := h.BatchRunRepository.UpdateState(run.BatchRunID, model.BatchRunState_PricesLoaded); err != nil {
		return fail("state update", err)
	}

	benchmarks, err := h.SymbolFactorService.LoadBenchmarks(date)
	if err != nil {
		return fail("loading benchmarks", err)
	}

	endPhase = profile.StartPhase("factor_computation")
	factorReport := batch.Run(ctx, h.Db, symbols, h.BatchOptions, func(ctx context.Context, tx *sql.Tx, symbol string) error {
		return h.SymbolFactorService.ComputeForSymbol(ctx, tx, symbol, benchmarks)
	})
	endPhase()
	if err := passFatal(ctx, factorReport); err != nil {
		return fail("factor computation", err)
	}
	if n := len(factorReport.GroupErrors); n > 0 {
		log.Warnf("%d factor group(s) failed, continuing with %d surviving symbols", n, factorReport.SuccessCount())
	}
	// one pass computes every family per symbol; the per-family states
	// are still advanced in order so operators see a familiar timeline
	for _, state := range []model.BatchRunState{
		model.BatchRunState_MarketBetaDone,
		model.BatchRunState_IrBetaDone,
		model.BatchRunState_RidgeDone,
		model.BatchRunState_SpreadDone,
	} {
		if err := h.BatchRunRepository.UpdateState(run.BatchRunID, state); err != nil {
			return fail("state update", err)
		}
	}

	namesByID := map[uuid.UUID]string{}
	for _, f := range factorDefinitions {
		namesByID[f.FactorID] = f.Name
	}
	endPhase = profile.StartPhase("metric_denormalization")
	metricReport := batch.Run(ctx, h.Db, factorReport.Succeeded, h.BatchOptions, func(ctx context.Context, tx *sql.Tx, symbol string) error {
		return h.writeMetrics(tx, symbol, date, namesByID)
	})
	endPhase()
	if err := passFatal(ctx, metricReport); err != nil {
		return fail("metric denormalization", err)
	}
	if err := h.BatchRunRepository.UpdateState(run.BatchRunID, model.BatchRunState_MetricsDone); err != nil {
		return fail("state update", err)
	}

	h.Cache.InvalidateAll()
	if err := h.BatchRunRepository.UpdateState(run.BatchRunID, model.BatchRunState_CacheInvalidated); err != nil {
		return fail("state update", err)
	}

	if err := h.BatchRunRepository.Complete(run.BatchRunID); err != nil {
		return fail("completing run", err)
	}

	report := &RunReport{
		BatchRunID:          run.BatchRunID,
		RunDate:             date,
		SymbolsTotal:        len(symbols),
		PricesIngested:      ingested,
		Factors:             factorReport,
		Metrics:             metricReport,
		FactorFailures:      factorReport.FailureCount(),
		FactorFailedSymbols: factorReport.FailedSymbols(),
		MetricFailures:      metricReport.FailureCount(),
		MetricFailedSymbols: metricReport.FailedSymbols(),
		Elapsed:             time.Since(start),
	}
	report.ElapsedMs = report.Elapsed.Milliseconds()
	log.Infof("batch run %s complete in %s: %d/%d symbols succeeded",
		run.BatchRunID, report.Elapsed.Round(time.Millisecond), factorReport.SuccessCount(), len(symbols))

	return report, nil
}

// ingestPrices commits the day's closes for universe and benchmark
// symbols in one transaction before any downstream phase reads them.
func (h universeBatchServiceHandler) ingestPrices(ctx context.Context, symbols []string, factorDefinitions []model.FactorDefinition, date time.Time) (int, error) {
	seen := map[string]bool{}
	union := []string{}
	for _, s := range symbols {
		if !seen[s] {
			seen[s] = true
			union = append(union, s)
		}
	}
	for _, f := range factorDefinitions {
		if !seen[f.BenchmarkSymbol] {
			seen[f.BenchmarkSymbol] = true
			union = append(union, f.BenchmarkSymbol)
		}
		if f.SecondaryBenchmarkSymbol != nil && !seen[*f.SecondaryBenchmarkSymbol] {
			seen[*f.SecondaryBenchmarkSymbol] = true
			union = append(union, *f.SecondaryBenchmarkSymbol)
		}
	}

	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin price transaction: %w", err)
	}
	defer tx.Rollback()

	n, err := h.PriceService.IngestDailyCloses(ctx, tx, union, date)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ingested prices: %w", err)
	}

	return n, nil
}

// passFatal decides whether a batch pass ends the run. Group failures
// are isolated - their symbols are reported failed and the run carries
// on with the survivors. Only an exhausted run budget or a pass with no
// survivors at all is fatal.
func passFatal(ctx context.Context, report *batch.Report) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("run budget exhausted: %w", ctxErr)
	}
	if report.SuccessCount() > 0 || report.FailureCount() == 0 {
		return nil
	}
	if err := report.Err(); err != nil {
		return err
	}
	return fmt.Errorf("all %d symbols failed, first: %w", len(report.SymbolErrors), report.SymbolErrors[0].Err)
}

func (h universeBatchServiceHandler) writeMetrics(tx *sql.Tx, symbol string, date time.Time, namesByID map[uuid.UUID]string) error {
	return writeSymbolMetrics(tx, symbol, date, namesByID, h.AdjPriceRepository, h.ExposureRepository, h.MetricRepository)
}

// writeSymbolMetrics builds and upserts one symbol's denormalized daily
// metric row; shared between the universe batch and symbol onboarding.
func writeSymbolMetrics(
	tx *sql.Tx,
	symbol string,
	date time.Time,
	namesByID map[uuid.UUID]string,
	adjPriceRepository repository.AdjustedPriceRepository,
	exposureRepository repository.SymbolFactorExposureRepository,
	metricRepository repository.SymbolDailyMetricRepository,
) error {
	priceRows, err := adjPriceRepository.List(symbol, date.AddDate(-1, 0, -7), date)
	if err != nil {
		return err
	}
	returnMetrics, err := prices.ComputeReturnMetrics(priceRows, date)
	if err != nil {
		return err
	}

	metric := model.SymbolDailyMetric{
		Symbol:               symbol,
		MetricsDate:          date,
		ClosePrice:           returnMetrics.ClosePrice,
		Return1d:             returnMetrics.Return1d,
		ReturnMtd:            returnMetrics.ReturnMtd,
		ReturnYtd:            returnMetrics.ReturnYtd,
		Return1m:             returnMetrics.Return1m,
		Return3m:             returnMetrics.Return3m,
		Return1y:             returnMetrics.Return1y,
		AnnualizedVolatility: returnMetrics.AnnualizedVolatility,
	}

	// mirror the factor store rather than recomputing, so the metric row
	// can never drift from symbol_factor_exposure for the same date
	exposures, err := exposureRepository.ListForSymbol(symbol, date)
	if err != nil {
		return err
	}
	for _, e := range exposures {
		beta := e.BetaValue
		switch namesByID[e.FactorID] {
		case "market":
			metric.MarketBeta = &beta
		case "interest_rate":
			metric.InterestRateBeta = &beta
		case "momentum":
			metric.MomentumBeta = &beta
		case "value":
			metric.ValueBeta = &beta
		case "size":
			metric.SizeBeta = &beta
		case "quality":
			metric.QualityBeta = &beta
		case "low_vol":
			metric.LowVolBeta = &beta
		case "growth":
			metric.GrowthBeta = &beta
		}
	}

	return metricRepository.AddMany(tx, []*model.SymbolDailyMetric{&metric})
}
