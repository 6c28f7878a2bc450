package app

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"riskfactors/internal/cache"
	"riskfactors/internal/db/models/postgres/public/model"
	"riskfactors/internal/domain"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// driver whose Begin fails for a chosen range of calls, simulating a
// connection dropped while a batch group opens its transaction

type flakyBeginState struct {
	begins   atomic.Int64
	failFrom int64
	failTo   int64
}

type flakyBeginDriver struct{ state *flakyBeginState }

type flakyBeginConn struct{ state *flakyBeginState }

func (d *flakyBeginDriver) Open(name string) (driver.Conn, error) {
	return &flakyBeginConn{state: d.state}, nil
}

func (c *flakyBeginConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *flakyBeginConn) Exec(query string, args []driver.Value) (driver.Result, error) {
	return driver.RowsAffected(0), nil
}

func (c *flakyBeginConn) Close() error { return nil }

func (c *flakyBeginConn) Begin() (driver.Tx, error) {
	n := c.state.begins.Add(1)
	if n >= c.state.failFrom && n <= c.state.failTo {
		return nil, errors.New("connection reset during begin")
	}
	return &onboardFakeTx{}, nil
}

var flakyBeginSeq atomic.Int64

func newFlakyBeginDb(t *testing.T, failFrom, failTo int64) *sql.DB {
	t.Helper()
	name := fmt.Sprintf("flakybegin_%d", flakyBeginSeq.Add(1))
	sql.Register(name, &flakyBeginDriver{state: &flakyBeginState{failFrom: failFrom, failTo: failTo}})
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	return db
}

type fakeBatchRunRepository struct {
	mu        sync.Mutex
	states    []model.BatchRunState
	completed bool
	failedErr error
}

func (f *fakeBatchRunRepository) Add(run model.BatchRun) (*model.BatchRun, error) {
	run.BatchRunID = uuid.New()
	f.record(run.State)
	return &run, nil
}

func (f *fakeBatchRunRepository) UpdateState(runID uuid.UUID, state model.BatchRunState) error {
	f.record(state)
	return nil
}

func (f *fakeBatchRunRepository) Complete(runID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, model.BatchRunState_Complete)
	f.completed = true
	return nil
}

func (f *fakeBatchRunRepository) Fail(runID uuid.UUID, runErr error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, model.BatchRunState_Failed)
	f.failedErr = runErr
	return nil
}

func (f *fakeBatchRunRepository) record(state model.BatchRunState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, state)
}

type batchFixture struct {
	service UniverseBatchService
	runs    *fakeBatchRunRepository
	prices  *fakeOnboardPriceService
	factors *fakeSymbolFactorService
	metrics *fakeMetricRepository
	cache   *cache.AggregationCache
}

func newBatchFixture(t *testing.T, date time.Time) *batchFixture {
	return newBatchFixtureDb(t, date, newOnboardFakeDb(t))
}

func newBatchFixtureDb(t *testing.T, date time.Time, db *sql.DB) *batchFixture {
	t.Helper()

	priceRows := []domain.AssetPrice{}
	for i := 300; i >= 0; i-- {
		d := date.AddDate(0, 0, -i)
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		priceRows = append(priceRows, domain.AssetPrice{
			Date:  d,
			Price: 100 + float64(i)*0.1,
		})
	}

	fixture := &batchFixture{
		runs:    &fakeBatchRunRepository{},
		prices:  &fakeOnboardPriceService{},
		factors: &fakeSymbolFactorService{},
		metrics: &fakeMetricRepository{},
		cache:   cache.NewAggregationCache(),
	}
	fixture.service = NewUniverseBatchService(
		db,
		newFakeUniverseRepository(),
		fixture.runs,
		&fakeFactorDefinitionRepository{factors: []model.FactorDefinition{
			{FactorID: uuid.New(), Name: "market", FactorType: model.FactorType_Macro, BenchmarkSymbol: "SPY"},
		}},
		&fakeExposureRepository{betas: []domain.FactorBeta{
			storedBeta("AAPL", "market", date, 1.0),
		}},
		fixture.metrics,
		&fakeAdjustedPriceRepository{prices: priceRows},
		fixture.prices,
		fixture.factors,
		fixture.cache,
	)
	return fixture
}

func Test_UniverseBatchService_Run(t *testing.T) {
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	t.Run("full run advances through every state", func(t *testing.T) {
		fixture := newBatchFixture(t, date)
		staleKey := cache.Key{PortfolioID: uuid.New(), Kind: cache.KindFactorExposures, Fingerprint: "stale"}
		fixture.cache.Put(staleKey, domain.PortfolioExposures{}, time.Minute)

		report, err := fixture.service.Run(context.Background(), RunInput{
			Date:           date,
			SymbolOverride: []string{"AAPL", "MSFT"},
		})
		require.NoError(t, err)

		require.Equal(t, []model.BatchRunState{
			model.BatchRunState_Started,
			model.BatchRunState_PricesLoaded,
			model.BatchRunState_MarketBetaDone,
			model.BatchRunState_IrBetaDone,
			model.BatchRunState_RidgeDone,
			model.BatchRunState_SpreadDone,
			model.BatchRunState_MetricsDone,
			model.BatchRunState_CacheInvalidated,
			model.BatchRunState_Complete,
		}, fixture.runs.states)
		require.True(t, fixture.runs.completed)

		require.Equal(t, 2, report.SymbolsTotal)
		require.Zero(t, report.FactorFailures)
		require.Equal(t, int64(2), fixture.factors.computes.Load())
		require.Len(t, fixture.metrics.metrics, 2)

		// recompute dropped every cached aggregation
		require.Zero(t, fixture.cache.Len())
	})

	t.Run("benchmark symbols join the price ingest", func(t *testing.T) {
		fixture := newBatchFixture(t, date)

		report, err := fixture.service.Run(context.Background(), RunInput{
			Date:           date,
			SymbolOverride: []string{"AAPL"},
		})
		require.NoError(t, err)
		// AAPL plus the SPY benchmark
		require.Equal(t, 2, report.PricesIngested)
	})

	t.Run("price ingestion failure fails the run durably", func(t *testing.T) {
		fixture := newBatchFixture(t, date)
		fixture.prices.ingestErr = errors.New("market data outage")

		_, err := fixture.service.Run(context.Background(), RunInput{
			Date:           date,
			SymbolOverride: []string{"AAPL"},
		})
		require.ErrorContains(t, err, "market data outage")

		require.ErrorContains(t, fixture.runs.failedErr, "price ingestion")
		require.NotContains(t, fixture.runs.states, model.BatchRunState_PricesLoaded)
		require.Contains(t, fixture.runs.states, model.BatchRunState_Failed)
		require.Zero(t, fixture.factors.computes.Load())
	})

	t.Run("one bad symbol does not fail the run", func(t *testing.T) {
		fixture := newBatchFixture(t, date)
		fixture.factors.failSymbols = map[string]bool{"MSFT": true}

		report, err := fixture.service.Run(context.Background(), RunInput{
			Date:           date,
			SymbolOverride: []string{"AAPL", "MSFT"},
		})
		require.NoError(t, err)

		require.Equal(t, 1, report.FactorFailures)
		require.True(t, fixture.runs.completed)
		// metrics only run for symbols whose factors landed
		require.Len(t, fixture.metrics.metrics, 1)
		require.Equal(t, "AAPL", fixture.metrics.metrics[0].Symbol)
	})

	t.Run("a failed group does not fail the run", func(t *testing.T) {
		// twelve symbols split into groups of ten and two; the second
		// transaction begun after price ingestion is refused, taking
		// down exactly one factor group
		fixture := newBatchFixtureDb(t, date, newFlakyBeginDb(t, 2, 2))

		symbols := []string{}
		for i := 1; i <= 12; i++ {
			symbols = append(symbols, fmt.Sprintf("SYM%02d", i))
		}
		report, err := fixture.service.Run(context.Background(), RunInput{
			Date:           date,
			SymbolOverride: symbols,
		})
		require.NoError(t, err)

		require.True(t, fixture.runs.completed)
		require.NotContains(t, fixture.runs.states, model.BatchRunState_Failed)
		require.Contains(t, fixture.runs.states, model.BatchRunState_CacheInvalidated)

		// one of the two groups went down with its transaction
		require.Contains(t, []int{2, 10}, report.FactorFailures)
		require.Len(t, report.FactorFailedSymbols, report.FactorFailures)
		survivors := len(symbols) - report.FactorFailures
		require.Equal(t, int64(survivors), fixture.factors.computes.Load())
		// the surviving group still gets its metrics denormalized
		require.Len(t, fixture.metrics.metrics, survivors)
	})

	t.Run("every group failing fails the run", func(t *testing.T) {
		// both factor-group begins refused: no survivors, so the run
		// must be marked failed rather than completing empty
		fixture := newBatchFixtureDb(t, date, newFlakyBeginDb(t, 2, 3))

		symbols := []string{}
		for i := 1; i <= 12; i++ {
			symbols = append(symbols, fmt.Sprintf("SYM%02d", i))
		}
		_, err := fixture.service.Run(context.Background(), RunInput{
			Date:           date,
			SymbolOverride: symbols,
		})
		require.ErrorContains(t, err, "factor computation")

		require.ErrorContains(t, fixture.runs.failedErr, "factor computation")
		require.Contains(t, fixture.runs.states, model.BatchRunState_Failed)
		require.False(t, fixture.runs.completed)
	})

	t.Run("empty universe is rejected up front", func(t *testing.T) {
		fixture := newBatchFixture(t, date)

		_, err := fixture.service.Run(context.Background(), RunInput{Date: date})
		require.ErrorContains(t, err, "no active symbols")
		require.Empty(t, fixture.runs.states)
	})

	t.Run("phase timings land in the attached profile", func(t *testing.T) {
		fixture := newBatchFixture(t, date)
		profile, endProfile := domain.NewRunProfile()
		ctx := domain.WithProfile(context.Background(), profile)

		_, err := fixture.service.Run(ctx, RunInput{
			Date:           date,
			SymbolOverride: []string{"AAPL"},
		})
		require.NoError(t, err)
		endProfile()

		names := []string{}
		for _, phase := range profile.Phases {
			names = append(names, phase.Name)
			require.NotNil(t, phase.ElapsedMs)
		}
		require.Equal(t, []string{"price_ingestion", "factor_computation", "metric_denormalization"}, names)
	})
}
