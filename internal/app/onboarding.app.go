package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"riskfactors/internal/cache"
	"riskfactors/internal/logger"
	"riskfactors/internal/prices"
	"riskfactors/internal/repository"
	"sync"
	"time"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

const finishedJobRetention = time.Hour

var ErrSymbolUnknown = errors.New("symbol is not in the universe and has no onboarding job")

type OnboardingStatus string

const (
	OnboardingStatusActive  OnboardingStatus = "active"
	OnboardingStatusPending OnboardingStatus = "pending"
	OnboardingStatusError   OnboardingStatus = "error"
)

type jobState string

const (
	jobStateProcessing jobState = "processing"
	jobStateCompleted  jobState = "completed"
	jobStateFailed     jobState = "failed"
)

// OnboardingJob tracks one symbol's trip through onboarding. Snapshots
// returned to callers are copies; the registry owns the live struct.
type OnboardingJob struct {
	Symbol     string
	State      jobState
	Phases     []string
	EnqueuedAt time.Time
	FinishedAt *time.Time
	Err        error
}

type OnboardingService interface {
	// Enqueue registers a symbol for async onboarding. A symbol already
	// being processed is not enqueued twice.
	Enqueue(symbol string)
	// Status reports the symbol's lifecycle: active once onboarded,
	// pending while in flight, error when the last attempt failed.
	Status(symbol string) (OnboardingStatus, error)
	Job(symbol string) (*OnboardingJob, bool)
}

func NewOnboardingService(
	db *sql.DB,
	universeRepository repository.UniverseSymbolRepository,
	factorDefinitionRepository repository.FactorDefinitionRepository,
	exposureRepository repository.SymbolFactorExposureRepository,
	metricRepository repository.SymbolDailyMetricRepository,
	adjPriceRepository repository.AdjustedPriceRepository,
	priceService prices.PriceService,
	symbolFactorService SymbolFactorService,
	aggregationCache *cache.AggregationCache,
) OnboardingService {
	return &onboardingServiceHandler{
		Db:                         db,
		UniverseRepository:         universeRepository,
		FactorDefinitionRepository: factorDefinitionRepository,
		ExposureRepository:         exposureRepository,
		MetricRepository:           metricRepository,
		AdjPriceRepository:         adjPriceRepository,
		PriceService:               priceService,
		SymbolFactorService:        symbolFactorService,
		Cache:                      aggregationCache,
		jobs:                       map[string]*OnboardingJob{},
	}
}

type onboardingServiceHandler struct {
	Db                         *sql.DB
	UniverseRepository         repository.UniverseSymbolRepository
	FactorDefinitionRepository repository.FactorDefinitionRepository
	ExposureRepository         repository.SymbolFactorExposureRepository
	MetricRepository           repository.SymbolDailyMetricRepository
	AdjPriceRepository         repository.AdjustedPriceRepository
	PriceService               prices.PriceService
	SymbolFactorService        SymbolFactorService
	Cache                      *cache.AggregationCache

	mu   sync.Mutex
	jobs map[string]*OnboardingJob
}

func (h *onboardingServiceHandler) Enqueue(symbol string) {
	h.mu.Lock()
	h.pruneLocked()
	if existing, ok := h.jobs[symbol]; ok && existing.State == jobStateProcessing {
		h.mu.Unlock()
		return
	}
	job := &OnboardingJob{
		Symbol:     symbol,
		State:      jobStateProcessing,
		EnqueuedAt: time.Now().UTC(),
	}
	h.jobs[symbol] = job
	h.mu.Unlock()

	go h.process(symbol)
}

func (h *onboardingServiceHandler) Status(symbol string) (OnboardingStatus, error) {
	h.mu.Lock()
	job, ok := h.jobs[symbol]
	if ok {
		switch job.State {
		case jobStateProcessing:
			h.mu.Unlock()
			return OnboardingStatusPending, nil
		case jobStateFailed:
			h.mu.Unlock()
			return OnboardingStatusError, nil
		}
	}
	h.mu.Unlock()

	universeSymbol, err := h.UniverseRepository.Get(symbol)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return "", ErrSymbolUnknown
		}
		return "", fmt.Errorf("failed to look up %s: %w", symbol, err)
	}
	if universeSymbol.Active {
		return OnboardingStatusActive, nil
	}
	return OnboardingStatusPending, nil
}

func (h *onboardingServiceHandler) Job(symbol string) (*OnboardingJob, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	job, ok := h.jobs[symbol]
	if !ok {
		return nil, false
	}
	snapshot := *job
	snapshot.Phases = append([]string{}, job.Phases...)
	return &snapshot, true
}

// process runs the full onboarding pipeline for one symbol on a
// background goroutine: backfill a year of prices, compute every factor
// family on the store's current calculation date, write the metric row,
// activate the symbol, then drop cached aggregations that were partial
// because of it.
func (h *onboardingServiceHandler) process(symbol string) {
	log := logger.New().With("symbol", symbol)
	ctx := context.WithValue(context.Background(), logger.ContextKey, log)

	err := h.onboard(ctx, symbol)

	h.mu.Lock()
	job := h.jobs[symbol]
	now := time.Now().UTC()
	job.FinishedAt = &now
	if err != nil {
		job.State = jobStateFailed
		job.Err = err
	} else {
		job.State = jobStateCompleted
	}
	h.mu.Unlock()

	if err != nil {
		log.Errorf("onboarding failed: %v", err)
		return
	}
	log.Info("onboarding complete")
}

func (h *onboardingServiceHandler) onboard(ctx context.Context, symbol string) error {
	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin backfill transaction: %w", err)
	}
	defer tx.Rollback()

	if err := h.UniverseRepository.Add(tx, symbol); err != nil {
		return err
	}
	if err := h.PriceService.BackfillHistory(tx, symbol, nil); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit backfilled prices: %w", err)
	}
	h.recordPhase(symbol, "history_backfilled")

	// land rows on the store's current calculation date so aggregations
	// pick the new symbol up without waiting for the next batch run
	date := time.Now().UTC().Truncate(24 * time.Hour)
	latest, err := h.ExposureRepository.LatestCalculationDate(date)
	if err != nil {
		return err
	}
	if latest != nil {
		date = *latest
	}

	benchmarks, err := h.SymbolFactorService.LoadBenchmarks(date)
	if err != nil {
		return err
	}

	factorDefinitions, err := h.FactorDefinitionRepository.List()
	if err != nil {
		return err
	}
	namesByID := map[uuid.UUID]string{}
	for _, f := range factorDefinitions {
		namesByID[f.FactorID] = f.Name
	}

	tx, err = h.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin computation transaction: %w", err)
	}
	defer tx.Rollback()

	if err := h.SymbolFactorService.ComputeForSymbol(ctx, tx, symbol, benchmarks); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit onboarding computation: %w", err)
	}
	h.recordPhase(symbol, "factors_computed")

	// metrics read the just-committed exposure rows, so they get their
	// own transaction
	tx, err = h.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin metrics transaction: %w", err)
	}
	defer tx.Rollback()

	if err := writeSymbolMetrics(tx, symbol, date, namesByID, h.AdjPriceRepository, h.ExposureRepository, h.MetricRepository); err != nil {
		return err
	}
	if err := h.UniverseRepository.MarkActive(tx, symbol); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit symbol activation: %w", err)
	}

	h.Cache.InvalidateMissingSymbol(symbol)
	h.recordPhase(symbol, "activated")

	return nil
}

func (h *onboardingServiceHandler) recordPhase(symbol, phase string) {
	h.mu.Lock()
	if job, ok := h.jobs[symbol]; ok {
		job.Phases = append(job.Phases, phase)
	}
	h.mu.Unlock()
}

// pruneLocked drops finished jobs past retention; callers hold mu.
func (h *onboardingServiceHandler) pruneLocked() {
	for symbol, job := range h.jobs {
		if job.State == jobStateProcessing || job.FinishedAt == nil {
			continue
		}
		if time.Since(*job.FinishedAt) > finishedJobRetention {
			delete(h.jobs, symbol)
		}
	}
}
