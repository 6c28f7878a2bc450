package app

import (
	"context"
	"fmt"
	"riskfactors/internal/cache"
	"riskfactors/internal/domain"
	"riskfactors/internal/logger"
	"riskfactors/internal/regression"
	"riskfactors/internal/repository"
	"riskfactors/internal/util"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

// ExposureBackend turns a portfolio snapshot into factor exposures for
// one calculation date.
type ExposureBackend interface {
	ComputeExposures(ctx context.Context, positions *domain.PortfolioPositions, date time.Time) (*domain.PortfolioExposures, error)
}

// OnboardingEnqueuer accepts symbols the aggregator found no factor
// data for. Implemented by the onboarding service; enqueueing must not
// block the aggregation path.
type OnboardingEnqueuer interface {
	Enqueue(symbol string)
}

type AggregatorService interface {
	GetPortfolioExposures(ctx context.Context, portfolioID uuid.UUID, asOf time.Time) (*domain.PortfolioExposures, error)
}

func NewAggregatorService(
	positionRepository repository.PositionRepository,
	backend ExposureBackend,
	aggregationCache *cache.AggregationCache,
	onboarding OnboardingEnqueuer,
) AggregatorService {
	return aggregatorServiceHandler{
		PositionRepository: positionRepository,
		Backend:            backend,
		Cache:              aggregationCache,
		Onboarding:         onboarding,
	}
}

type aggregatorServiceHandler struct {
	PositionRepository repository.PositionRepository
	Backend            ExposureBackend
	Cache              *cache.AggregationCache
	Onboarding         OnboardingEnqueuer
}

// GetPortfolioExposures aggregates per-symbol betas into portfolio
// exposures. Results are cached by as-of day and position-content
// fingerprint, so a repeat request for an unchanged portfolio is a pure
// cache read while a mutated portfolio or a different historical date
// can never see a stale result.
func (h aggregatorServiceHandler) GetPortfolioExposures(ctx context.Context, portfolioID uuid.UUID, asOf time.Time) (*domain.PortfolioExposures, error) {
	log := logger.FromContext(ctx)

	positions, err := h.PositionRepository.GetPositions(portfolioID)
	if err != nil {
		return nil, err
	}
	if len(positions.Positions) == 0 {
		return nil, fmt.Errorf("portfolio %s has no positions", portfolioID)
	}

	key := cache.Key{
		PortfolioID: portfolioID,
		Kind:        cache.KindFactorExposures,
		AsOf:        util.NewDate(asOf.Year(), int(asOf.Month()), asOf.Day()),
		Fingerprint: cache.Fingerprint(positions.Positions),
	}
	if cached, ok := h.Cache.Get(key); ok {
		out := cached.(domain.PortfolioExposures)
		out.FromCache = true
		return &out, nil
	}

	result, err := h.Backend.ComputeExposures(ctx, positions, asOf)
	if err != nil {
		return nil, err
	}

	if result.Partial && h.Onboarding != nil {
		for _, symbol := range result.MissingSymbols {
			log.Infof("portfolio %s holds unknown symbol %s, queueing onboarding", portfolioID, symbol)
			h.Onboarding.Enqueue(symbol)
		}
	}

	h.Cache.Put(key, *result, cache.DefaultTTL)
	return result, nil
}

// NewSymbolStoreBackend aggregates from precomputed per-symbol betas:
// one bulk read of the factor store, then a weighted sum. This is the
// production path.
func NewSymbolStoreBackend(exposureRepository repository.SymbolFactorExposureRepository) ExposureBackend {
	return symbolStoreBackend{ExposureRepository: exposureRepository}
}

type symbolStoreBackend struct {
	ExposureRepository repository.SymbolFactorExposureRepository
}

func (b symbolStoreBackend) ComputeExposures(ctx context.Context, positions *domain.PortfolioPositions, date time.Time) (*domain.PortfolioExposures, error) {
	latest, err := b.ExposureRepository.LatestCalculationDate(date)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, fmt.Errorf("factor store has no data on or before %s", date.Format(time.DateOnly))
	}

	betas, err := b.ExposureRepository.GetManyOnDate(positions.HeldSymbols(), *latest)
	if err != nil {
		return nil, err
	}

	betasBySymbol := map[string]map[string]float64{}
	for _, beta := range betas {
		if !beta.Reliable {
			continue
		}
		if betasBySymbol[beta.Symbol] == nil {
			betasBySymbol[beta.Symbol] = map[string]float64{}
		}
		betasBySymbol[beta.Symbol][beta.FactorName] = beta.Beta
	}
	// symbols with only flagged fits still count as covered; they just
	// contribute nothing, unlike symbols the store has never seen
	covered := map[string]bool{}
	for _, beta := range betas {
		covered[beta.Symbol] = true
	}

	return weighExposures(positions, *latest, betasBySymbol, covered)
}

// NewLegacyPositionBackend recomputes betas per position at request
// time, the behavior the factor store replaced. Retained so the two
// aggregation paths can be compared while the store path is trusted in.
func NewLegacyPositionBackend(
	returnProvider ReturnSeriesProvider,
	factorDefinitionRepository repository.FactorDefinitionRepository,
) ExposureBackend {
	return legacyPositionBackend{
		ReturnProvider:             returnProvider,
		FactorDefinitionRepository: factorDefinitionRepository,
	}
}

type legacyPositionBackend struct {
	ReturnProvider             ReturnSeriesProvider
	FactorDefinitionRepository repository.FactorDefinitionRepository
}

func (b legacyPositionBackend) ComputeExposures(ctx context.Context, positions *domain.PortfolioPositions, date time.Time) (*domain.PortfolioExposures, error) {
	service := NewSymbolFactorService(b.ReturnProvider, b.FactorDefinitionRepository, nil)
	benchmarks, err := service.LoadBenchmarks(date)
	if err != nil {
		return nil, err
	}

	betasBySymbol := map[string]map[string]float64{}
	covered := map[string]bool{}
	for _, symbol := range positions.HeldSymbols() {
		symbolReturns, err := b.ReturnProvider.GetReturnSeries(symbol, date, regression.SpreadWindowDays)
		if err != nil {
			return nil, err
		}
		if len(symbolReturns.Values) == 0 {
			continue
		}
		covered[symbol] = true
		betasBySymbol[symbol] = map[string]float64{}
		for _, beta := range ComputeSymbolBetas(symbolReturns, benchmarks) {
			if beta.Quality != regression.QualityOk {
				continue
			}
			betasBySymbol[symbol][beta.FactorName] = beta.Beta
		}
	}

	return weighExposures(positions, date, betasBySymbol, covered)
}

// weighExposures folds per-symbol betas into the portfolio sum. Weights
// are market value over gross absolute value, so shorts contribute with
// a negative sign; option positions are scaled by delta.
func weighExposures(positions *domain.PortfolioPositions, date time.Time, betasBySymbol map[string]map[string]float64, covered map[string]bool) (*domain.PortfolioExposures, error) {
	gross := positions.GrossValue()
	if gross.IsZero() {
		return nil, fmt.Errorf("portfolio %s has zero gross value", positions.PortfolioID)
	}

	exposures := map[string]float64{}
	missing := []string{}
	missingSeen := map[string]bool{}
	for _, pos := range positions.Positions {
		if !covered[pos.Symbol] {
			if !missingSeen[pos.Symbol] {
				missingSeen[pos.Symbol] = true
				missing = append(missing, pos.Symbol)
			}
			continue
		}
		weight := pos.MarketValue.Div(gross).InexactFloat64()
		for factorName, beta := range betasBySymbol[pos.Symbol] {
			exposures[factorName] += weight * pos.EffectiveBeta(beta)
		}
	}

	return &domain.PortfolioExposures{
		PortfolioID:    positions.PortfolioID.String(),
		Date:           date,
		Exposures:      exposures,
		Partial:        len(missing) > 0,
		MissingSymbols: missing,
	}, nil
}

// BackendComparison is the outcome of running both aggregation paths on
// the same portfolio.
type BackendComparison struct {
	Matches bool
	Diff    string
}

// Comparator runs the store-backed and legacy backends side by side and
// diffs their exposures within a tolerance.
type Comparator struct {
	Primary   ExposureBackend
	Candidate ExposureBackend
	Tolerance float64
}

func (c Comparator) Compare(ctx context.Context, positions *domain.PortfolioPositions, date time.Time) (*BackendComparison, error) {
	primary, err := c.Primary.ComputeExposures(ctx, positions, date)
	if err != nil {
		return nil, fmt.Errorf("primary backend: %w", err)
	}
	candidate, err := c.Candidate.ComputeExposures(ctx, positions, date)
	if err != nil {
		return nil, fmt.Errorf("candidate backend: %w", err)
	}

	diff := cmp.Diff(
		primary.Exposures,
		candidate.Exposures,
		cmpopts.EquateApprox(0, c.Tolerance),
	)

	return &BackendComparison{
		Matches: diff == "",
		Diff:    diff,
	}, nil
}
