package app

import (
	"context"
	"database/sql"
	"riskfactors/internal/cache"
	"riskfactors/internal/db/models/postgres/public/model"
	"riskfactors/internal/domain"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeExposureRepository retains what AddMany writes, so the compute
// pipeline and the store-backed aggregator can be driven against the
// same store in one test.
type fakeExposureRepository struct {
	mu          sync.Mutex
	factorNames map[uuid.UUID]string
	betas       []domain.FactorBeta
	rows        []model.SymbolFactorExposure
}

func (f *fakeExposureRepository) AddMany(tx *sql.Tx, in []*model.SymbolFactorExposure) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range in {
		f.rows = append(f.rows, *row)
		f.betas = append(f.betas, domain.FactorBeta{
			Symbol:          row.Symbol,
			FactorName:      f.factorNames[row.FactorID],
			CalculationDate: row.CalculationDate,
			Beta:            row.BetaValue,
			RSquared:        row.RSquared,
			Observations:    int(row.Observations),
			Reliable:        row.QualityFlag == model.QualityFlag_Ok,
		})
	}
	return nil
}

func (f *fakeExposureRepository) GetManyOnDate(symbols []string, date time.Time) ([]domain.FactorBeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := map[string]bool{}
	for _, s := range symbols {
		wanted[s] = true
	}
	out := []domain.FactorBeta{}
	for _, b := range f.betas {
		if wanted[b.Symbol] && b.CalculationDate.Equal(date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeExposureRepository) ListForSymbol(symbol string, date time.Time) ([]model.SymbolFactorExposure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.SymbolFactorExposure{}
	for _, row := range f.rows {
		if row.Symbol == symbol && row.CalculationDate.Equal(date) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeExposureRepository) LatestCalculationDate(onOrBefore time.Time) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *time.Time
	for _, b := range f.betas {
		if b.CalculationDate.After(onOrBefore) {
			continue
		}
		if latest == nil || b.CalculationDate.After(*latest) {
			d := b.CalculationDate
			latest = &d
		}
	}
	return latest, nil
}

type fakePositionRepository struct {
	positions *domain.PortfolioPositions
}

func (f *fakePositionRepository) GetPositions(portfolioID uuid.UUID) (*domain.PortfolioPositions, error) {
	return f.positions, nil
}

type recordingEnqueuer struct {
	symbols []string
}

func (r *recordingEnqueuer) Enqueue(symbol string) {
	r.symbols = append(r.symbols, symbol)
}

func equity(symbol string, marketValue float64) domain.PositionWeight {
	return domain.PositionWeight{
		Symbol:      symbol,
		Quantity:    decimal.NewFromInt(1),
		MarketValue: decimal.NewFromFloat(marketValue),
	}
}

func storedBeta(symbol, factor string, date time.Time, beta float64) domain.FactorBeta {
	return domain.FactorBeta{
		Symbol:          symbol,
		FactorName:      factor,
		CalculationDate: date,
		Beta:            beta,
		Observations:    90,
		Reliable:        true,
	}
}

func Test_SymbolStoreBackend(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	portfolioID := uuid.New()

	t.Run("exposures are market-value weighted", func(t *testing.T) {
		backend := NewSymbolStoreBackend(&fakeExposureRepository{betas: []domain.FactorBeta{
			storedBeta("AAPL", "momentum", date, 0.8),
			storedBeta("MSFT", "momentum", date, 0.3),
		}})
		positions := &domain.PortfolioPositions{
			PortfolioID: portfolioID,
			Positions:   []domain.PositionWeight{equity("AAPL", 60_000), equity("MSFT", 40_000)},
		}

		out, err := backend.ComputeExposures(ctx, positions, date)
		require.NoError(t, err)
		require.InDelta(t, 0.6*0.8+0.4*0.3, out.Exposures["momentum"], 1e-12)
		require.False(t, out.Partial)
		require.False(t, out.FromCache)
	})

	t.Run("option delta scales the position's contribution", func(t *testing.T) {
		backend := NewSymbolStoreBackend(&fakeExposureRepository{betas: []domain.FactorBeta{
			storedBeta("AAPL", "market", date, 1.2),
		}})
		delta := 0.5
		call := equity("AAPL", 50_000)
		call.OptionDelta = &delta
		positions := &domain.PortfolioPositions{
			PortfolioID: portfolioID,
			Positions:   []domain.PositionWeight{call, equity("AAPL", 50_000)},
		}

		out, err := backend.ComputeExposures(ctx, positions, date)
		require.NoError(t, err)
		// 0.5 weight * 0.5 delta * 1.2 + 0.5 weight * 1.2
		require.InDelta(t, 0.9, out.Exposures["market"], 1e-12)
	})

	t.Run("short positions contribute negatively", func(t *testing.T) {
		backend := NewSymbolStoreBackend(&fakeExposureRepository{betas: []domain.FactorBeta{
			storedBeta("AAPL", "market", date, 1.0),
			storedBeta("SH", "market", date, 1.0),
		}})
		positions := &domain.PortfolioPositions{
			PortfolioID: portfolioID,
			Positions:   []domain.PositionWeight{equity("AAPL", 50_000), equity("SH", -50_000)},
		}

		out, err := backend.ComputeExposures(ctx, positions, date)
		require.NoError(t, err)
		require.InDelta(t, 0.0, out.Exposures["market"], 1e-12)
	})

	t.Run("symbols without factor data mark the result partial", func(t *testing.T) {
		backend := NewSymbolStoreBackend(&fakeExposureRepository{betas: []domain.FactorBeta{
			storedBeta("AAPL", "momentum", date, 0.8),
		}})
		positions := &domain.PortfolioPositions{
			PortfolioID: portfolioID,
			Positions:   []domain.PositionWeight{equity("AAPL", 60_000), equity("NEWCO", 40_000)},
		}

		out, err := backend.ComputeExposures(ctx, positions, date)
		require.NoError(t, err)
		require.True(t, out.Partial)
		require.Equal(t, []string{"NEWCO"}, out.MissingSymbols)
		// covered positions still aggregate
		require.InDelta(t, 0.6*0.8, out.Exposures["momentum"], 1e-12)
	})

	t.Run("flagged betas are excluded but the symbol is not missing", func(t *testing.T) {
		unreliable := storedBeta("IPO", "momentum", date, 99.0)
		unreliable.Reliable = false
		backend := NewSymbolStoreBackend(&fakeExposureRepository{betas: []domain.FactorBeta{
			storedBeta("AAPL", "momentum", date, 0.8),
			unreliable,
		}})
		positions := &domain.PortfolioPositions{
			PortfolioID: portfolioID,
			Positions:   []domain.PositionWeight{equity("AAPL", 60_000), equity("IPO", 40_000)},
		}

		out, err := backend.ComputeExposures(ctx, positions, date)
		require.NoError(t, err)
		require.False(t, out.Partial)
		require.InDelta(t, 0.6*0.8, out.Exposures["momentum"], 1e-12)
	})

	t.Run("empty store is an error, not a silent zero", func(t *testing.T) {
		backend := NewSymbolStoreBackend(&fakeExposureRepository{})
		positions := &domain.PortfolioPositions{
			PortfolioID: portfolioID,
			Positions:   []domain.PositionWeight{equity("AAPL", 60_000)},
		}

		_, err := backend.ComputeExposures(ctx, positions, date)
		require.ErrorContains(t, err, "no data")
	})
}

func Test_AggregatorService(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	portfolioID := uuid.New()

	newService := func(positions *domain.PortfolioPositions, betas []domain.FactorBeta) (AggregatorService, *cache.AggregationCache, *recordingEnqueuer, *fakePositionRepository) {
		c := cache.NewAggregationCache()
		enqueuer := &recordingEnqueuer{}
		positionRepo := &fakePositionRepository{positions: positions}
		service := NewAggregatorService(
			positionRepo,
			NewSymbolStoreBackend(&fakeExposureRepository{betas: betas}),
			c,
			enqueuer,
		)
		return service, c, enqueuer, positionRepo
	}

	t.Run("unchanged portfolio hits the cache", func(t *testing.T) {
		positions := &domain.PortfolioPositions{
			PortfolioID: portfolioID,
			Positions:   []domain.PositionWeight{equity("AAPL", 60_000)},
		}
		service, c, _, _ := newService(positions, []domain.FactorBeta{storedBeta("AAPL", "momentum", date, 0.8)})

		first, err := service.GetPortfolioExposures(ctx, portfolioID, date)
		require.NoError(t, err)
		require.False(t, first.FromCache)
		require.Equal(t, 1, c.Len())

		second, err := service.GetPortfolioExposures(ctx, portfolioID, date)
		require.NoError(t, err)
		require.True(t, second.FromCache)
		require.Equal(t, first.Exposures, second.Exposures)
	})

	t.Run("mutated portfolio recomputes", func(t *testing.T) {
		positions := &domain.PortfolioPositions{
			PortfolioID: portfolioID,
			Positions:   []domain.PositionWeight{equity("AAPL", 60_000)},
		}
		service, _, _, positionRepo := newService(positions, []domain.FactorBeta{storedBeta("AAPL", "momentum", date, 0.8)})

		_, err := service.GetPortfolioExposures(ctx, portfolioID, date)
		require.NoError(t, err)

		positionRepo.positions = &domain.PortfolioPositions{
			PortfolioID: portfolioID,
			Positions:   []domain.PositionWeight{equity("AAPL", 90_000)},
		}
		out, err := service.GetPortfolioExposures(ctx, portfolioID, date)
		require.NoError(t, err)
		require.False(t, out.FromCache)
	})

	t.Run("different as-of dates do not share a cache entry", func(t *testing.T) {
		positions := &domain.PortfolioPositions{
			PortfolioID: portfolioID,
			Positions:   []domain.PositionWeight{equity("AAPL", 60_000)},
		}
		service, c, _, _ := newService(positions, []domain.FactorBeta{storedBeta("AAPL", "momentum", date, 0.8)})

		_, err := service.GetPortfolioExposures(ctx, portfolioID, date)
		require.NoError(t, err)

		out, err := service.GetPortfolioExposures(ctx, portfolioID, date.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.False(t, out.FromCache)
		require.Equal(t, 2, c.Len())
	})

	t.Run("missing symbols are queued for onboarding", func(t *testing.T) {
		positions := &domain.PortfolioPositions{
			PortfolioID: portfolioID,
			Positions:   []domain.PositionWeight{equity("AAPL", 60_000), equity("NEWCO", 40_000)},
		}
		service, _, enqueuer, _ := newService(positions, []domain.FactorBeta{storedBeta("AAPL", "momentum", date, 0.8)})

		out, err := service.GetPortfolioExposures(ctx, portfolioID, date)
		require.NoError(t, err)
		require.True(t, out.Partial)
		require.Equal(t, []string{"NEWCO"}, enqueuer.symbols)
	})

	t.Run("empty portfolio is rejected", func(t *testing.T) {
		service, _, _, _ := newService(&domain.PortfolioPositions{PortfolioID: portfolioID}, nil)

		_, err := service.GetPortfolioExposures(ctx, portfolioID, date)
		require.ErrorContains(t, err, "no positions")
	})
}

type staticBackend struct {
	exposures map[string]float64
}

func (b staticBackend) ComputeExposures(ctx context.Context, positions *domain.PortfolioPositions, date time.Time) (*domain.PortfolioExposures, error) {
	return &domain.PortfolioExposures{
		PortfolioID: positions.PortfolioID.String(),
		Date:        date,
		Exposures:   b.exposures,
	}, nil
}

func Test_Comparator(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	positions := &domain.PortfolioPositions{
		PortfolioID: uuid.New(),
		Positions:   []domain.PositionWeight{equity("AAPL", 60_000)},
	}

	t.Run("agreement within tolerance", func(t *testing.T) {
		c := Comparator{
			Primary:   staticBackend{exposures: map[string]float64{"market": 1.0000}},
			Candidate: staticBackend{exposures: map[string]float64{"market": 1.0001}},
			Tolerance: 0.001,
		}
		out, err := c.Compare(ctx, positions, date)
		require.NoError(t, err)
		require.True(t, out.Matches)
		require.Empty(t, out.Diff)
	})

	t.Run("divergence beyond tolerance is reported", func(t *testing.T) {
		c := Comparator{
			Primary:   staticBackend{exposures: map[string]float64{"market": 1.0}},
			Candidate: staticBackend{exposures: map[string]float64{"market": 1.2}},
			Tolerance: 0.001,
		}
		out, err := c.Compare(ctx, positions, date)
		require.NoError(t, err)
		require.False(t, out.Matches)
		require.NotEmpty(t, out.Diff)
	})
}
