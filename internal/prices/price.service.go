package prices

import (
	"context"
	"database/sql"
	"fmt"
	"riskfactors/internal/db/models/postgres/public/model"
	"riskfactors/internal/domain"
	"riskfactors/internal/logger"
	"riskfactors/internal/repository"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

const ingestRetries = 3

// var so tests don't wait out real backoffs
var ingestRetryBackoff = 2 * time.Second

type PriceService interface {
	// IngestDailyCloses bulk-fetches one day of closes for all symbols
	// and commits them before returning. Retried with backoff; a final
	// failure here is a run-level failure for the caller.
	IngestDailyCloses(ctx context.Context, tx *sql.Tx, symbols []string, date time.Time) (int, error)
	// BackfillHistory loads daily history for one symbol from the quote
	// provider, used when onboarding symbols the universe has never seen.
	BackfillHistory(tx *sql.Tx, symbol string, start *time.Time) error
	GetReturnSeries(symbol string, end time.Time, windowDays int) (domain.ReturnSeries, error)
	GetReturnSeriesMany(symbols []string, end time.Time, windowDays int) (map[string]domain.ReturnSeries, error)
}

func NewPriceService(adjPriceRepository repository.AdjustedPriceRepository, alpacaRepository repository.AlpacaRepository) PriceService {
	return &priceServiceHandler{
		AdjPriceRepository: adjPriceRepository,
		AlpacaRepository:   alpacaRepository,
	}
}

type priceServiceHandler struct {
	AdjPriceRepository repository.AdjustedPriceRepository
	AlpacaRepository   repository.AlpacaRepository
}

func (h *priceServiceHandler) IngestDailyCloses(ctx context.Context, tx *sql.Tx, symbols []string, date time.Time) (int, error) {
	log := logger.FromContext(ctx)

	var (
		closes map[string]domain.AssetPrice
		err    error
	)
	for attempt := 0; attempt < ingestRetries; attempt++ {
		closes, err = h.AlpacaRepository.GetDailyCloses(ctx, symbols, date)
		if err == nil {
			break
		}
		log.Warnf("daily close fetch attempt %d/%d failed: %v", attempt+1, ingestRetries, err)
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(ingestRetryBackoff << attempt):
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to fetch daily closes after %d attempts: %w", ingestRetries, err)
	}

	models := []model.AdjustedPrice{}
	for _, p := range closes {
		models = append(models, model.AdjustedPrice{
			Symbol:    p.Symbol,
			Date:      p.Date,
			Price:     p.Price,
			CreatedAt: time.Now().UTC(),
		})
	}

	err = h.AdjPriceRepository.Add(tx, models)
	if err != nil {
		return 0, err
	}

	return len(models), nil
}

func (h *priceServiceHandler) BackfillHistory(tx *sql.Tx, symbol string, start *time.Time) error {
	s := time.Now().AddDate(-1, 0, -7)
	if start != nil {
		s = *start
	}
	now := time.Now()
	params := &chart.Params{
		Start:    datetime.New(&s),
		End:      datetime.New(&now),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	models := []model.AdjustedPrice{}

	for iter.Next() {
		models = append(models, model.AdjustedPrice{
			Symbol:    symbol,
			Date:      time.Unix(int64(iter.Bar().Timestamp), 0).UTC().Truncate(24 * time.Hour),
			Price:     iter.Bar().AdjClose.InexactFloat64(),
			CreatedAt: time.Now().UTC(),
		})
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}

	err := h.AdjPriceRepository.Add(tx, models)
	if err != nil {
		return err
	}

	return nil
}

func (h *priceServiceHandler) GetReturnSeries(symbol string, end time.Time, windowDays int) (domain.ReturnSeries, error) {
	start := calendarStart(end, windowDays)
	prices, err := h.AdjPriceRepository.List(symbol, start, end)
	if err != nil {
		return domain.ReturnSeries{}, err
	}

	series := domain.ReturnsFromPrices(prices)
	series.Symbol = symbol
	return trimToWindow(series, windowDays), nil
}

func (h *priceServiceHandler) GetReturnSeriesMany(symbols []string, end time.Time, windowDays int) (map[string]domain.ReturnSeries, error) {
	start := calendarStart(end, windowDays)
	priceMap, err := h.AdjPriceRepository.ListMany(symbols, start, end)
	if err != nil {
		return nil, err
	}

	out := map[string]domain.ReturnSeries{}
	for _, symbol := range symbols {
		series := domain.ReturnsFromPrices(priceMap[symbol])
		series.Symbol = symbol
		out[symbol] = trimToWindow(series, windowDays)
	}

	return out, nil
}

// calendarStart pads a trading-day window into calendar days; weekends
// and holidays mean ~252 trading days per 365.
func calendarStart(end time.Time, tradingDays int) time.Time {
	return end.AddDate(0, 0, -(tradingDays*3/2 + 7))
}

func trimToWindow(series domain.ReturnSeries, windowDays int) domain.ReturnSeries {
	if len(series.Values) <= windowDays {
		return series
	}
	start := len(series.Values) - windowDays
	return domain.ReturnSeries{
		Symbol: series.Symbol,
		Dates:  series.Dates[start:],
		Values: series.Values[start:],
	}
}
