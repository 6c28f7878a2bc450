package repository

import (
	"context"
	"fmt"
	"riskfactors/internal/domain"
	"riskfactors/internal/logger"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// AlpacaRepository is the external price/position collaborator. Daily
// closes come back in one bulk call per run, never per symbol.
type AlpacaRepository interface {
	GetDailyCloses(ctx context.Context, symbols []string, date time.Time) (map[string]domain.AssetPrice, error)
	GetPositions() ([]alpaca.Position, error)
	IsMarketOpen() (bool, error)
}

func NewAlpacaRepository(apiKey, apiSecret string, endpoint string) AlpacaRepository {
	client := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:     apiKey,
		APISecret:  apiSecret,
		BaseURL:    endpoint,
		RetryLimit: 3,
	})

	mdClient := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return &alpacaRepositoryHandler{
		Client:   client,
		MdClient: mdClient,
	}
}

type alpacaRepositoryHandler struct {
	Client   *alpaca.Client
	MdClient *marketdata.Client
}

func (h alpacaRepositoryHandler) GetDailyCloses(ctx context.Context, symbols []string, date time.Time) (map[string]domain.AssetPrice, error) {
	log := logger.FromContext(ctx)
	if len(symbols) == 0 {
		return map[string]domain.AssetPrice{}, nil
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	bars, err := h.MdClient.GetMultiBars(symbols, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     dayStart,
		End:       dayStart.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily bars for %d symbols: %w", len(symbols), err)
	}

	out := map[string]domain.AssetPrice{}
	for symbol, symbolBars := range bars {
		if len(symbolBars) == 0 {
			continue
		}
		bar := symbolBars[len(symbolBars)-1]
		out[symbol] = domain.AssetPrice{
			Symbol: symbol,
			Date:   dayStart,
			Price:  bar.Close,
		}
	}

	if len(out) < len(symbols) {
		log.Warnf("daily bar fetch returned %d/%d symbols", len(out), len(symbols))
	}

	return out, nil
}

func (h alpacaRepositoryHandler) GetPositions() ([]alpaca.Position, error) {
	return h.Client.GetPositions()
}

func (h alpacaRepositoryHandler) IsMarketOpen() (bool, error) {
	clock, err := h.Client.GetClock()
	if err != nil {
		return false, err
	}
	return clock.IsOpen, nil
}
