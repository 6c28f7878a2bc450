package prices

import (
	"context"
	"database/sql"
	"errors"
	"riskfactors/internal/db/models/postgres/public/model"
	"riskfactors/internal/domain"
	mock_repository "riskfactors/internal/repository/mocks"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_IngestDailyCloses(t *testing.T) {
	restore := ingestRetryBackoff
	ingestRetryBackoff = time.Millisecond
	defer func() { ingestRetryBackoff = restore }()

	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	symbols := []string{"AAPL", "SPY"}
	closes := map[string]domain.AssetPrice{
		"AAPL": {Symbol: "AAPL", Date: date, Price: 231.5},
		"SPY":  {Symbol: "SPY", Date: date, Price: 642.1},
	}

	t.Run("writes every fetched close", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		alpacaRepository := mock_repository.NewMockAlpacaRepository(ctrl)
		adjPriceRepository := mock_repository.NewMockAdjustedPriceRepository(ctrl)

		alpacaRepository.EXPECT().
			GetDailyCloses(gomock.Any(), symbols, date).
			Return(closes, nil)
		adjPriceRepository.EXPECT().
			Add(gomock.Any(), gomock.Any()).
			DoAndReturn(func(tx *sql.Tx, models []model.AdjustedPrice) error {
				require.Len(t, models, 2)
				return nil
			})

		service := NewPriceService(adjPriceRepository, alpacaRepository)
		n, err := service.IngestDailyCloses(context.Background(), nil, symbols, date)
		require.NoError(t, err)
		require.Equal(t, 2, n)
	})

	t.Run("transient fetch failures are retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		alpacaRepository := mock_repository.NewMockAlpacaRepository(ctrl)
		adjPriceRepository := mock_repository.NewMockAdjustedPriceRepository(ctrl)

		gomock.InOrder(
			alpacaRepository.EXPECT().
				GetDailyCloses(gomock.Any(), symbols, date).
				Return(nil, errors.New("rate limited")),
			alpacaRepository.EXPECT().
				GetDailyCloses(gomock.Any(), symbols, date).
				Return(closes, nil),
		)
		adjPriceRepository.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil)

		service := NewPriceService(adjPriceRepository, alpacaRepository)
		n, err := service.IngestDailyCloses(context.Background(), nil, symbols, date)
		require.NoError(t, err)
		require.Equal(t, 2, n)
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		alpacaRepository := mock_repository.NewMockAlpacaRepository(ctrl)
		adjPriceRepository := mock_repository.NewMockAdjustedPriceRepository(ctrl)

		alpacaRepository.EXPECT().
			GetDailyCloses(gomock.Any(), symbols, date).
			Return(nil, errors.New("outage")).
			Times(3)

		service := NewPriceService(adjPriceRepository, alpacaRepository)
		_, err := service.IngestDailyCloses(context.Background(), nil, symbols, date)
		require.ErrorContains(t, err, "after 3 attempts")
	})
}

func Test_GetReturnSeries(t *testing.T) {
	ctrl := gomock.NewController(t)
	alpacaRepository := mock_repository.NewMockAlpacaRepository(ctrl)
	adjPriceRepository := mock_repository.NewMockAdjustedPriceRepository(ctrl)

	end := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	adjPriceRepository.EXPECT().
		List("AAPL", gomock.Any(), end).
		Return([]domain.AssetPrice{
			{Symbol: "AAPL", Date: end.AddDate(0, 0, -3), Price: 100},
			{Symbol: "AAPL", Date: end.AddDate(0, 0, -2), Price: 110},
			{Symbol: "AAPL", Date: end.AddDate(0, 0, -1), Price: 99},
			{Symbol: "AAPL", Date: end, Price: 108.9},
		}, nil)

	service := NewPriceService(adjPriceRepository, alpacaRepository)
	series, err := service.GetReturnSeries("AAPL", end, 2)
	require.NoError(t, err)

	require.Equal(t, "AAPL", series.Symbol)
	// 3 daily returns trimmed to the requested 2-day window
	require.Len(t, series.Values, 2)
	require.InDelta(t, -0.1, series.Values[0], 1e-12)
	require.InDelta(t, 0.1, series.Values[1], 1e-12)
}
