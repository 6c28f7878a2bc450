package cache

import (
	"riskfactors/internal/domain"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func position(symbol string, quantity, marketValue float64) domain.PositionWeight {
	return domain.PositionWeight{
		Symbol:      symbol,
		Quantity:    decimal.NewFromFloat(quantity),
		MarketValue: decimal.NewFromFloat(marketValue),
	}
}

func Test_Fingerprint(t *testing.T) {
	t.Run("changing any quantity changes the key", func(t *testing.T) {
		a := []domain.PositionWeight{position("AAPL", 100, 15000), position("MSFT", 50, 20000)}
		b := []domain.PositionWeight{position("AAPL", 101, 15000), position("MSFT", 50, 20000)}

		require.NotEqual(t, Fingerprint(a), Fingerprint(b))
	})

	t.Run("position order does not matter", func(t *testing.T) {
		a := []domain.PositionWeight{position("AAPL", 100, 15000), position("MSFT", 50, 20000)}
		b := []domain.PositionWeight{position("MSFT", 50, 20000), position("AAPL", 100, 15000)}

		require.Equal(t, Fingerprint(a), Fingerprint(b))
	})

	t.Run("option delta is part of the content", func(t *testing.T) {
		delta := 0.5
		a := []domain.PositionWeight{position("AAPL", 100, 15000)}
		withDelta := position("AAPL", 100, 15000)
		withDelta.OptionDelta = &delta

		require.NotEqual(t, Fingerprint(a), Fingerprint([]domain.PositionWeight{withDelta}))
	})
}

func Test_AggregationCache(t *testing.T) {
	portfolioID := uuid.New()
	key := Key{PortfolioID: portfolioID, Kind: KindFactorExposures, Fingerprint: "abc"}
	value := domain.PortfolioExposures{Exposures: map[string]float64{"momentum": 0.6}}

	t.Run("put then get", func(t *testing.T) {
		c := NewAggregationCache()
		c.Put(key, value, time.Minute)

		got, ok := c.Get(key)
		require.True(t, ok)
		require.Equal(t, value, got.(domain.PortfolioExposures))
	})

	t.Run("expired entries miss", func(t *testing.T) {
		c := NewAggregationCache()
		c.Put(key, value, time.Nanosecond)
		time.Sleep(time.Millisecond)

		_, ok := c.Get(key)
		require.False(t, ok)
		require.Zero(t, c.Len())
	})

	t.Run("mutated portfolio never hits the stale entry", func(t *testing.T) {
		c := NewAggregationCache()
		positions := []domain.PositionWeight{position("AAPL", 100, 15000)}
		oldKey := Key{PortfolioID: portfolioID, Kind: KindFactorExposures, Fingerprint: Fingerprint(positions)}
		c.Put(oldKey, value, time.Minute)

		mutated := []domain.PositionWeight{position("AAPL", 120, 18000)}
		newKey := Key{PortfolioID: portfolioID, Kind: KindFactorExposures, Fingerprint: Fingerprint(mutated)}

		_, ok := c.Get(newKey)
		require.False(t, ok)
	})

	t.Run("invalidate removes only that portfolio", func(t *testing.T) {
		c := NewAggregationCache()
		other := Key{PortfolioID: uuid.New(), Kind: KindFactorExposures, Fingerprint: "def"}
		c.Put(key, value, time.Minute)
		c.Put(other, value, time.Minute)

		c.Invalidate(portfolioID)

		_, ok := c.Get(key)
		require.False(t, ok)
		_, ok = c.Get(other)
		require.True(t, ok)
	})

	t.Run("invalidate all empties the cache", func(t *testing.T) {
		c := NewAggregationCache()
		c.Put(key, value, time.Minute)
		c.InvalidateAll()
		require.Zero(t, c.Len())
	})
}
