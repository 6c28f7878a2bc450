package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"riskfactors/internal/domain"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultTTL = 24 * time.Hour

type Kind string

const (
	KindFactorExposures Kind = "factor_exposures"
	KindStressInputs    Kind = "stress_inputs"
)

type Key struct {
	PortfolioID uuid.UUID
	Kind        Kind
	// AsOf is the requested as-of day, normalized to UTC midnight so
	// requests for different historical dates never share an entry.
	AsOf        time.Time
	Fingerprint string
}

// Fingerprint hashes the portfolio's position contents. Any change to a
// symbol, quantity or market value produces a different key, so a hit is
// only possible when nothing relevant has changed.
func Fingerprint(positions []domain.PositionWeight) string {
	parts := make([]string, 0, len(positions))
	for _, p := range positions {
		delta := ""
		if p.OptionDelta != nil {
			delta = strconv.FormatFloat(*p.OptionDelta, 'f', -1, 64)
		}
		parts = append(parts, p.Symbol+"|"+p.Quantity.String()+"|"+p.MarketValue.String()+"|"+delta)
	}
	sort.Strings(parts)

	hash := sha256.Sum256([]byte(strings.Join(parts, ";")))
	return hex.EncodeToString(hash[:])
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// AggregationCache holds computed portfolio aggregates in-process. It is
// content-addressed, so InvalidateAll after a universe recompute frees
// storage and forces recomputation but is not needed for correctness.
type AggregationCache struct {
	mu      sync.RWMutex
	entries map[Key]entry
}

func NewAggregationCache() *AggregationCache {
	return &AggregationCache{
		entries: map[Key]entry{},
	}
}

func (c *AggregationCache) Get(key Key) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Put stores the value, superseding any previous entry under the same
// key rather than accumulating versions.
func (c *AggregationCache) Put(key Key, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *AggregationCache) Invalidate(portfolioID uuid.UUID) {
	c.mu.Lock()
	for key := range c.entries {
		if key.PortfolioID == portfolioID {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// InvalidateMissingSymbol drops cached partial results that were
// computed while the given symbol had no factor data. Once the symbol
// finishes onboarding those entries would otherwise keep serving the
// partial aggregation until their fingerprint changed or they expired.
func (c *AggregationCache) InvalidateMissingSymbol(symbol string) {
	c.mu.Lock()
	for key, e := range c.entries {
		exposures, ok := e.value.(domain.PortfolioExposures)
		if !ok {
			continue
		}
		for _, missing := range exposures.MissingSymbols {
			if missing == symbol {
				delete(c.entries, key)
				break
			}
		}
	}
	c.mu.Unlock()
}

func (c *AggregationCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = map[Key]entry{}
	c.mu.Unlock()
}

func (c *AggregationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
