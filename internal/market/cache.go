package market

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"recfolio/internal/models"
	"recfolio/internal/store"
)

// CachedSource is a read-through cache in front of another Source. Full
// histories are persisted to the price store on first fetch and served from
// SQLite afterwards, so re-running a simulation does not hammer the
// provider.
type CachedSource struct {
	inner  Source
	store  *store.PriceStore
	maxAge time.Duration
	log    zerolog.Logger
}

// NewCachedSource wraps inner with the given price store. Cached histories
// older than maxAge are refetched; maxAge <= 0 means cached data never
// expires.
func NewCachedSource(inner Source, ps *store.PriceStore, maxAge time.Duration, log zerolog.Logger) *CachedSource {
	return &CachedSource{inner: inner, store: ps, maxAge: maxAge, log: log}
}

// History serves bars from the cache when the cached range covers
// [start, end], fetching and persisting from the inner source otherwise.
func (c *CachedSource) History(ctx context.Context, symbol string, start, end models.Date) (*History, error) {
	first, last, ok, err := c.store.Coverage(symbol)
	if err != nil {
		return nil, err
	}
	if ok && !first.After(start) && !last.Before(end) && !c.stale(symbol) {
		bars, err := c.store.LoadBars(symbol)
		if err != nil {
			return nil, err
		}
		c.log.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("price cache hit")
		return NewHistory(symbol, clipRange(bars, start, end))
	}

	h, err := c.inner.History(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	all := make([]models.Bar, 0, len(h.days))
	for _, d := range h.days {
		b, _ := h.On(d)
		all = append(all, b)
	}
	if err := c.store.SaveBars(symbol, start, end, all); err != nil {
		// Cache writes are best effort; the fetched history is still good.
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("failed to cache bars")
	} else {
		c.log.Debug().Str("symbol", symbol).Int("bars", len(all)).Msg("cached bars")
	}
	return h, nil
}

func (c *CachedSource) stale(symbol string) bool {
	if c.maxAge <= 0 {
		return false
	}
	age, ok, err := c.store.Age(symbol)
	if err != nil || !ok {
		return true
	}
	return age > c.maxAge
}

func clipRange(bars []models.Bar, start, end models.Date) []models.Bar {
	out := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}
