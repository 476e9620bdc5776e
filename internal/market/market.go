// Package market provides daily historical price data for symbols.
package market

import (
	"context"
	"fmt"
	"sort"

	"recfolio/internal/models"
)

// History is a symbol's daily bars indexed by date, with the trading days
// kept in ascending order. Dates with no entry are non-trading days or gaps
// in the provider's data.
type History struct {
	Symbol string
	bars   map[string]models.Bar
	days   []models.Date
}

// NewHistory builds a History from bars. Duplicate dates are rejected: the
// replay depends on one bar per day.
func NewHistory(symbol string, bars []models.Bar) (*History, error) {
	h := &History{
		Symbol: symbol,
		bars:   make(map[string]models.Bar, len(bars)),
		days:   make([]models.Date, 0, len(bars)),
	}
	for _, b := range bars {
		key := b.Date.Key()
		if _, exists := h.bars[key]; exists {
			return nil, fmt.Errorf("duplicate date %s in history for %s", key, symbol)
		}
		h.bars[key] = b
		h.days = append(h.days, b.Date)
	}
	sort.Slice(h.days, func(i, j int) bool { return h.days[i].Before(h.days[j]) })
	return h, nil
}

// On returns the bar for an exact date, if one exists.
func (h *History) On(date models.Date) (models.Bar, bool) {
	b, ok := h.bars[date.Key()]
	return b, ok
}

// Days returns the trading days in ascending order. Callers must not
// mutate the returned slice.
func (h *History) Days() []models.Date {
	return h.days
}

// Empty reports whether the history holds no bars.
func (h *History) Empty() bool {
	return len(h.days) == 0
}

// Source fetches daily history for a symbol over a date range.
type Source interface {
	History(ctx context.Context, symbol string, start, end models.Date) (*History, error)
}
