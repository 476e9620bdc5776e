// Package sim replays recommendation records against a fixed-investment
// policy and produces the portfolio value series.
package sim

import (
	"context"

	"github.com/rs/zerolog"

	apperrors "recfolio/internal/errors"
	"recfolio/internal/market"
	"recfolio/internal/models"
)

// PriceBook answers date-keyed price queries during a replay. A false
// second return means no bar exists for that symbol on that date, either
// because the date is a non-trading day or because the symbol has no
// history at all.
type PriceBook interface {
	Bar(ctx context.Context, symbol string, date models.Date) (models.Bar, bool)
	Days(ctx context.Context, symbol string) ([]models.Date, error)
}

// Book is a PriceBook backed by a market.Source. Histories are fetched
// lazily, once per symbol, over the book's date range; a symbol whose fetch
// fails is remembered and never retried within the run, keeping replays
// deterministic.
type Book struct {
	source     market.Source
	start, end models.Date
	histories  map[string]*market.History
	failed     map[string]bool
	log        zerolog.Logger
}

// NewBook builds a Book covering [start, end].
func NewBook(source market.Source, start, end models.Date, log zerolog.Logger) *Book {
	return &Book{
		source:    source,
		start:     start,
		end:       end,
		histories: make(map[string]*market.History),
		failed:    make(map[string]bool),
		log:       log,
	}
}

func (b *Book) history(ctx context.Context, symbol string) (*market.History, error) {
	if h, ok := b.histories[symbol]; ok {
		return h, nil
	}
	if b.failed[symbol] {
		return nil, apperrors.ErrNoHistory
	}
	h, err := b.source.History(ctx, symbol, b.start, b.end)
	if err != nil {
		b.failed[symbol] = true
		b.log.Warn().Str("symbol", symbol).Err(err).Msg("no historical data")
		return nil, err
	}
	b.histories[symbol] = h
	b.log.Debug().Str("symbol", symbol).Int("days", len(h.Days())).Msg("started tracking")
	return h, nil
}

// Bar implements PriceBook.
func (b *Book) Bar(ctx context.Context, symbol string, date models.Date) (models.Bar, bool) {
	h, err := b.history(ctx, symbol)
	if err != nil {
		return models.Bar{}, false
	}
	return h.On(date)
}

// Days implements PriceBook.
func (b *Book) Days(ctx context.Context, symbol string) ([]models.Date, error) {
	h, err := b.history(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return h.Days(), nil
}
