package market

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	apperrors "recfolio/internal/errors"
	"recfolio/internal/models"
	"recfolio/pkg/utils"
)

// YahooSource fetches daily bars from Yahoo Finance.
type YahooSource struct{}

// NewYahooSource creates a Yahoo Finance backed Source.
func NewYahooSource() *YahooSource {
	return &YahooSource{}
}

// History fetches daily bars for symbol between start and end inclusive.
// A symbol with no data at all yields ErrNoHistory.
func (y *YahooSource) History(ctx context.Context, symbol string, start, end models.Date) (*History, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := start.Time
	// chart.Get treats End as exclusive
	e := end.Time.AddDate(0, 0, 1)
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&s),
		End:      datetime.New(&e),
		Interval: datetime.OneDay,
	}

	bars, err := utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() ([]models.Bar, error) {
		var out []models.Bar
		iter := chart.Get(params)
		for iter.Next() {
			b := iter.Bar()
			t := time.Unix(int64(b.Timestamp), 0).UTC()
			out = append(out, models.Bar{
				Date:     models.NewDate(t.Year(), t.Month(), t.Day()),
				Open:     b.Open.InexactFloat64(),
				High:     b.High.InexactFloat64(),
				Low:      b.Low.InexactFloat64(),
				Close:    b.Close.InexactFloat64(),
				AdjClose: b.AdjClose.InexactFloat64(),
				Volume:   int64(b.Volume),
			})
		}
		if err := iter.Err(); err != nil {
			return nil, fmt.Errorf("fetching history for %s: %w", symbol, err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, apperrors.ErrNoHistory)
	}

	return NewHistory(symbol, bars)
}
