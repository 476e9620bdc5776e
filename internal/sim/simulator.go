package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	apperrors "recfolio/internal/errors"
	"recfolio/internal/models"
)

// Simulator replays recommendation records against a fixed per-buy
// investment. Fills are conservative: buys execute at the day's high,
// sells at the day's low. Valuation uses the close, or the dividend-
// adjusted close when AdjustedClose is set.
type Simulator struct {
	Investment    float64
	Benchmark     string
	AdjustedClose bool
	Log           zerolog.Logger
}

// portfolio is the mutable state of one run, owned exclusively by it.
type portfolio struct {
	holdings map[string]*models.Position
	realized float64 // cumulative proceeds from closed positions
	invested float64 // cumulative capital deployed on buys
}

func newPortfolio() *portfolio {
	return &portfolio{holdings: make(map[string]*models.Position)}
}

// symbols returns held symbols in sorted order so valuation sums are
// reproducible bit for bit.
func (p *portfolio) symbols() []string {
	out := make([]string, 0, len(p.holdings))
	for s := range p.holdings {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (s *Simulator) valuationPrice(b models.Bar) float64 {
	if s.AdjustedClose && b.AdjClose > 0 {
		return b.AdjClose
	}
	return b.Close
}

// applyRecord mutates the portfolio for one record, filling at execDate's
// prices. Replay executes on the record's own date; DailySeries executes on
// the first trading day after it. It returns false when the record was
// skipped (missing price, non-positive price, orphan sell); the reason
// lands in the report.
func (s *Simulator) applyRecord(ctx context.Context, p *portfolio, rec models.Recommendation, execDate models.Date, book PriceBook, rep *Report) bool {
	switch rec.Action {
	case models.ActionBuy:
		bar, ok := book.Bar(ctx, rec.Symbol, execDate)
		if !ok {
			rep.priceUnavailable(rec.Symbol, execDate, apperrors.ErrPriceUnavailable)
			s.Log.Warn().Str("symbol", rec.Symbol).Str("date", execDate.Key()).Msg("no price for buy, skipping")
			return false
		}
		if bar.High <= 0 {
			rep.priceUnavailable(rec.Symbol, execDate, fmt.Errorf("non-positive price %v", bar.High))
			s.Log.Warn().Str("symbol", rec.Symbol).Str("date", execDate.Key()).Msg("non-positive price for buy, skipping")
			return false
		}
		shares := s.Investment / bar.High
		pos, open := p.holdings[rec.Symbol]
		if !open {
			pos = &models.Position{Symbol: rec.Symbol}
			p.holdings[rec.Symbol] = pos
		}
		pos.Shares += shares
		pos.CostBasis += s.Investment
		p.invested += s.Investment
		s.Log.Info().Str("symbol", rec.Symbol).Str("date", execDate.Key()).
			Float64("shares", shares).Float64("price", bar.High).Float64("total_shares", pos.Shares).
			Msg("bought")
		return true

	case models.ActionSell:
		pos, open := p.holdings[rec.Symbol]
		if !open {
			rep.orphanSell(rec.Symbol, execDate, rec.Action)
			s.Log.Warn().Str("symbol", rec.Symbol).Str("date", execDate.Key()).Msg("sell with no open position, skipping")
			return false
		}
		bar, ok := book.Bar(ctx, rec.Symbol, execDate)
		if !ok || bar.Low <= 0 {
			rep.priceUnavailable(rec.Symbol, execDate, apperrors.ErrPriceUnavailable)
			s.Log.Warn().Str("symbol", rec.Symbol).Str("date", execDate.Key()).Msg("no price for sell, skipping")
			return false
		}
		proceeds := pos.Shares * bar.Low
		p.realized += proceeds
		delete(p.holdings, rec.Symbol)
		s.Log.Info().Str("symbol", rec.Symbol).Str("date", execDate.Key()).
			Float64("shares", pos.Shares).Float64("price", bar.Low).Float64("proceeds", proceeds).
			Msg("position closed")
		return true

	case models.ActionReduce:
		pos, open := p.holdings[rec.Symbol]
		if !open {
			rep.orphanSell(rec.Symbol, execDate, rec.Action)
			s.Log.Warn().Str("symbol", rec.Symbol).Str("date", execDate.Key()).Msg("reduce with no open position, skipping")
			return false
		}
		bar, ok := book.Bar(ctx, rec.Symbol, execDate)
		if !ok || bar.Low <= 0 {
			rep.priceUnavailable(rec.Symbol, execDate, apperrors.ErrPriceUnavailable)
			s.Log.Warn().Str("symbol", rec.Symbol).Str("date", execDate.Key()).Msg("no price for reduce, skipping")
			return false
		}
		half := pos.Shares / 2
		p.realized += half * bar.Low
		pos.Shares -= half
		pos.CostBasis /= 2
		s.Log.Info().Str("symbol", rec.Symbol).Str("date", execDate.Key()).
			Float64("sold", half).Float64("remaining", pos.Shares).
			Msg("position reduced")
		return true

	case models.ActionHold:
		return true
	}

	// Unknown actions cannot reach here through the parser; treat like Hold.
	return true
}

// value marks the portfolio to market on a date: realized cash plus every
// open position at that day's valuation price. Positions with no bar on
// the date contribute nothing that day and are reported.
func (s *Simulator) value(ctx context.Context, p *portfolio, date models.Date, book PriceBook, rep *Report) float64 {
	total := p.realized
	for _, symbol := range p.symbols() {
		pos := p.holdings[symbol]
		bar, ok := book.Bar(ctx, symbol, date)
		if !ok {
			rep.missedValuation(symbol, date)
			continue
		}
		total += pos.Shares * s.valuationPrice(bar)
	}
	return total
}

// Replay processes records in chronological order (stable on date ties)
// and returns one value snapshot per processed record. Skipped records
// produce no snapshot; every skip is accounted for in the report. The
// replay is a single deterministic pass.
func (s *Simulator) Replay(ctx context.Context, records []models.Recommendation, book PriceBook) ([]models.Snapshot, *Report, error) {
	ordered := make([]models.Recommendation, len(records))
	copy(ordered, records)
	models.SortRecommendations(ordered)

	p := newPortfolio()
	rep := &Report{}
	snapshots := make([]models.Snapshot, 0, len(ordered))

	for _, rec := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if !s.applyRecord(ctx, p, rec, rec.Date, book, rep) {
			continue
		}
		rep.Processed++
		snapshots = append(snapshots, models.Snapshot{
			Date:       rec.Date,
			TotalValue: s.value(ctx, p, rec.Date, book, rep),
		})
	}

	return snapshots, rep, nil
}

// DailySeries walks the benchmark's trading days across [start, end],
// applying each record on the first trading day after its issue date, and
// emits one point per day: cumulative investment, strategy value, and the
// value of the same buy cash flows put into the benchmark instead.
func (s *Simulator) DailySeries(ctx context.Context, records []models.Recommendation, book PriceBook, start, end models.Date) ([]models.DailyPoint, *Report, error) {
	days, err := book.Days(ctx, s.Benchmark)
	if err != nil {
		return nil, nil, fmt.Errorf("benchmark %s: %w", s.Benchmark, err)
	}

	pending := make([]models.Recommendation, 0, len(records))
	for _, rec := range records {
		if !rec.Date.Before(start) {
			pending = append(pending, rec)
		}
	}
	models.SortRecommendations(pending)

	p := newPortfolio()
	rep := &Report{}
	var benchShares float64
	points := make([]models.DailyPoint, 0, len(days))

	for i, day := range days {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if day.Before(start) {
			continue
		}
		if day.After(end) {
			break
		}

		for len(pending) > 0 && pending[0].Date.Before(day) {
			rec := pending[0]
			pending = pending[1:]
			executed := s.applyRecord(ctx, p, rec, day, book, rep)
			if executed {
				rep.Processed++
			}
			// Mirror the cash deployed on each executed buy into the
			// benchmark at the same day's fill price.
			if executed && rec.Action == models.ActionBuy {
				if benchBar, ok := book.Bar(ctx, s.Benchmark, day); ok && benchBar.High > 0 {
					benchShares += s.Investment / benchBar.High
				}
			}
		}

		portfolioValue := s.value(ctx, p, day, book, rep)
		var benchValue float64
		if benchBar, ok := book.Bar(ctx, s.Benchmark, day); ok {
			benchValue = benchShares * s.valuationPrice(benchBar)
		}

		points = append(points, models.DailyPoint{
			Date:           day,
			Invested:       p.invested,
			PortfolioValue: portfolioValue,
			BenchmarkValue: benchValue,
		})

		if i == len(days)-1 || days[i+1].Month() != day.Month() {
			s.logMonthEnd(ctx, p, day, book, benchValue)
		}
	}

	// Records dated on or after the last walked trading day never get an
	// execution day; account for them so processed+skipped covers every
	// record in the window.
	for _, rec := range pending {
		rep.priceUnavailable(rec.Symbol, rec.Date, fmt.Errorf("no trading day after %s in the simulation window", rec.Date.Key()))
		s.Log.Warn().Str("symbol", rec.Symbol).Str("date", rec.Date.Key()).Msg("no trading day left to execute record, skipping")
	}

	return points, rep, nil
}

// logMonthEnd writes the original month-end portfolio breakdown at info
// level.
func (s *Simulator) logMonthEnd(ctx context.Context, p *portfolio, day models.Date, book PriceBook, benchValue float64) {
	ev := s.Log.Info().Str("date", day.Key()).Float64("realized_cash", p.realized).Float64("benchmark_value", benchValue)
	total := p.realized
	for _, symbol := range p.symbols() {
		if bar, ok := book.Bar(ctx, symbol, day); ok {
			amount := p.holdings[symbol].Shares * s.valuationPrice(bar)
			ev = ev.Float64(symbol, amount)
			total += amount
		}
	}
	ev.Float64("total_value", total).Msg("end of month portfolio")
}
