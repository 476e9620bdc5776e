package sim

import (
	apperrors "recfolio/internal/errors"
	"recfolio/internal/models"
)

// OrphanSell records a sell or reduce on a symbol that had no open
// position. Tolerated: the recommendation window may simply not contain
// the matching buy.
type OrphanSell struct {
	Symbol string
	Date   models.Date
	Action models.Action
}

// Report accumulates every non-fatal condition of one simulation run.
// Nothing recorded here aborts a replay.
type Report struct {
	Processed        int
	Skipped          int
	PriceUnavailable []*apperrors.PriceError
	OrphanSells      []OrphanSell
	MissedValuations []*apperrors.PriceError
}

func (r *Report) priceUnavailable(symbol string, date models.Date, err error) {
	r.Skipped++
	r.PriceUnavailable = append(r.PriceUnavailable, apperrors.NewPriceError(symbol, date.Time, err))
}

func (r *Report) orphanSell(symbol string, date models.Date, action models.Action) {
	r.Skipped++
	r.OrphanSells = append(r.OrphanSells, OrphanSell{Symbol: symbol, Date: date, Action: action})
}

func (r *Report) missedValuation(symbol string, date models.Date) {
	r.MissedValuations = append(r.MissedValuations, apperrors.NewPriceError(symbol, date.Time, apperrors.ErrPriceUnavailable))
}

// Clean reports whether the run completed without any skipped events.
func (r *Report) Clean() bool {
	return r.Skipped == 0 && len(r.MissedValuations) == 0
}
