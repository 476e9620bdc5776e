package sim

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"recfolio/internal/models"
)

var propSymbols = []string{"AAPL", "MSFT", "GOOG", "AMZN", "NFLX"}

var propActions = []models.Action{
	models.ActionBuy, models.ActionSell, models.ActionHold, models.ActionReduce,
}

// propBook builds a book with a flat price per symbol on every day of
// January 2021, so every generated record has price data.
func propBook() *fakeBook {
	book := newFakeBook()
	for i, symbol := range propSymbols {
		price := float64(50 + 25*i)
		for day := 1; day <= 31; day++ {
			book.set(symbol, models.NewDate(2021, time.January, day), price)
		}
	}
	return book
}

// recGen generates a recommendation on a January 2021 day.
func recGen() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(1, 31),
		gen.IntRange(0, len(propSymbols)-1),
		gen.IntRange(0, len(propActions)-1),
	).Map(func(vals []interface{}) models.Recommendation {
		return models.Recommendation{
			Date:   models.NewDate(2021, time.January, vals[0].(int)),
			Action: propActions[vals[2].(int)],
			Symbol: propSymbols[vals[1].(int)],
		}
	})
}

// Property: every replay emits exactly one snapshot per processed record,
// and snapshot dates never decrease.
func TestProperty_OneSnapshotPerProcessedRecord(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("one snapshot per processed record, non-decreasing dates", prop.ForAll(
		func(records []models.Recommendation) bool {
			snapshots, report, err := testSimulator().Replay(context.Background(), records, propBook())
			if err != nil {
				return false
			}
			if len(snapshots) != report.Processed {
				return false
			}
			if report.Processed+report.Skipped != len(records) {
				return false
			}
			for i := 1; i < len(snapshots); i++ {
				if snapshots[i].Date.Before(snapshots[i-1].Date) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(recGen()),
	))

	properties.TestingRun(t)
}

// Property: replaying the same sequence twice yields identical snapshots.
func TestProperty_ReplayIsDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("identical snapshots on repeated replay", prop.ForAll(
		func(records []models.Recommendation) bool {
			first, _, err1 := testSimulator().Replay(context.Background(), records, propBook())
			second, _, err2 := testSimulator().Replay(context.Background(), records, propBook())
			if err1 != nil || err2 != nil {
				return false
			}
			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i] != second[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(recGen()),
	))

	properties.TestingRun(t)
}

// Property: a sell on an open position of S shares at price p raises total
// value by nothing (liquidation at the valuation price is value-neutral)
// and removes the symbol, so a later sell on the same symbol is orphaned.
func TestProperty_SellLiquidatesFully(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("sell realizes shares*price and empties the position", prop.ForAll(
		func(symbolIdx, buyDay int) bool {
			symbol := propSymbols[symbolIdx]
			sellDay := buyDay + 1
			records := []models.Recommendation{
				{Date: models.NewDate(2021, time.January, buyDay), Action: models.ActionBuy, Symbol: symbol},
				{Date: models.NewDate(2021, time.January, sellDay), Action: models.ActionSell, Symbol: symbol},
				{Date: models.NewDate(2021, time.January, sellDay), Action: models.ActionSell, Symbol: symbol},
			}
			snapshots, report, err := testSimulator().Replay(context.Background(), records, propBook())
			if err != nil {
				return false
			}
			// First sell processed, second orphaned.
			if len(snapshots) != 2 || len(report.OrphanSells) != 1 {
				return false
			}
			// Flat prices: liquidation realizes exactly the invested amount.
			return almostEqual(snapshots[1].TotalValue, 10000)
		},
		gen.IntRange(0, len(propSymbols)-1),
		gen.IntRange(1, 30),
	))

	properties.TestingRun(t)
}
