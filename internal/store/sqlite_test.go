package store

import (
	"path/filepath"
	"testing"
	"time"

	"recfolio/internal/models"
)

func testStore(t *testing.T) *PriceStore {
	t.Helper()
	s, err := NewPriceStore(filepath.Join(t.TempDir(), "prices.db"))
	if err != nil {
		t.Fatalf("NewPriceStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func day(d int) models.Date {
	return models.NewDate(2021, time.March, d)
}

func bar(day int, close float64) models.Bar {
	return models.Bar{
		Date:     models.NewDate(2021, time.March, day),
		Open:     close - 1,
		High:     close + 1,
		Low:      close - 2,
		Close:    close,
		AdjClose: close,
		Volume:   1000,
	}
}

func TestSaveAndLoadBars(t *testing.T) {
	s := testStore(t)

	in := []models.Bar{bar(1, 100), bar(2, 101), bar(3, 99)}
	if err := s.SaveBars("AAPL", day(1), day(3), in); err != nil {
		t.Fatalf("SaveBars: %v", err)
	}

	out, err := s.LoadBars("AAPL")
	if err != nil {
		t.Fatalf("LoadBars: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("loaded %d bars, want 3", len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("bar %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestSaveBarsUpsertsDuplicates(t *testing.T) {
	s := testStore(t)

	if err := s.SaveBars("AAPL", day(1), day(1), []models.Bar{bar(1, 100)}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.SaveBars("AAPL", day(1), day(1), []models.Bar{bar(1, 105)}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	out, err := s.LoadBars("AAPL")
	if err != nil {
		t.Fatalf("LoadBars: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("loaded %d bars, want 1 after upsert", len(out))
	}
	if out[0].Close != 105 {
		t.Errorf("close = %v, want updated value 105", out[0].Close)
	}
}

func TestCoverage(t *testing.T) {
	s := testStore(t)

	_, _, ok, err := s.Coverage("AAPL")
	if err != nil {
		t.Fatalf("Coverage on empty store: %v", err)
	}
	if ok {
		t.Fatal("expected no coverage for unknown symbol")
	}

	// Requested March 1-7; the provider only has bars on the 2nd and 5th.
	// Coverage must reflect the request, not the bar dates.
	if err := s.SaveBars("AAPL", day(1), day(7), []models.Bar{bar(2, 100), bar(5, 101)}); err != nil {
		t.Fatalf("SaveBars: %v", err)
	}

	first, last, ok, err := s.Coverage("AAPL")
	if err != nil {
		t.Fatalf("Coverage: %v", err)
	}
	if !ok {
		t.Fatal("expected coverage after save")
	}
	if first.Key() != "2021-03-01" || last.Key() != "2021-03-07" {
		t.Errorf("coverage = [%s, %s], want requested [2021-03-01, 2021-03-07]", first.Key(), last.Key())
	}
}

func TestCoverageWidensOnOverlap(t *testing.T) {
	s := testStore(t)

	if err := s.SaveBars("AAPL", day(3), day(5), []models.Bar{bar(3, 100)}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.SaveBars("AAPL", day(1), day(4), []models.Bar{bar(2, 101)}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	first, last, ok, err := s.Coverage("AAPL")
	if err != nil || !ok {
		t.Fatalf("Coverage: ok=%v err=%v", ok, err)
	}
	if first.Key() != "2021-03-01" || last.Key() != "2021-03-05" {
		t.Errorf("coverage = [%s, %s], want widened [2021-03-01, 2021-03-05]", first.Key(), last.Key())
	}
}

func TestLoadBarsUnknownSymbol(t *testing.T) {
	s := testStore(t)
	out, err := s.LoadBars("NOPE")
	if err != nil {
		t.Fatalf("LoadBars: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("loaded %d bars for unknown symbol", len(out))
	}
}
