package recfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"recfolio/internal/models"
)

func sampleRecords() []models.Recommendation {
	return []models.Recommendation{
		{Date: models.NewDate(2021, time.January, 4), Action: models.ActionBuy, Symbol: "AAPL", Name: "Apple Inc."},
		{Date: models.NewDate(2021, time.June, 1), Action: models.ActionSell, Symbol: "AAPL", Name: "Apple Inc."},
	}
}

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recs.csv")

	if err := Write(path, sampleRecords()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d records, want 2", len(got))
	}
	if got[0].Symbol != "AAPL" || got[0].Action != models.ActionBuy || got[0].Date.Key() != "2021-01-04" {
		t.Errorf("first record = %+v", got[0])
	}
}

func TestWriteColumnOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recs.csv")
	if err := Write(path, sampleRecords()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if strings.TrimSpace(header) != "date,action,symbol,name" {
		t.Errorf("header = %q, want date,action,symbol,name", header)
	}
}

func TestWriteOverwritesInFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recs.csv")
	if err := Write(path, sampleRecords()); err != nil {
		t.Fatalf("first write: %v", err)
	}
	// Second write with fewer records must not leave stale rows behind.
	if err := Write(path, sampleRecords()[:1]); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("read %d records after rewrite, want 1", len(got))
	}
}
