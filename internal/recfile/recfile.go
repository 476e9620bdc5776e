// Package recfile reads and writes the intermediate recommendations CSV.
// The file is always rewritten in full, never appended to, so re-running
// extraction on the same PDF is idempotent.
package recfile

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"recfolio/internal/models"
)

// Write overwrites path with one row per record, in the order given.
// Column order is fixed: date, action, symbol, name.
func Write(path string, recs []models.Recommendation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&recs, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Read loads all records from path, preserving file order.
func Read(path string) ([]models.Recommendation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var recs []models.Recommendation
	if err := gocsv.UnmarshalFile(f, &recs); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return recs, nil
}
