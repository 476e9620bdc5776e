// Package store provides data persistence implementations.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"recfolio/internal/models"
)

// PriceStore caches daily price bars in SQLite so repeated simulation runs
// do not refetch full histories from the market-data provider.
type PriceStore struct {
	db *sql.DB
}

// NewPriceStore opens (creating if needed) the price cache at dbPath.
func NewPriceStore(dbPath string) (*PriceStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open price cache: %w", err)
	}

	s := &PriceStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize price cache schema: %w", err)
	}
	return s, nil
}

func (s *PriceStore) initSchema() error {
	schema := `
	-- Daily bars per symbol
	CREATE TABLE IF NOT EXISTS bars (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		date TEXT NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		adj_close REAL NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, date)
	);
	CREATE INDEX IF NOT EXISTS idx_bars_symbol_date ON bars(symbol, date);

	-- Fetch bookkeeping per symbol
	CREATE TABLE IF NOT EXISTS fetches (
		symbol TEXT PRIMARY KEY,
		first_date TEXT NOT NULL,
		last_date TEXT NOT NULL,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveBars upserts a symbol's bars and records the requested [start, end]
// range as covered, widening any range already on record. Coverage tracks
// what was asked for rather than the bar dates themselves: a request
// starting on a holiday is still fully answered by bars that begin on the
// next trading day.
func (s *PriceStore) SaveBars(symbol string, start, end models.Date, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save bars: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO bars (symbol, date, open, high, low, close, adj_close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			adj_close = excluded.adj_close,
			volume = excluded.volume`)
	if err != nil {
		return fmt.Errorf("prepare save bars: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, b.Date.Key(), b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume); err != nil {
			return fmt.Errorf("save bar %s %s: %w", symbol, b.Date.Key(), err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO fetches (symbol, first_date, last_date, fetched_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(symbol) DO UPDATE SET
			first_date = MIN(first_date, excluded.first_date),
			last_date = MAX(last_date, excluded.last_date),
			fetched_at = CURRENT_TIMESTAMP`,
		symbol, start.Key(), end.Key())
	if err != nil {
		return fmt.Errorf("record fetch range: %w", err)
	}

	return tx.Commit()
}

// LoadBars returns a symbol's cached bars in date order.
func (s *PriceStore) LoadBars(symbol string) ([]models.Bar, error) {
	rows, err := s.db.Query(`
		SELECT date, open, high, low, close, adj_close, volume
		FROM bars WHERE symbol = ? ORDER BY date`, symbol)
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		var date string
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.AdjClose, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar for %s: %w", symbol, err)
		}
		d, err := models.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("corrupt date in cache for %s: %w", symbol, err)
		}
		b.Date = d
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// Coverage reports the cached date range for a symbol and whether any bars
// for it exist at all.
func (s *PriceStore) Coverage(symbol string) (first, last models.Date, ok bool, err error) {
	row := s.db.QueryRow(`SELECT first_date, last_date FROM fetches WHERE symbol = ?`, symbol)
	var firstStr, lastStr string
	switch err = row.Scan(&firstStr, &lastStr); err {
	case nil:
	case sql.ErrNoRows:
		return models.Date{}, models.Date{}, false, nil
	default:
		return models.Date{}, models.Date{}, false, fmt.Errorf("coverage for %s: %w", symbol, err)
	}
	if first, err = models.ParseDate(firstStr); err != nil {
		return models.Date{}, models.Date{}, false, err
	}
	if last, err = models.ParseDate(lastStr); err != nil {
		return models.Date{}, models.Date{}, false, err
	}
	return first, last, true, nil
}

// Age returns how long ago the symbol was last fetched.
func (s *PriceStore) Age(symbol string) (time.Duration, bool, error) {
	row := s.db.QueryRow(`SELECT fetched_at FROM fetches WHERE symbol = ?`, symbol)
	var fetchedAt time.Time
	switch err := row.Scan(&fetchedAt); err {
	case nil:
		return time.Since(fetchedAt), true, nil
	case sql.ErrNoRows:
		return 0, false, nil
	default:
		return 0, false, err
	}
}

// Close releases the underlying database handle.
func (s *PriceStore) Close() error {
	return s.db.Close()
}
