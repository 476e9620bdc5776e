// Package models defines the core data types shared across the application.
package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Action is the recommendation type attached to a symbol.
type Action string

const (
	ActionBuy    Action = "BUY"
	ActionSell   Action = "SELL"
	ActionHold   Action = "HOLD"
	ActionReduce Action = "REDUCE"
)

// ParseAction parses an action string (case-insensitive).
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToUpper(strings.TrimSpace(s))) {
	case ActionBuy:
		return ActionBuy, nil
	case ActionSell:
		return ActionSell, nil
	case ActionHold:
		return ActionHold, nil
	case ActionReduce:
		return ActionReduce, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// String returns the canonical uppercase form.
func (a Action) String() string {
	return string(a)
}

// Date is a calendar date (no time-of-day component). It marshals to and
// from CSV in the newsletter's MM/DD/YYYY convention.
type Date struct {
	time.Time
}

var dateFormats = []string{"01/02/2006", "01/02/06", "2006-01-02"}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses MM/DD/YYYY, MM/DD/YY or ISO dates.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t.UTC()}, nil
		}
	}
	return Date{}, fmt.Errorf("date %q is not in a recognized format", s)
}

// MarshalCSV implements gocsv marshalling.
func (d Date) MarshalCSV() (string, error) {
	return d.Format("01/02/2006"), nil
}

// UnmarshalCSV implements gocsv unmarshalling.
func (d *Date) UnmarshalCSV(s string) error {
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Key returns the date formatted as an ISO day string, usable as a map key.
func (d Date) Key() string {
	return d.Format("2006-01-02")
}

// Before reports whether d falls on an earlier day than other.
func (d Date) Before(other Date) bool {
	return d.Key() < other.Key()
}

// After reports whether d falls on a later day than other.
func (d Date) After(other Date) bool {
	return d.Key() > other.Key()
}

// Recommendation is one dated instruction extracted from the newsletter.
// The CSV column order is fixed: date, action, symbol, name.
type Recommendation struct {
	Date   Date   `csv:"date"`
	Action Action `csv:"action"`
	Symbol string `csv:"symbol"`
	Name   string `csv:"name"`
}

// SortRecommendations orders records chronologically, preserving the
// original document order for records on the same day.
func SortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Date.Before(recs[j].Date)
	})
}

// Position is an open holding in the simulated portfolio. Repeated buys on
// the same symbol merge into a single position; there is no lot tracking.
type Position struct {
	Symbol    string
	Shares    float64
	CostBasis float64
}

// Snapshot captures total portfolio value after one replayed record.
type Snapshot struct {
	Date       Date    `json:"date"`
	TotalValue float64 `json:"total_value"`
}

// DailyPoint is one day of the benchmark-aligned value series used for
// charting: cumulative capital deployed, strategy value and the value of
// the same cash flows invested in the benchmark instead.
type DailyPoint struct {
	Date           Date    `json:"date"`
	Invested       float64 `json:"invested"`
	PortfolioValue float64 `json:"portfolio_value"`
	BenchmarkValue float64 `json:"benchmark_value"`
}
