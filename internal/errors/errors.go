// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Standard sentinel errors
var (
	ErrPriceUnavailable  = errors.New("no price available")
	ErrNoPosition        = errors.New("no open position")
	ErrSymbolUnresolved  = errors.New("symbol could not be resolved")
	ErrNoHistory         = errors.New("no historical data")
	ErrNoRecommendations = errors.New("no recommendations to process")
	ErrConfigInvalid     = errors.New("invalid configuration")
)

// RowError reports a PDF row that did not match the expected recommendation
// shape. It is accumulated and reported, never fatal.
type RowError struct {
	Page   int
	Raw    string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("page %d: unparseable row %q: %s", e.Page, e.Raw, e.Reason)
}

// NewRowError creates a new RowError.
func NewRowError(page int, raw, reason string) *RowError {
	return &RowError{Page: page, Raw: raw, Reason: reason}
}

// ValidationError reports a symbol/name pair that failed lookup against the
// market-data provider after the retry budget was exhausted.
type ValidationError struct {
	Symbol string
	Name   string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for %s (%s): %v", e.Symbol, e.Name, e.Err)
	}
	return fmt.Sprintf("validation failed for %s (%s)", e.Symbol, e.Name)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(symbol, name string, err error) *ValidationError {
	return &ValidationError{Symbol: symbol, Name: name, Err: err}
}

// PriceError reports missing or unusable market data for a symbol on a
// specific date. The affected record is skipped; the replay continues.
type PriceError struct {
	Symbol string
	Date   time.Time
	Err    error
}

func (e *PriceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("price error for %s on %s: %v", e.Symbol, e.Date.Format("2006-01-02"), e.Err)
	}
	return fmt.Sprintf("price error for %s on %s", e.Symbol, e.Date.Format("2006-01-02"))
}

func (e *PriceError) Unwrap() error {
	return e.Err
}

// NewPriceError creates a new PriceError.
func NewPriceError(symbol string, date time.Time, err error) *PriceError {
	return &PriceError{Symbol: symbol, Date: date, Err: err}
}

// Is re-exports errors.Is for callers that import this package under the
// standard name.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As re-exports errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
