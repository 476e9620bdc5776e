// Package validate resolves extracted symbols against a market-data
// provider before they are trusted downstream.
package validate

import (
	"context"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"
	"github.com/rs/zerolog"

	"recfolio/internal/config"
	apperrors "recfolio/internal/errors"
	"recfolio/pkg/utils"
)

// Result is the outcome of a symbol lookup.
type Result struct {
	Symbol       string
	ResolvedName string
	OK           bool
}

// Validator confirms a symbol/name pair resolves to a real instrument.
type Validator interface {
	Validate(ctx context.Context, symbol, name string) (Result, error)
}

// QuoteFunc fetches a quote for a symbol. It exists so tests can script
// lookup outcomes without the network.
type QuoteFunc func(symbol string) (*finance.Quote, error)

// YahooValidator validates symbols with Yahoo Finance quote lookups under a
// bounded exponential-backoff retry policy.
type YahooValidator struct {
	retry utils.RetryConfig
	fetch QuoteFunc
	log   zerolog.Logger
}

// NewYahooValidator builds a validator from the configured retry policy.
func NewYahooValidator(cfg config.ValidatorConfig, log zerolog.Logger) *YahooValidator {
	return &YahooValidator{
		retry: utils.RetryConfig{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  time.Duration(cfg.InitialDelayMs) * time.Millisecond,
			MaxDelay:      time.Duration(cfg.MaxDelayMs) * time.Millisecond,
			BackoffFactor: cfg.BackoffFactor,
		},
		fetch: quote.Get,
		log:   log,
	}
}

// NewValidatorWithFetch builds a validator with a custom quote function.
func NewValidatorWithFetch(fetch QuoteFunc, retry utils.RetryConfig, log zerolog.Logger) *YahooValidator {
	return &YahooValidator{retry: retry, fetch: fetch, log: log}
}

// Validate looks the symbol up, retrying transient failures. An unresolved
// symbol is reported through the returned error but is never fatal to the
// caller's run: the error always wraps ErrSymbolUnresolved.
func (v *YahooValidator) Validate(ctx context.Context, symbol, name string) (Result, error) {
	q, err := utils.RetryWithResult(ctx, v.retry, func() (*finance.Quote, error) {
		return v.fetch(symbol)
	})
	if err != nil {
		// A cancelled context is the caller's stop signal, not an
		// unresolved symbol.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{Symbol: symbol}, ctxErr
		}
		return Result{Symbol: symbol}, apperrors.NewValidationError(symbol, name, apperrors.ErrSymbolUnresolved)
	}
	if q == nil {
		return Result{Symbol: symbol}, apperrors.NewValidationError(symbol, name, apperrors.ErrSymbolUnresolved)
	}

	resolved := q.ShortName
	if !nameMatches(name, resolved) {
		// Display names in newsletters rarely match provider names exactly;
		// a mismatch is logged rather than treated as unresolved.
		v.log.Warn().
			Str("symbol", symbol).
			Str("extracted", name).
			Str("resolved", resolved).
			Msg("symbol resolved under a different name")
	}

	return Result{Symbol: symbol, ResolvedName: resolved, OK: true}, nil
}

// nameMatches is a loose cross-check: any shared token between the
// extracted display name and the provider's name counts as a match.
func nameMatches(extracted, resolved string) bool {
	if extracted == "" || resolved == "" {
		return true
	}
	res := strings.ToLower(resolved)
	for _, tok := range strings.Fields(strings.ToLower(extracted)) {
		tok = strings.Trim(tok, ".,&()")
		if len(tok) < 3 {
			continue
		}
		if strings.Contains(res, tok) {
			return true
		}
	}
	return false
}
