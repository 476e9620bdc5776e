package cli

import (
	"testing"

	apperrors "recfolio/internal/errors"
)

func TestResolveInvestment(t *testing.T) {
	// Flag omitted: the configured default wins, whatever the flag value.
	got, err := resolveInvestment(false, 0, 10000)
	if err != nil {
		t.Fatalf("omitted flag: %v", err)
	}
	if got != 10000 {
		t.Errorf("omitted flag = %v, want configured 10000", got)
	}

	// Flag passed with a positive value: the flag wins.
	got, err = resolveInvestment(true, 2500, 10000)
	if err != nil {
		t.Fatalf("explicit flag: %v", err)
	}
	if got != 2500 {
		t.Errorf("explicit flag = %v, want 2500", got)
	}

	// Flag passed with a non-positive value: loud error, not a silent
	// fallback to the default.
	for _, bad := range []float64{0, -5} {
		if _, err := resolveInvestment(true, bad, 10000); !apperrors.Is(err, apperrors.ErrConfigInvalid) {
			t.Errorf("investment %v: expected ErrConfigInvalid, got %v", bad, err)
		}
	}
}
