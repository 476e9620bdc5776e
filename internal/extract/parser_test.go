package extract

import (
	"testing"

	"recfolio/internal/models"
)

func TestParseRow(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantErr    bool
		wantSymbol string
		wantAction models.Action
		wantDate   string
	}{
		{
			name:       "standard buy row",
			line:       "AAPL Apple Inc. BUY SA 03/15/2021",
			wantSymbol: "AAPL",
			wantAction: models.ActionBuy,
			wantDate:   "2021-03-15",
		},
		{
			name:       "two digit year",
			line:       "NVDA NVIDIA Corporation SELL SA 06/01/19",
			wantSymbol: "NVDA",
			wantAction: models.ActionSell,
			wantDate:   "2019-06-01",
		},
		{
			name:       "lowercase action",
			line:       "TDOC Teladoc Health buy SA 11/20/2020",
			wantSymbol: "TDOC",
			wantAction: models.ActionBuy,
			wantDate:   "2020-11-20",
		},
		{
			name:       "reduce action",
			line:       "SHOP Shopify REDUCE SA 01/07/2022",
			wantSymbol: "SHOP",
			wantAction: models.ActionReduce,
			wantDate:   "2022-01-07",
		},
		{
			name:       "multi word name",
			line:       "BRK Berkshire Hathaway Class B HOLD SA 12/31/2018",
			wantSymbol: "BRK",
			wantAction: models.ActionHold,
			wantDate:   "2018-12-31",
		},
		{
			name:    "missing date",
			line:    "AAPL Apple Inc. BUY SA soon",
			wantErr: true,
		},
		{
			name:    "symbol too long",
			line:    "TOOLONG Some Company BUY SA 03/15/2021",
			wantErr: true,
		},
		{
			name:    "no action",
			line:    "AAPL Apple Inc. SA 03/15/2021",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, rowErr := ParseRow(1, tt.line)
			if tt.wantErr {
				if rowErr == nil {
					t.Fatalf("expected RowError for %q, got record %+v", tt.line, rec)
				}
				return
			}
			if rowErr != nil {
				t.Fatalf("unexpected RowError: %v", rowErr)
			}
			if rec.Symbol != tt.wantSymbol {
				t.Errorf("symbol = %q, want %q", rec.Symbol, tt.wantSymbol)
			}
			if rec.Action != tt.wantAction {
				t.Errorf("action = %q, want %q", rec.Action, tt.wantAction)
			}
			if rec.Date.Key() != tt.wantDate {
				t.Errorf("date = %s, want %s", rec.Date.Key(), tt.wantDate)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	text := `Stock Advisor Recommendations
AAPL Apple Inc. BUY SA 03/15/2021
Some prose about why we like these companies this month.
NFLX Netflix Inc. SELL SA 04/02/2021
BADROWWITH BUY SA 05/05/2021
Page 3 of 12`

	recs, rowErrs := ParsePage(3, text)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Symbol != "AAPL" || recs[1].Symbol != "NFLX" {
		t.Errorf("unexpected symbols: %s, %s", recs[0].Symbol, recs[1].Symbol)
	}
	if len(rowErrs) != 1 {
		t.Fatalf("expected 1 row error for the malformed candidate, got %d", len(rowErrs))
	}
	if rowErrs[0].Page != 3 {
		t.Errorf("row error page = %d, want 3", rowErrs[0].Page)
	}
}

func TestParsePageIgnoresFurniture(t *testing.T) {
	recs, rowErrs := ParsePage(1, "Table of Contents\n\nIntroduction ... 2\n")
	if len(recs) != 0 || len(rowErrs) != 0 {
		t.Errorf("page furniture produced recs=%d errs=%d, want none", len(recs), len(rowErrs))
	}
}
