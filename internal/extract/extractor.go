package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	apperrors "recfolio/internal/errors"
	"recfolio/internal/models"
	"recfolio/internal/recfile"
	"recfolio/internal/validate"
)

// Summary accumulates the non-fatal conditions of one extraction run. It is
// reported once at the end of the stage.
type Summary struct {
	Pages       int
	Records     []models.Recommendation
	ParseErrors []*apperrors.RowError
	Rejected    []*apperrors.ValidationError
}

// Extractor runs the extraction stage: PDF text to validated records to CSV.
type Extractor struct {
	validator   validate.Validator // nil disables validation
	writeReject bool
	log         zerolog.Logger
}

// New builds an Extractor. A nil validator skips symbol validation
// entirely (--no-validate).
func New(validator validate.Validator, writeRejects bool, log zerolog.Logger) *Extractor {
	return &Extractor{validator: validator, writeReject: writeRejects, log: log}
}

// Extract reads the PDF at pdfPath, parses and validates recommendation
// rows, and rewrites csvPath in full. Returned errors are fatal I/O
// failures only; malformed rows and unresolved symbols are accumulated in
// the Summary.
func (e *Extractor) Extract(ctx context.Context, pdfPath, csvPath string) (*Summary, error) {
	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", pdfPath, err)
	}
	defer f.Close()

	summary := &Summary{}
	var rejected []models.Recommendation

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		summary.Pages++

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.log.Warn().Int("page", pageNum).Err(err).Msg("could not read page text")
			continue
		}

		recs, rowErrs := ParsePage(pageNum, text)
		summary.ParseErrors = append(summary.ParseErrors, rowErrs...)
		for _, rowErr := range rowErrs {
			e.log.Warn().Int("page", rowErr.Page).Str("row", rowErr.Raw).Msg("skipping malformed row")
		}

		for _, rec := range recs {
			if e.validator != nil {
				result, verr := e.validator.Validate(ctx, rec.Symbol, rec.Name)
				if verr != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					var ve *apperrors.ValidationError
					if !apperrors.As(verr, &ve) {
						ve = apperrors.NewValidationError(rec.Symbol, rec.Name, verr)
					}
					summary.Rejected = append(summary.Rejected, ve)
					rejected = append(rejected, rec)
					e.log.Warn().Str("symbol", rec.Symbol).Str("name", rec.Name).Msg("symbol did not validate, dropping")
					continue
				}
				e.log.Debug().Str("symbol", rec.Symbol).Str("resolved", result.ResolvedName).Msg("symbol validated")
			}
			summary.Records = append(summary.Records, rec)
			e.log.Info().
				Str("date", rec.Date.Key()).
				Str("action", rec.Action.String()).
				Str("symbol", rec.Symbol).
				Str("name", rec.Name).
				Msg("extracted")
		}
	}

	if err := recfile.Write(csvPath, summary.Records); err != nil {
		return nil, err
	}

	if e.writeReject && len(rejected) > 0 {
		rejectPath := rejectsPath(csvPath)
		if err := recfile.Write(rejectPath, rejected); err != nil {
			return nil, err
		}
		e.log.Info().Str("path", rejectPath).Int("count", len(rejected)).Msg("wrote rejected records")
	}

	return summary, nil
}

func rejectsPath(csvPath string) string {
	if strings.HasSuffix(csvPath, ".csv") {
		return strings.TrimSuffix(csvPath, ".csv") + ".rejected.csv"
	}
	return csvPath + ".rejected"
}
