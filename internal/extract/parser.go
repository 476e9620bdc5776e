// Package extract turns the newsletter PDF into validated recommendation
// records.
package extract

import (
	"regexp"
	"strings"

	apperrors "recfolio/internal/errors"
	"recfolio/internal/models"
)

// rowPattern matches one newsletter recommendation row: symbol, display
// name, action, the "SA" column marker, then the issue date.
var rowPattern = regexp.MustCompile(`(?i)^([A-Z]{1,5})\s+(.+?)\s+(BUY|SELL|HOLD|REDUCE)\s+SA\s+(\d{2}/\d{2}/\d{2,4})`)

// candidatePattern decides whether a line is meant to be a recommendation
// row at all. Lines that are page furniture (headers, footers, prose) are
// ignored silently; candidates that fail to parse become RowErrors.
var candidatePattern = regexp.MustCompile(`(?i)\b(BUY|SELL|HOLD|REDUCE)\s+SA\s+\d`)

// ParseRow parses one candidate line into a Recommendation. The second
// return value is non-nil when the row is malformed; exactly one of the two
// results is meaningful.
func ParseRow(page int, line string) (models.Recommendation, *apperrors.RowError) {
	m := rowPattern.FindStringSubmatch(line)
	if m == nil {
		return models.Recommendation{}, apperrors.NewRowError(page, line, "does not match recommendation row shape")
	}

	symbol := strings.ToUpper(strings.TrimSpace(m[1]))
	if symbol == "" {
		return models.Recommendation{}, apperrors.NewRowError(page, line, "empty symbol")
	}

	action, err := models.ParseAction(m[3])
	if err != nil {
		return models.Recommendation{}, apperrors.NewRowError(page, line, err.Error())
	}

	date, err := models.ParseDate(m[4])
	if err != nil {
		return models.Recommendation{}, apperrors.NewRowError(page, line, err.Error())
	}

	return models.Recommendation{
		Date:   date,
		Action: action,
		Symbol: symbol,
		Name:   strings.TrimSpace(m[2]),
	}, nil
}

// ParsePage scans a page's text and returns the recommendations found plus
// a RowError per candidate row that did not parse.
func ParsePage(page int, text string) ([]models.Recommendation, []*apperrors.RowError) {
	var recs []models.Recommendation
	var rowErrs []*apperrors.RowError

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !candidatePattern.MatchString(line) {
			continue
		}
		rec, rowErr := ParseRow(page, line)
		if rowErr != nil {
			rowErrs = append(rowErrs, rowErr)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, rowErrs
}
