package reporting

import (
	"strings"
	"time"

	"github.com/adopshq/mkt-report-api/internal/models"
)

// EndOfDay returns the last representable instant of t's calendar day, so a
// user-supplied end date bounds the range inclusively.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// ApplyCriteria filters records against user-supplied criteria. Values within
// one multi-select dimension are ORed, dimensions are ANDed together, and an
// empty dimension matches everything. The free-text search matches
// case-insensitive substrings of the person name, email, and ad account. Date
// bounds are inclusive; the end bound is extended to the end of its day.
// Records whose source date failed to parse pass both date predicates.
func ApplyCriteria(records []models.ReportRecord, criteria models.FilterCriteria) []models.ReportRecord {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))

	var endBound time.Time
	if criteria.EndDate != nil {
		endBound = EndOfDay(*criteria.EndDate)
	}

	out := make([]models.ReportRecord, 0, len(records))
	for _, rec := range records {
		if rec.DateValid {
			if criteria.StartDate != nil && rec.Date.Before(*criteria.StartDate) {
				continue
			}
			if criteria.EndDate != nil && rec.Date.After(endBound) {
				continue
			}
		}
		if !matchesAny(rec.Product, criteria.Products) {
			continue
		}
		if !matchesAny(rec.Shift, criteria.Shifts) {
			continue
		}
		if !matchesAny(rec.Market, criteria.Markets) {
			continue
		}
		if !matchesAny(rec.Team, criteria.Teams) {
			continue
		}
		if search != "" && !matchesSearch(rec, search) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesAny(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if value == s {
			return true
		}
	}
	return false
}

func matchesSearch(rec models.ReportRecord, search string) bool {
	return strings.Contains(strings.ToLower(rec.Name), search) ||
		strings.Contains(strings.ToLower(rec.Email), search) ||
		strings.Contains(strings.ToLower(rec.AdAccount), search)
}
