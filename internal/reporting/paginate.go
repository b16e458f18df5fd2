package reporting

import "github.com/adopshq/mkt-report-api/internal/models"

// DefaultPageSize is used when the caller supplies no page size.
const DefaultPageSize = 50

// Paginate slices items into the requested 1-based page and returns the page
// together with its pagination metadata. An out-of-range page clamps into
// [1, totalPages]; an empty input yields one empty page so totalPages is
// never zero.
func Paginate[T any](items []T, page, pageSize int) ([]T, models.Pagination) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return items[start:end], models.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}
}
