package ranking

import "github.com/finsight/advisor-portal/internal/models"

// DefaultPageSize is used when a request supplies no page size.
const DefaultPageSize = 10

// PageState holds the current pagination window: a positive page size and a
// 1-based page number.
type PageState struct {
	PageSize int `json:"page_size"`
	Page     int `json:"page"`
}

// Page is one window of the filtered, sorted investment list.
type Page struct {
	Items      []models.Investment
	Page       int
	PageSize   int
	TotalPages int
	Total      int
}

// Paginate windows items into fixed-size pages. TotalPages is always at
// least 1 (an empty list has one empty page), an out-of-range page number
// clamps to the nearest valid page, and a page size below 1 is treated as 1.
// It never errors and never panics.
func Paginate(items []models.Investment, pageSize, page int) Page {
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages := (len(items) + pageSize - 1) / pageSize
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
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page{
		Items:      items[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Total:      len(items),
	}
}
