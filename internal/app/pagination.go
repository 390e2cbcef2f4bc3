package app

import "quizforge-service/internal/domain"

// PageInfo describes one page of a paginated result.
type PageInfo struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Page holds a slice of questions plus pagination metadata.
type Page struct {
	Items      []domain.Question `json:"items"`
	Pagination PageInfo          `json:"pagination"`
}

// Paginate slices items into 1-indexed pages of the given limit. An
// out-of-range page is clamped into [1, total_pages] (or to 1 when there are
// no pages at all).
func Paginate(items []domain.Question, page, limit int) Page {
	totalItems := len(items)
	totalPages := 0
	if limit > 0 {
		totalPages = (totalItems + limit - 1) / limit
	}

	if totalPages == 0 {
		page = 1
	} else if page < 1 {
		page = 1
	} else if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * limit
	end := start + limit
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	out := make([]domain.Question, end-start)
	copy(out, items[start:end])

	return Page{
		Items: out,
		Pagination: PageInfo{
			Page:        page,
			Limit:       limit,
			TotalItems:  totalItems,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	}
}
