package models

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Pagination describes the page window of a list response
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ClampPage normalizes page/limit: invalid values fall back to defaults
// (page=1, limit=10) and limit is capped at 100
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// NewPagination builds the pagination block for a clamped page window
func NewPagination(page, limit, total int) *Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
