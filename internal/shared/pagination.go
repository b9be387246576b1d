package shared

import "math"

// DefaultPerPage is applied when a listing does not specify a page size.
const DefaultPerPage = 10

// PageMeta contains metadata for paginated listings.
type PageMeta struct {
	Total           int  `json:"total"`
	Page            int  `json:"page"`
	PerPage         int  `json:"perPage"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewPageMeta computes pagination metadata. An empty collection still
// occupies one page so navigation always has a valid target.
func NewPageMeta(page, perPage, total int) PageMeta {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	if total < 0 {
		total = 0
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages < 1 {
		totalPages = 1
	}
	return PageMeta{
		Total:           total,
		Page:            page,
		PerPage:         perPage,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// ClampPage corrects an out-of-range navigation target into [1, totalPages].
func ClampPage(target, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if target < 1 {
		return 1
	}
	if target > totalPages {
		return totalPages
	}
	return target
}
