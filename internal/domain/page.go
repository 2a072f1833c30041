package domain

// Page size bounds for list endpoints.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PaginationParams selects one page of a list. Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds PaginationParams from optional query values.
// Missing or non-positive values fall back to page 1 and DefaultPageLimit;
// limits above MaxPageLimit are clamped.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	if limit != nil && *limit > 0 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset is the number of rows to skip before this page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is how many pages of p.Limit rows hold total rows.
func (p PaginationParams) TotalPages(total int64) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
