package domain

// PaginationParams selects one page of a list. Page is 1-based; a non-positive PageSize selects
// the whole list.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset is the index of the first element on the page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
