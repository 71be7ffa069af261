// Package pagination pages list results for the HTTP layer.
package pagination

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageRequest holds the page and page_size query parameters.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// normalized returns a copy with defaults applied and page_size capped.
func (p PageRequest) normalized() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = defaultPageSize
	case p.PageSize > maxPageSize:
		p.PageSize = maxPageSize
	}
	return p
}

// PageResponse is one page of a list plus its position in the whole.
type PageResponse[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Slice returns the requested page of items. Store lists come back whole, so
// paging happens after the fetch. Data is never nil.
func Slice[T any](items []T, req PageRequest) PageResponse[T] {
	req = req.normalized()
	total := len(items)

	start := min((req.Page-1)*req.PageSize, total)
	end := min(start+req.PageSize, total)

	data := make([]T, end-start)
	copy(data, items[start:end])

	return PageResponse[T]{
		Data:       data,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: total,
		TotalPages: (total + req.PageSize - 1) / req.PageSize,
	}
}
