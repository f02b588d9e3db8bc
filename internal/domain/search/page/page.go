// Package page defines the paginated result envelope.
package page

// Page is one window of a result set.
type Page[T any] struct {
	Items         []T   `json:"items"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	Last          bool  `json:"last"`
}

// New builds a page envelope and derives the Last flag.
func New[T any](items []T, pageNumber, pageSize int, total int64) Page[T] {
	return Page[T]{
		Items:         items,
		PageNumber:    pageNumber,
		PageSize:      pageSize,
		TotalElements: total,
		Last:          int64(pageNumber*pageSize+len(items)) >= total,
	}
}
