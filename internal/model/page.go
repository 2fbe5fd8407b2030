package model

// Page is one page of a listing plus the total number of matches.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewPage wraps items, never returning a nil slice.
func NewPage[T any](items []T, total, limit, offset int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: total, Limit: limit, Offset: offset}
}
