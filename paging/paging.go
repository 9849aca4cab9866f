// Package paging translates page/limit parameters into query offsets and
// wraps listing results in a uniform page envelope.
package paging

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Params struct {
	Page  int
	Limit int
}

// NewParams normalizes raw page/limit values. Non-positive values fall back
// to the defaults and the limit is capped server-side.
func NewParams(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 {
		limit = DefaultLimit
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Page[T any] struct {
	Items      []T
	Page       int
	Limit      int
	TotalItems int
}

func NewPage[T any](items []T, params Params, totalItems int) *Page[T] {
	return &Page[T]{
		Items:      items,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalItems: totalItems,
	}
}

func (p *Page[T]) TotalPages() int {
	if p.Limit == 0 {
		return 0
	}

	return (p.TotalItems + p.Limit - 1) / p.Limit
}
