package models

// SortAsc is the only sort_order value that sorts ascending; anything else,
// including an empty value, sorts descending.
const SortAsc = "asc"

// MaxLimit is the largest page size a listing accepts.
const MaxLimit = 100

// PaginationParams selects one page of a listing. Page is 1-based.
type PaginationParams struct {
	Page      int    `json:"page"       validate:"gte=1"`
	Limit     int    `json:"limit"      validate:"gte=1,lte=100"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// DefaultPagination is page 1 with ten items, unsorted.
func DefaultPagination() PaginationParams {
	return PaginationParams{Page: 1, Limit: 10}
}

// Skip is the number of documents before the requested page.
func (p PaginationParams) Skip() int64 {
	if p.Page < 1 {
		return 0
	}
	return int64(p.Page-1) * int64(p.Limit)
}

func (p PaginationParams) Ascending() bool { return p.SortOrder == SortAsc }

// Filter narrows a product listing. The implementations are Eq and Range.
type Filter interface {
	Field() string
	isFilter()
}

// Eq matches documents whose Field equals Value. A nil Value is ignored.
type Eq struct {
	Name  string
	Value any
}

func (f Eq) Field() string { return f.Name }
func (Eq) isFilter()       {}

// Range matches Min <= Field <= Max; a nil bound is open.
type Range struct {
	Name string
	Min  *float64
	Max  *float64
}

func (f Range) Field() string { return f.Name }
func (Range) isFilter()       {}
