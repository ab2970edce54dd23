package filter

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPageNumber   = 1_000_000
)

// Page selects a window of a list. Page numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Bounds returns the slice indexes of this page within a list of n items,
// both clamped to [0, n].
func (p Page) Bounds(n int) (start, end int) {
	start = min(p.Offset(), n)
	end = start + min(p.Size, n-start)
	return start, max(end, start)
}

// ParsePage reads page and page_size from a query string, applying defaults
// for missing values and rejecting out-of-range ones.
func ParsePage(q url.Values) (Page, error) {
	p := Page{Number: 1, Size: DefaultPageSize}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxPageNumber {
			return Page{}, fmt.Errorf("page must be an integer between 1 and %d", MaxPageNumber)
		}
		p.Number = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxPageSize {
			return Page{}, fmt.Errorf("page_size must be an integer between 1 and %d", MaxPageSize)
		}
		p.Size = n
	}
	return p, nil
}

// Paged is the list response envelope.
type Paged[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaged wraps one page of items. A nil items slice is sent as [].
func NewPaged[T any](items []T, total int64, p Page) Paged[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if p.Size > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return Paged[T]{
		Items:      items,
		Total:      total,
		Page:       p.Number,
		PageSize:   p.Size,
		TotalPages: pages,
	}
}
