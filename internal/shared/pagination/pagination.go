// Package pagination carries the page/limit/sort conventions shared by the list endpoints.
package pagination

import "strings"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query is the normalized paging request.
type Query struct {
	Page  int
	Limit int
	Sort  string
}

// Normalize clamps page and limit into their accepted ranges.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Sort = strings.TrimSpace(q.Sort)
	return q
}

// Offset returns the zero-based index of the first item on the page.
func (q Query) Offset() int {
	q = q.Normalize()
	return (q.Page - 1) * q.Limit
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// New builds a page from already-sliced items.
func New[T any](items []T, total int64, q Query) Page[T] {
	q = q.Normalize()
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: q.Page, Limit: q.Limit}
}

// Slice pages through an in-memory result set.
func Slice[T any](all []T, q Query) Page[T] {
	q = q.Normalize()
	total := len(all)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	items := make([]T, 0, end-start)
	items = append(items, all[start:end]...)
	return New(items, int64(total), q)
}

// TotalPages is at least one so empty results still report page 1 of 1.
func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 || p.Total == 0 {
		return 1
	}
	pages := int(p.Total) / p.Limit
	if int(p.Total)%p.Limit != 0 {
		pages++
	}
	return pages
}

func (p Page[T]) HasPrev() bool { return p.Page > 1 }

func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages() }

// PagingCounter is the 1-based index of the first item on the page.
func (p Page[T]) PagingCounter() int {
	return (p.Page-1)*p.Limit + 1
}

// Map converts the page items while keeping the paging metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, fn(item))
	}
	return Page[U]{Items: out, Total: p.Total, Page: p.Page, Limit: p.Limit}
}

// Sort describes an ordering resolved against an allow-list of fields.
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort understands the "-createdAt" convention. Fields missing from
// allowed fall back to the provided default.
func ParseSort(raw string, allowed map[string]string, fallback Sort) Sort {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	desc := false
	if strings.HasPrefix(raw, "-") {
		desc = true
		raw = raw[1:]
	}
	field, ok := allowed[raw]
	if !ok {
		return fallback
	}
	return Sort{Field: field, Desc: desc}
}

// Clause renders the sort for an ORDER BY expression.
func (s Sort) Clause() string {
	if s.Field == "" {
		return ""
	}
	if s.Desc {
		return s.Field + " DESC"
	}
	return s.Field + " ASC"
}
