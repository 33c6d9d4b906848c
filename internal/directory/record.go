// Package directory is the Resource Directory Controller: the paginated,
// sorted, searchable view over one remote collection.
//
// Paging and sorting are server-side and trigger a fetch. Search is
// client-side and only narrows the rows of the page already loaded, so
// matches on other pages are not shown. That limitation is intentional.
package directory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Record is what a directory can list.
type Record interface {
	RecordID() string
	// SortValue returns the raw field value for key, or nil if unknown.
	SortValue(key string) any
	// SearchText returns the fields matched by the search term.
	SearchText() []string
}

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func (o Order) Flip() Order {
	if o == Desc {
		return Asc
	}
	return Desc
}

// Query is the set of parameters that decide which page is fetched.
type Query struct {
	Page   int // 0-based
	Size   int
	SortBy string
	Order  Order
}

// Page is one page of a collection plus the collection's total count.
type Page[T any] struct {
	Items []T
	Total int
}

// Fetcher loads one page of a remote collection.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, q Query) (Page[T], error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

func (f FetcherFunc[T]) Fetch(ctx context.Context, q Query) (Page[T], error) { return f(ctx, q) }

// TotalPages is ceil(total/size).
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Matches reports whether any searchable field of r contains term,
// ignoring case. The term is not trimmed, so " doe" only matches where a
// space precedes "doe". An empty term matches everything.
func Matches(r Record, term string) bool {
	term = strings.ToLower(term)
	if term == "" {
		return true
	}
	for _, field := range r.SearchText() {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// SortRecords orders records in place by the raw value of key. The sort is
// stable in both directions. An empty key leaves the order untouched.
func SortRecords[T Record](records []T, key string, order Order) {
	if key == "" {
		return
	}
	slices.SortStableFunc(records, func(a, b T) int {
		c := CompareValues(a.SortValue(key), b.SortValue(key))
		if order == Desc {
			return -c
		}
		return c
	})
}

// PageLocally pages and sorts a fully fetched collection, for endpoints that
// return everything at once.
func PageLocally[T Record](all []T, q Query) Page[T] {
	items := slices.Clone(all)
	SortRecords(items, q.SortBy, q.Order)
	total := len(items)
	if q.Size <= 0 {
		return Page[T]{Items: items, Total: total}
	}
	start := min(max(q.Page, 0)*q.Size, total)
	end := min(start+q.Size, total)
	return Page[T]{Items: slices.Clone(items[start:end]), Total: total}
}

// CompareValues compares two raw field values. nil sorts first; values of
// different kinds fall back to their string forms.
func CompareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}

	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return cmp.Compare(x, y)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
