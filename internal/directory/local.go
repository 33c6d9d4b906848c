package directory

import (
	"context"
	"slices"
	"sync"
)

// Filter is implemented by fetchers that list only part of a collection,
// such as one equipment category. The controller uses it to keep records
// the fetcher would never return off the snapshot.
type Filter[T Record] interface {
	Accepts(record T) bool
}

// LocalFetcher pages a collection whose endpoint returns every record at
// once. It keeps the last full list so checks can run against all of it,
// not only the page on screen.
type LocalFetcher[T Record] struct {
	list   func(ctx context.Context) ([]T, error)
	accept func(T) bool

	mu  sync.Mutex
	all []T
}

// NewLocalFetcher pages the result of list. accept reports whether a record
// belongs to the listed subset; nil accepts everything.
func NewLocalFetcher[T Record](list func(ctx context.Context) ([]T, error), accept func(T) bool) *LocalFetcher[T] {
	return &LocalFetcher[T]{list: list, accept: accept}
}

func (f *LocalFetcher[T]) Fetch(ctx context.Context, q Query) (Page[T], error) {
	all, err := f.list(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	f.mu.Lock()
	f.all = slices.Clone(all)
	f.mu.Unlock()
	return PageLocally(all, q), nil
}

// All returns a copy of the last fetched collection with local writes
// applied.
func (f *LocalFetcher[T]) All() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.all)
}

func (f *LocalFetcher[T]) Accepts(record T) bool {
	return f.accept == nil || f.accept(record)
}

// Upsert records a successful create or update. A record that no longer
// passes the filter is dropped.
func (f *LocalFetcher[T]) Upsert(record T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.all, func(r T) bool { return r.RecordID() == record.RecordID() })
	switch {
	case !f.Accepts(record):
		if i >= 0 {
			f.all = slices.Delete(f.all, i, i+1)
		}
	case i >= 0:
		f.all[i] = record
	default:
		f.all = append(f.all, record)
	}
}

func (f *LocalFetcher[T]) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.all = slices.DeleteFunc(f.all, func(r T) bool { return r.RecordID() == id })
}
