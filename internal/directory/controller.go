package directory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

// State of the controller's fetch cycle.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	}
	return "idle"
}

const DefaultPageSize = 10

var ErrClosed = errors.New("directory: controller closed")

type settings struct {
	name     string
	pageSize int
	sortBy   string
	order    Order
}

type Option func(*settings)

// WithName labels the controller in logs.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

func WithPageSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithSort sets the initial sort key and direction.
func WithSort(key string, order Order) Option {
	return func(s *settings) {
		s.sortBy = key
		if order == Desc {
			s.order = Desc
		}
	}
}

type changeKind int

const (
	changeAppend changeKind = iota
	changeReplace
	changeRemove
)

// change is a local patch made while a fetch was in flight. It is replayed
// over that fetch's result, so a response computed before the mutation
// cannot resurrect a deleted row or revert an edit.
type change[T Record] struct {
	gen    uint64
	kind   changeKind
	record T
	id     string
}

// Controller owns the in-memory snapshot of one collection page and every
// view derived from it. It is safe for concurrent use.
type Controller[T Record] struct {
	mu      sync.Mutex
	name    string
	fetcher Fetcher[T]

	query  Query
	search string
	state  State
	err    error
	items  []T
	total  int

	seq     uint64 // last fetch issued
	gen     uint64 // last local patch
	journal []change[T]
	pending context.CancelFunc

	life     context.Context
	stop     context.CancelFunc
	closed   bool
	observer func(View[T])
}

func New[T Record](fetcher Fetcher[T], opts ...Option) *Controller[T] {
	s := settings{name: "directory", pageSize: DefaultPageSize, order: Asc}
	for _, opt := range opts {
		opt(&s)
	}
	life, stop := context.WithCancel(context.Background())
	return &Controller[T]{
		name:    s.name,
		fetcher: fetcher,
		query:   Query{Page: 0, Size: s.pageSize, SortBy: s.sortBy, Order: s.order},
		life:    life,
		stop:    stop,
	}
}

// Observe registers fn to receive the view after every state change. fn is
// called without the controller's lock held.
func (c *Controller[T]) Observe(fn func(View[T])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = fn
}

// Load fetches the page for the current parameters.
func (c *Controller[T]) Load(ctx context.Context) error {
	return c.fetch(ctx)
}

// Retry re-issues the last fetch; page, sort and search are kept.
func (c *Controller[T]) Retry(ctx context.Context) error {
	return c.fetch(ctx)
}

// SetPage moves to a 0-based page. Pages outside [0, TotalPages) are a
// no-op, like disabled pager buttons.
func (c *Controller[T]) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if c.closed || page == c.query.Page || page < 0 || page >= TotalPages(c.total, c.query.Size) {
		c.mu.Unlock()
		return nil
	}
	c.query.Page = page
	c.mu.Unlock()
	return c.fetch(ctx)
}

func (c *Controller[T]) NextPage(ctx context.Context) error {
	return c.SetPage(ctx, c.Query().Page+1)
}

func (c *Controller[T]) PrevPage(ctx context.Context) error {
	return c.SetPage(ctx, c.Query().Page-1)
}

func (c *Controller[T]) FirstPage(ctx context.Context) error {
	return c.SetPage(ctx, 0)
}

func (c *Controller[T]) LastPage(ctx context.Context) error {
	c.mu.Lock()
	last := TotalPages(c.total, c.query.Size) - 1
	c.mu.Unlock()
	return c.SetPage(ctx, last)
}

// SetPageSize changes the page size and returns to the first page.
func (c *Controller[T]) SetPageSize(ctx context.Context, size int) error {
	c.mu.Lock()
	if c.closed || size <= 0 || size == c.query.Size {
		c.mu.Unlock()
		return nil
	}
	c.query.Size = size
	c.query.Page = 0
	c.mu.Unlock()
	return c.fetch(ctx)
}

// Sort sorts on key. The same key again flips the direction; a new key
// starts ascending.
func (c *Controller[T]) Sort(ctx context.Context, key string) error {
	c.mu.Lock()
	if c.closed || key == "" {
		c.mu.Unlock()
		return nil
	}
	if key == c.query.SortBy {
		c.query.Order = c.query.Order.Flip()
	} else {
		c.query.SortBy = key
		c.query.Order = Asc
	}
	c.mu.Unlock()
	return c.fetch(ctx)
}

// SetSearch narrows the loaded page's rows. It never fetches.
func (c *Controller[T]) SetSearch(term string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.search = term
	view, observer := c.viewLocked(), c.observer
	c.mu.Unlock()
	notify(observer, view)
}

func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Items returns a copy of the loaded page, ignoring the search term.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Find returns the loaded record with id.
func (c *Controller[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(c.items, id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Append adds a newly created record to the end of the snapshot. A record
// whose id is already present is replaced instead, so it appears once. A
// record the fetcher's Filter rejects is not added.
func (c *Controller[T]) Append(record T) bool {
	if !c.accepts(record) {
		return false
	}
	return c.patch(change[T]{kind: changeAppend, record: record, id: record.RecordID()})
}

// Replace swaps the record with the same id in place, keeping the order.
// resort is true when the record's value for the active sort key changed,
// which the caller should resolve with a reload. A record that no longer
// passes the fetcher's Filter is removed instead.
func (c *Controller[T]) Replace(record T) (found, resort bool) {
	if !c.accepts(record) {
		return c.Remove(record.RecordID()), false
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, false
	}
	if i := c.indexLocked(c.items, record.RecordID()); i >= 0 && c.query.SortBy != "" {
		resort = CompareValues(c.items[i].SortValue(c.query.SortBy), record.SortValue(c.query.SortBy)) != 0
	}
	c.mu.Unlock()
	found = c.patch(change[T]{kind: changeReplace, record: record, id: record.RecordID()})
	return found, found && resort
}

// Remove drops the record with id from the snapshot.
func (c *Controller[T]) Remove(id string) bool {
	return c.patch(change[T]{kind: changeRemove, id: id})
}

// Close detaches the controller from its screen: the in-flight fetch is
// cancelled and nothing mutates the snapshot afterwards.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.pending != nil {
		c.pending()
		c.pending = nil
	}
	c.journal = nil
	c.stop()
}

func (c *Controller[T]) fetch(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.pending != nil {
		c.pending() // superseded
	}
	c.seq++
	seq, startGen, q := c.seq, c.gen, c.query

	fctx, cancel := context.WithCancel(ctx)
	stopOnClose := context.AfterFunc(c.life, cancel)
	c.pending = cancel
	c.state = Loading
	c.err = nil
	view, observer := c.viewLocked(), c.observer
	c.mu.Unlock()
	notify(observer, view)

	log.Debug().Str("module", "directory").Str("name", c.name).
		Int("page", q.Page).Int("size", q.Size).Str("sort", q.SortBy).Str("order", string(q.Order)).Msg("fetch")
	page, err := c.fetcher.Fetch(fctx, q)
	stopOnClose()
	cancel()

	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		log.Debug().Str("module", "directory").Str("name", c.name).Uint64("seq", seq).Msg("dropped stale response")
		return nil
	}
	c.pending = nil
	if err != nil {
		c.state = Failed
		c.err = err
		view, observer = c.viewLocked(), c.observer
		c.mu.Unlock()
		log.Warn().Str("module", "directory").Str("name", c.name).Err(err).Msg("fetch failed")
		notify(observer, view)
		return err
	}

	items := slices.Clone(page.Items)
	SortRecords(items, q.SortBy, q.Order)
	total := page.Total
	for _, ch := range c.journal {
		if ch.gen > startGen {
			items, total = c.applyLocked(items, total, ch)
		}
	}
	c.journal = nil
	c.items = items
	c.total = max(total, len(items))
	c.state = Ready
	view, observer = c.viewLocked(), c.observer
	c.mu.Unlock()
	notify(observer, view)
	return nil
}

func (c *Controller[T]) patch(ch change[T]) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	found := c.indexLocked(c.items, ch.id) >= 0
	c.gen++
	ch.gen = c.gen
	if c.pending != nil {
		c.journal = append(c.journal, ch)
	}
	c.items, c.total = c.applyLocked(c.items, c.total, ch)
	view, observer := c.viewLocked(), c.observer
	c.mu.Unlock()
	notify(observer, view)

	if ch.kind == changeAppend {
		return true
	}
	return found
}

func (c *Controller[T]) applyLocked(items []T, total int, ch change[T]) ([]T, int) {
	i := c.indexLocked(items, ch.id)
	switch ch.kind {
	case changeAppend:
		if i >= 0 {
			items[i] = ch.record
		} else {
			items = append(items, ch.record)
			total++
		}
	case changeReplace:
		if i >= 0 {
			items[i] = ch.record
		}
	case changeRemove:
		if i >= 0 {
			items = slices.Delete(items, i, i+1)
			if total > 0 {
				total--
			}
		}
	}
	return items, total
}

func (c *Controller[T]) accepts(record T) bool {
	if f, ok := c.fetcher.(Filter[T]); ok {
		return f.Accepts(record)
	}
	return true
}

func (c *Controller[T]) indexLocked(items []T, id string) int {
	return slices.IndexFunc(items, func(r T) bool { return r.RecordID() == id })
}

func notify[T Record](fn func(View[T]), v View[T]) {
	if fn != nil {
		fn(v)
	}
}
