package directory

import (
	"fmt"

	"alcyxob/gym-backoffice/internal/apierr"
)

// View is the projection a list screen renders.
type View[T Record] struct {
	State      State
	Items      []T // loaded page narrowed by Search
	Loaded     int // rows on the loaded page before search
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	SortBy     string
	Order      Order
	Search     string
	Err        error
}

// View returns the current projection.
func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller[T]) viewLocked() View[T] {
	visible := make([]T, 0, len(c.items))
	for _, r := range c.items {
		if Matches(r, c.search) {
			visible = append(visible, r)
		}
	}
	return View[T]{
		State:      c.state,
		Items:      visible,
		Loaded:     len(c.items),
		Total:      c.total,
		Page:       c.query.Page,
		PageSize:   c.query.Size,
		TotalPages: TotalPages(c.total, c.query.Size),
		SortBy:     c.query.SortBy,
		Order:      c.query.Order,
		Search:     c.search,
		Err:        c.err,
	}
}

func (v View[T]) HasPrev() bool { return v.Page > 0 }

func (v View[T]) HasNext() bool { return v.Page+1 < v.TotalPages }

// Label is the pager caption, e.g. "Page 1 of 2".
func (v View[T]) Label() string {
	return fmt.Sprintf("Page %d of %d", v.Page+1, max(v.TotalPages, 1))
}

// Range returns the 1-based positions of the loaded rows within the
// collection, or 0, 0 when the page is empty. Rows appended past the page
// size are not counted.
func (v View[T]) Range() (from, to int) {
	if v.Loaded == 0 {
		return 0, 0
	}
	from = v.Page*v.PageSize + 1
	to = from + v.Loaded - 1
	if v.PageSize > 0 {
		to = min(to, from+v.PageSize-1)
	}
	return from, to
}

// Summary is the "Showing A to B of N entries" caption.
func (v View[T]) Summary() string {
	from, to := v.Range()
	return fmt.Sprintf("Showing %d to %d of %d entries", from, to, v.Total)
}

// Message is the banner text for a failed fetch. Auth failures have none;
// the Session Guard has already redirected.
func (v View[T]) Message() string {
	if v.State != Failed || v.Err == nil {
		return ""
	}
	if b, ok := apierr.Banner(v.Err); ok {
		return b.Text
	}
	return ""
}

// EmptyText explains an empty table, or is blank when rows are shown.
func (v View[T]) EmptyText() string {
	switch {
	case v.State == Loading || len(v.Items) > 0:
		return ""
	case v.Loaded > 0:
		return fmt.Sprintf("No matches for %q on this page", v.Search)
	case v.State == Ready:
		return "No records found"
	}
	return ""
}
