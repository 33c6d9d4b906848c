// Package nav is the navigation surface the core drives: it only needs to
// send the operator to the login screen or back to a list.
package nav

import "sync"

// Routes of the screens the core navigates to.
const (
	RouteLogin     = "/login"
	RouteMembers   = "/dashboard/all_users"
	RouteEquipment = "/dashboard/equipment"
	RouteSupport   = "/dashboard/support"
)

type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Recorder remembers every navigation, for tests and for callers that
// need to know afterwards whether the session ended.
type Recorder struct {
	mu     sync.Mutex
	routes []string
}

func (r *Recorder) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

// History returns a copy of all routes navigated to, oldest first.
func (r *Recorder) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.routes...)
}

// Last returns the most recent route, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return ""
	}
	return r.routes[len(r.routes)-1]
}
