// Package router keeps the CLI's current location and the route table.
package router

import (
	"strings"
	"sync"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
)

type Access int

const (
	Public Access = iota
	Authenticated
	RoleRequired
)

type Route struct {
	Pattern string
	Name    string
	Access  Access
	// Role is set for RoleRequired routes.
	Role models.Role
}

// Routes is the job board's screen table.
var Routes = []Route{
	{Pattern: "/", Name: "home", Access: Public},
	{Pattern: "/jobs", Name: "jobs", Access: Public},
	{Pattern: "/jobs/:id", Name: "job", Access: Public},
	{Pattern: "/pricing", Name: "pricing", Access: Public},
	{Pattern: "/applications", Name: "applications", Access: Authenticated},
	{Pattern: "/checkout", Name: "checkout", Access: Authenticated},
	{Pattern: "/payment/return", Name: "payment-return", Access: Authenticated},
	{Pattern: "/profile", Name: "profile", Access: Authenticated},
	{Pattern: "/post-job", Name: "post-job", Access: RoleRequired, Role: models.RoleBoth},
	{Pattern: "/my-jobs", Name: "my-jobs", Access: RoleRequired, Role: models.RoleBoth},
	{Pattern: "/my-jobs/:id/applications", Name: "job-applications", Access: RoleRequired, Role: models.RoleBoth},
}

// Match reports whether path fits pattern and returns the ":name" params.
func Match(pattern, path string) (map[string]string, bool) {
	ps := split(pattern)
	xs := split(path)
	if len(ps) != len(xs) {
		return nil, false
	}

	params := map[string]string{}
	for i, p := range ps {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if xs[i] == "" {
				return nil, false
			}
			params[name] = xs[i]
			continue
		}
		if p != xs[i] {
			return nil, false
		}
	}
	return params, true
}

// Lookup finds the route for path in Routes.
func Lookup(path string) (Route, map[string]string, bool) {
	for _, r := range Routes {
		if params, ok := Match(r.Pattern, path); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Router is the Navigator handed to verifiers and guards.
type Router struct {
	mu       sync.Mutex
	current  string
	history  []string
	onChange func(from, to string)
}

func New(start string) *Router {
	if start == "" {
		start = "/"
	}
	return &Router{current: start}
}

// OnChange registers the callback run after every move.
func (r *Router) OnChange(fn func(from, to string)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

func (r *Router) Navigate(path string) {
	r.mu.Lock()
	from := r.current
	r.history = append(r.history, from)
	r.current = path
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(from, path)
	}
}

// Back returns to the previous location, if any.
func (r *Router) Back() bool {
	r.mu.Lock()
	if len(r.history) == 0 {
		r.mu.Unlock()
		return false
	}
	from := r.current
	r.current = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	to, fn := r.current, r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(from, to)
	}
	return true
}

func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}
