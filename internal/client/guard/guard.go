package guard

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
)

// RedirectPath is the destination of every denial.
const RedirectPath = "/"

// RoleDeniedNotice is shown on a role mismatch.
const RoleDeniedNotice = "You do not have permission to access this page"

// Source is the verifier as seen by a guard.
type Source interface {
	IsLoading() bool
	Settled() bool
	User() *models.User
	Wait(ctx context.Context) error
}

type Navigator interface {
	Navigate(path string)
}

type Notifier interface {
	Notify(msg string)
}

type Guard struct {
	source   Source
	req      Requirement
	nav      Navigator
	notifier Notifier

	mu    sync.Mutex
	fired Reason
}

// NewAuthGuard admits any logged-in user.
func NewAuthGuard(source Source, nav Navigator, notifier Notifier) *Guard {
	return &Guard{source: source, nav: nav, notifier: notifier}
}

// NewRoleGuard additionally requires the user's role to equal role.
func NewRoleGuard(source Source, role models.Role, nav Navigator, notifier Notifier) *Guard {
	return &Guard{source: source, req: Requirement{Role: role}, nav: nav, notifier: notifier}
}

func (g *Guard) Requirement() Requirement { return g.req }

// Decide evaluates the predicate against the current source state without
// waiting and without side effects.
func (g *Guard) Decide() Decision {
	return Authorize(State{
		Loading: g.source.IsLoading(),
		Settled: g.source.Settled(),
		User:    g.source.User(),
	}, g.req)
}

// Resolve waits for the source to settle and applies the decision. When ctx
// ends first the decision is Pending.
func (g *Guard) Resolve(ctx context.Context) Decision {
	if err := g.source.Wait(ctx); err != nil {
		return Decision{Outcome: Pending}
	}

	d := g.Decide()
	g.apply(d)
	return d
}

// Render runs view only when access is granted.
func (g *Guard) Render(ctx context.Context, view func(ctx context.Context) error) (Decision, error) {
	d := g.Resolve(ctx)
	if !d.Granted() {
		return d, nil
	}
	return d, view(ctx)
}

func (g *Guard) apply(d Decision) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch d.Outcome {
	case Granted:
		g.fired = NoReason
	case Denied:
		if g.fired == d.Reason {
			return
		}
		g.fired = d.Reason
		if d.Reason == RoleMismatch && g.notifier != nil {
			g.notifier.Notify(RoleDeniedNotice)
		}
		if g.nav != nil {
			g.nav.Navigate(RedirectPath)
		}
	}
}
