package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobportal/internal/client/client"
	"github.com/dmitrijs2005/jobportal/internal/client/guard"
	"github.com/dmitrijs2005/jobportal/internal/client/router"
	"github.com/dmitrijs2005/jobportal/internal/client/verifier"
)

var errUnknownRoute = errors.New("unknown route")

// usageError reports wrong command arguments.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

// open moves to path and runs view behind the route's guard. Public routes
// render directly. Protected routes mount a fresh verifier, so every visit
// re-validates the session, and unmount it when the screen is left.
func (a *App) open(ctx context.Context, path string, view func(ctx context.Context) error) error {
	route, _, ok := router.Lookup(path)
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownRoute, path)
	}

	a.router.Navigate(path)

	if route.Access == router.Public {
		return view(ctx)
	}

	if a.Mode() == ModeOffline {
		a.router.Back()
		return fmt.Errorf("%s needs the server: %w", route.Name, client.ErrUnavailable)
	}

	v := verifier.New(a.store, a.verifyAPI, a.router, a.logger)
	v.Mount(ctx)
	defer v.Unmount()

	var g *guard.Guard
	if route.Access == router.RoleRequired {
		g = guard.NewRoleGuard(v, route.Role, a.router, a)
	} else {
		g = guard.NewAuthGuard(v, a.router, a)
	}

	if g.Decide().Outcome == guard.Pending {
		printlnFn("Loading...")
	}

	d, err := g.Render(ctx, view)
	if d.Denied() && d.Reason == guard.NotLoggedIn {
		printlnFn("Please log in first.")
	}
	return err
}
