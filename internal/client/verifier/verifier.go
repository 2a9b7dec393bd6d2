// Package verifier re-validates the session when a protected screen mounts.
package verifier

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

// RootPath is where a failed verification sends the user.
const RootPath = "/"

// Session is the part of the session store the verifier drives.
type Session interface {
	FetchUser(ctx context.Context)
	ClearUser(ctx context.Context)
	User() *models.User
	Initialized() bool
}

// SessionAPI performs the credentialed verify request.
type SessionAPI interface {
	VerifySession(ctx context.Context) error
}

type Navigator interface {
	Navigate(path string)
}

// Verifier is mounted once per protected screen. Mount issues the verify
// request in the background; once Unmount has returned the verifier neither
// writes to the session nor navigates, although the request itself keeps
// running until it completes.
type Verifier struct {
	session Session
	api     SessionAPI
	nav     Navigator
	logger  logging.Logger

	// mu is held while an effect is applied, so Unmount waits for one that
	// is already under way.
	mu      sync.Mutex
	started bool
	mounted bool

	settled atomic.Bool
	done    chan struct{}
}

func New(session Session, api SessionAPI, nav Navigator, logger logging.Logger) *Verifier {
	return &Verifier{
		session: session,
		api:     api,
		nav:     nav,
		logger:  logger.With("module", "verifier"),
		done:    make(chan struct{}),
	}
}

// Mount starts verification. Only the first call has an effect.
func (v *Verifier) Mount(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.started {
		return
	}
	v.started = true
	v.mounted = true

	go v.run(ctx)
}

// Unmount marks the screen as gone.
func (v *Verifier) Unmount() {
	v.mu.Lock()
	v.mounted = false
	v.mu.Unlock()
}

// Wait blocks until verification has settled or ctx is done. It returns
// immediately for a verifier that was never mounted.
func (v *Verifier) Wait(ctx context.Context) error {
	v.mu.Lock()
	started := v.started
	v.mu.Unlock()
	if !started {
		return nil
	}

	select {
	case <-v.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (v *Verifier) IsLoggedIn() bool {
	return v.session.User() != nil
}

// IsLoading reports whether the session store has not settled yet.
func (v *Verifier) IsLoading() bool {
	return !v.session.Initialized()
}

// Settled reports whether the verify request has finished, either way.
func (v *Verifier) Settled() bool {
	return v.settled.Load()
}

func (v *Verifier) User() *models.User {
	return v.session.User()
}

func (v *Verifier) run(ctx context.Context) {
	defer close(v.done)
	defer v.settled.Store(true)

	err := v.api.VerifySession(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.mounted {
		v.logger.Debug(ctx, "verification finished after unmount, ignoring", "error", err)
		return
	}

	if err != nil {
		v.logger.Info(ctx, "session verification failed", "error", err)
		v.session.ClearUser(ctx)
		v.nav.Navigate(RootPath)
		return
	}

	v.session.FetchUser(ctx)
}
