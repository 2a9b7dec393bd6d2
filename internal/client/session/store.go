// Package session holds the signed-in user for the lifetime of the CLI.
//
// The Store is created once at start, hydrated from local storage, and handed
// to every consumer that needs the user (verifier, guards, services). The
// initialized flag separates "not checked yet" from "checked, nobody signed
// in"; it is never persisted, so every process start derives it again.
//
// Network responses are ordered by a monotonic ticket: each round trip takes
// the next ticket when it is issued, and its result is applied only if no
// later operation (another round trip, SetUser or ClearUser) has been issued
// in the meantime. The latest issued operation therefore wins regardless of
// which response arrives last. A discarded response never settles the
// initialized flag on its own.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

// UserFetcher performs the credentialed "current user" request.
type UserFetcher interface {
	Me(ctx context.Context) (*models.User, error)
}

// Persister is the local storage behind the store.
type Persister interface {
	// Load returns (nil, nil) when nothing is stored.
	Load(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	Remove(ctx context.Context) error
}

// State is a point-in-time copy of the store.
type State struct {
	User        *models.User
	Initialized bool
}

type Store struct {
	fetcher   UserFetcher
	persister Persister
	logger    logging.Logger

	mu          sync.RWMutex
	user        *models.User
	initialized bool
	ticket      uint64

	persistMu sync.Mutex

	listenersMu  sync.Mutex
	listeners    map[int]func(State)
	nextListener int
}

// NewStore builds the store and hydrates the user from persister. A record
// that cannot be read is discarded.
func NewStore(ctx context.Context, fetcher UserFetcher, persister Persister, logger logging.Logger) *Store {
	s := &Store{
		fetcher:   fetcher,
		persister: persister,
		logger:    logger.With("module", "session"),
		listeners: map[int]func(State){},
	}

	u, err := persister.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "discarding unreadable session record", "error", err)
		if err := persister.Remove(ctx); err != nil {
			s.logger.Warn(ctx, "could not remove session record", "error", err)
		}
		return s
	}
	if u != nil {
		s.logger.Debug(ctx, "session hydrated", "user_id", u.ID)
	}
	s.user = u
	return s
}

// Initialize settles the initialized flag. A hydrated user is trusted without
// a network call; otherwise the current user is requested once. Failures
// leave the store with no user. Calls after the first settle are no-ops.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	if s.user != nil {
		s.initialized = true
		state := s.stateLocked()
		s.mu.Unlock()
		s.notify(state)
		return
	}
	ticket := s.issueLocked()
	s.mu.Unlock()

	s.roundTrip(ctx, ticket, "initialize")
}

// FetchUser always re-requests the current user and replaces or clears the
// stored record. Used after external events such as a payment return.
func (s *Store) FetchUser(ctx context.Context) {
	s.mu.Lock()
	ticket := s.issueLocked()
	s.mu.Unlock()

	s.roundTrip(ctx, ticket, "fetch")
}

// SetUser replaces the user and settles the store: after an explicit set or
// clear the user is known. A nil user is the same as ClearUser.
func (s *Store) SetUser(ctx context.Context, u *models.User) {
	s.mu.Lock()
	s.issueLocked()
	s.user = u.Clone()
	s.initialized = true
	state := s.stateLocked()
	s.mu.Unlock()

	s.sync(ctx)
	s.notify(state)
}

// ClearUser forgets the user and removes the persisted record.
func (s *Store) ClearUser(ctx context.Context) {
	s.SetUser(ctx, nil)
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

// Subscribe registers fn to be called after every change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) roundTrip(ctx context.Context, ticket uint64, op string) {
	u, err := s.fetcher.Me(ctx)
	if err != nil {
		s.logger.Debug(ctx, "current user request failed", "op", op, "error", err)
		u = nil
	}

	s.mu.Lock()
	stale := ticket != s.ticket
	// a stale response leaves initialized to the newer operation, which
	// either already settled it or is still in flight
	if !stale {
		s.user = u.Clone()
		s.initialized = true
	}
	state := s.stateLocked()
	s.mu.Unlock()

	if stale {
		s.logger.Debug(ctx, "discarding stale current user response", "op", op, "ticket", ticket)
		return
	}

	s.sync(ctx)
	s.notify(state)
}

// sync writes whatever the store holds now, so concurrent writers always
// leave the latest state on disk.
func (s *Store) sync(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	u := s.user.Clone()
	s.mu.RUnlock()

	if u == nil {
		if err := s.persister.Remove(ctx); err != nil {
			s.logger.Warn(ctx, "could not remove session record", "error", err)
		}
		return
	}
	if err := s.persister.Save(ctx, u); err != nil {
		s.logger.Warn(ctx, "could not persist session record", "error", err)
	}
}

func (s *Store) notify(state State) {
	s.listenersMu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func (s *Store) issueLocked() uint64 {
	s.ticket++
	return s.ticket
}

func (s *Store) stateLocked() State {
	return State{User: s.user.Clone(), Initialized: s.initialized}
}
