package verifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/client/guard"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/client/session"
	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeSession struct {
	mu          sync.Mutex
	user        *models.User
	initialized bool
	fetches     int
	clears      int
	refreshed   *models.User
}

func (s *fakeSession) FetchUser(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	s.user = s.refreshed
	s.initialized = true
}

func (s *fakeSession) ClearUser(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	s.user = nil
	s.initialized = true
}

func (s *fakeSession) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

func (s *fakeSession) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *fakeSession) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches, s.clears
}

type fakeAPI struct {
	err  error
	gate chan struct{}
}

func (a *fakeAPI) VerifySession(ctx context.Context) error {
	if a.gate != nil {
		<-a.gate
	}
	return a.err
}

type fakeNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *fakeNav) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *fakeNav) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

func user(role models.Role) *models.User {
	return &models.User{ID: "u1", Email: "ann@example.com", Role: role}
}

func TestVerifier_SuccessRefreshesUser(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := &fakeSession{user: user(models.RoleEmployee), refreshed: user(models.RoleBoth)}
	nav := &fakeNav{}
	v := New(s, &fakeAPI{}, nav, logging.NewNopLogger())

	assert.False(t, v.Settled())
	assert.True(t, v.IsLoading())

	v.Mount(context.Background())
	require.NoError(t, v.Wait(context.Background()))

	fetches, clears := s.counts()
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 0, clears)
	assert.Empty(t, nav.visited())
	assert.True(t, v.Settled())
	assert.False(t, v.IsLoading())
	assert.True(t, v.IsLoggedIn())
	assert.Equal(t, models.RoleBoth, v.User().Role)
}

func TestVerifier_FailureClearsAndRedirects(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := &fakeSession{user: user(models.RoleEmployee), initialized: true}
	nav := &fakeNav{}
	v := New(s, &fakeAPI{err: errors.New("401")}, nav, logging.NewNopLogger())

	v.Mount(context.Background())
	require.NoError(t, v.Wait(context.Background()))

	fetches, clears := s.counts()
	assert.Equal(t, 0, fetches)
	assert.Equal(t, 1, clears)
	assert.Equal(t, []string{RootPath}, nav.visited())
	assert.False(t, v.IsLoggedIn())
	assert.True(t, v.Settled())
}

func TestVerifier_NoEffectsAfterUnmount(t *testing.T) {
	for name, apiErr := range map[string]error{"success": nil, "failure": errors.New("boom")} {
		t.Run(name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			s := &fakeSession{user: user(models.RoleEmployee)}
			nav := &fakeNav{}
			api := &fakeAPI{err: apiErr, gate: make(chan struct{})}
			v := New(s, api, nav, logging.NewNopLogger())

			v.Mount(context.Background())
			v.Unmount()
			close(api.gate)
			require.NoError(t, v.Wait(context.Background()))

			fetches, clears := s.counts()
			assert.Zero(t, fetches)
			assert.Zero(t, clears)
			assert.Empty(t, nav.visited())
			assert.True(t, v.Settled())
			assert.True(t, v.IsLoggedIn(), "store left untouched")
		})
	}
}

func TestVerifier_MountIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := &fakeSession{}
	nav := &fakeNav{}
	v := New(s, &fakeAPI{err: errors.New("401")}, nav, logging.NewNopLogger())

	ctx := context.Background()
	v.Mount(ctx)
	v.Mount(ctx)
	require.NoError(t, v.Wait(ctx))

	_, clears := s.counts()
	assert.Equal(t, 1, clears)
	assert.Len(t, nav.visited(), 1)
}

func TestVerifier_WaitHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := &fakeAPI{gate: make(chan struct{})}
	v := New(&fakeSession{}, api, &fakeNav{}, logging.NewNopLogger())
	v.Mount(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, v.Wait(ctx), context.DeadlineExceeded)
	assert.False(t, v.Settled())

	close(api.gate)
	require.NoError(t, v.Wait(context.Background()))
}

func TestVerifier_WaitWithoutMount(t *testing.T) {
	v := New(&fakeSession{}, &fakeAPI{}, &fakeNav{}, logging.NewNopLogger())
	require.NoError(t, v.Wait(context.Background()))
	assert.False(t, v.Settled())
}

type memPersister struct{ user *models.User }

func (p *memPersister) Load(context.Context) (*models.User, error)   { return p.user, nil }
func (p *memPersister) Save(_ context.Context, u *models.User) error { p.user = u; return nil }
func (p *memPersister) Remove(context.Context) error                 { p.user = nil; return nil }

type failingFetcher struct{}

func (failingFetcher) Me(context.Context) (*models.User, error) { return nil, errors.New("401") }

func TestVerifier_FailureOnUninitializedStore_GuardDenies(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()

	store := session.NewStore(ctx, failingFetcher{}, &memPersister{user: user(models.RoleEmployee)}, logging.NewNopLogger())
	require.False(t, store.Initialized())

	nav := &fakeNav{}
	v := New(store, &fakeAPI{err: errors.New("401")}, nav, logging.NewNopLogger())
	g := guard.NewAuthGuard(v, nav, nil)

	v.Mount(ctx)
	d := g.Resolve(ctx)

	assert.False(t, v.IsLoading(), "clearing the user settles the store")
	assert.Equal(t, guard.Denied, d.Outcome)
	assert.Equal(t, guard.NotLoggedIn, d.Reason)
	assert.Nil(t, store.User())
	assert.Equal(t, []string{RootPath, guard.RedirectPath}, nav.visited())
}
