package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/client/client"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(fc *fakeClient, s *fakeSession, p Pinger, c CookieForgetter) AuthService {
	return NewAuthService(fc, s, p, c, logging.NewNopLogger())
}

func TestAuthService_Register(t *testing.T) {
	fc := &fakeClient{}
	a := newAuth(fc, &fakeSession{}, nil, nil)

	require.NoError(t, a.Register(context.Background(), "ann@example.com", []byte("password1"), "Ann"))
	assert.Equal(t, "ann@example.com", fc.LastRegisterEmail)
	assert.Equal(t, "Ann", fc.LastRegisterName)

	fc.RegisterErr = client.ErrConflict
	err := a.Register(context.Background(), "ann@example.com", []byte("password1"), "Ann")
	require.ErrorIs(t, err, client.ErrConflict)
}

func TestAuthService_LoginRefreshesSession(t *testing.T) {
	fc := &fakeClient{}
	s := &fakeSession{next: &models.User{ID: "u1", Role: models.RoleEmployee}}
	a := newAuth(fc, s, nil, nil)

	u, err := a.Login(context.Background(), "ann@example.com", []byte("password1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, 1, s.fetches)
	assert.Equal(t, []byte("password1"), fc.LastLoginPassword)
}

func TestAuthService_LoginErrors(t *testing.T) {
	fc := &fakeClient{LoginErr: client.ErrUnauthorized}
	s := &fakeSession{}
	a := newAuth(fc, s, nil, nil)

	_, err := a.Login(context.Background(), "ann@example.com", []byte("bad"))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Zero(t, s.fetches, "no refresh after a rejected login")

	fc.LoginErr = nil
	_, err = a.Login(context.Background(), "ann@example.com", []byte("good"))
	require.ErrorIs(t, err, client.ErrUnauthorized, "no user after refresh")
	assert.Equal(t, 1, s.fetches)
}

func TestAuthService_LogoutNeverBlockedByServer(t *testing.T) {
	fc := &fakeClient{LogoutErr: client.ErrUnavailable}
	s := &fakeSession{user: &models.User{ID: "u1"}}
	cookies := &fakeCookies{}
	a := newAuth(fc, s, nil, cookies)

	a.Logout(context.Background())

	assert.Equal(t, 1, fc.LogoutCalls)
	assert.Equal(t, 1, s.clears)
	assert.Nil(t, s.User())
	assert.Equal(t, 1, cookies.forgets)
}

func TestAuthService_LogoutGivesUpOnSilentServer(t *testing.T) {
	orig := logoutTimeout
	t.Cleanup(func() { logoutTimeout = orig })
	logoutTimeout = 20 * time.Millisecond

	fc := &fakeClient{LogoutHangs: true}
	s := &fakeSession{user: &models.User{ID: "u1"}}
	cookies := &fakeCookies{}
	a := newAuth(fc, s, nil, cookies)

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Logout(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("logout blocked on the server call")
	}
	assert.Equal(t, 1, s.clears)
	assert.Nil(t, s.User())
	assert.Equal(t, 1, cookies.forgets)
}

func TestAuthService_Ping(t *testing.T) {
	a := newAuth(&fakeClient{}, &fakeSession{}, fakePinger{}, nil)
	require.NoError(t, a.Ping(context.Background()))

	boom := errors.New("not serving")
	a = newAuth(&fakeClient{}, &fakeSession{}, fakePinger{err: boom}, nil)
	require.ErrorIs(t, a.Ping(context.Background()), boom)

	a = newAuth(&fakeClient{}, &fakeSession{}, nil, nil)
	require.ErrorIs(t, a.Ping(context.Background()), client.ErrUnavailable)
}
