package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/client/client"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

// logoutTimeout bounds the server side of Logout.
var logoutTimeout = 5 * time.Second

// Session is the part of the session store the services write to.
type Session interface {
	FetchUser(ctx context.Context)
	ClearUser(ctx context.Context)
	User() *models.User
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// CookieForgetter drops the locally persisted session cookie.
type CookieForgetter interface {
	Forget(ctx context.Context)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create an account; the user still has to log in.
//   - Login: obtain the session cookie, then refresh the session store.
//   - Logout: tell the server, then clear local state whatever it answered.
//   - Ping: check server liveness.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte, name string) error
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context)
	Ping(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session Session
	pinger  Pinger
	cookies CookieForgetter
	logger  logging.Logger
}

// NewAuthService wires the service. pinger and cookies may be nil.
func NewAuthService(c client.Client, session Session, pinger Pinger, cookies CookieForgetter, logger logging.Logger) AuthService {
	return &authService{
		client:  c,
		session: session,
		pinger:  pinger,
		cookies: cookies,
		logger:  logger.With("module", "auth"),
	}
}

func (a *authService) Register(ctx context.Context, email string, password []byte, name string) error {
	if err := a.client.Register(ctx, email, password, name); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Login returns the refreshed user. A login the server accepted but whose
// user record cannot be fetched is reported as unauthorized.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	if err := a.client.Login(ctx, email, password); err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	a.session.FetchUser(ctx)

	u := a.session.User()
	if u == nil {
		return nil, fmt.Errorf("login error: %w", client.ErrUnauthorized)
	}
	return u, nil
}

// Logout never fails from the caller's point of view. A server that does not
// answer within logoutTimeout is given up on.
func (a *authService) Logout(ctx context.Context) {
	sctx, cancel := context.WithTimeout(ctx, logoutTimeout)
	err := a.client.Logout(sctx)
	cancel()
	if err != nil {
		a.logger.Warn(ctx, "server logout failed, clearing local session anyway", "error", err)
	}
	a.session.ClearUser(ctx)
	if a.cookies != nil {
		a.cookies.Forget(ctx)
	}
}

func (a *authService) Ping(ctx context.Context) error {
	if a.pinger == nil {
		return client.ErrUnavailable
	}
	return a.pinger.Ping(ctx)
}
