// Package services contains server-side business logic. Services take a
// *sql.DB and a RepositoryManager and run multi-step writes through
// dbx.WithTx so repositories share one transaction.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/cryptox"
	"github.com/dmitrijs2005/jobportal/internal/server/auth"
	"github.com/dmitrijs2005/jobportal/internal/server/config"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/repomanager"
)

// UserService handles registration, login, sessions and profiles.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	denylist                    auth.Denylist
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, denylist auth.Denylist, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		denylist:                    denylist,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// TokenValidity is the lifetime of issued access tokens and their cookie.
func (s *UserService) TokenValidity() time.Duration {
	return s.accessTokenValidityDuration
}

// Register creates an employee account. Duplicate emails yield
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email string, password []byte, name string) (*models.User, error) {
	defer common.WipeByteArray(password)

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooShort) {
			return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, cryptox.MinPasswordLength)
		}
		return nil, common.ErrorInternal
	}

	user := &models.User{Email: email, PasswordHash: hash, Role: models.RoleEmployee}
	if name = strings.TrimSpace(name); name != "" {
		user.Name = &name
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: email already registered", common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and mints an access token.
func (s *UserService) Login(ctx context.Context, email string, password []byte) (string, *models.User, error) {
	defer common.WipeByteArray(password)

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
		}
		return "", nil, common.ErrorInternal
	}

	ok, err := cryptox.VerifyPassword(user.PasswordHash, password)
	if err != nil || !ok {
		return "", nil, fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("%w: account is disabled", common.ErrorUnauthorized)
	}

	token, _, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}
	return token, user, nil
}

// Authenticate resolves a token to its active user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: not authenticated", common.ErrorUnauthorized)
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user not found", common.ErrorUnauthorized)
		}
		return nil, common.ErrorInternal
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", common.ErrorUnauthorized)
	}
	return user, nil
}

// Logout revokes token for the rest of its life. Tokens that no longer
// parse are already useless and are ignored.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Profile returns the user together with the plan of their active
// subscription, if any.
func (s *UserService) Profile(ctx context.Context, user *models.User) (*models.Profile, error) {
	plan, err := s.repomanager.Subscriptions(s.db).ActivePlan(ctx, user.ID, s.now())
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &models.Profile{User: user, Plan: plan}, nil
}
