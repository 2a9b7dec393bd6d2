// Package users stores accounts in PostgreSQL.
package users

import (
	"context"

	"github.com/dmitrijs2005/jobportal/internal/dbx"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/pgerr"
)

const userColumns = `id, email, password_hash, email_verified, name, avatar_url, role, is_active, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user and fills in the generated id and timestamps. A taken
// email yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (email, password_hash, name, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email_verified, is_active, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash, user.Name, user.Role).
		Scan(&user.ID, &user.EmailVerified, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	query := `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`
	return pgerr.ExpectOne(r.db.ExecContext(ctx, query, id, role))
}

func scanUser(row pgerr.Scanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.EmailVerified, &u.Name, &u.AvatarURL,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return u, nil
}
