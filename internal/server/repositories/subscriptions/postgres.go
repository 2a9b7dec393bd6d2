// Package subscriptions tracks which plan a user has paid for.
package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/dbx"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/pgerr"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ActivePlan returns the plan of the newest active, unexpired subscription,
// or nil when the user has none.
func (r *PostgresRepository) ActivePlan(ctx context.Context, userID string, now time.Time) (*models.PlanName, error) {
	query :=
		`SELECT p.plan_name
		 FROM user_subscriptions s JOIN plans p ON p.id = s.plan_id
		 WHERE s.user_id = $1 AND s.is_active AND s.expires_at > $2
		 ORDER BY s.expires_at DESC
		 LIMIT 1`

	var name models.PlanName
	err := r.db.QueryRowContext(ctx, query, userID, now).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return &name, nil
}

func (r *PostgresRepository) DeactivateAll(ctx context.Context, userID string) error {
	query := `UPDATE user_subscriptions SET is_active = FALSE, updated_at = now() WHERE user_id = $1 AND is_active`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return pgerr.Wrap(err)
	}
	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Subscription) (*models.Subscription, error) {
	query :=
		`INSERT INTO user_subscriptions (user_id, plan_id, transaction_id, started_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, is_active`
	err := r.db.QueryRowContext(ctx, query, s.UserID, s.PlanID, s.TransactionID, s.StartedAt, s.ExpiresAt).
		Scan(&s.ID, &s.IsActive)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return s, nil
}
