// Package plans reads the subscription plans seeded by the migrations.
package plans

import (
	"context"

	"github.com/dmitrijs2005/jobportal/internal/dbx"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/pgerr"
)

const planColumns = `id, plan_name, price, currency, valid_for, description, is_active, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListActive(ctx context.Context) ([]*models.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+planColumns+` FROM plans WHERE is_active ORDER BY plan_name`)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	out := []*models.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return out, nil
}

func (r *PostgresRepository) GetActiveByName(ctx context.Context, name models.PlanName) (*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE plan_name = $1 AND is_active`
	return scanPlan(r.db.QueryRowContext(ctx, query, name))
}

func scanPlan(row pgerr.Scanner) (*models.Plan, error) {
	p := &models.Plan{}
	if err := row.Scan(&p.ID, &p.PlanName, &p.Price, &p.Currency, &p.ValidFor, &p.Description, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return p, nil
}
