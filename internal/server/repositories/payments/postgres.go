// Package payments records eSewa payment transactions.
package payments

import (
	"context"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/dbx"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/pgerr"
)

const transactionColumns = `id, transaction_uuid, user_id, plan_id, amount, status, esewa_ref_id,
 product_id, error_message, created_at, completed_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.PaymentTransaction) (*models.PaymentTransaction, error) {
	query :=
		`INSERT INTO payment_transactions (transaction_uuid, user_id, plan_id, amount, status, product_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + transactionColumns
	return scanTransaction(r.db.QueryRowContext(ctx, query,
		t.TransactionUUID, t.UserID, t.PlanID, t.Amount, t.Status, t.ProductID))
}

func (r *PostgresRepository) GetByUUID(ctx context.Context, transactionUUID string) (*models.PaymentTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM payment_transactions WHERE transaction_uuid = $1`
	return scanTransaction(r.db.QueryRowContext(ctx, query, transactionUUID))
}

// MarkCompleted settles a transaction once. A transaction that is missing or
// already completed yields common.ErrorNotFound.
func (r *PostgresRepository) MarkCompleted(ctx context.Context, transactionUUID string, refID *string, at time.Time) error {
	query :=
		`UPDATE payment_transactions
		 SET status = 'completed', esewa_ref_id = $2, completed_at = $3, updated_at = $3
		 WHERE transaction_uuid = $1 AND status <> 'completed'`
	return pgerr.ExpectOne(r.db.ExecContext(ctx, query, transactionUUID, refID, at))
}

// MarkStatus records a non-successful outcome. Completed transactions are
// never downgraded.
func (r *PostgresRepository) MarkStatus(ctx context.Context, transactionUUID string, status models.TransactionStatus, message string) error {
	query :=
		`UPDATE payment_transactions
		 SET status = $2, error_message = NULLIF($3, ''), updated_at = now()
		 WHERE transaction_uuid = $1 AND status <> 'completed'`
	return pgerr.ExpectOne(r.db.ExecContext(ctx, query, transactionUUID, status, message))
}

func scanTransaction(row pgerr.Scanner) (*models.PaymentTransaction, error) {
	t := &models.PaymentTransaction{}
	err := row.Scan(&t.ID, &t.TransactionUUID, &t.UserID, &t.PlanID, &t.Amount, &t.Status,
		&t.EsewaRefID, &t.ProductID, &t.ErrorMessage, &t.CreatedAt, &t.CompletedAt)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return t, nil
}
