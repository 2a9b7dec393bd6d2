package payments

import (
	"context"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, tx *models.PaymentTransaction) (*models.PaymentTransaction, error)
	GetByUUID(ctx context.Context, transactionUUID string) (*models.PaymentTransaction, error)
	MarkCompleted(ctx context.Context, transactionUUID string, refID *string, at time.Time) error
	MarkStatus(ctx context.Context, transactionUUID string, status models.TransactionStatus, message string) error
}
