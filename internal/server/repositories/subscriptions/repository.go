package subscriptions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/server/models"
)

type Repository interface {
	ActivePlan(ctx context.Context, userID string, now time.Time) (*models.PlanName, error)
	DeactivateAll(ctx context.Context, userID string) error
	Create(ctx context.Context, s *models.Subscription) (*models.Subscription, error)
}
