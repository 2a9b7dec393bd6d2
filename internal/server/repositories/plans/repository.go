package plans

import (
	"context"

	"github.com/dmitrijs2005/jobportal/internal/server/models"
)

type Repository interface {
	ListActive(ctx context.Context) ([]*models.Plan, error)
	GetActiveByName(ctx context.Context, name models.PlanName) (*models.Plan, error)
}
