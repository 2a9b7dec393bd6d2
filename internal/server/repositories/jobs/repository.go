package jobs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	GetByID(ctx context.Context, id string) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) (*models.Job, error)
	Delete(ctx context.Context, id string) error
	ListByEmployer(ctx context.Context, employerID string) ([]*models.Job, error)
	ListPublic(ctx context.Context, f models.JobFilter, now time.Time) ([]*models.Job, int, error)
	GetPublic(ctx context.Context, id string, now time.Time) (*models.Job, error)
	IncrementViewCount(ctx context.Context, id string) error
	AdjustApplicationCount(ctx context.Context, id string, delta int) error
}
