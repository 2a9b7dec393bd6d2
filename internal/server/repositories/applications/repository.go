package applications

import (
	"context"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Application) (*models.Application, error)
	GetByID(ctx context.Context, id string) (*models.Application, error)
	Exists(ctx context.Context, jobID, applicantID string) (bool, error)
	ListByJob(ctx context.Context, jobID string, limit, offset int) ([]*models.Application, int, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]*models.Application, error)
	Review(ctx context.Context, id string, status models.ApplicationStatus, reviewerID string, at time.Time) (*models.Application, error)
	Delete(ctx context.Context, id string) error
	ResumeKeysByJob(ctx context.Context, jobID string) ([]string, error)
}
