package client

import (
	"context"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
)

// Client is the job portal HTTP API as seen by the CLI. All calls are
// credentialed by the access_token cookie held in the client's jar.
type Client interface {
	// Me returns the full user record including the active plan.
	Me(ctx context.Context) (*models.User, error)
	// VerifySession succeeds when the session cookie is valid and the
	// account is active.
	VerifySession(ctx context.Context) error
	Logout(ctx context.Context) error
	Register(ctx context.Context, email string, password []byte, name string) error
	Login(ctx context.Context, email string, password []byte) error

	ListPublicJobs(ctx context.Context, f models.JobFilter) (*models.JobPage, error)
	GetPublicJob(ctx context.Context, id string) (*models.Job, error)
	CreateJob(ctx context.Context, in models.JobInput) (*models.Job, error)
	UpdateJob(ctx context.Context, id string, in models.JobInput) (*models.Job, error)
	UpdateJobStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error)
	DeleteJob(ctx context.Context, id string) error
	MyJobs(ctx context.Context) ([]models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)

	Apply(ctx context.Context, jobID string, in models.ApplicationInput) (*models.Application, error)
	JobApplications(ctx context.Context, jobID string, page, pageSize int) (*models.ApplicationPage, error)
	MyApplications(ctx context.Context) ([]models.Application, error)
	AcceptApplication(ctx context.Context, jobID, applicationID string) (*models.Application, error)
	RejectApplication(ctx context.Context, jobID, applicationID string) (*models.Application, error)
	DeleteApplication(ctx context.Context, applicationID string) error
	ResumeURL(ctx context.Context, applicationID string) (string, error)

	ListPlans(ctx context.Context) ([]models.Plan, error)
	InitiatePayment(ctx context.Context, plan models.PlanName) (*models.PaymentInitiation, error)
}
