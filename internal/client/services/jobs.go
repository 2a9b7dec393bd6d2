package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobportal/internal/client/client"
	"github.com/dmitrijs2005/jobportal/internal/client/guard"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
)

// ErrPremiumRequired is returned before a featured posting is sent by a user
// without the premium plan.
var ErrPremiumRequired = errors.New("featured jobs require the premium plan")

// DefaultPageSize is used when the caller leaves the page size at zero.
const DefaultPageSize = 10

type JobService interface {
	Browse(ctx context.Context, f models.JobFilter) (*models.JobPage, error)
	View(ctx context.Context, id string) (*models.Job, error)
	Post(ctx context.Context, in models.JobInput) (*models.Job, error)
	Edit(ctx context.Context, id string, in models.JobInput) (*models.Job, error)
	SetStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error)
	Delete(ctx context.Context, id string) error
	Mine(ctx context.Context) ([]models.Job, error)
	Owned(ctx context.Context, id string) (*models.Job, error)
}

type jobService struct {
	client  client.Client
	session Session
}

func NewJobService(c client.Client, session Session) JobService {
	return &jobService{client: c, session: session}
}

func (s *jobService) Browse(ctx context.Context, f models.JobFilter) (*models.JobPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	page, err := s.client.ListPublicJobs(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list jobs error: %w", err)
	}
	return page, nil
}

func (s *jobService) View(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.client.GetPublicJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job error: %w", err)
	}
	return job, nil
}

func (s *jobService) Post(ctx context.Context, in models.JobInput) (*models.Job, error) {
	if err := s.checkFeatured(in); err != nil {
		return nil, err
	}
	job, err := s.client.CreateJob(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create job error: %w", err)
	}
	return job, nil
}

func (s *jobService) Edit(ctx context.Context, id string, in models.JobInput) (*models.Job, error) {
	if err := s.checkFeatured(in); err != nil {
		return nil, err
	}
	job, err := s.client.UpdateJob(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update job error: %w", err)
	}
	return job, nil
}

func (s *jobService) SetStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error) {
	job, err := s.client.UpdateJobStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update job status error: %w", err)
	}
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteJob(ctx, id); err != nil {
		return fmt.Errorf("delete job error: %w", err)
	}
	return nil
}

func (s *jobService) Mine(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.client.MyJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list my jobs error: %w", err)
	}
	return jobs, nil
}

func (s *jobService) Owned(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.client.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job error: %w", err)
	}
	return job, nil
}

func (s *jobService) checkFeatured(in models.JobInput) error {
	if in.IsFeatured == nil || !*in.IsFeatured {
		return nil
	}
	if !guard.HasPlan(s.session.User(), models.PlanPremium) {
		return ErrPremiumRequired
	}
	return nil
}
