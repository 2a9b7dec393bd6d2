package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/dbx"
	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobportal/internal/server/storage"
)

const defaultSalaryCurrency = "NPR"

type JobService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	logger      logging.Logger
	now         func() time.Time
}

func NewJobService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, logger logging.Logger) *JobService {
	return &JobService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "jobs"),
		now:         time.Now,
	}
}

// Create posts a job for an employer with an active plan. Featured jobs
// need the premium plan.
func (s *JobService) Create(ctx context.Context, user *models.User, in models.JobInput) (*models.Job, error) {
	if err := requireEmployer(user); err != nil {
		return nil, err
	}

	plan, err := s.repomanager.Subscriptions(s.db).ActivePlan(ctx, user.ID, s.now())
	if err != nil {
		return nil, common.ErrorInternal
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: you need an active subscription (standard or premium plan) to post jobs", common.ErrorPlanRequired)
	}

	job := &models.Job{
		SalaryCurrency: defaultSalaryCurrency,
		Status:         models.JobStatusDraft,
		WorkMode:       models.WorkModeOnsite,
		EmployerID:     user.ID,
	}
	applyJobInput(job, in)

	if err := validateRequired(in); err != nil {
		return nil, err
	}
	if job.IsFeatured && *plan != models.PlanPremium {
		return nil, fmt.Errorf("%w: featured jobs require the premium plan", common.ErrorPlanRequired)
	}

	now := s.now().UTC()
	if err := validateJob(job, now); err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusPublished {
		job.PublishedAt = &now
	}

	created, err := s.repomanager.Jobs(s.db).Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("error creating job: %w", err)
	}
	s.logger.Info(ctx, "job created", "job_id", created.ID, "employer_id", user.ID)
	return created, nil
}

// Update applies the non-nil fields of in to a job the user owns.
func (s *JobService) Update(ctx context.Context, user *models.User, id string, in models.JobInput) (*models.Job, error) {
	job, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	wasFeatured := job.IsFeatured
	applyJobInput(job, in)

	if job.IsFeatured && !wasFeatured {
		plan, err := s.repomanager.Subscriptions(s.db).ActivePlan(ctx, user.ID, s.now())
		if err != nil {
			return nil, common.ErrorInternal
		}
		if plan == nil || *plan != models.PlanPremium {
			return nil, fmt.Errorf("%w: featured jobs require the premium plan", common.ErrorPlanRequired)
		}
	}

	now := s.now().UTC()
	if err := validateJob(job, now); err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusPublished && job.PublishedAt == nil {
		job.PublishedAt = &now
	}

	return s.save(ctx, job)
}

// UpdateStatus moves a job the user owns to status. Publishing stamps
// published_at the first time only.
func (s *JobService) UpdateStatus(ctx context.Context, user *models.User, id string, status models.JobStatus) (*models.Job, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", common.ErrorValidation, status)
	}

	job, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	job.Status = status
	if status == models.JobStatusPublished && job.PublishedAt == nil {
		now := s.now().UTC()
		job.PublishedAt = &now
	}
	return s.save(ctx, job)
}

// Delete removes a job the user owns together with its applications and
// their stored resumes.
func (s *JobService) Delete(ctx context.Context, user *models.User, id string) error {
	job, err := s.owned(ctx, user, id)
	if err != nil {
		return err
	}

	var keys []string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		keys, err = s.repomanager.Applications(tx).ResumeKeysByJob(ctx, job.ID)
		if err != nil {
			return err
		}
		return s.repomanager.Jobs(tx).Delete(ctx, job.ID)
	})
	if err != nil {
		return fmt.Errorf("error deleting job: %w", err)
	}

	for _, k := range keys {
		if err := s.store.Delete(ctx, k); err != nil {
			s.logger.Warn(ctx, "failed to delete resume", "key", k, "error", err)
		}
	}
	s.logger.Info(ctx, "job deleted", "job_id", job.ID, "resumes", len(keys))
	return nil
}

// Get returns a job the user owns, whatever its status.
func (s *JobService) Get(ctx context.Context, user *models.User, id string) (*models.Job, error) {
	return s.owned(ctx, user, id)
}

func (s *JobService) ListMine(ctx context.Context, user *models.User) ([]*models.Job, error) {
	if err := requireEmployer(user); err != nil {
		return nil, err
	}
	jobs, err := s.repomanager.Jobs(s.db).ListByEmployer(ctx, user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return jobs, nil
}

// ListPublic pages through published, active, unexpired jobs.
func (s *JobService) ListPublic(ctx context.Context, f models.JobFilter) (*models.JobPage, error) {
	page, size, err := normalizePage(f.Page, f.PageSize)
	if err != nil {
		return nil, err
	}
	f.Page, f.PageSize = page, size

	if f.EmploymentType != "" && !f.EmploymentType.Valid() {
		return nil, fmt.Errorf("%w: invalid employment_type %q", common.ErrorValidation, f.EmploymentType)
	}
	if f.ExperienceLevel != "" && !f.ExperienceLevel.Valid() {
		return nil, fmt.Errorf("%w: invalid experience_level %q", common.ErrorValidation, f.ExperienceLevel)
	}
	if f.WorkMode != "" && !f.WorkMode.Valid() {
		return nil, fmt.Errorf("%w: invalid work_mode %q", common.ErrorValidation, f.WorkMode)
	}

	jobs, total, err := s.repomanager.Jobs(s.db).ListPublic(ctx, f, s.now().UTC())
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &models.JobPage{
		Jobs:     jobs,
		Total:    total,
		Page:     page,
		PageSize: size,
		HasNext:  (page-1)*size+len(jobs) < total,
	}, nil
}

// GetPublic returns a publicly visible job and counts the view.
func (s *JobService) GetPublic(ctx context.Context, id string) (*models.Job, error) {
	id, err := parseID(id, "job")
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Jobs(s.db)
	job, err := repo.GetPublic(ctx, id, s.now().UTC())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: job not found or not available for viewing", common.ErrorNotFound)
		}
		return nil, common.ErrorInternal
	}

	if err := repo.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn(ctx, "failed to count job view", "job_id", id, "error", err)
	} else {
		job.ViewCount++
	}
	return job, nil
}

// owned loads a job and checks the caller is its employer.
func (s *JobService) owned(ctx context.Context, user *models.User, id string) (*models.Job, error) {
	if err := requireEmployer(user); err != nil {
		return nil, err
	}
	id, err := parseID(id, "job")
	if err != nil {
		return nil, err
	}

	job, err := s.repomanager.Jobs(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: job not found", common.ErrorNotFound)
		}
		return nil, common.ErrorInternal
	}
	if job.EmployerID != user.ID {
		return nil, fmt.Errorf("%w: you don't have permission to access this job", common.ErrorForbidden)
	}
	return job, nil
}

func (s *JobService) save(ctx context.Context, job *models.Job) (*models.Job, error) {
	updated, err := s.repomanager.Jobs(s.db).Update(ctx, job)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: job not found", common.ErrorNotFound)
		}
		return nil, fmt.Errorf("error updating job: %w", err)
	}
	return updated, nil
}

func applyJobInput(j *models.Job, in models.JobInput) {
	setIf(&j.Title, in.Title)
	setIf(&j.CompanyName, in.CompanyName)
	setIf(&j.Location, in.Location)
	setIf(&j.WorkMode, in.WorkMode)
	setIf(&j.Description, in.Description)
	setIf(&j.EmploymentType, in.EmploymentType)
	setIf(&j.ExperienceLevel, in.ExperienceLevel)
	setIf(&j.SalaryCurrency, in.SalaryCurrency)
	setIf(&j.IsSalaryNegotiable, in.IsSalaryNegotiable)
	setIf(&j.Status, in.Status)
	setIf(&j.IsFeatured, in.IsFeatured)

	if in.SalaryMin != nil {
		j.SalaryMin = in.SalaryMin
	}
	if in.SalaryMax != nil {
		j.SalaryMax = in.SalaryMax
	}
	if in.SalaryPeriod != nil {
		j.SalaryPeriod = in.SalaryPeriod
	}
	if in.Category != nil {
		j.Category = in.Category
	}
	if in.Industry != nil {
		j.Industry = in.Industry
	}
	if in.ApplicationDeadline != nil {
		t := in.ApplicationDeadline.UTC()
		j.ApplicationDeadline = &t
	}
	if in.ExpiresAt != nil {
		t := in.ExpiresAt.UTC()
		j.ExpiresAt = &t
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func validateRequired(in models.JobInput) error {
	missing := []string{}
	for name, v := range map[string]*string{
		"title":        in.Title,
		"company_name": in.CompanyName,
		"location":     in.Location,
		"description":  in.Description,
	} {
		if v == nil || strings.TrimSpace(*v) == "" {
			missing = append(missing, name)
		}
	}
	if in.EmploymentType == nil {
		missing = append(missing, "employment_type")
	}
	if in.ExperienceLevel == nil {
		missing = append(missing, "experience_level")
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: missing required fields: %s", common.ErrorValidation, strings.Join(missing, ", "))
	}
	return nil
}

// validateJob checks the enums, the salary range and the dates of j.
// Dates are only required to be in the future when set.
func validateJob(j *models.Job, now time.Time) error {
	if strings.TrimSpace(j.Title) == "" || strings.TrimSpace(j.CompanyName) == "" ||
		strings.TrimSpace(j.Location) == "" || strings.TrimSpace(j.Description) == "" {
		return fmt.Errorf("%w: title, company_name, location and description must not be empty", common.ErrorValidation)
	}
	if !j.WorkMode.Valid() {
		return fmt.Errorf("%w: invalid work_mode %q", common.ErrorValidation, j.WorkMode)
	}
	if !j.EmploymentType.Valid() {
		return fmt.Errorf("%w: invalid employment_type %q", common.ErrorValidation, j.EmploymentType)
	}
	if !j.ExperienceLevel.Valid() {
		return fmt.Errorf("%w: invalid experience_level %q", common.ErrorValidation, j.ExperienceLevel)
	}
	if !j.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", common.ErrorValidation, j.Status)
	}

	if j.SalaryMin != nil && *j.SalaryMin < 0 || j.SalaryMax != nil && *j.SalaryMax < 0 {
		return fmt.Errorf("%w: salary must not be negative", common.ErrorValidation)
	}
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin > *j.SalaryMax {
		return fmt.Errorf("%w: salary_min cannot be greater than salary_max", common.ErrorValidation)
	}

	if j.ApplicationDeadline != nil && !j.ApplicationDeadline.After(now) {
		return fmt.Errorf("%w: application_deadline must be in the future", common.ErrorValidation)
	}
	if j.ExpiresAt != nil && !j.ExpiresAt.After(now) {
		return fmt.Errorf("%w: expires_at must be in the future", common.ErrorValidation)
	}
	if j.ApplicationDeadline != nil && j.ExpiresAt != nil && j.ApplicationDeadline.After(*j.ExpiresAt) {
		return fmt.Errorf("%w: application_deadline cannot be after expires_at", common.ErrorValidation)
	}
	return nil
}
