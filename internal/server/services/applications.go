package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/dbx"
	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/dmitrijs2005/jobportal/internal/server/mailer"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobportal/internal/server/storage"
)

// MaxResumeSize is the largest accepted resume upload.
const MaxResumeSize = 10 << 20

var pdfMagic = []byte("%PDF")

type ApplicationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	mailer      mailer.Mailer
	logger      logging.Logger
	now         func() time.Time

	// mails tracks background acceptance emails.
	mails sync.WaitGroup
}

func NewApplicationService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, ml mailer.Mailer, logger logging.Logger) *ApplicationService {
	return &ApplicationService{
		db:          db,
		repomanager: m,
		store:       store,
		mailer:      ml,
		logger:      logger.With("module", "applications"),
		now:         time.Now,
	}
}

// Apply stores the resume and records a pending application to an open job.
func (s *ApplicationService) Apply(ctx context.Context, user *models.User, jobID string, in models.ApplicationInput) (*models.Application, error) {
	jobID, err := parseID(jobID, "job")
	if err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Jobs(s.db).GetPublic(ctx, jobID, s.now().UTC()); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: job not found or not available for applications", common.ErrorNotFound)
		}
		return nil, common.ErrorInternal
	}

	exists, err := s.repomanager.Applications(s.db).Exists(ctx, jobID, user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if exists {
		return nil, fmt.Errorf("%w: you have already applied for this job", common.ErrorAlreadyExists)
	}

	if err := validateResume(in.Resume); err != nil {
		return nil, err
	}

	key := storage.ResumeKey(jobID)
	if err := s.store.Put(ctx, key, in.Resume.Data, "application/pdf"); err != nil {
		s.logger.Error(ctx, "resume upload failed", "job_id", jobID, "error", err)
		return nil, fmt.Errorf("%w: failed to upload resume", common.ErrorInternal)
	}

	app := &models.Application{
		JobID:            jobID,
		ApplicantID:      user.ID,
		CoverLetter:      in.CoverLetter,
		ResumeKey:        &key,
		PortfolioURL:     in.PortfolioURL,
		LinkedinURL:      in.LinkedinURL,
		GithubURL:        in.GithubURL,
		ExpectedSalary:   in.ExpectedSalary,
		AvailabilityDate: in.AvailabilityDate,
		AdditionalNotes:  in.AdditionalNotes,
	}

	created, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Application, error) {
		a, err := s.repomanager.Applications(tx).Create(ctx, app)
		if err != nil {
			return nil, err
		}
		if err := s.repomanager.Jobs(tx).AdjustApplicationCount(ctx, jobID, 1); err != nil {
			return nil, err
		}
		return a, nil
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn(ctx, "failed to remove orphaned resume", "key", key, "error", delErr)
		}
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: you have already applied for this job", common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("error creating application: %w", err)
	}

	s.logger.Info(ctx, "application submitted", "application_id", created.ID, "job_id", jobID)
	return created, nil
}

// ListForJob pages through the applications to a job the user owns.
func (s *ApplicationService) ListForJob(ctx context.Context, user *models.User, jobID string, page, size int) (*models.ApplicationPage, error) {
	page, size, err := normalizePage(page, size)
	if err != nil {
		return nil, err
	}
	job, err := s.ownedJob(ctx, user, jobID, false)
	if err != nil {
		return nil, err
	}

	apps, total, err := s.repomanager.Applications(s.db).ListByJob(ctx, job.ID, size, (page-1)*size)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &models.ApplicationPage{
		Applications: apps,
		Total:        total,
		Page:         page,
		PageSize:     size,
		HasNext:      (page-1)*size+len(apps) < total,
	}, nil
}

// ListMine returns the user's applications with job title and company.
func (s *ApplicationService) ListMine(ctx context.Context, user *models.User) ([]*models.Application, error) {
	apps, err := s.repomanager.Applications(s.db).ListByApplicant(ctx, user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return apps, nil
}

// Accept marks the application accepted and mails the applicant in the
// background. Mail failures are logged only.
func (s *ApplicationService) Accept(ctx context.Context, user *models.User, applicationID, jobID string) (*models.Application, error) {
	app, job, err := s.review(ctx, user, applicationID, jobID, models.ApplicationAccepted)
	if err != nil {
		return nil, err
	}

	applicant, err := s.repomanager.Users(s.db).GetByID(ctx, app.ApplicantID)
	if err != nil {
		s.logger.Warn(ctx, "acceptance email not sent: applicant lookup failed", "application_id", app.ID, "error", err)
		return app, nil
	}

	msg := mailer.Acceptance{To: applicant.Email, JobTitle: job.Title, CompanyName: job.CompanyName}
	if applicant.Name != nil {
		msg.ApplicantName = *applicant.Name
	}

	mailCtx := context.WithoutCancel(ctx)
	s.mails.Add(1)
	go func() {
		defer s.mails.Done()
		if err := s.mailer.SendApplicationAccepted(mailCtx, msg); err != nil {
			s.logger.Warn(mailCtx, "acceptance email failed", "application_id", app.ID, "error", err)
		}
	}()
	return app, nil
}

func (s *ApplicationService) Reject(ctx context.Context, user *models.User, applicationID, jobID string) (*models.Application, error) {
	app, _, err := s.review(ctx, user, applicationID, jobID, models.ApplicationRejected)
	return app, err
}

// Wait blocks until background emails have been handed to the mailer.
func (s *ApplicationService) Wait() {
	s.mails.Wait()
}

// Delete removes an application to a job the user owns, its resume, and
// one from the job's application count.
func (s *ApplicationService) Delete(ctx context.Context, user *models.User, applicationID string) error {
	if err := requireEmployer(user); err != nil {
		return err
	}
	app, err := s.application(ctx, applicationID)
	if err != nil {
		return err
	}
	if _, err := s.ownedJob(ctx, user, app.JobID, true); err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Applications(tx).Delete(ctx, app.ID); err != nil {
			return err
		}
		return s.repomanager.Jobs(tx).AdjustApplicationCount(ctx, app.JobID, -1)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: application not found", common.ErrorNotFound)
		}
		return fmt.Errorf("error deleting application: %w", err)
	}

	if app.ResumeKey != nil {
		if err := s.store.Delete(ctx, *app.ResumeKey); err != nil {
			s.logger.Warn(ctx, "failed to delete resume", "key", *app.ResumeKey, "error", err)
		}
	}
	return nil
}

// ResumeURL returns a short-lived download link for the application's
// resume. Only the applicant and the job's employer may ask.
func (s *ApplicationService) ResumeURL(ctx context.Context, user *models.User, applicationID string) (string, error) {
	app, err := s.application(ctx, applicationID)
	if err != nil {
		return "", err
	}

	if app.ApplicantID != user.ID {
		if _, err := s.ownedJob(ctx, user, app.JobID, true); err != nil {
			return "", fmt.Errorf("%w: you don't have permission to view this resume", common.ErrorForbidden)
		}
	}
	if app.ResumeKey == nil {
		return "", fmt.Errorf("%w: application has no resume", common.ErrorNotFound)
	}

	u, err := s.store.PresignGet(ctx, *app.ResumeKey)
	if err != nil {
		s.logger.Error(ctx, "presign resume failed", "application_id", app.ID, "error", err)
		return "", common.ErrorInternal
	}
	return u, nil
}

func (s *ApplicationService) review(ctx context.Context, user *models.User, applicationID, jobID string, status models.ApplicationStatus) (*models.Application, *models.Job, error) {
	if err := requireEmployer(user); err != nil {
		return nil, nil, err
	}
	applicationID, err := parseID(applicationID, "application")
	if err != nil {
		return nil, nil, err
	}
	job, err := s.ownedJob(ctx, user, jobID, true)
	if err != nil {
		return nil, nil, err
	}

	repo := s.repomanager.Applications(s.db)
	app, err := repo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, fmt.Errorf("%w: application not found", common.ErrorNotFound)
		}
		return nil, nil, common.ErrorInternal
	}
	if app.JobID != job.ID {
		return nil, nil, fmt.Errorf("%w: application not found", common.ErrorNotFound)
	}

	updated, err := repo.Review(ctx, app.ID, status, user.ID, s.now().UTC())
	if err != nil {
		return nil, nil, fmt.Errorf("error reviewing application: %w", err)
	}
	s.logger.Info(ctx, "application reviewed", "application_id", app.ID, "status", status)
	return updated, job, nil
}

func (s *ApplicationService) application(ctx context.Context, id string) (*models.Application, error) {
	id, err := parseID(id, "application")
	if err != nil {
		return nil, err
	}
	app, err := s.repomanager.Applications(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: application not found", common.ErrorNotFound)
		}
		return nil, common.ErrorInternal
	}
	return app, nil
}

// ownedJob loads a job the user employs for. With hideMissing a missing job
// reads as a permission failure, so job ids cannot be probed.
func (s *ApplicationService) ownedJob(ctx context.Context, user *models.User, jobID string, hideMissing bool) (*models.Job, error) {
	jobID, err := parseID(jobID, "job")
	if err != nil {
		return nil, err
	}
	job, err := s.repomanager.Jobs(s.db).GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			if hideMissing {
				return nil, fmt.Errorf("%w: you don't have permission to manage applications for this job", common.ErrorForbidden)
			}
			return nil, fmt.Errorf("%w: job not found", common.ErrorNotFound)
		}
		return nil, common.ErrorInternal
	}
	if job.EmployerID != user.ID {
		return nil, fmt.Errorf("%w: you don't have permission to manage applications for this job", common.ErrorForbidden)
	}
	return job, nil
}

// validateResume accepts PDF files up to MaxResumeSize. The content type may
// be application/octet-stream; the magic bytes decide.
func validateResume(r *models.Resume) error {
	if r == nil || len(r.Data) == 0 {
		return fmt.Errorf("%w: resume file is required", common.ErrorValidation)
	}
	if !strings.EqualFold(filepath.Ext(r.Filename), ".pdf") {
		return fmt.Errorf("%w: only PDF files are allowed for resume", common.ErrorValidation)
	}
	if r.ContentType != "" {
		mt, _, err := mime.ParseMediaType(r.ContentType)
		if err != nil || (mt != "application/pdf" && mt != "application/octet-stream") {
			return fmt.Errorf("%w: invalid resume content type %q", common.ErrorValidation, r.ContentType)
		}
	}
	if len(r.Data) > MaxResumeSize {
		return fmt.Errorf("%w: resume exceeds %d MB", common.ErrorValidation, MaxResumeSize>>20)
	}
	if !bytes.HasPrefix(r.Data, pdfMagic) {
		return fmt.Errorf("%w: resume is not a valid PDF file", common.ErrorValidation)
	}
	return nil
}
