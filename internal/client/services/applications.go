package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/jobportal/internal/client/client"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/filex"
	"github.com/dmitrijs2005/jobportal/internal/netx"
)

// MaxResumeSize matches the server's upload limit.
const MaxResumeSize = 10 << 20

var (
	ErrResumeNotPDF   = errors.New("only PDF files are allowed for resumes")
	ErrResumeTooLarge = errors.New("file size exceeds maximum limit of 10MB")
)

// download is swapped in tests.
var download = netx.DownloadFromPresignedURL

type ApplicationService interface {
	// Apply reads the resume from resumePath and submits the application.
	Apply(ctx context.Context, jobID string, in models.ApplicationInput, resumePath string) (*models.Application, error)
	Mine(ctx context.Context) ([]models.Application, error)
	ForJob(ctx context.Context, jobID string, page, pageSize int) (*models.ApplicationPage, error)
	Accept(ctx context.Context, jobID, applicationID string) (*models.Application, error)
	Reject(ctx context.Context, jobID, applicationID string) (*models.Application, error)
	Delete(ctx context.Context, applicationID string) error
	// DownloadResume stores the resume in the download dir and returns its path.
	DownloadResume(ctx context.Context, applicationID string) (string, error)
}

type applicationService struct {
	client      client.Client
	downloadDir string
}

func NewApplicationService(c client.Client, downloadDir string) ApplicationService {
	return &applicationService{client: c, downloadDir: downloadDir}
}

func (s *applicationService) Apply(ctx context.Context, jobID string, in models.ApplicationInput, resumePath string) (*models.Application, error) {
	if !strings.EqualFold(filepath.Ext(resumePath), ".pdf") {
		return nil, ErrResumeNotPDF
	}

	fi, err := os.Stat(resumePath)
	if err != nil {
		return nil, fmt.Errorf("resume error: %w", err)
	}
	if fi.Size() > MaxResumeSize {
		return nil, ErrResumeTooLarge
	}

	data, err := os.ReadFile(resumePath)
	if err != nil {
		return nil, fmt.Errorf("resume error: %w", err)
	}

	in.ResumeName = filepath.Base(resumePath)
	in.Resume = data

	app, err := s.client.Apply(ctx, jobID, in)
	if err != nil {
		return nil, fmt.Errorf("apply error: %w", err)
	}
	return app, nil
}

func (s *applicationService) Mine(ctx context.Context) ([]models.Application, error) {
	apps, err := s.client.MyApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("list my applications error: %w", err)
	}
	return apps, nil
}

func (s *applicationService) ForJob(ctx context.Context, jobID string, page, pageSize int) (*models.ApplicationPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	res, err := s.client.JobApplications(ctx, jobID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list job applications error: %w", err)
	}
	return res, nil
}

func (s *applicationService) Accept(ctx context.Context, jobID, applicationID string) (*models.Application, error) {
	app, err := s.client.AcceptApplication(ctx, jobID, applicationID)
	if err != nil {
		return nil, fmt.Errorf("accept error: %w", err)
	}
	return app, nil
}

func (s *applicationService) Reject(ctx context.Context, jobID, applicationID string) (*models.Application, error) {
	app, err := s.client.RejectApplication(ctx, jobID, applicationID)
	if err != nil {
		return nil, fmt.Errorf("reject error: %w", err)
	}
	return app, nil
}

func (s *applicationService) Delete(ctx context.Context, applicationID string) error {
	if err := s.client.DeleteApplication(ctx, applicationID); err != nil {
		return fmt.Errorf("delete application error: %w", err)
	}
	return nil
}

func (s *applicationService) DownloadResume(ctx context.Context, applicationID string) (string, error) {
	url, err := s.client.ResumeURL(ctx, applicationID)
	if err != nil {
		return "", fmt.Errorf("resume url error: %w", err)
	}

	data, _, err := download(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download error: %w", err)
	}

	path, err := filex.WriteUnique(s.downloadDir, "resume-"+applicationID+".pdf", data)
	if err != nil {
		return "", fmt.Errorf("save error: %w", err)
	}
	return path, nil
}
