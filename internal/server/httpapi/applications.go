package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/services"
)

// multipartOverhead leaves room for the text fields next to the resume.
const multipartOverhead = 1 << 20

func formString(form *multipart.Form, key string) *string {
	vs := form.Value[key]
	if len(vs) == 0 {
		return nil
	}
	v := strings.TrimSpace(vs[0])
	if v == "" {
		return nil
	}
	return &v
}

func parseApplicationForm(form *multipart.Form) (models.ApplicationInput, error) {
	in := models.ApplicationInput{
		CoverLetter:     formString(form, "cover_letter"),
		PortfolioURL:    formString(form, "portfolio_url"),
		LinkedinURL:     formString(form, "linkedin_url"),
		GithubURL:       formString(form, "github_url"),
		AdditionalNotes: formString(form, "additional_notes"),
	}

	if v := formString(form, "expected_salary"); v != nil {
		f, err := strconv.ParseFloat(*v, 64)
		if err != nil || f < 0 {
			return in, fmt.Errorf("%w: expected_salary must be a non-negative number", common.ErrorValidation)
		}
		in.ExpectedSalary = &f
	}

	if v := formString(form, "availability_date"); v != nil {
		t, err := time.Parse(time.RFC3339, *v)
		if err != nil {
			t, err = time.Parse(time.DateOnly, *v)
		}
		if err != nil {
			return in, fmt.Errorf("%w: availability_date must be RFC3339 or YYYY-MM-DD", common.ErrorValidation)
		}
		in.AvailabilityDate = &t
	}

	files := form.File["resume"]
	if len(files) == 0 {
		return in, nil
	}
	fh := files[0]
	if fh.Size > services.MaxResumeSize {
		return in, fmt.Errorf("%w: resume exceeds %d bytes", common.ErrorValidation, services.MaxResumeSize)
	}
	f, err := fh.Open()
	if err != nil {
		return in, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, services.MaxResumeSize+1))
	if err != nil {
		return in, fmt.Errorf("%w: reading resume: %v", common.ErrorValidation, err)
	}
	in.Resume = &models.Resume{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	return in, nil
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxResumeSize+multipartOverhead)
	if err := r.ParseMultipartForm(services.MaxResumeSize + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: expected multipart form data: %v", common.ErrorValidation, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	in, err := parseApplicationForm(r.MultipartForm)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	app, err := s.svc.Applications.Apply(r.Context(), currentUser(r), r.PathValue("id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.svc.Applications.ListMine(r.Context(), currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if apps == nil {
		apps = []*models.Application{}
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleJobApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobID := q.Get("job_id")
	if jobID == "" {
		s.writeError(w, r, fmt.Errorf("%w: job_id is required", common.ErrorValidation))
		return
	}
	page, size, err := pagination(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Applications.ListForJob(r.Context(), currentUser(r), jobID, page, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	s.review(w, r, s.svc.Applications.Accept)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	s.review(w, r, s.svc.Applications.Reject)
}

type reviewFunc func(ctx context.Context, user *models.User, applicationID, jobID string) (*models.Application, error)

func (s *Server) review(w http.ResponseWriter, r *http.Request, fn reviewFunc) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		s.writeError(w, r, fmt.Errorf("%w: job_id is required", common.ErrorValidation))
		return
	}
	app, err := fn(r.Context(), currentUser(r), r.PathValue("id"), jobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Applications.Delete(r.Context(), currentUser(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Applications.ResumeURL(r.Context(), currentUser(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": u})
}
