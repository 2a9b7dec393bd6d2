package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
)

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", common.ErrorValidation, key)
	}
	return n, nil
}

func pagination(q url.Values) (page, size int, err error) {
	if page, err = queryInt(q, "page"); err != nil {
		return 0, 0, err
	}
	if size, err = queryInt(q, "page_size"); err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

func (s *Server) handlePublicJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size, err := pagination(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Jobs.ListPublic(r.Context(), models.JobFilter{
		Category:        q.Get("category"),
		EmploymentType:  models.EmploymentType(q.Get("employment_type")),
		ExperienceLevel: models.ExperienceLevel(q.Get("experience_level")),
		WorkMode:        models.WorkMode(q.Get("work_mode")),
		Location:        q.Get("location"),
		Page:            page,
		PageSize:        size,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePublicJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.svc.Jobs.GetPublic(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var in models.JobInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.svc.Jobs.Create(r.Context(), currentUser(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleMyJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.svc.Jobs.ListMine(r.Context(), currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []*models.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.svc.Jobs.Get(r.Context(), currentUser(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var in models.JobInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.svc.Jobs.Update(r.Context(), currentUser(r), r.PathValue("id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status models.JobStatus `json:"status"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, err := s.svc.Jobs.UpdateStatus(r.Context(), currentUser(r), r.PathValue("id"), in.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Jobs.Delete(r.Context(), currentUser(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
