package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicJobs_Filters(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet,
		"/api/jobs/public?page=2&page_size=5&category=IT&employment_type=full-time&experience_level=mid&work_mode=remote&location=kath",
		"", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, models.JobFilter{
		Category:        "IT",
		EmploymentType:  "full-time",
		ExperienceLevel: "mid",
		WorkMode:        "remote",
		Location:        "kath",
		Page:            2,
		PageSize:        5,
	}, f.jobs.lastFilter)

	var page models.JobPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, "job-1", page.Jobs[0].ID)
}

func TestPublicJobs_BadPaging(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/jobs/public?page=two", "", nil, "")
	requireDetail(t, rec, http.StatusBadRequest, "page must be an integer")

	f.jobs.err = fmt.Errorf("%w: page_size must be between 1 and 100", common.ErrorValidation)
	rec = f.do(t, http.MethodGet, "/api/jobs/public?page_size=500", "", nil, "")
	requireDetail(t, rec, http.StatusBadRequest, "page_size")
}

func TestPublicJob(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/jobs/public/job-9", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"job-9"`)

	f.jobs.err = fmt.Errorf("%w: job not found", common.ErrorNotFound)
	rec = f.do(t, http.MethodGet, "/api/jobs/public/job-9", "", nil, "")
	requireDetail(t, rec, http.StatusNotFound, "job not found")
}

func TestCreateJob(t *testing.T) {
	f := newFixture(t)

	rec := f.doJSON(t, http.MethodPost, "/api/jobs", employerToken,
		`{"title":"Go Engineer","company_name":"Acme","salary_min":1000,"is_featured":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	in := f.jobs.lastInput
	require.NotNil(t, in.Title)
	assert.Equal(t, "Go Engineer", *in.Title)
	require.NotNil(t, in.SalaryMin)
	assert.Equal(t, 1000.0, *in.SalaryMin)
	require.NotNil(t, in.IsFeatured)
	assert.True(t, *in.IsFeatured)
	assert.Nil(t, in.Location)
}

func TestCreateJob_Access(t *testing.T) {
	f := newFixture(t)

	rec := f.doJSON(t, http.MethodPost, "/api/jobs", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.doJSON(t, http.MethodPost, "/api/jobs", seekerToken, `{}`)
	requireDetail(t, rec, http.StatusForbidden, "Only employers")

	f.jobs.err = fmt.Errorf("%w: posting jobs requires an active plan", common.ErrorPlanRequired)
	rec = f.doJSON(t, http.MethodPost, "/api/jobs", employerToken, `{}`)
	requireDetail(t, rec, http.StatusForbidden, "active plan")
}

func TestMyJobs_EmptyIsArray(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/jobs/my-jobs", employerToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetJob_RoutesPastLiterals(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/jobs/abc", employerToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"abc"`)

	f.jobs.err = fmt.Errorf("%w: not your job", common.ErrorForbidden)
	rec = f.do(t, http.MethodGet, "/api/jobs/abc", employerToken, nil, "")
	requireDetail(t, rec, http.StatusForbidden, "not your job")
}

func TestUpdateJob(t *testing.T) {
	f := newFixture(t)

	rec := f.doJSON(t, http.MethodPut, "/api/jobs/abc", employerToken, `{"title":"Staff"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.jobs.lastInput.Title)
	assert.Equal(t, "Staff", *f.jobs.lastInput.Title)
}

func TestJobStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.doJSON(t, http.MethodPatch, "/api/jobs/abc/status", employerToken, `{"status":"closed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.JobStatusClosed, f.jobs.lastStatus)
	assert.Contains(t, rec.Body.String(), `"status":"closed"`)
}

func TestDeleteJob(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodDelete, "/api/jobs/abc", employerToken, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, []string{"abc"}, f.jobs.deleted)
}

func TestJobs_MethodNotAllowed(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/jobs/public", "", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
