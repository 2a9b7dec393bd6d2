package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/dmitrijs2005/jobportal/internal/server/config"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	employerToken = "employer-token"
	seekerToken   = "seeker-token"
)

var (
	employerUser = &models.User{ID: "emp-1", Email: "emp@example.com", Role: models.RoleBoth}
	seekerUser   = &models.User{ID: "see-1", Email: "see@example.com", Role: models.RoleEmployee}
)

type fakeUsers struct {
	mu         sync.Mutex
	tokens     map[string]*models.User
	registered []string
	loggedOut  []string
	err        error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{tokens: map[string]*models.User{
		employerToken: employerUser,
		seekerToken:   seekerUser,
	}}
}

func (f *fakeUsers) TokenValidity() time.Duration { return time.Hour }

func (f *fakeUsers) Register(_ context.Context, email string, password []byte, name string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, email)
	return &models.User{ID: "new-1", Email: email, Name: &name, Role: models.RoleEmployee}, nil
}

func (f *fakeUsers) Login(_ context.Context, email string, password []byte) (string, *models.User, error) {
	if email == employerUser.Email && string(password) == "password123" {
		return employerToken, employerUser, nil
	}
	return "", nil, fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.tokens[token]; ok {
		return u, nil
	}
	return nil, common.ErrInvalidToken
}

func (f *fakeUsers) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, token)
	delete(f.tokens, token)
	return nil
}

func (f *fakeUsers) Profile(_ context.Context, user *models.User) (*models.Profile, error) {
	plan := models.PlanPremium
	return &models.Profile{User: user, Plan: &plan}, nil
}

type fakeJobs struct {
	lastFilter models.JobFilter
	lastInput  models.JobInput
	lastStatus models.JobStatus
	deleted    []string
	err        error
}

func (f *fakeJobs) job(id string) *models.Job {
	return &models.Job{ID: id, Title: "Go Engineer", CompanyName: "Acme", Status: models.JobStatusPublished, EmployerID: employerUser.ID}
}

func (f *fakeJobs) Create(_ context.Context, _ *models.User, in models.JobInput) (*models.Job, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return f.job("job-new"), nil
}

func (f *fakeJobs) Update(_ context.Context, _ *models.User, id string, in models.JobInput) (*models.Job, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return f.job(id), nil
}

func (f *fakeJobs) UpdateStatus(_ context.Context, _ *models.User, id string, status models.JobStatus) (*models.Job, error) {
	f.lastStatus = status
	if f.err != nil {
		return nil, f.err
	}
	j := f.job(id)
	j.Status = status
	return j, nil
}

func (f *fakeJobs) Delete(_ context.Context, _ *models.User, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeJobs) Get(_ context.Context, _ *models.User, id string) (*models.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.job(id), nil
}

func (f *fakeJobs) ListMine(context.Context, *models.User) ([]*models.Job, error) {
	return nil, f.err
}

func (f *fakeJobs) ListPublic(_ context.Context, flt models.JobFilter) (*models.JobPage, error) {
	f.lastFilter = flt
	if f.err != nil {
		return nil, f.err
	}
	return &models.JobPage{Jobs: []*models.Job{f.job("job-1")}, Total: 1, Page: 1, PageSize: 10}, nil
}

func (f *fakeJobs) GetPublic(_ context.Context, id string) (*models.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.job(id), nil
}

type reviewCall struct {
	action, applicationID, jobID string
}

type fakeApplications struct {
	lastJobID string
	lastInput models.ApplicationInput
	lastPage  [2]int
	reviews   []reviewCall
	deleted   []string
	err       error
}

func (f *fakeApplications) app(id string) *models.Application {
	return &models.Application{ID: id, JobID: "job-1", ApplicantID: seekerUser.ID, Status: models.ApplicationPending}
}

func (f *fakeApplications) Apply(_ context.Context, _ *models.User, jobID string, in models.ApplicationInput) (*models.Application, error) {
	f.lastJobID, f.lastInput = jobID, in
	if f.err != nil {
		return nil, f.err
	}
	return f.app("app-1"), nil
}

func (f *fakeApplications) ListForJob(_ context.Context, _ *models.User, jobID string, page, size int) (*models.ApplicationPage, error) {
	f.lastJobID, f.lastPage = jobID, [2]int{page, size}
	if f.err != nil {
		return nil, f.err
	}
	return &models.ApplicationPage{Applications: []*models.Application{f.app("app-1")}, Total: 1, Page: 1, PageSize: 10}, nil
}

func (f *fakeApplications) ListMine(context.Context, *models.User) ([]*models.Application, error) {
	return nil, f.err
}

func (f *fakeApplications) review(action, applicationID, jobID string) (*models.Application, error) {
	f.reviews = append(f.reviews, reviewCall{action, applicationID, jobID})
	if f.err != nil {
		return nil, f.err
	}
	a := f.app(applicationID)
	a.Status = models.ApplicationStatus(action)
	return a, nil
}

func (f *fakeApplications) Accept(_ context.Context, _ *models.User, applicationID, jobID string) (*models.Application, error) {
	return f.review("accepted", applicationID, jobID)
}

func (f *fakeApplications) Reject(_ context.Context, _ *models.User, applicationID, jobID string) (*models.Application, error) {
	return f.review("rejected", applicationID, jobID)
}

func (f *fakeApplications) Delete(_ context.Context, _ *models.User, applicationID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, applicationID)
	return nil
}

func (f *fakeApplications) ResumeURL(_ context.Context, _ *models.User, applicationID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://s3.example/resumes/" + applicationID + ".pdf?sig=x", nil
}

type fakePlans struct {
	plans []*models.Plan
	err   error
}

func (f *fakePlans) List(context.Context) ([]*models.Plan, error) {
	return f.plans, f.err
}

type fakePayments struct {
	lastPlan     models.PlanName
	lastCallback services.CallbackParams
	lastFailure  string
	err          error
}

func (f *fakePayments) Initiate(_ context.Context, _ *models.User, plan models.PlanName) (*models.PaymentInitiation, error) {
	f.lastPlan = plan
	if f.err != nil {
		return nil, f.err
	}
	return &models.PaymentInitiation{URL: "https://pay.example/form", Parameters: map[string]string{"product_code": "EPAYTEST"}}, nil
}

func (f *fakePayments) HandleCallback(_ context.Context, p services.CallbackParams) string {
	f.lastCallback = p
	return "http://front.example/?payment=success&refId=R1"
}

func (f *fakePayments) HandleFailure(_ context.Context, transactionUUID string) string {
	f.lastFailure = transactionUUID
	return "http://front.example/?payment=failed&error=user_cancelled"
}

type fixture struct {
	srv          *Server
	users        *fakeUsers
	jobs         *fakeJobs
	applications *fakeApplications
	plans        *fakePlans
	payments     *fakePayments
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.FrontendURL = "http://front.example"
	cfg.LoginRatePerMinute = 3

	f := &fixture{
		users:        newFakeUsers(),
		jobs:         &fakeJobs{},
		applications: &fakeApplications{},
		plans:        &fakePlans{},
		payments:     &fakePayments{},
	}
	f.srv = New(cfg, Services{
		Users:        f.users,
		Jobs:         f.jobs,
		Applications: f.applications,
		Plans:        f.plans,
		Payments:     f.payments,
	}, logging.NewNopLogger(), prometheus.NewRegistry())
	return f
}

// do sends a request through the full middleware stack. token, when set, is
// attached as the access token cookie.
func (f *fixture) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: common.AccessTokenCookieName, Value: token})
	}
	return serve(f, req)
}

func serve(f *fixture, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func (f *fixture) doJSON(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return f.do(t, method, path, token, r, "application/json")
}

func requireDetail(t *testing.T, rec *httptest.ResponseRecorder, status int, contains string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"detail"`)
	require.Contains(t, rec.Body.String(), contains)
}
