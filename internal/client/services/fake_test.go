package services

import (
	"context"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
)

// ---- fake client ----

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	MeRet *models.User
	MeErr error

	RegisterErr error
	LoginErr    error
	LogoutErr   error
	LogoutHangs bool

	ListPublicJobsRet *models.JobPage
	ListPublicJobsErr error
	JobRet            *models.Job
	JobErr            error
	MyJobsRet         []models.Job
	DeleteJobErr      error

	ApplyRet         *models.Application
	ApplyErr         error
	AppRet           *models.Application
	AppErr           error
	AppsRet          []models.Application
	AppPageRet       *models.ApplicationPage
	DeleteAppErr     error
	ResumeURLRet     string
	ResumeURLErr     error
	PlansRet         []models.Plan
	PlansErr         error
	InitiateRet      *models.PaymentInitiation
	InitiateErr      error
	VerifySessionErr error

	LastRegisterEmail string
	LastRegisterName  string
	LastLoginEmail    string
	LastLoginPassword []byte
	LogoutCalls       int
	LastFilter        models.JobFilter
	LastJobInput      models.JobInput
	LastJobID         string
	LastStatus        models.JobStatus
	LastApplyJobID    string
	LastApplyInput    models.ApplicationInput
	LastAppID         string
	LastPage          int
	LastPageSize      int
	LastPlan          models.PlanName
	Calls             []string
}

func (f *fakeClient) call(name string) { f.Calls = append(f.Calls, name) }

func (f *fakeClient) Me(ctx context.Context) (*models.User, error) {
	f.call("Me")
	return f.MeRet.Clone(), f.MeErr
}

func (f *fakeClient) VerifySession(ctx context.Context) error {
	f.call("VerifySession")
	return f.VerifySessionErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.call("Logout")
	f.LogoutCalls++
	if f.LogoutHangs {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.LogoutErr
}

func (f *fakeClient) Register(ctx context.Context, email string, password []byte, name string) error {
	f.call("Register")
	f.LastRegisterEmail, f.LastRegisterName = email, name
	return f.RegisterErr
}

func (f *fakeClient) Login(ctx context.Context, email string, password []byte) error {
	f.call("Login")
	f.LastLoginEmail, f.LastLoginPassword = email, password
	return f.LoginErr
}

func (f *fakeClient) ListPublicJobs(ctx context.Context, flt models.JobFilter) (*models.JobPage, error) {
	f.call("ListPublicJobs")
	f.LastFilter = flt
	return f.ListPublicJobsRet, f.ListPublicJobsErr
}

func (f *fakeClient) GetPublicJob(ctx context.Context, id string) (*models.Job, error) {
	f.call("GetPublicJob")
	f.LastJobID = id
	return f.JobRet, f.JobErr
}

func (f *fakeClient) CreateJob(ctx context.Context, in models.JobInput) (*models.Job, error) {
	f.call("CreateJob")
	f.LastJobInput = in
	return f.JobRet, f.JobErr
}

func (f *fakeClient) UpdateJob(ctx context.Context, id string, in models.JobInput) (*models.Job, error) {
	f.call("UpdateJob")
	f.LastJobID, f.LastJobInput = id, in
	return f.JobRet, f.JobErr
}

func (f *fakeClient) UpdateJobStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error) {
	f.call("UpdateJobStatus")
	f.LastJobID, f.LastStatus = id, status
	return f.JobRet, f.JobErr
}

func (f *fakeClient) DeleteJob(ctx context.Context, id string) error {
	f.call("DeleteJob")
	f.LastJobID = id
	return f.DeleteJobErr
}

func (f *fakeClient) MyJobs(ctx context.Context) ([]models.Job, error) {
	f.call("MyJobs")
	return f.MyJobsRet, f.JobErr
}

func (f *fakeClient) GetJob(ctx context.Context, id string) (*models.Job, error) {
	f.call("GetJob")
	f.LastJobID = id
	return f.JobRet, f.JobErr
}

func (f *fakeClient) Apply(ctx context.Context, jobID string, in models.ApplicationInput) (*models.Application, error) {
	f.call("Apply")
	f.LastApplyJobID, f.LastApplyInput = jobID, in
	return f.ApplyRet, f.ApplyErr
}

func (f *fakeClient) JobApplications(ctx context.Context, jobID string, page, pageSize int) (*models.ApplicationPage, error) {
	f.call("JobApplications")
	f.LastJobID, f.LastPage, f.LastPageSize = jobID, page, pageSize
	return f.AppPageRet, f.AppErr
}

func (f *fakeClient) MyApplications(ctx context.Context) ([]models.Application, error) {
	f.call("MyApplications")
	return f.AppsRet, f.AppErr
}

func (f *fakeClient) AcceptApplication(ctx context.Context, jobID, applicationID string) (*models.Application, error) {
	f.call("AcceptApplication")
	f.LastJobID, f.LastAppID = jobID, applicationID
	return f.AppRet, f.AppErr
}

func (f *fakeClient) RejectApplication(ctx context.Context, jobID, applicationID string) (*models.Application, error) {
	f.call("RejectApplication")
	f.LastJobID, f.LastAppID = jobID, applicationID
	return f.AppRet, f.AppErr
}

func (f *fakeClient) DeleteApplication(ctx context.Context, applicationID string) error {
	f.call("DeleteApplication")
	f.LastAppID = applicationID
	return f.DeleteAppErr
}

func (f *fakeClient) ResumeURL(ctx context.Context, applicationID string) (string, error) {
	f.call("ResumeURL")
	f.LastAppID = applicationID
	return f.ResumeURLRet, f.ResumeURLErr
}

func (f *fakeClient) ListPlans(ctx context.Context) ([]models.Plan, error) {
	f.call("ListPlans")
	return f.PlansRet, f.PlansErr
}

func (f *fakeClient) InitiatePayment(ctx context.Context, plan models.PlanName) (*models.PaymentInitiation, error) {
	f.call("InitiatePayment")
	f.LastPlan = plan
	return f.InitiateRet, f.InitiateErr
}

// ---- fake session ----

type fakeSession struct {
	user    *models.User
	next    *models.User
	fetches int
	clears  int
}

func (s *fakeSession) FetchUser(ctx context.Context) {
	s.fetches++
	s.user = s.next.Clone()
}

func (s *fakeSession) ClearUser(ctx context.Context) {
	s.clears++
	s.user = nil
}

func (s *fakeSession) User() *models.User { return s.user.Clone() }

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

type fakeCookies struct{ forgets int }

func (c *fakeCookies) Forget(ctx context.Context) { c.forgets++ }

func ptr[T any](v T) *T { return &v }
