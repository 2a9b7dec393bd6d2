package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/dbx"
	"github.com/dmitrijs2005/jobportal/internal/server/mailer"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/applications"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/payments"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/plans"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/jobportal/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

// --- users ---

type fakeUsers struct {
	byID      map[string]*models.User
	createErr error
	getErr    error
	roleErr   error
	lastRole  models.Role
}

func newFakeUsers(us ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*models.User{}}
	for _, u := range us {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, x := range f.byID {
		if x.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *u
	c.ID = "u-new"
	c.IsActive = true
	f.byID[c.ID] = &c
	return &c, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) UpdateRole(_ context.Context, id string, role models.Role) error {
	if f.roleErr != nil {
		return f.roleErr
	}
	f.lastRole = role
	if u, ok := f.byID[id]; ok {
		u.Role = role
	}
	return nil
}

// --- jobs ---

type fakeJobs struct {
	byID       map[string]*models.Job
	public     map[string]bool
	createErr  error
	lastFilter models.JobFilter
	listTotal  int
	views      map[string]int
	counts     map[string]int
	deleted    []string
}

func newFakeJobs(js ...*models.Job) *fakeJobs {
	f := &fakeJobs{byID: map[string]*models.Job{}, public: map[string]bool{}, views: map[string]int{}, counts: map[string]int{}}
	for _, j := range js {
		f.byID[j.ID] = j
		if j.Status == models.JobStatusPublished {
			f.public[j.ID] = true
		}
	}
	return f
}

func (f *fakeJobs) Create(_ context.Context, j *models.Job) (*models.Job, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := *j
	c.ID = "11111111-1111-1111-1111-111111111111"
	c.IsActive = true
	f.byID[c.ID] = &c
	return &c, nil
}

func (f *fakeJobs) GetByID(_ context.Context, id string) (*models.Job, error) {
	if j, ok := f.byID[id]; ok {
		c := *j
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeJobs) Update(_ context.Context, j *models.Job) (*models.Job, error) {
	if _, ok := f.byID[j.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	c := *j
	f.byID[j.ID] = &c
	return &c, nil
}

func (f *fakeJobs) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeJobs) ListByEmployer(_ context.Context, employerID string) ([]*models.Job, error) {
	out := []*models.Job{}
	for _, j := range f.byID {
		if j.EmployerID == employerID {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (f *fakeJobs) ListPublic(_ context.Context, flt models.JobFilter, _ time.Time) ([]*models.Job, int, error) {
	f.lastFilter = flt
	out := []*models.Job{}
	for id := range f.public {
		out = append(out, f.byID[id])
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, f.listTotal, nil
}

func (f *fakeJobs) GetPublic(_ context.Context, id string, _ time.Time) (*models.Job, error) {
	if f.public[id] {
		c := *f.byID[id]
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeJobs) IncrementViewCount(_ context.Context, id string) error {
	f.views[id]++
	return nil
}

func (f *fakeJobs) AdjustApplicationCount(_ context.Context, id string, delta int) error {
	f.counts[id] += delta
	return nil
}

// --- applications ---

type fakeApplications struct {
	byID       map[string]*models.Application
	createErr  error
	lastReview models.ApplicationStatus
	lastOffset int
	lastLimit  int
	keys       []string
}

func newFakeApplications(as ...*models.Application) *fakeApplications {
	f := &fakeApplications{byID: map[string]*models.Application{}}
	for _, a := range as {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeApplications) Create(_ context.Context, a *models.Application) (*models.Application, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := *a
	c.ID = "22222222-2222-2222-2222-222222222222"
	c.Status = models.ApplicationPending
	c.HasResume = c.ResumeKey != nil
	f.byID[c.ID] = &c
	return &c, nil
}

func (f *fakeApplications) GetByID(_ context.Context, id string) (*models.Application, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeApplications) Exists(_ context.Context, jobID, applicantID string) (bool, error) {
	for _, a := range f.byID {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplications) ListByJob(_ context.Context, jobID string, limit, offset int) ([]*models.Application, int, error) {
	f.lastLimit, f.lastOffset = limit, offset
	out := []*models.Application{}
	for _, a := range f.byID {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, len(out) + offset, nil
}

func (f *fakeApplications) ListByApplicant(_ context.Context, applicantID string) ([]*models.Application, error) {
	out := []*models.Application{}
	for _, a := range f.byID {
		if a.ApplicantID == applicantID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApplications) Review(_ context.Context, id string, status models.ApplicationStatus, reviewerID string, at time.Time) (*models.Application, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	f.lastReview = status
	a.Status = status
	a.ReviewedBy = &reviewerID
	a.ReviewedAt = &at
	return a, nil
}

func (f *fakeApplications) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeApplications) ResumeKeysByJob(context.Context, string) ([]string, error) {
	return f.keys, nil
}

// --- plans, payments, subscriptions ---

type fakePlans struct {
	plans []*models.Plan
	err   error
}

func (f *fakePlans) ListActive(context.Context) ([]*models.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.plans, nil
}

func (f *fakePlans) GetActiveByName(_ context.Context, name models.PlanName) (*models.Plan, error) {
	for _, p := range f.plans {
		if p.PlanName == name {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakePayments struct {
	byUUID      map[string]*models.PaymentTransaction
	completeErr error
	lastStatus  models.TransactionStatus
	lastMessage string
}

func newFakePayments(ts ...*models.PaymentTransaction) *fakePayments {
	f := &fakePayments{byUUID: map[string]*models.PaymentTransaction{}}
	for _, t := range ts {
		f.byUUID[t.TransactionUUID] = t
	}
	return f
}

func (f *fakePayments) Create(_ context.Context, t *models.PaymentTransaction) (*models.PaymentTransaction, error) {
	c := *t
	c.ID = "txn-1"
	f.byUUID[c.TransactionUUID] = &c
	return &c, nil
}

func (f *fakePayments) GetByUUID(_ context.Context, u string) (*models.PaymentTransaction, error) {
	if t, ok := f.byUUID[u]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakePayments) MarkCompleted(_ context.Context, u string, refID *string, at time.Time) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	t, ok := f.byUUID[u]
	if !ok || t.Status == models.TransactionCompleted {
		return common.ErrorNotFound
	}
	t.Status = models.TransactionCompleted
	t.EsewaRefID = refID
	t.CompletedAt = &at
	return nil
}

func (f *fakePayments) MarkStatus(_ context.Context, u string, status models.TransactionStatus, message string) error {
	t, ok := f.byUUID[u]
	if !ok {
		return common.ErrorNotFound
	}
	f.lastStatus, f.lastMessage = status, message
	t.Status = status
	return nil
}

type fakeSubscriptions struct {
	plan        *models.PlanName
	err         error
	deactivated []string
	created     []*models.Subscription
}

func withPlan(p models.PlanName) *fakeSubscriptions { return &fakeSubscriptions{plan: &p} }

func (f *fakeSubscriptions) ActivePlan(context.Context, string, time.Time) (*models.PlanName, error) {
	return f.plan, f.err
}

func (f *fakeSubscriptions) DeactivateAll(_ context.Context, userID string) error {
	f.deactivated = append(f.deactivated, userID)
	return nil
}

func (f *fakeSubscriptions) Create(_ context.Context, s *models.Subscription) (*models.Subscription, error) {
	c := *s
	c.ID = "sub-1"
	f.created = append(f.created, &c)
	return &c, nil
}

// --- manager ---

type fakeRepoManager struct {
	users         *fakeUsers
	jobs          *fakeJobs
	applications  *fakeApplications
	plans         *fakePlans
	payments      *fakePayments
	subscriptions *fakeSubscriptions
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) Jobs(dbx.DBTX) jobs.Repository                   { return m.jobs }
func (m *fakeRepoManager) Applications(dbx.DBTX) applications.Repository   { return m.applications }
func (m *fakeRepoManager) Plans(dbx.DBTX) plans.Repository                 { return m.plans }
func (m *fakeRepoManager) Payments(dbx.DBTX) payments.Repository           { return m.payments }
func (m *fakeRepoManager) Subscriptions(dbx.DBTX) subscriptions.Repository { return m.subscriptions }

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:         newFakeUsers(),
		jobs:          newFakeJobs(),
		applications:  newFakeApplications(),
		plans:         &fakePlans{},
		payments:      newFakePayments(),
		subscriptions: &fakeSubscriptions{},
	}
}

// --- storage and mail ---

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	deleted []string
	lastCT  string
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (s *fakeStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = body
	s.lastCT = contentType
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStore) PresignGet(_ context.Context, key string) (string, error) {
	return "https://s3.example/" + key + "?sig=1", nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Acceptance
	err  error
}

func (m *fakeMailer) SendApplicationAccepted(_ context.Context, a mailer.Acceptance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, a)
	return m.err
}

func ptr[T any](v T) *T { return &v }
