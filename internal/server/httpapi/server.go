// Package httpapi serves the job portal REST API consumed by the CLI and the
// web frontend. Routes mirror the /api layout of the frontend: auth, jobs,
// applications, plans and eSewa payments, plus /health and /metrics.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/dmitrijs2005/jobportal/internal/server/config"
	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 10 * time.Second

type Users interface {
	TokenValidity() time.Duration
	Register(ctx context.Context, email string, password []byte, name string) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (string, *models.User, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, user *models.User) (*models.Profile, error)
}

type Jobs interface {
	Create(ctx context.Context, user *models.User, in models.JobInput) (*models.Job, error)
	Update(ctx context.Context, user *models.User, id string, in models.JobInput) (*models.Job, error)
	UpdateStatus(ctx context.Context, user *models.User, id string, status models.JobStatus) (*models.Job, error)
	Delete(ctx context.Context, user *models.User, id string) error
	Get(ctx context.Context, user *models.User, id string) (*models.Job, error)
	ListMine(ctx context.Context, user *models.User) ([]*models.Job, error)
	ListPublic(ctx context.Context, f models.JobFilter) (*models.JobPage, error)
	GetPublic(ctx context.Context, id string) (*models.Job, error)
}

type Applications interface {
	Apply(ctx context.Context, user *models.User, jobID string, in models.ApplicationInput) (*models.Application, error)
	ListForJob(ctx context.Context, user *models.User, jobID string, page, size int) (*models.ApplicationPage, error)
	ListMine(ctx context.Context, user *models.User) ([]*models.Application, error)
	Accept(ctx context.Context, user *models.User, applicationID, jobID string) (*models.Application, error)
	Reject(ctx context.Context, user *models.User, applicationID, jobID string) (*models.Application, error)
	Delete(ctx context.Context, user *models.User, applicationID string) error
	ResumeURL(ctx context.Context, user *models.User, applicationID string) (string, error)
}

type Plans interface {
	List(ctx context.Context) ([]*models.Plan, error)
}

type Payments interface {
	Initiate(ctx context.Context, user *models.User, plan models.PlanName) (*models.PaymentInitiation, error)
	HandleCallback(ctx context.Context, p services.CallbackParams) string
	HandleFailure(ctx context.Context, transactionUUID string) string
}

// Services bundles the business layer the handlers delegate to.
type Services struct {
	Users        Users
	Jobs         Jobs
	Applications Applications
	Plans        Plans
	Payments     Payments
}

type Server struct {
	address string
	cfg     *config.Config
	svc     Services
	logger  logging.Logger
	metrics *metrics
	limiter *ipLimiter
	handler http.Handler
}

// New builds the server and its route table. reg receives the HTTP metrics
// and is exposed on /metrics; nil gets a private registry.
func New(cfg *config.Config, svc Services, logger logging.Logger, reg *prometheus.Registry) *Server {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s := &Server{
		address: cfg.EndpointAddr,
		cfg:     cfg,
		svc:     svc,
		logger:  logger.With("module", "http_server"),
		metrics: newMetrics(reg),
		limiter: newIPLimiter(cfg.LoginRatePerMinute),
	}
	s.handler = s.routes(reg)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
