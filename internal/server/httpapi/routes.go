package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// auth
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.Handle("POST /api/auth/login", s.limitLogin(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.Handle("GET /api/auth/me", s.requireAuth(s.handleMe))
	mux.Handle("GET /api/auth/get-current-user", s.requireAuth(s.handleVerify))

	// jobs
	mux.HandleFunc("GET /api/jobs/public", s.handlePublicJobs)
	mux.HandleFunc("GET /api/jobs/public/{id}", s.handlePublicJob)
	mux.Handle("POST /api/jobs", s.requireRole(models.RoleBoth, s.handleCreateJob))
	mux.Handle("GET /api/jobs/my-jobs", s.requireRole(models.RoleBoth, s.handleMyJobs))
	mux.Handle("GET /api/jobs/{id}", s.requireAuth(s.handleGetJob))
	mux.Handle("PUT /api/jobs/{id}", s.requireRole(models.RoleBoth, s.handleUpdateJob))
	mux.Handle("PATCH /api/jobs/{id}/status", s.requireRole(models.RoleBoth, s.handleJobStatus))
	mux.Handle("DELETE /api/jobs/{id}", s.requireRole(models.RoleBoth, s.handleDeleteJob))

	// applications
	mux.Handle("POST /api/jobs/{id}/apply", s.requireAuth(s.handleApply))
	mux.Handle("GET /api/jobs/my-applications", s.requireAuth(s.handleMyApplications))
	mux.Handle("GET /api/jobs/applications", s.requireRole(models.RoleBoth, s.handleJobApplications))
	mux.Handle("PATCH /api/jobs/applications/{id}/accept", s.requireRole(models.RoleBoth, s.handleAccept))
	mux.Handle("PATCH /api/jobs/applications/{id}/reject", s.requireRole(models.RoleBoth, s.handleReject))
	mux.Handle("DELETE /api/jobs/applications/{id}", s.requireRole(models.RoleBoth, s.handleDeleteApplication))
	mux.Handle("GET /api/jobs/applications/{id}/resume", s.requireAuth(s.handleResume))

	// plans and payments
	mux.HandleFunc("GET /api/plan/{$}", s.handlePlans)
	mux.Handle("POST /api/payment/initiate", s.requireAuth(s.handleInitiatePayment))
	mux.HandleFunc("GET /api/payment/callback", s.handlePaymentCallback)
	mux.HandleFunc("GET /api/payment/failure", s.handlePaymentFailure)

	return chain(mux,
		requestID(),
		s.recoverPanics(),
		s.accessLog(),
		cors(s.cfg.AllowedOrigins()),
		s.metrics.instrument(),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
