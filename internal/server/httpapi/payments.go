package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/jobportal/internal/server/models"
	"github.com/dmitrijs2005/jobportal/internal/server/services"
)

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.svc.Plans.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleInitiatePayment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Plan models.PlanName `json:"plan"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Payments.Initiate(r.Context(), currentUser(r), in.Plan)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handlePaymentCallback is the eSewa success_url. The browser always ends up
// back on the frontend, the outcome travels in the redirect query.
func (s *Server) handlePaymentCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target := s.svc.Payments.HandleCallback(r.Context(), services.CallbackParams{
		Data:            q.Get("data"),
		TransactionUUID: q.Get("transaction_uuid"),
		Plan:            q.Get("plan"),
		UserID:          q.Get("user_id"),
	})
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) handlePaymentFailure(w http.ResponseWriter, r *http.Request) {
	target := s.svc.Payments.HandleFailure(r.Context(), r.URL.Query().Get("transaction_uuid"))
	http.Redirect(w, r, target, http.StatusFound)
}
