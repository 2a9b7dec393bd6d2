package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/jobportal/internal/server/auth"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.svc.Users.Register(r.Context(), in.Email, []byte(in.Password), in.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, user, err := s.svc.Users.Login(r.Context(), in.Email, []byte(in.Password))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	auth.SetTokenCookie(w, token, s.svc.Users.TokenValidity(), s.cfg.IsProduction())
	writeJSON(w, http.StatusOK, user)
}

// handleLogout always clears the cookie; revoking an unusable token is not
// an error.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := auth.TokenFromRequest(r); ok {
		if err := s.svc.Users.Logout(r.Context(), token); err != nil {
			s.logger.Warn(r.Context(), "token revocation failed",
				"request_id", requestIDFrom(r.Context()),
				"error", err,
			)
		}
	}
	auth.ClearTokenCookie(w, s.cfg.IsProduction())
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// handleVerify answers an empty 200 once requireAuth has accepted the token.
func (s *Server) handleVerify(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Users.Profile(r.Context(), currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
