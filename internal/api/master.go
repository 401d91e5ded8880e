//go:build masterauth

package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const masterTokenTTL = 24 * time.Hour

type masterLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type masterLoginResponse struct {
	Token  string       `json:"token"`
	UserID string       `json:"userId"`
	Plan   planResponse `json:"plan"`
}

// mountMasterAuth exposes the test-only master login. Builds without the
// masterauth tag do not contain this route.
func (s *Server) mountMasterAuth(r chi.Router) {
	r.Post("/v1/auth/master", s.handleMasterLogin)
}

func (s *Server) handleMasterLogin(w http.ResponseWriter, r *http.Request) {
	if s.opts.MasterPassword == "" || s.verifier == nil {
		http.NotFound(w, r)
		return
	}
	var req masterLoginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.opts.MasterPassword)) != 1 {
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "Credenciais inválidas."})
		return
	}

	userID := "master-" + email
	plan, err := s.plans.UpgradeToPremium(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	token, err := s.verifier.Issue(userID, email, masterTokenTTL)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Warn("master login used", "user", userID)
	s.writeJSON(w, http.StatusOK, masterLoginResponse{Token: token, UserID: userID, Plan: newPlanResponse(plan)})
}
