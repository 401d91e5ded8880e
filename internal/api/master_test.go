//go:build masterauth

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digkill/contos-diarios/internal/models"
)

func TestMasterLogin(t *testing.T) {
	h := newHarness(t, Options{MasterPassword: "segredo"})

	resp := h.do(t, http.MethodPost, "/v1/auth/master", "", masterLoginRequest{Email: "Ana@Example.pt", Password: "errada"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = h.do(t, http.MethodPost, "/v1/auth/master", "", masterLoginRequest{Email: "Ana@Example.pt", Password: "segredo"})
	require.Equal(t, http.StatusOK, resp.Code)
	out := decode[masterLoginResponse](t, resp)
	assert.Equal(t, "master-ana@example.pt", out.UserID)
	assert.Equal(t, models.PlanPremium, out.Plan.Type)

	resp = h.do(t, http.MethodGet, "/v1/plan", out.Token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, models.PlanPremium, decode[planResponse](t, resp).Type)
}

func TestMasterLoginWithoutPassword(t *testing.T) {
	h := newHarness(t, Options{})
	resp := h.do(t, http.MethodPost, "/v1/auth/master", "", masterLoginRequest{Email: "a@b.pt", Password: ""})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
