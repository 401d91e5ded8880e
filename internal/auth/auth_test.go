package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier("test-secret", "contos")
	require.NoError(t, err)
	return v
}

func serve(t *testing.T, v *Verifier, cfg MiddlewareConfig, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var subject string
	h := Middleware(v, slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp, subject
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier(" ", "")
	assert.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	v := newTestVerifier(t)
	token, err := v.Issue("user-1", "ana@example.pt", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ana@example.pt", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestVerifyRejects(t *testing.T) {
	v := newTestVerifier(t)

	other, err := NewVerifier("other-secret", "contos")
	require.NoError(t, err)
	foreign, err := other.Issue("user-1", "", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(foreign)
	assert.Error(t, err, "wrong secret")

	v.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := v.Issue("user-1", "", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(expired)
	assert.Error(t, err, "expired")

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1", "iss": "someone-else", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = v.Verify(wrongIssuer)
	assert.Error(t, err, "issuer")

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "contos", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = v.Verify(noSubject)
	assert.Error(t, err, "missing sub")
}

func TestMiddleware(t *testing.T) {
	v := newTestVerifier(t)
	token, err := v.Issue("user-9", "", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name    string
		header  string
		cfg     MiddlewareConfig
		status  int
		subject string
	}{
		{"missing header", "", MiddlewareConfig{}, http.StatusUnauthorized, ""},
		{"wrong scheme", "Token " + token, MiddlewareConfig{}, http.StatusUnauthorized, ""},
		{"empty bearer", "Bearer  ", MiddlewareConfig{}, http.StatusUnauthorized, ""},
		{"garbage token", "Bearer abc.def.ghi", MiddlewareConfig{}, http.StatusUnauthorized, ""},
		{"valid token", "Bearer " + token, MiddlewareConfig{}, http.StatusOK, "user-9"},
		{"lowercase scheme", "bearer " + token, MiddlewareConfig{}, http.StatusOK, "user-9"},
		{"auth disabled", "", MiddlewareConfig{DisableAuth: true}, http.StatusOK, LocalDevSubject},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, subject := serve(t, v, tc.cfg, tc.header)
			assert.Equal(t, tc.status, resp.Code)
			assert.Equal(t, tc.subject, subject)
		})
	}
}

func TestMiddlewareWithoutVerifier(t *testing.T) {
	resp, _ := serve(t, nil, MiddlewareConfig{}, "Bearer x")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
