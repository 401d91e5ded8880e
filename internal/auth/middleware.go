package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// LocalDevSubject is the user id assigned when auth is disabled.
const LocalDevSubject = "local-dev"

type MiddlewareConfig struct {
	DisableAuth bool
}

// Middleware enforces bearer token auth and injects claims into the request context.
func Middleware(verifier *Verifier, log *slog.Logger, cfg MiddlewareConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.DisableAuth {
				ctx := WithClaims(r.Context(), &Claims{Subject: LocalDevSubject})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			if verifier == nil {
				respondUnauthorized(w, "auth verifier not configured")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Info("auth failure: missing authorization header", "path", r.URL.Path)
				respondUnauthorized(w, "missing authorization header")
				return
			}
			token, ok := extractBearerToken(authHeader)
			if !ok {
				log.Info("auth failure: malformed authorization header", "path", r.URL.Path)
				respondUnauthorized(w, "invalid authorization header")
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				log.Info("auth failure: token invalid", "path", r.URL.Path, "err", err)
				respondUnauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func extractBearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// BearerToken returns the raw bearer token of a request, if any.
func BearerToken(r *http.Request) (string, bool) {
	return extractBearerToken(r.Header.Get("Authorization"))
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "message": message})
}
