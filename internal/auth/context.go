package auth

import (
	"context"
	"time"
)

type ctxKey int

const claimsKey ctxKey = iota

// Claims contains the verified token details the API relies on.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// UserID returns the authenticated subject, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok && claims != nil {
		return claims.Subject
	}
	return ""
}
