package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window limiter keyed by client IP and backed by Redis.
type RateLimiter struct {
	redisClient *redis.Client
	log         *slog.Logger
}

func NewRateLimiter(client *redis.Client, log *slog.Logger) *RateLimiter {
	return &RateLimiter{redisClient: client, log: log}
}

// Limit rejects requests above limit per window. Redis errors let the request through.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) func(http.Handler) http.Handler {
	if window <= 0 {
		window = time.Minute
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, clientIP(r))

			count, err := rl.redisClient.Incr(ctx, key).Result()
			if err != nil {
				rl.log.Warn("rate limiter unavailable", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				if err := rl.redisClient.Expire(ctx, key, window).Err(); err != nil {
					// A counter without a TTL would block this client forever.
					rl.log.Warn("rate limiter expire failed", "key", key, "err", err)
					if err := rl.redisClient.Del(ctx, key).Err(); err != nil {
						rl.log.Error("rate limiter cleanup failed", "key", key, "err", err)
					}
					next.ServeHTTP(w, r)
					return
				}
			}
			if count > int64(limit) {
				ttl, _ := rl.redisClient.TTL(ctx, key).Result()
				if ttl > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success":false,"error":"Limite de pedidos atingido. Tente novamente em alguns minutos."}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP relies on middleware.RealIP having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
