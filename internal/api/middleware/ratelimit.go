package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"mini_one/internal/common"

	"github.com/sirupsen/logrus"
)

// HitCounter counts hits for a key inside a fixed window that starts with
// the key's first hit.
type HitCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows at most maxRequests per client IP per window. If the
// counter is unavailable the request is let through and the failure logged.
func RateLimit(counter HitCounter, maxRequests int, window time.Duration, log logrus.FieldLogger) func(http.Handler) http.Handler {
	if counter == nil {
		panic("counter cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window <= 0 {
		panic("window duration must be positive for RateLimit middleware")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 200*time.Millisecond)
			defer cancel()

			count, err := counter.Hit(ctx, "ratelimit:"+clientIP(r), window)
			if err != nil {
				log.WithError(err).Warn("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if count > int64(maxRequests) {
				common.RespondWithError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP expects chi's RealIP middleware to have rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
