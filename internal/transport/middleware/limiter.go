package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"
)

// Limiter decides whether key may proceed. When it may not, retryAfter is
// the time until the next request would be admitted.
type Limiter interface {
	Allow(key string) (ok bool, retryAfter time.Duration)
}

// RateLimit rejects requests over l's budget with 429 and a Retry-After
// header. Requests are keyed by client IP.
func RateLimit(l Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := l.Allow(clientKey(r))
			if !ok {
				secs := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
