package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit creates rate limiting middleware.
func RateLimit(requestLimit int, windowLength time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestLimit,
		windowLength,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded","retry_after":60}`))
		}),
	)
}

// rateLimitKey limits by agent when authenticated, otherwise by IP.
func rateLimitKey(r *http.Request) (string, error) {
	if agent := GetAgent(r.Context()); agent != "" {
		return "agent:" + agent, nil
	}
	ip, err := httprate.KeyByIP(r)
	if err != nil {
		return "ip:" + r.RemoteAddr, nil
	}
	return "ip:" + ip, nil
}
