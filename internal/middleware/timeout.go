package middleware

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultRequestTimeout bounds a whole request, including the upstream judge and LLM calls
	DefaultRequestTimeout = 60 * time.Second

	timeoutBody = `{"error":"Request timed out"}`
)

// Timeout enforces a deadline on request handlers and answers 503 when it passes
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			// TimeoutHandler drops the handler's headers when it answers itself
			w.Header().Set("Content-Type", "application/json")

			http.TimeoutHandler(next, timeout, timeoutBody).ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
