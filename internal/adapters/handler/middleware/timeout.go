package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/DanielPopoola/coursepay/internal/adapters/handler"
)

// Timeout bounds every request. A handler still running at the deadline gets
// its context cancelled and the client a 503 TIMEOUT envelope. Providers retry
// a webhook answered with 503, so a slow webhook is redelivered, not lost.
func Timeout(timeout time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	body, _ := json.Marshal(handler.APIResponse{
		Error: &handler.APIError{Code: "TIMEOUT", Message: "request timed out"},
	})

	return func(next http.Handler) http.Handler {
		limited := http.TimeoutHandler(next, timeout, string(body))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			w.Header().Set("Content-Type", "application/json")
			limited.ServeHTTP(w, r)

			if elapsed := time.Since(start); elapsed >= timeout {
				logger.Warn("request timed out",
					"method", r.Method,
					"path", r.URL.Path,
					"timeout", timeout,
					"elapsed", elapsed)
			}
		})
	}
}
