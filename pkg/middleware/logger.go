package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger returns middleware that logs each request's method, URI, address,
// and duration. When a chi RequestID is present on the context it is
// included for correlation.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			attrs := []any{
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"duration", time.Since(start),
			}
			if id := chimiddleware.GetReqID(r.Context()); id != "" {
				attrs = append(attrs, "request_id", id)
			}

			logger.Info("request", attrs...)
		})
	}
}
