// internal/server/middleware.go
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"activities-service/internal/common/logger"
	"activities-service/internal/common/observability"
)

// statusRecorder captures the response status for access logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestContext assigns a request ID, opens a span per request, logs
// each request, and records request counters/durations.
func withRequestContext(next http.Handler, obs *observability.Observability, tracing *observability.Tracing, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		operation := operationFor(r)

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
			r.Header.Set("X-Request-ID", requestID)
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx, span := tracing.StartSpan(r.Context(), operation)
		defer span.End()
		r = r.WithContext(ctx)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		duration := time.Since(start)

		if obs != nil {
			status := "ok"
			if rec.status >= http.StatusBadRequest {
				status = "error"
			}
			obs.RecordRequest(r.Context(), operation, status)
			obs.RecordDuration(r.Context(), operation, duration)
		}

		log.Debug("request handled", map[string]interface{}{
			"requestId": requestID,
			"method":    r.Method,
			"path":      r.URL.Path,
			"operation": operation,
			"status":    rec.status,
			"duration":  duration.String(),
		})
	})
}

// operationFor collapses request paths into low-cardinality operation names.
func operationFor(r *http.Request) string {
	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && path == "/activities":
		return "list-activities"
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/signup"):
		return "signup"
	case r.Method == http.MethodDelete && strings.HasSuffix(path, "/unregister"):
		return "unregister"
	case strings.HasPrefix(path, "/static/") || path == "/":
		return "static"
	case strings.HasPrefix(path, "/debug/"):
		return "debug"
	default:
		return strings.TrimPrefix(path, "/")
	}
}
