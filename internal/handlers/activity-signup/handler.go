// internal/handlers/activity-signup/handler.go
package activitysignup

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"activities-service/internal/audit"
	"activities-service/internal/cache"
	"activities-service/internal/common/logger"
	"activities-service/internal/common/metrics"
	"activities-service/internal/handlers"
	"activities-service/internal/notify"
	"activities-service/internal/registry"
)

const Operation = "signup"

type Handler struct {
	config   *Config
	registry *registry.Registry
	cache    *cache.Listing
	notifier notify.Notifier
	recorder audit.Recorder
	logger   logger.Logger
}

func NewHandler(config *Config, reg *registry.Registry, listingCache *cache.Listing,
	notifier notify.Notifier, recorder audit.Recorder, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		registry: reg,
		cache:    listingCache,
		notifier: notifier,
		recorder: recorder,
		logger:   log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

// Handle serves POST /activities/{name}/signup?email=<id>. Validation and
// mutation are one atomic registry call; the cache invalidation and the
// notification/audit fan-out happen only after a successful mutation.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.RegistrationRequests.WithLabelValues(Operation).Inc()
	defer func() {
		metrics.RequestDuration.WithLabelValues(Operation).Observe(time.Since(start).Seconds())
	}()

	req, err := parseRequest(r)
	if err != nil {
		stdErr := handlers.WriteError(w, h.logger, err)
		metrics.RegistrationFailures.WithLabelValues(Operation, string(stdErr.Code)).Inc()
		return
	}

	if err := h.registry.Signup(req.Activity, req.Email); err != nil {
		stdErr := handlers.WriteError(w, h.logger, err)
		metrics.RegistrationFailures.WithLabelValues(Operation, string(stdErr.Code)).Inc()
		return
	}

	h.cache.Invalidate(r.Context())
	h.fanout(req, r.Header.Get("X-Request-ID"))

	h.logger.Info("participant signed up", map[string]interface{}{
		"activity": req.Activity,
		"email":    req.Email,
	})
	handlers.WriteJSON(w, http.StatusOK, handlers.MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", req.Email, req.Activity),
	})
}

// fanout delivers the side effects off the request path.
func (h *Handler) fanout(req *Request, requestID string) {
	now := time.Now().UTC()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.config.FanoutTimeout)
		defer cancel()

		h.notifier.RosterChanged(ctx, notify.Event{
			Operation:   Operation,
			Activity:    req.Activity,
			Participant: req.Email,
			Timestamp:   now,
		})
		h.recorder.Record(ctx, audit.Entry{
			Operation:   Operation,
			Activity:    req.Activity,
			Participant: req.Email,
			RequestID:   requestID,
			Timestamp:   now,
		})
	}()
}
