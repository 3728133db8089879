// internal/handlers/activity-unregister/handler.go
package activityunregister

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"activities-service/internal/audit"
	"activities-service/internal/cache"
	apperrors "activities-service/internal/common/errors"
	"activities-service/internal/common/logger"
	"activities-service/internal/common/metrics"
	"activities-service/internal/handlers"
	"activities-service/internal/notify"
	"activities-service/internal/registry"
)

const Operation = "unregister"

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

// Handle serves DELETE /activities/{name}/unregister?email=<id>.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.RegistrationRequests.WithLabelValues(Operation).Inc()
	defer func() {
		metrics.RequestDuration.WithLabelValues(Operation).Observe(time.Since(start).Seconds())
	}()

	name := r.PathValue("name")
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		stdErr := handlers.WriteError(w, h.logger, apperrors.NewInvalidEmailError(email))
		metrics.RegistrationFailures.WithLabelValues(Operation, string(stdErr.Code)).Inc()
		return
	}

	if err := h.registry.Unregister(name, email); err != nil {
		stdErr := handlers.WriteError(w, h.logger, err)
		metrics.RegistrationFailures.WithLabelValues(Operation, string(stdErr.Code)).Inc()
		return
	}

	h.cache.Invalidate(r.Context())
	h.fanout(name, email, r.Header.Get("X-Request-ID"))

	h.logger.Info("participant unregistered", map[string]interface{}{
		"activity": name,
		"email":    email,
	})
	handlers.WriteJSON(w, http.StatusOK, handlers.MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, name),
	})
}

func (h *Handler) fanout(activity, email, requestID string) {
	now := time.Now().UTC()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.config.FanoutTimeout)
		defer cancel()

		h.notifier.RosterChanged(ctx, notify.Event{
			Operation:   Operation,
			Activity:    activity,
			Participant: email,
			Timestamp:   now,
		})
		h.recorder.Record(ctx, audit.Entry{
			Operation:   Operation,
			Activity:    activity,
			Participant: email,
			RequestID:   requestID,
			Timestamp:   now,
		})
	}()
}
