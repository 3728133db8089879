// internal/handlers/list-activities/handler.go
package listactivities

import (
	"net/http"
	"time"

	"activities-service/internal/cache"
	"activities-service/internal/common/logger"
	"activities-service/internal/common/metrics"
	"activities-service/internal/handlers"
	"activities-service/internal/registry"
)

const Operation = "list-activities"

type Handler struct {
	registry *registry.Registry
	cache    *cache.Listing
	logger   logger.Logger
}

// NewHandler wires the listing handler. cache may be nil when the listing
// cache is disabled.
func NewHandler(reg *registry.Registry, listingCache *cache.Listing, log logger.Logger) *Handler {
	return &Handler{
		registry: reg,
		cache:    listingCache,
		logger:   log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

// Handle serves GET /activities: the full mapping of activity name to
// description, schedule, capacity, and roster snapshot.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.RegistrationRequests.WithLabelValues(Operation).Inc()
	defer func() {
		metrics.RequestDuration.WithLabelValues(Operation).Observe(time.Since(start).Seconds())
	}()

	if listing, ok := h.cache.Get(r.Context()); ok {
		handlers.WriteJSON(w, http.StatusOK, listing)
		return
	}

	listing := h.registry.List()
	h.cache.Set(r.Context(), listing)

	handlers.WriteJSON(w, http.StatusOK, listing)
}
