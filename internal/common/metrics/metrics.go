// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_requests_total",
			Help: "Total number of registry operations handled",
		},
		[]string{"operation"},
	)

	RegistrationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_failures_total",
			Help: "Total number of rejected registry operations",
		},
		[]string{"operation", "error_code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "registration_request_duration_seconds",
			Help: "Duration of registry operation handling in seconds",
		},
		[]string{"operation"},
	)

	RosterSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activity_roster_size",
			Help: "Current number of participants per activity",
		},
		[]string{"activity"},
	)

	ListingCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_cache_results_total",
			Help: "Listing cache lookups by result",
		},
		[]string{"result"},
	)
)
