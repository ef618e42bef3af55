// Package metrics exposes reservation outcome counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsMatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skypool_requests_matched_total",
		Help: "Trip requests that reserved capacity and produced a booking.",
	})
	RequestsUnmatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skypool_requests_unmatched_total",
		Help: "Trip requests with no eligible trip within detour tolerance.",
	})
	RequestsConflicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skypool_requests_conflict_total",
		Help: "Trip requests that lost the capacity race at lock time.",
	})
	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skypool_bookings_cancelled_total",
		Help: "Bookings cancelled and their capacity released.",
	})
)
