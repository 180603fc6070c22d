package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RideTransitionsTotal counts state-machine transition attempts by action
	// and outcome (ok, conflict, error).
	RideTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_hailing", Name: "ride_transitions_total", Help: "Ride state transitions attempted"},
		[]string{"action", "outcome"},
	)

	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_hailing", Name: "registrations_total", Help: "Successful registrations by kind"},
		[]string{"kind"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ride_hailing",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	WSClientsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{Namespace: "ride_hailing", Name: "ws_clients_connected", Help: "Currently connected socket clients"},
	)
)

// Transition outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)
