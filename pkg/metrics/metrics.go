// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TurnsTotal tracks conversation turns by intent and controller outcome.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialogue_turns_total",
			Help: "Total conversation turns handled",
		},
		[]string{"intent", "outcome"},
	)

	// CommitDuration tracks durable record writes.
	CommitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "record_commit_duration_seconds",
			Help:    "Durable record write duration",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"status"},
	)

	// CommitsTotal tracks durable record writes.
	CommitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_commits_total",
			Help: "Total durable record writes",
		},
		[]string{"status"},
	)

	// MirrorWritesTotal tracks best-effort mirror writes per sink.
	MirrorWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_mirror_writes_total",
			Help: "Total mirror writes",
		},
		[]string{"sink", "status"},
	)

	// MirrorsInFlight tracks mirror writes not yet finished.
	MirrorsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "record_mirrors_in_flight",
			Help: "Number of mirror writes in flight",
		},
	)

	// PlaceLookupsTotal tracks place lookups by result.
	PlaceLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "place_lookups_total",
			Help: "Total place lookups",
		},
		[]string{"result"},
	)

	// NATSStreamMessages tracks messages in NATS stream.
	NATSStreamMessages = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nats_stream_messages",
			Help: "Number of messages in NATS stream",
		},
		[]string{"stream"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTurn records a handled conversation turn.
func RecordTurn(intent, outcome string) {
	TurnsTotal.WithLabelValues(intent, outcome).Inc()
}

// RecordCommit records a durable write.
func RecordCommit(status string, duration float64) {
	CommitDuration.WithLabelValues(status).Observe(duration)
	CommitsTotal.WithLabelValues(status).Inc()
}

// RecordMirror records a mirror write outcome.
func RecordMirror(sink, status string) {
	MirrorWritesTotal.WithLabelValues(sink, status).Inc()
}

// RecordPlaceLookup records whether a place lookup matched.
func RecordPlaceLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	PlaceLookupsTotal.WithLabelValues(result).Inc()
}
