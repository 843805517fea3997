package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Encode metrics
var (
	EncodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cavif_encodes_total",
			Help: "Total number of encode calls by outcome",
		},
		[]string{"outcome"},
	)

	EncodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cavif_encode_duration_seconds",
			Help:    "Wall-clock duration of completed encode calls in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	PlanePayloadBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cavif_plane_payload_bytes",
			Help:    "Compressed payload size per plane, before container overhead",
			Buckets: prometheus.ExponentialBuckets(256, 4, 10),
		},
		[]string{"plane"},
	)

	EncodesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cavif_encodes_in_flight",
			Help: "Number of encode calls currently running",
		},
	)
)

// Outcome label values for EncodesTotal.
const (
	OutcomeCompleted      = "completed"
	OutcomeCancelled      = "cancelled"
	OutcomeInvalidConfig  = "invalid_config"
	OutcomeEncodingFailed = "encoding_failed"
	OutcomeMuxingFailed   = "muxing_failed"
)
