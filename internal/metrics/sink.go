// Package metrics fans out one AdaptationRecord per request to the
// configured sinks. Emission is fire-and-forget: no sink may block or fail
// the main pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"adaptd/pkg/types"
)

// Sink consumes per-request adaptation records. Emit must not block and
// must not panic.
type Sink interface {
	Emit(rec types.AdaptationRecord)
}

// NopSink discards records.
type NopSink struct{}

func (NopSink) Emit(types.AdaptationRecord) {}

// MultiSink fans a record out to every child sink.
type MultiSink []Sink

func (m MultiSink) Emit(rec types.AdaptationRecord) {
	for _, s := range m {
		s.Emit(rec)
	}
}

// LogSink writes one structured log line per record.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Emit(rec types.AdaptationRecord) {
	s.Log.Info().
		Str("pattern", rec.Pattern).
		Int("examples", rec.Examples).
		Int("steps", rec.Steps).
		Int64("elapsed_ms", rec.ElapsedMS).
		Float64("confidence", rec.Confidence).
		Float64("convergence", rec.Convergence).
		Bool("accepted", rec.Accepted).
		Str("reason", rec.Reason).
		Msg("adaptation")
}

var (
	adaptationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adaptd",
			Subsystem: "adaptation",
			Name:      "requests_total",
			Help:      "Adaptation attempts by pattern and outcome",
		},
		[]string{"pattern", "accepted", "reason"},
	)

	adaptationConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "adaptd",
			Subsystem: "adaptation",
			Name:      "confidence",
			Help:      "Confidence score of trained adapters",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	adaptationSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "adaptd",
			Subsystem: "adaptation",
			Name:      "training_steps",
			Help:      "Training steps run per adaptation attempt",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 12, 16},
		},
	)

	adaptationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "adaptd",
			Subsystem: "adaptation",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of adaptation attempts",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(adaptationsTotal, adaptationConfidence, adaptationSteps, adaptationDuration)
}

// PromSink feeds the package prometheus collectors, exported via the
// /metrics endpoint.
type PromSink struct{}

func (PromSink) Emit(rec types.AdaptationRecord) {
	accepted := "false"
	if rec.Accepted {
		accepted = "true"
	}
	pattern := rec.Pattern
	if pattern == "" {
		pattern = "none"
	}
	reason := rec.Reason
	if reason == "" {
		reason = "accepted"
	}
	adaptationsTotal.WithLabelValues(pattern, accepted, reason).Inc()
	adaptationSteps.Observe(float64(rec.Steps))
	adaptationDuration.Observe(float64(rec.ElapsedMS) / 1000.0)
	if rec.Steps > 0 {
		adaptationConfidence.Observe(rec.Confidence)
	}
}
