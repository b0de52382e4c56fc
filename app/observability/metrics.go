package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GameMetrics records per-operation telemetry for the belote services.
type GameMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
	RecordRoundScored(ctx context.Context, bidTeam, contract string, contractMet bool)
}

// EventMetrics records consumed game events.
type EventMetrics interface {
	RecordEventConsumed(ctx context.Context, topic string)
}

// PrometheusMetrics is the prometheus-backed GameMetrics.
type PrometheusMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	rounds    *prometheus.CounterVec
	events    *prometheus.CounterVec
}

// NewPrometheusMetrics registers the belote collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "belote",
			Name:      "operation_attempts_total",
			Help:      "Operations started, by operation and service.",
		}, []string{"operation", "service"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "belote",
			Name:      "operation_success_total",
			Help:      "Operations that completed without error.",
		}, []string{"operation", "service"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "belote",
			Name:      "operation_failures_total",
			Help:      "Operations that returned an error or panicked.",
		}, []string{"operation", "service"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "belote",
			Name:      "operation_duration_seconds",
			Help:      "Operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "belote",
			Name:      "rounds_scored_total",
			Help:      "Scored rounds, by bidding team, contract and outcome.",
		}, []string{"bid_team", "contract", "outcome"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "belote",
			Name:      "events_consumed_total",
			Help:      "Game events handled by the event router, by topic.",
		}, []string{"topic"}),
	}

	for _, c := range []prometheus.Collector{m.attempts, m.successes, m.failures, m.durations, m.rounds, m.events} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.durations.WithLabelValues(operation, service).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordRoundScored(_ context.Context, bidTeam, contract string, contractMet bool) {
	outcome := "failed"
	if contractMet {
		outcome = "made"
	}
	m.rounds.WithLabelValues(bidTeam, contract, outcome).Inc()
}

func (m *PrometheusMetrics) RecordEventConsumed(_ context.Context, topic string) {
	m.events.WithLabelValues(topic).Inc()
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoopMetrics) RecordRoundScored(context.Context, string, string, bool)                {}
func (NoopMetrics) RecordEventConsumed(context.Context, string)                            {}

var (
	_ GameMetrics  = (*PrometheusMetrics)(nil)
	_ GameMetrics  = NoopMetrics{}
	_ EventMetrics = (*PrometheusMetrics)(nil)
	_ EventMetrics = NoopMetrics{}
)
