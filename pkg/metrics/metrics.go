package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// Intake pipeline
	SubmissionsCreated prometheus.Counter
	RedFlagsFired      *prometheus.CounterVec
	TriageCalls        *prometheus.CounterVec
	TriageLatency      prometheus.Histogram

	// Queue operations
	QueueReorders  *prometheus.CounterVec
	NurseDecisions *prometheus.CounterVec
	QueueDepth     prometheus.Gauge

	// Outbox
	OutboxEventsProcessed prometheus.Counter
	OutboxEventsFailed    prometheus.Counter
	OutboxQueueSize       prometheus.Gauge
}

// NewMetrics creates and registers all application metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SubmissionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_created_total",
			Help:      "Total number of patient intake submissions",
		}),
		RedFlagsFired: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "red_flags_fired_total",
			Help:      "Red-flag rules triggered during assessment, by rule message",
		}, []string{"rule"}),
		TriageCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triage_calls_total",
			Help:      "Calls to the external AI triage service, by outcome",
		}, []string{"outcome"}),
		TriageLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "triage_call_duration_seconds",
			Help:      "Latency of external AI triage calls",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 20},
		}),
		QueueReorders: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_reorders_total",
			Help:      "Queue reorder operations, by kind",
		}, []string{"operation"}),
		NurseDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nurse_decisions_total",
			Help:      "Nurse accept/override decisions",
		}, []string{"decision"}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Current number of waiting submissions",
		}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxQueueSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outbox_queue_size",
			Help:      "Current number of pending outbox events",
		}),
	}
}
