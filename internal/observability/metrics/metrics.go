// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "transcript_manager"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// gRPC stream metrics
	StreamsTotal   prometheus.Counter
	StreamsActive  prometheus.Gauge
	StreamsSuccess prometheus.Counter
	StreamsFailed  prometheus.Counter
	StreamDuration prometheus.Histogram

	// Ingress metrics
	TokensIngested    prometheus.Counter
	BatchesIngested   prometheus.Counter
	IngressValidation *prometheus.CounterVec

	// Ring metrics
	RingDepth       prometheus.Gauge
	RingOverwrites  prometheus.Counter
	RingAlmostFull  prometheus.Counter
	ConsumerBusy    prometheus.Counter

	// Merge cycle metrics
	MergeCycles      prometheus.Counter
	MergeLatency     prometheus.Histogram
	MergePanics      prometheus.Counter
	PlannerOps       *prometheus.CounterVec
	TranscriptLength prometheus.Gauge

	// Publish metrics
	PublishTotal   *prometheus.CounterVec
	PublishErrors  *prometheus.CounterVec
	PublishLatency *prometheus.HistogramVec

	// Infer (long-running action) metrics
	InferRequestsActive prometheus.Gauge
	InferRequestsTotal  prometheus.Counter
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		StreamsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_total",
			Help:      "Total number of gRPC streams started",
		}),
		StreamsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streams_active",
			Help:      "Number of currently active gRPC streams",
		}),
		StreamsSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_success_total",
			Help:      "Total number of successfully completed streams",
		}),
		StreamsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streams_failed_total",
			Help:      "Total number of failed streams",
		}),
		StreamDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stream_duration_seconds",
			Help:      "Duration of gRPC streams in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),

		TokensIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_ingested_total",
			Help:      "Total number of STT tokens ingested",
		}),
		BatchesIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_ingested_total",
			Help:      "Total number of token-message batches accepted onto the ring",
		}),
		IngressValidation: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingress_validation_total",
			Help:      "Total number of ingress messages by validation outcome",
		}, []string{"outcome"}),

		RingDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ring_depth",
			Help:      "Current number of batches queued in the ingress ring",
		}),
		RingOverwrites: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ring_overwrites_total",
			Help:      "Total number of batches dropped because the ring was full",
		}),
		RingAlmostFull: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ring_almost_full_total",
			Help:      "Total number of enqueues that observed the ring almost full",
		}),
		ConsumerBusy: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consumer_busy_total",
			Help:      "Total number of times the ring consumer lock was already held",
		}),

		MergeCycles: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_cycles_total",
			Help:      "Total number of merge-driver ticks that processed at least one batch",
		}),
		MergeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "merge_latency_seconds",
			Help:      "Latency of one merge-driver cycle over all its drained batches (align + plan + commit)",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		MergePanics: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_panics_total",
			Help:      "Total number of merge-driver cycles in which at least one batch was dropped due to a recovered planner invariant violation",
		}),
		PlannerOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "planner_ops_total",
			Help:      "Total number of edit operations emitted by the merge planner, by kind",
		}, []string{"kind"}),
		TranscriptLength: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transcript_entries",
			Help:      "Current number of entries (words and segments) held in the transcript store",
		}),

		PublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_total",
			Help:      "Total number of transcript publishes attempted",
		}, []string{"topic"}),
		PublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total number of transcript publish failures",
		}, []string{"topic"}),
		PublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_latency_seconds",
			Help:      "Transcript publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		InferRequestsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "infer_requests_active",
			Help:      "Number of currently active Infer long-running requests",
		}),
		InferRequestsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "infer_requests_total",
			Help:      "Total number of Infer requests accepted",
		}),
	}
}

// RecordStreamStart records a new gRPC stream starting.
func (m *Metrics) RecordStreamStart() {
	m.StreamsTotal.Inc()
	m.StreamsActive.Inc()
}

// RecordStreamEnd records a gRPC stream ending.
func (m *Metrics) RecordStreamEnd(success bool, durationSeconds float64) {
	m.StreamsActive.Dec()
	m.StreamDuration.Observe(durationSeconds)
	if success {
		m.StreamsSuccess.Inc()
	} else {
		m.StreamsFailed.Inc()
	}
}

// RecordIngress records a single token-message batch's validation outcome,
// and its token count when accepted.
func (m *Metrics) RecordIngress(accepted bool, tokenCount int) {
	if accepted {
		m.IngressValidation.WithLabelValues("accepted").Inc()
		m.BatchesIngested.Inc()
		m.TokensIngested.Add(float64(tokenCount))
		return
	}
	m.IngressValidation.WithLabelValues("rejected").Inc()
}

// RecordRingEnqueue records a ring enqueue, including whether it overwrote
// the oldest batch and whether the ring was observed almost full.
func (m *Metrics) RecordRingEnqueue(depth int, overwrote, almostFull bool) {
	m.RingDepth.Set(float64(depth))
	if overwrote {
		m.RingOverwrites.Inc()
	}
	if almostFull {
		m.RingAlmostFull.Inc()
	}
}

// RecordConsumerBusy records a failed attempt to acquire the ring consumer.
func (m *Metrics) RecordConsumerBusy() {
	m.ConsumerBusy.Inc()
}

// RecordMergeCycle records one merge-driver tick that processed batches,
// along with whether any batch was dropped to a recovered panic.
func (m *Metrics) RecordMergeCycle(latencySeconds float64, panicked bool) {
	m.MergeCycles.Inc()
	m.MergeLatency.Observe(latencySeconds)
	if panicked {
		m.MergePanics.Inc()
	}
}

// RecordPlannerOp records one edit operation emitted by the planner.
func (m *Metrics) RecordPlannerOp(kind string) {
	m.PlannerOps.WithLabelValues(kind).Inc()
}

// SetTranscriptLength records the transcript store's current entry count.
func (m *Metrics) SetTranscriptLength(n int) {
	m.TranscriptLength.Set(float64(n))
}

// RecordPublish records a transcript publish attempt.
func (m *Metrics) RecordPublish(topic string, err error, latencySeconds float64) {
	m.PublishTotal.WithLabelValues(topic).Inc()
	m.PublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.PublishErrors.WithLabelValues(topic).Inc()
	}
}

// RecordInferStart records a new Infer long-running request starting.
func (m *Metrics) RecordInferStart() {
	m.InferRequestsTotal.Inc()
	m.InferRequestsActive.Inc()
}

// RecordInferEnd records an Infer request ending.
func (m *Metrics) RecordInferEnd() {
	m.InferRequestsActive.Dec()
}
