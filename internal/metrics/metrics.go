// Package metrics holds the process-wide Prometheus collectors. Collectors are
// registered with the default registry in init so /metrics exposes them
// without further wiring.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "audioevents"

var (
	dispatchEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "emitted_total",
			Help:      "Events accepted by an armed dispatcher",
		},
		[]string{"kind"},
	)

	dispatchRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "rejected_total",
			Help:      "Events dropped because the target context refused them",
		},
		[]string{"kind"},
	)

	looperUnits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "looper",
			Name:      "units_total",
			Help:      "Delivery units by outcome (posted, executed, dropped, rejected, panicked)",
		},
		[]string{"looper", "outcome"},
	)

	looperDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "looper",
			Name:      "queue_depth",
			Help:      "Delivery units waiting to run",
		},
		[]string{"looper"},
	)

	looperUnitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "looper",
			Name:      "unit_duration_seconds",
			Help:      "Time spent running one delivery unit",
			Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
		},
		[]string{"looper"},
	)

	underruns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "renderer",
			Name:      "underruns_total",
			Help:      "Audio track underruns observed",
		},
		[]string{"output"},
	)

	decoderInitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "renderer",
			Name:      "decoder_init_duration_seconds",
			Help:      "Decoder initialization time",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"decoder"},
	)

	codecBuffers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "renderer",
			Name:      "codec_buffers",
			Help:      "Last observed codec counter values",
		},
		[]string{"counter"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
	)
)

func init() {
	prometheus.MustRegister(
		dispatchEmitted, dispatchRejected,
		looperUnits, looperDepth, looperUnitDuration,
		underruns, decoderInitDuration, codecBuffers,
		httpRequestsTotal, httpRequestDuration, httpInflight,
	)
}

// Looper outcomes.
const (
	OutcomePosted   = "posted"
	OutcomeExecuted = "executed"
	OutcomeDropped  = "dropped"
	OutcomeRejected = "rejected"
	OutcomePanicked = "panicked"
)

func IncEmitted(kind string)  { dispatchEmitted.WithLabelValues(kind).Inc() }
func IncRejected(kind string) { dispatchRejected.WithLabelValues(kind).Inc() }

// DispatchEmitted returns the emitted counter for kind.
func DispatchEmitted(kind string) prometheus.Counter { return dispatchEmitted.WithLabelValues(kind) }

// DispatchRejected returns the rejected counter for kind.
func DispatchRejected(kind string) prometheus.Counter { return dispatchRejected.WithLabelValues(kind) }

// AddLooperUnits adds n to the looper counter for outcome. n <= 0 is ignored.
func AddLooperUnits(looper, outcome string, n int) {
	if n <= 0 {
		return
	}
	looperUnits.WithLabelValues(looper, outcome).Add(float64(n))
}

func SetQueueDepth(looper string, depth int) {
	looperDepth.WithLabelValues(looper).Set(float64(depth))
}

func ObserveUnit(looper string, d time.Duration) {
	looperUnitDuration.WithLabelValues(looper).Observe(d.Seconds())
}

// IncUnderrun counts an underrun; passthrough tracks are labeled separately
// because their buffer duration is unknown.
func IncUnderrun(passthrough bool) {
	output := "pcm"
	if passthrough {
		output = "passthrough"
	}
	underruns.WithLabelValues(output).Inc()
}

func ObserveDecoderInit(decoder string, d time.Duration) {
	if decoder == "" {
		decoder = "unspecified"
	}
	decoderInitDuration.WithLabelValues(decoder).Observe(d.Seconds())
}

func SetCodecBuffers(counter string, v int64) {
	codecBuffers.WithLabelValues(counter).Set(float64(v))
}

// HTTP request instrumentation, used by the httpapi middleware.

// HTTPInflight is not labelled by path: the route is unknown until the
// request has been routed.
func HTTPInflight() prometheus.Gauge { return httpInflight }

func ObserveHTTP(path, method, status string, d time.Duration) {
	httpRequestsTotal.WithLabelValues(path, method, status).Inc()
	httpRequestDuration.WithLabelValues(path, method, status).Observe(d.Seconds())
}
