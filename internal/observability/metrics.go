package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/tlvdump/internal/protocol"
	"github.com/danmuck/tlvdump/internal/protocol/gzipped"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tlvdump",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tlvdump",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
	decodeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tlvdump",
			Subsystem: "decode",
			Name:      "total",
			Help:      "Decode calls by source and outcome.",
		},
		[]string{"source", "outcome"},
	)
	decodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tlvdump",
			Subsystem: "decode",
			Name:      "duration_seconds",
			Help:      "Decode duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"source"},
	)
	inflatedBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tlvdump",
			Subsystem: "gzip",
			Name:      "inflated_bytes",
			Help:      "Size of inflated gzip_packed payloads.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, decodeTotal, decodeDuration, inflatedBytes)
	})
}

func RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordDecode counts one decode outcome, labelled by protocol.Classify.
func RecordDecode(source string, err error, duration time.Duration) {
	RegisterMetrics()
	decodeTotal.WithLabelValues(source, protocol.Classify(err)).Inc()
	decodeDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordInflate matches dump.Options.OnInflate.
func RecordInflate(st gzipped.Stats) {
	RegisterMetrics()
	inflatedBytes.Observe(float64(st.Inflated))
}
