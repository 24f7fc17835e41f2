package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Agent-Gateway Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "agent_gateway",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "agent_gateway",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Stream counters
	StreamsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "agent_gateway",
			Name:      "streams_total",
			Help:      "Total chat relays to the agent runtime",
		},
		[]string{"status"},
	)

	// Stream duration histogram
	StreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "agent_gateway",
			Name:      "stream_duration_seconds",
			Help:      "Chat relay duration in seconds",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300},
		},
	)

	// Stream bytes counter
	StreamBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "agent_gateway",
			Name:      "stream_bytes_total",
			Help:      "Total bytes relayed from the agent runtime",
		},
	)

	// Recorded message counter
	MessagesRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "agent_gateway",
			Name:      "messages_recorded_total",
			Help:      "Total chat messages recorded",
		},
		[]string{"role"},
	)

	// Artifact download counter
	ArtifactDownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "agent_gateway",
			Name:      "artifact_downloads_total",
			Help:      "Total artifact downloads",
		},
		[]string{"status"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordStream records a chat relay outcome
func RecordStream(status string, durationSec float64, bytes int64) {
	StreamsTotal.WithLabelValues(status).Inc()
	StreamDuration.Observe(durationSec)
	if bytes > 0 {
		StreamBytesTotal.Add(float64(bytes))
	}
}

// RecordMessages records a batch of stored messages
func RecordMessages(role string, count int) {
	MessagesRecordedTotal.WithLabelValues(role).Add(float64(count))
}

// RecordArtifactDownload records an artifact download
func RecordArtifactDownload(status string) {
	ArtifactDownloadsTotal.WithLabelValues(status).Inc()
}
