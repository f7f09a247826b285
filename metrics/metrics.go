// ABOUTME: Prometheus collectors for gateway and upstream traffic
// ABOUTME: Registered on the default registry and served by the standalone server at /metrics

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classeviva_gateway_requests_total",
		Help: "Gateway responses by action and HTTP status",
	}, []string{"action", "status"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classeviva_upstream_request_duration_seconds",
		Help:    "Latency of calls to the Classeviva REST API",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
	}, []string{"action"})

	upstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classeviva_upstream_errors_total",
		Help: "Upstream calls that failed in transport or returned invalid JSON",
	}, []string{"action"})
)

// RecordRequest counts one gateway response.
func RecordRequest(action string, status int) {
	requestsTotal.WithLabelValues(action, strconv.Itoa(status)).Inc()
}

// RecordUpstream observes one upstream call; err marks it as failed.
func RecordUpstream(action string, elapsed time.Duration, err error) {
	upstreamDuration.WithLabelValues(action).Observe(elapsed.Seconds())
	if err != nil {
		upstreamErrors.WithLabelValues(action).Inc()
	}
}
