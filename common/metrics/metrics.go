package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	handlerInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_service_handler_invocations_total",
		Help: "Lambda handler invocations grouped by handler and outcome",
	}, []string{"handler", "outcome"})

	handlerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "event_service_handler_duration_seconds",
		Help:    "Lambda handler duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"handler"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_service_http_requests_total",
		Help: "HTTP requests served by the local server",
	}, []string{"method", "path", "status"})

	eventMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_service_event_mutations_total",
		Help: "Event create/update/delete operations grouped by result",
	}, []string{"action", "success"})
)

// Outcome labels for ObserveHandler
const (
	OutcomeOK     = "ok"
	OutcomeClient = "client_error"
	OutcomeServer = "server_error"
	OutcomeFailed = "invocation_error"
)

// ObserveHandler records one handler invocation
func ObserveHandler(handler, outcome string, duration time.Duration) {
	handlerInvocations.WithLabelValues(handler, outcome).Inc()
	handlerDuration.WithLabelValues(handler).Observe(duration.Seconds())
}

// OutcomeForStatus maps a response status to an outcome label
func OutcomeForStatus(status int) string {
	switch {
	case status >= 500:
		return OutcomeServer
	case status >= 400:
		return OutcomeClient
	default:
		return OutcomeOK
	}
}

// ObserveHTTPRequest records one request served by the local server
func ObserveHTTPRequest(method, path string, status int) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// ObserveMutation records an event create/update/delete
func ObserveMutation(action string, success bool) {
	eventMutations.WithLabelValues(action, strconv.FormatBool(success)).Inc()
}
