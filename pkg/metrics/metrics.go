package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "otaserver"

	metricLabelMethod = "method"
	metricLabelResult = "result"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// RequestCounter counts the requests per method and result
	RequestCounter = newCounterVec(
		"request_count",
		"Count of requests for each method and result",
		metricLabelMethod, metricLabelResult,
	)
	// RequestDuration observes the duration of requests per method and result
	RequestDuration = newSummaryVec(
		"request_duration_seconds",
		"Seconds to read the source and write the response",
		metricLabelMethod, metricLabelResult,
	)
	// ServedBytesCounter counts the payload bytes written to clients
	ServedBytesCounter = newCounterVec(
		"served_bytes_total",
		"Number of payload bytes written to clients",
	)
	// SourceReadFailedCounter counts the failed attempts to read the source
	SourceReadFailedCounter = newCounterVec(
		"source_read_failed_count",
		"Number of failures to read the served file",
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
