// Package metrics holds the prometheus collectors shared by the HTTP
// middleware and the store instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "postsapi"

var (
	// HTTPRequests counts served requests by method, route template and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served",
	}, []string{"method", "route", "status"})

	// HTTPDuration records request latency by method and route template.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// StoreDuration records store call latency by operation and outcome.
	StoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Store operation latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
)

// Outcome labels for StoreDuration.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
