package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "api_client_requests_total",
			Help: "Number of workflow API requests, by resource, method and response code.",
		},
		[]string{"resource", "method", "code"},
	)

	requestDuration = promauto.NewHistogramVec( //nolint:gochecknoglobals
		prometheus.HistogramOpts{
			Name:    "api_client_request_duration_seconds",
			Help:    "Latency of workflow API requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource", "method"},
	)
)
