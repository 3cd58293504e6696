package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datespark_http_requests_total",
		Help: "Number of HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "datespark_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	PhotosModerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "datespark_photos_moderated_total",
		Help: "Number of moderated photos by outcome.",
	}, []string{"outcome"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "datespark_ws_connections",
		Help: "Currently open websocket connections.",
	})
)
