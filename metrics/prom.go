package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HttpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docrest_http_requests_total",
			Help: "Total number of HTTP requests by method and status",
		},
		[]string{"method", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docrest_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	RegistryCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docrest_registry_created_total",
			Help: "Total number of databases and collections opened by the registry",
		},
		[]string{"kind"},
	)
)

// Handler serves the default prometheus registry.
func Handler() func(http.ResponseWriter, *http.Request) {
	return promhttp.Handler().ServeHTTP
}
