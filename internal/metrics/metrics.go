package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapgram_mutations_total",
		Help: "The total number of mutation requests.",
	}, []string{"entity", "operation", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snapgram_http_request_duration_seconds",
		Help:    "Histogram of HTTP request latency in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method", "path", "status"})
)
