package mockapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	clustersCreated prometheus.Counter
	imeisRejected   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mockapi_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mockapi_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler", "method"},
		),
		clustersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mockapi_clusters_created_total",
			Help: "Clusters created through either endpoint",
		}),
		imeisRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mockapi_imeis_rejected_total",
			Help: "IMEIs that failed the check digit",
		}),
	}
	reg.MustRegister(
		m.requests, m.duration, m.clustersCreated, m.imeisRejected,
		collectors.NewGoCollector(),
	)
	return m
}

// instrument wraps a handler with request count and latency recording.
func (m *metrics) instrument(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		h(rw, r)

		m.duration.WithLabelValues(name, r.Method).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(name, r.Method, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// responseWriter captures the status code for metrics and the access log.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}
