package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total number of HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankdw_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "code"},
	)

	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bankdw_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	// ActiveRequests tracks currently active requests
	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bankdw_http_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"path"},
	)

	// RowsCanonicalized counts datetime values rewritten into canonical form
	RowsCanonicalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankdw_normalize_rows_canonicalized_total",
			Help: "Rows whose datetime text was rewritten into canonical form",
		},
		[]string{"table"},
	)

	// RowsKeptVerbatim counts datetime values preserved unparsed
	RowsKeptVerbatim = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankdw_normalize_rows_kept_verbatim_total",
			Help: "Rows whose datetime text failed to parse and was kept verbatim",
		},
		[]string{"table"},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// NewMetricsMiddleware returns middleware that collects Prometheus metrics per request.
func NewMetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			ActiveRequests.WithLabelValues(path).Inc()
			defer ActiveRequests.WithLabelValues(path).Dec()

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			RequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
			RequestsTotal.WithLabelValues(path, strconv.Itoa(rec.status)).Inc()
		})
	}
}
