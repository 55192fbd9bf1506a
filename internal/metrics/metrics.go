package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts all HTTP requests with labels
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// OverviewResults counts finances overview computations by outcome (ok, empty, error)
	OverviewResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finances_overview_results_total",
			Help: "Finances overview computations by outcome",
		},
		[]string{"outcome"},
	)

	// OverviewDuration records how long an overview takes to fetch and aggregate
	OverviewDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "finances_overview_duration_seconds",
			Help:    "Duration of finances overview computations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// AlertsEmitted counts generated alerts by type and severity
	AlertsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finances_alerts_emitted_total",
			Help: "Finance alerts generated by type and severity",
		},
		[]string{"type", "severity"},
	)

	// DigestEmails counts owner digest e-mails by outcome (sent, failed, skipped)
	DigestEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finances_digest_emails_total",
			Help: "Owner digest e-mails by outcome",
		},
		[]string{"outcome"},
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

// Middleware records request count and duration, labelled by route template
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		RequestCounter.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		RequestDurationHistogram.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Handler returns an HTTP handler exposing Prometheus metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
