package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates the Prometheus instrumentation for the API:
// HTTP request metrics plus the import pipeline counters.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	importsInFlight prometheus.Gauge
	importsTotal    *prometheus.CounterVec
	importRows      prometheus.Counter
	importFailures  prometheus.Counter
	importDuration  prometheus.Histogram
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	importsInFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "import_jobs_in_flight",
		Help: "Attendance import jobs currently running",
	})

	importsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_jobs_total",
		Help: "Finished attendance import jobs by outcome",
	}, []string{"outcome"})

	importRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Attendance rows accepted across all imports",
	})

	importFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "import_row_failures_total",
		Help: "Attendance rows rejected during roster validation",
	})

	importDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "import_duration_seconds",
		Help:    "Duration of one file import",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, importsInFlight, importsTotal, importRows, importFailures, importDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		importsInFlight: importsInFlight,
		importsTotal:    importsTotal,
		importRows:      importRows,
		importFailures:  importFailures,
		importDuration:  importDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ImportStarted marks one import job entering the queue.
func (m *MetricsService) ImportStarted() {
	if m == nil {
		return
	}
	m.importsInFlight.Inc()
}

// ImportFinished records the outcome of one import job.
func (m *MetricsService) ImportFinished(outcome string, rows, failures int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.importsInFlight.Dec()
	m.importsTotal.WithLabelValues(outcome).Inc()
	m.importRows.Add(float64(rows))
	m.importFailures.Add(float64(failures))
	if elapsed > 0 {
		m.importDuration.Observe(elapsed.Seconds())
	}
}
