package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mbeaulieu/rrcalc/internal/sysmon"
)

// Metrics bundles the Prometheus instrumentation of the solver. Each instance
// owns its registry, so tests can create as many as they like without
// tripping duplicate registration.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	activeRequests prometheus.Gauge
	requestsTotal  prometheus.Counter
	solvesTotal    *prometheus.CounterVec
	fallbacksTotal prometheus.Counter
	failuresTotal  prometheus.Counter
	systemCPU      prometheus.Gauge
	systemMem      prometheus.Gauge
}

// NewMetrics creates the solver metric set and its /metrics handler.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rrcalc_active_requests",
			Help: "Number of requests currently being served.",
		}),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rrcalc_requests_total",
			Help: "Total number of requests served.",
		}),
		solvesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rrcalc_solves_total",
			Help: "Total number of flash solves, labeled by method.",
		}, []string{"method"}),
		fallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rrcalc_fallbacks_total",
			Help: "Total number of solves that fell back to the bracketed secant path.",
		}),
		failuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rrcalc_failures_total",
			Help: "Total number of solves that returned an error.",
		}),
		systemCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rrcalc_system_cpu_percent",
			Help: "System-wide CPU usage at the last scrape, 0 to 100.",
		}),
		systemMem: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rrcalc_system_mem_percent",
			Help: "System-wide memory usage at the last scrape, 0 to 100.",
		}),
	}
	registry.MustRegister(m.activeRequests, m.requestsTotal, m.solvesTotal,
		m.fallbacksTotal, m.failuresTotal, m.systemCPU, m.systemMem)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// IncrementActiveRequests records the start of a request.
func (m *Metrics) IncrementActiveRequests() {
	m.activeRequests.Inc()
	m.requestsTotal.Inc()
}

// DecrementActiveRequests records the end of a request.
func (m *Metrics) DecrementActiveRequests() {
	m.activeRequests.Dec()
}

// ObserveSolve records the outcome of a single flash solve.
func (m *Metrics) ObserveSolve(method string, fellBack bool, err error) {
	m.solvesTotal.WithLabelValues(method).Inc()
	if fellBack {
		m.fallbacksTotal.Inc()
	}
	if err != nil {
		m.failuresTotal.Inc()
	}
}

// WritePrometheus serves the metrics in Prometheus exposition format.
// System gauges are refreshed on each scrape.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	stats := sysmon.Sample()
	m.systemCPU.Set(stats.CPUPercent)
	m.systemMem.Set(stats.MemPercent)
	m.handler.ServeHTTP(w, r)
}
