package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the refresh pipeline. A nil
// *Metrics is valid and records nothing, so components can be built without
// a sink in tests.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal           *prometheus.CounterVec
	RunDuration         prometheus.Histogram
	CategoriesTotal     *prometheus.CounterVec
	ItemsIngestedTotal  prometheus.Counter
	DetailFailuresTotal prometheus.Counter
	UpstreamRequests    *prometheus.CounterVec
	MonitorChecksTotal  *prometheus.CounterVec
	ProxyImageTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_runs_total",
			Help: "Refresh runs by trigger and outcome.",
		},
		[]string{"trigger", "outcome"},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "refresh_run_duration_seconds",
			Help:    "Wall-clock duration of a full refresh run.",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1200, 1800},
		},
	)
	categories := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_categories_total",
			Help: "Per-category ingestion outcomes.",
		},
		[]string{"category", "outcome"},
	)
	items := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_items_ingested_total",
			Help: "Items accepted into daily snapshots.",
		},
	)
	detailFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_detail_failures_total",
			Help: "Item detail fetches skipped due to upstream errors.",
		},
	)
	upstream := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_upstream_requests_total",
			Help: "Upstream marketplace API requests by endpoint.",
		},
		[]string{"endpoint"},
	)
	monitorChecks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_monitor_checks_total",
			Help: "Completion monitor verdicts.",
		},
		[]string{"status"},
	)
	proxyImages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_image_requests_total",
			Help: "Image proxy requests by result.",
		},
		[]string{"result"},
	)

	registry.MustRegister(runs, runDuration, categories, items, detailFailures, upstream, monitorChecks, proxyImages)

	return &Metrics{
		Registry:            registry,
		RunsTotal:           runs,
		RunDuration:         runDuration,
		CategoriesTotal:     categories,
		ItemsIngestedTotal:  items,
		DetailFailuresTotal: detailFailures,
		UpstreamRequests:    upstream,
		MonitorChecksTotal:  monitorChecks,
		ProxyImageTotal:     proxyImages,
	}
}

// IncRun records a completed run.
func (m *Metrics) IncRun(trigger, outcome string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(trigger, outcome).Inc()
}

// ObserveRunDuration records a run's wall-clock duration.
func (m *Metrics) ObserveRunDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(d.Seconds())
}

// IncCategory records a per-category ingestion outcome.
func (m *Metrics) IncCategory(category, outcome string) {
	if m == nil {
		return
	}
	m.CategoriesTotal.WithLabelValues(category, outcome).Inc()
}

// AddItems records items accepted into a snapshot.
func (m *Metrics) AddItems(n int) {
	if m == nil {
		return
	}
	m.ItemsIngestedTotal.Add(float64(n))
}

// IncDetailFailure records a skipped item detail fetch.
func (m *Metrics) IncDetailFailure() {
	if m == nil {
		return
	}
	m.DetailFailuresTotal.Inc()
}

// IncUpstream records one upstream API request.
func (m *Metrics) IncUpstream(endpoint string) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(endpoint).Inc()
}

// IncMonitorCheck records a monitor verdict.
func (m *Metrics) IncMonitorCheck(status string) {
	if m == nil {
		return
	}
	m.MonitorChecksTotal.WithLabelValues(status).Inc()
}

// IncProxyImage records an image proxy request result.
func (m *Metrics) IncProxyImage(result string) {
	if m == nil {
		return
	}
	m.ProxyImageTotal.WithLabelValues(result).Inc()
}
