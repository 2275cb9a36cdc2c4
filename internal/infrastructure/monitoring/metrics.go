package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Browser session metrics
	BrowserConnected prometheus.Gauge
	Connects         *prometheus.CounterVec

	// Interaction metrics
	Asks         *prometheus.CounterVec
	AskDuration  *prometheus.HistogramVec
	Switches     *prometheus.CounterVec
	SelectorHits *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time
}

// NewMetrics creates a metrics collector on its own registry so several
// servers (and tests) never collide on the global one.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bridge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .05, .1, .5, 1, 2.5, 5, 10, 15, 30, 60},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bridge_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bridge_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Browser session metrics
		BrowserConnected: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bridge_browser_connected",
				Help: "1 when a browser session is connected",
			},
		),
		Connects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_browser_connects_total",
				Help: "Total number of connect attempts",
			},
			[]string{"result"},
		),

		// Interaction metrics
		Asks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_asks_total",
				Help: "Total number of ask operations by site and outcome",
			},
			[]string{"site", "outcome"},
		),
		AskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bridge_ask_duration_seconds",
				Help:    "Ask operation duration in seconds",
				Buckets: []float64{1, 2.5, 5, 10, 15, 20, 30, 45, 60},
			},
			[]string{"site"},
		),
		Switches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_switches_total",
				Help: "Total number of site switches by site and result",
			},
			[]string{"site", "result"},
		),
		SelectorHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_selector_hits_total",
				Help: "Selectors that matched, by stage (input, submit, answer)",
			},
			[]string{"stage", "selector"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "bridge_uptime_seconds",
			Help: "Bridge uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// RecordConnect records a connect attempt and the resulting session state.
func (m *Metrics) RecordConnect(err error) {
	if err != nil {
		m.Connects.WithLabelValues("error").Inc()
		m.BrowserConnected.Set(0)
		return
	}
	m.Connects.WithLabelValues("success").Inc()
	m.BrowserConnected.Set(1)
}

// SetConnected sets the session gauge.
func (m *Metrics) SetConnected(connected bool) {
	if connected {
		m.BrowserConnected.Set(1)
		return
	}
	m.BrowserConnected.Set(0)
}

// RecordAsk records one ask with its outcome label.
func (m *Metrics) RecordAsk(site, outcome string, duration time.Duration) {
	m.Asks.WithLabelValues(site, outcome).Inc()
	m.AskDuration.WithLabelValues(site).Observe(duration.Seconds())
}

// RecordSwitch records one site switch.
func (m *Metrics) RecordSwitch(site, result string) {
	m.Switches.WithLabelValues(site, result).Inc()
}

// RecordSelectorHit records which candidate selector matched for a stage.
func (m *Metrics) RecordSelectorHit(stage, selector string) {
	m.SelectorHits.WithLabelValues(stage, selector).Inc()
}
