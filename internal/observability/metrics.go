package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	scansTotal         *prometheus.CounterVec
	scanDuration       prometheus.Histogram
	cacheLookupsTotal  *prometheus.CounterVec
	ratelimitHitsTotal prometheus.Counter
	httpRequestsTotal  *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		scansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "phishguard_scans_total", Help: "Total URL classifications"},
			[]string{"verdict", "rule"},
		),
		scanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "phishguard_scan_duration_seconds",
				Help:    "Time spent classifying a URL",
				Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
			},
		),
		cacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "phishguard_cache_lookups_total", Help: "Verdict cache lookups"},
			[]string{"result"},
		),
		ratelimitHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "phishguard_ratelimit_hits_total", Help: "Requests rejected by the rate limiter"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "phishguard_http_requests_total", Help: "HTTP requests served"},
			[]string{"path", "code"},
		),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.scansTotal,
		m.scanDuration,
		m.cacheLookupsTotal,
		m.ratelimitHitsTotal,
		m.httpRequestsTotal,
	)

	return m
}

func (m *Metrics) Handler(reg *prometheus.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveScan records one classification. rule is empty for safe verdicts.
func (m *Metrics) ObserveScan(verdict, rule string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if rule == "" {
		rule = "none"
	}
	m.scansTotal.WithLabelValues(verdict, rule).Inc()
	m.scanDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookupsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRateLimit() {
	if m == nil {
		return
	}
	m.ratelimitHitsTotal.Inc()
}

func (m *Metrics) ObserveRequest(path string, code int) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
}
