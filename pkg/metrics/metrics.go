// Package metrics exposes generation and HTTP counters in the Prometheus
// text format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "llmstxt"

// Metrics owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	Generations   *prometheus.CounterVec
	GenerateTime  prometheus.Histogram
	Warnings      prometheus.Counter
	Enrichment    *prometheus.CounterVec
	CrawlFailures prometheus.Counter
	PagesCrawled  prometheus.Histogram
	RunsCreated   prometheus.Counter
	RunsPaid      prometheus.Counter
	RunsDeleted   prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generation attempts by outcome.",
		}, []string{"outcome"}),
		GenerateTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Wall time of a full generation.",
			Buckets:   []float64{1, 5, 10, 20, 40, 60, 90, 120},
		}),
		Warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_warnings_total",
			Help:      "Quality warnings emitted for generated documents.",
		}),
		Enrichment: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichments_total",
			Help:      "Generations by whether enrichment was applied.",
		}, []string{"used"}),
		CrawlFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crawl_failures_total",
			Help:      "Crawls that ended unavailable.",
		}),
		PagesCrawled: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "crawled_pages",
			Help:      "Pages returned per crawl.",
			Buckets:   prometheus.LinearBuckets(0, 5, 9),
		}),
		RunsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_created_total",
			Help:      "Stored generation runs.",
		}),
		RunsPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_paid_total",
			Help:      "Runs marked paid by the payment webhook.",
		}),
		RunsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_deleted_total",
			Help:      "Expired runs removed by cleanup.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Generations, m.GenerateTime, m.Warnings, m.Enrichment,
		m.CrawlFailures, m.PagesCrawled,
		m.RunsCreated, m.RunsPaid, m.RunsDeleted,
		m.HTTPRequests, m.HTTPDuration,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveGeneration records a finished generation. A nil receiver is a no-op
// so callers may run without metrics.
func (m *Metrics) ObserveGeneration(outcome string, started time.Time, warnings int, enriched bool) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(outcome).Inc()
	m.GenerateTime.Observe(time.Since(started).Seconds())
	if outcome != OutcomeOK {
		return
	}
	m.Warnings.Add(float64(warnings))
	used := "false"
	if enriched {
		used = "true"
	}
	m.Enrichment.WithLabelValues(used).Inc()
}

func (m *Metrics) ObserveCrawl(pages int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.CrawlFailures.Inc()
		return
	}
	m.PagesCrawled.Observe(float64(pages))
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Generation outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
