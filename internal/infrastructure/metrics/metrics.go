// Package metrics defines the Prometheus collectors for the wardrobe backend
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wardrobe/backend/internal/domain"
)

// Metrics holds all Prometheus collectors and the registry they live in.
// Each instance owns its registry so tests can build several side by side.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	ExtractionsTotal     *prometheus.CounterVec
	NeedsReviewTotal     prometheus.Counter
	ExtractionConfidence prometheus.Histogram
	QualityScore         prometheus.Histogram
	VisionCallsTotal     *prometheus.CounterVec
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
}

// New creates and registers all collectors, plus the Go and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wardrobe_http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wardrobe_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wardrobe_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		ExtractionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wardrobe_extractions_total",
				Help: "Attribute extractions by resolved category.",
			},
			[]string{"category"},
		),
		NeedsReviewTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wardrobe_extractions_needs_review_total",
				Help: "Extractions whose confidence fell below the review threshold.",
			},
		),
		ExtractionConfidence: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wardrobe_extraction_confidence",
				Help:    "Distribution of extraction confidence scores.",
				Buckets: []float64{0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
			},
		),
		QualityScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wardrobe_quality_score",
				Help:    "Distribution of derived quality scores.",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
		),
		VisionCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wardrobe_vision_calls_total",
				Help: "Vision API calls by outcome (success, error).",
			},
			[]string{"outcome"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wardrobe_cache_hits_total",
				Help: "Total number of vision cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wardrobe_cache_misses_total",
				Help: "Total number of vision cache misses.",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.ExtractionsTotal,
		m.NeedsReviewTotal,
		m.ExtractionConfidence,
		m.QualityScore,
		m.VisionCallsTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Handler returns the scrape handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveExtraction records one attribute extraction
func (m *Metrics) ObserveExtraction(result *domain.AnalysisResult) {
	m.ExtractionsTotal.WithLabelValues(result.Category.Name).Inc()
	m.ExtractionConfidence.Observe(result.ConfidenceScore)
	if result.NeedsReview {
		m.NeedsReviewTotal.Inc()
	}
}

// ObserveQualityScore records one derived quality score
func (m *Metrics) ObserveQualityScore(score int) {
	m.QualityScore.Observe(float64(score))
}

// VisionCall counts a vision API call by outcome
func (m *Metrics) VisionCall(outcome string) {
	m.VisionCallsTotal.WithLabelValues(outcome).Inc()
}

// CacheHit counts a vision cache hit
func (m *Metrics) CacheHit() { m.CacheHitsTotal.Inc() }

// CacheMiss counts a vision cache miss
func (m *Metrics) CacheMiss() { m.CacheMissesTotal.Inc() }
