package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobe/backend/internal/domain"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNew_RegistersCollectors(t *testing.T) {
	m := New()

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	// Separate instances own separate registries
	assert.NotPanics(t, func() { New() })
}

func TestRecorderMethods(t *testing.T) {
	m := New()

	m.ObserveExtraction(&domain.AnalysisResult{
		Category:        domain.Attribute{Name: "jacket"},
		ConfidenceScore: 0.95,
	})
	m.ObserveExtraction(&domain.AnalysisResult{
		Category:        domain.Attribute{Name: domain.UnknownCategory},
		ConfidenceScore: 0.2,
		NeedsReview:     true,
	})
	m.ObserveQualityScore(90)
	m.VisionCall("success")
	m.VisionCall("error")
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()

	body := scrape(t, m)

	assert.Contains(t, body, `wardrobe_extractions_total{category="jacket"} 1`)
	assert.Contains(t, body, `wardrobe_extractions_total{category="unknown"} 1`)
	assert.Contains(t, body, "wardrobe_extractions_needs_review_total 1")
	assert.Contains(t, body, "wardrobe_extraction_confidence_count 2")
	assert.Contains(t, body, "wardrobe_quality_score_count 1")
	assert.Contains(t, body, `wardrobe_vision_calls_total{outcome="success"} 1`)
	assert.Contains(t, body, `wardrobe_vision_calls_total{outcome="error"} 1`)
	assert.Contains(t, body, "wardrobe_cache_hits_total 1")
	assert.Contains(t, body, "wardrobe_cache_misses_total 2")
}
