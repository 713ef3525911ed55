package usecase

import (
	"log/slog"
	"math"
	"strings"

	"github.com/wardrobe/backend/internal/domain"
	"github.com/wardrobe/backend/internal/logging"
)

// Confidence weights for additive presence scoring
const (
	baseConfidence     = 0.2
	categoryBonus      = 0.5
	colorBonus         = 0.15
	DefaultFabricBonus = 0.10
	styleBonus         = 0.05
	reviewThreshold    = 0.7 // scores strictly below this need manual review
)

// ExtractorConfig holds configuration for the attribute extractor
type ExtractorConfig struct {
	FabricBonus        float64
	EnableDebugLogging bool
}

// AttributeExtractor matches garment text against the fixed keyword dictionaries.
// It holds no mutable state and is safe for concurrent use.
type AttributeExtractor struct {
	fabricBonus        float64
	enableDebugLogging bool
	logger             *slog.Logger
}

// NewAttributeExtractor creates a new extractor with the given configuration
func NewAttributeExtractor(config ExtractorConfig) *AttributeExtractor {
	bonus := config.FabricBonus
	if bonus <= 0 || bonus > 1 {
		bonus = DefaultFabricBonus
	}

	return &AttributeExtractor{
		fabricBonus:        bonus,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logging.WithComponent("extractor"),
	}
}

// Extract derives category, colors, fabrics, styles, search terms and a
// confidence score from free-form garment text. It never fails: text without
// any known keyword yields the "unknown" category and the base confidence.
func (e *AttributeExtractor) Extract(text string, price *float64) *domain.AnalysisResult {
	normalized := strings.ToLower(strings.TrimSpace(text))

	category, ok := categoryDictionary.first(normalized)
	if !ok {
		category = domain.Attribute{Name: domain.UnknownCategory}
	}

	result := &domain.AnalysisResult{
		OriginalText: text,
		Price:        price,
		Category:     category,
		Colors:       colorDictionary.all(normalized),
		Fabrics:      fabricDictionary.all(normalized),
		Styles:       styleDictionary.all(normalized),
	}

	result.SearchTerms = buildSearchTerms(normalized, result)
	result.ConfidenceScore = e.score(result)
	result.NeedsReview = result.ConfidenceScore < reviewThreshold

	if e.enableDebugLogging {
		e.logger.Info("extracted attributes",
			"text", normalized,
			"category", result.Category.Name,
			"colors", len(result.Colors),
			"fabrics", len(result.Fabrics),
			"styles", len(result.Styles),
			"confidence", result.ConfidenceScore,
			"needs_review", result.NeedsReview)
	}

	return result
}

// score adds a flat bonus per attribute dimension that has at least one match.
func (e *AttributeExtractor) score(result *domain.AnalysisResult) float64 {
	score := baseConfidence
	if result.Category.Name != domain.UnknownCategory {
		score += categoryBonus
	}
	if len(result.Colors) > 0 {
		score += colorBonus
	}
	if len(result.Fabrics) > 0 {
		score += e.fabricBonus
	}
	if len(result.Styles) > 0 {
		score += styleBonus
	}

	score = math.Max(0, math.Min(1, score))
	// Two decimals keep sums like 0.2+0.5 comparable against the review threshold
	return math.Round(score*100) / 100
}

// buildSearchTerms collects unique search terms in a deterministic order
func buildSearchTerms(normalized string, result *domain.AnalysisResult) []string {
	terms := newTermSet()

	hasCategory := result.Category.Name != domain.UnknownCategory
	if hasCategory {
		terms.add(result.Category.Name)
	}
	for _, groups := range [][]domain.Attribute{result.Colors, result.Fabrics, result.Styles} {
		for _, a := range groups {
			terms.add(a.Name)
		}
	}

	if len(result.Colors) > 0 && hasCategory {
		terms.add(result.Colors[0].Name + " " + result.Category.Name)
	}
	if len(result.Fabrics) > 0 && hasCategory {
		terms.add(result.Fabrics[0].Name + " " + result.Category.Name)
	}
	if len(result.Colors) > 0 && len(result.Fabrics) > 0 {
		terms.add(result.Colors[0].Name + " " + result.Fabrics[0].Name)
	}

	terms.add(normalized)

	return terms.items
}

// termSet is an insertion-ordered string set
type termSet struct {
	seen  map[string]bool
	items []string
}

func newTermSet() *termSet {
	return &termSet{seen: make(map[string]bool), items: make([]string, 0)}
}

func (s *termSet) add(term string) {
	if term == "" || s.seen[term] {
		return
	}
	s.seen[term] = true
	s.items = append(s.items, term)
}

// containsKeyword reports whether keyword occurs anywhere in text
func containsKeyword(text, keyword string) bool {
	return strings.Contains(text, keyword)
}
