package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	"github.com/wardrobe/backend/internal/domain"
	"github.com/wardrobe/backend/internal/logging"
)


// MetricsRecorder receives analysis outcomes for monitoring
type MetricsRecorder interface {
	ObserveExtraction(result *domain.AnalysisResult)
	ObserveQualityScore(score int)
	VisionCall(outcome string)
	CacheHit()
	CacheMiss()
}

type noopRecorder struct{}

func (noopRecorder) ObserveExtraction(*domain.AnalysisResult) {}
func (noopRecorder) ObserveQualityScore(int)                  {}
func (noopRecorder) VisionCall(string)                        {}
func (noopRecorder) CacheHit()                                {}
func (noopRecorder) CacheMiss()                               {}

// WardrobeServiceConfig holds configuration for the wardrobe service
type WardrobeServiceConfig struct {
	CacheTTL           time.Duration
	FabricBonus        float64
	EnableDebugLogging bool
	ImportWorkers      int
}

// WardrobeService analyzes garments and manages the stored wardrobe
type WardrobeService struct {
	cache         domain.CacheRepository
	vision        domain.VisionClient
	garments      domain.GarmentRepository
	extractor     *AttributeExtractor
	metrics       MetricsRecorder
	cacheTTL      time.Duration
	importWorkers int
	visionCalls   singleflight.Group
	logger        *slog.Logger
	now           func() time.Time
}

// NewWardrobeService creates a new wardrobe service with dependencies.
// vision may be nil, in which case image analysis reports ErrVisionUnavailable.
func NewWardrobeService(
	cache domain.CacheRepository,
	vision domain.VisionClient,
	garments domain.GarmentRepository,
	metrics MetricsRecorder,
	config WardrobeServiceConfig,
) *WardrobeService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}

	workers := config.ImportWorkers
	if workers <= 0 {
		workers = 4
	}

	if metrics == nil {
		metrics = noopRecorder{}
	}

	return &WardrobeService{
		cache:    cache,
		vision:   vision,
		garments: garments,
		extractor: NewAttributeExtractor(ExtractorConfig{
			FabricBonus:        config.FabricBonus,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		metrics:       metrics,
		cacheTTL:      cacheTTL,
		importWorkers: workers,
		logger:        logging.WithComponent("wardrobe-service"),
		now:           time.Now,
	}
}

// AnalyzeText runs attribute extraction on free-form text. A nil text is
// treated as the empty string.
func (s *WardrobeService) AnalyzeText(ctx context.Context, text *string, price *float64) *domain.AnalysisResult {
	result := s.extractor.Extract(deref(text), price)
	s.metrics.ObserveExtraction(result)
	return result
}

// QualityScore derives the quality score and bucket for a tier/authenticity pair
func (s *WardrobeService) QualityScore(tier, authenticityConfidence *string) domain.QualityResult {
	score := DeriveQualityScore(tier, authenticityConfidence)
	s.metrics.ObserveQualityScore(score)
	return domain.QualityResult{QualityScore: score, QualityBucket: QualityBucket(score)}
}

// CreateGarment analyzes a manually entered garment and persists it
func (s *WardrobeService) CreateGarment(ctx context.Context, request *domain.GarmentRequest) (*domain.Garment, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if strings.TrimSpace(deref(request.Text)) == "" && request.ImageURL == "" {
		return nil, fmt.Errorf("%w: text or imageUrl is required", domain.ErrInvalidRequest)
	}

	analysis := s.AnalyzeText(ctx, request.Text, request.Price)
	garment := s.buildGarment(analysis, request.Tier, request.AuthenticityConfidence, request.ImageURL)

	if err := s.garments.Save(ctx, garment); err != nil {
		return nil, err
	}
	return garment, nil
}

// AnalyzeImage asks the vision service to describe a garment photo, then runs
// the extractor over the returned label and the quality deriver over the
// returned tier. The garment is persisted only when request.Save is set.
// Flow: check cache -> call vision API -> cache -> extract -> score
func (s *WardrobeService) AnalyzeImage(ctx context.Context, request *domain.ImageAnalysisRequest) (*domain.Garment, error) {
	if request == nil || strings.TrimSpace(request.ImageURL) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if s.vision == nil {
		return nil, domain.ErrVisionUnavailable
	}

	vision, err := s.describeImage(ctx, request.ImageURL)
	if err != nil {
		return nil, err
	}

	text := visionText(vision)
	analysis := s.AnalyzeText(ctx, &text, request.Price)
	garment := s.buildGarment(analysis, optional(vision.Tier), optional(vision.AuthenticityConfidence), request.ImageURL)

	if request.Save {
		if err := s.garments.Save(ctx, garment); err != nil {
			return nil, err
		}
	}
	return garment, nil
}

// ImportReceipt analyzes every non-blank receipt line and saves one garment
// per line. Lines are processed concurrently; results keep input order.
func (s *WardrobeService) ImportReceipt(ctx context.Context, lines []string) ([]domain.Garment, error) {
	type parsedLine struct {
		text  string
		price *float64
	}

	parsed := make([]parsedLine, 0, len(lines))
	for _, line := range lines {
		text, price := ParseReceiptLine(line)
		if text == "" {
			continue
		}
		parsed = append(parsed, parsedLine{text: text, price: price})
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("%w: receipt has no item lines", domain.ErrInvalidRequest)
	}

	garments := make([]domain.Garment, len(parsed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.importWorkers)

	for i, line := range parsed {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			analysis := s.AnalyzeText(gctx, &line.text, line.price)
			garment := s.buildGarment(analysis, nil, nil, "")
			if err := s.garments.Save(gctx, garment); err != nil {
				return fmt.Errorf("saving line %d: %w", i+1, err)
			}
			garments[i] = *garment
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("receipt imported", "lines", len(lines), "garments", len(garments))
	return garments, nil
}

// GetGarment loads a single garment by id
func (s *WardrobeService) GetGarment(ctx context.Context, id string) (*domain.Garment, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed garment id", domain.ErrInvalidRequest)
	}
	return s.garments.GetByID(ctx, parsed.String())
}

// ListGarments returns stored garments matching the filter
func (s *WardrobeService) ListGarments(ctx context.Context, filter domain.GarmentFilter) ([]domain.Garment, error) {
	if filter.Bucket != "" && !IsQualityBucket(filter.Bucket) {
		return nil, fmt.Errorf("%w: unknown quality bucket %q", domain.ErrInvalidRequest, filter.Bucket)
	}
	filter.Category = strings.ToLower(strings.TrimSpace(filter.Category))
	filter.Color = strings.ToLower(strings.TrimSpace(filter.Color))
	filter.Fabric = strings.ToLower(strings.TrimSpace(filter.Fabric))
	filter.Search = strings.ToLower(strings.TrimSpace(filter.Search))
	return s.garments.List(ctx, filter.WithDefaults())
}

// DeleteGarment removes a garment by id
func (s *WardrobeService) DeleteGarment(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: malformed garment id", domain.ErrInvalidRequest)
	}
	return s.garments.Delete(ctx, parsed.String())
}

// describeImage returns the vision analysis for an image, from cache when possible.
// Concurrent requests for the same image share one upstream call.
func (s *WardrobeService) describeImage(ctx context.Context, imageURL string) (*domain.VisionAnalysis, error) {
	cacheKey := generateCacheKey(imageURL)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		s.metrics.CacheHit()
		return cached, nil
	}
	s.metrics.CacheMiss()

	// The shared call outlives any single caller; each caller stops waiting
	// when its own context ends.
	sharedCtx := context.WithoutCancel(ctx)
	flight := s.visionCalls.DoChan(cacheKey, func() (interface{}, error) {
		analysis, err := s.vision.AnalyzeImage(sharedCtx, imageURL)
		if err != nil {
			s.metrics.VisionCall("error")
			return nil, err
		}
		s.metrics.VisionCall("success")

		if err := s.setInCache(sharedCtx, cacheKey, analysis); err != nil {
			s.logger.Warn("caching vision analysis failed", "key", cacheKey, "error", err)
		}
		return analysis, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			if errors.Is(res.Err, domain.ErrVisionAPIFailure) {
				return nil, res.Err
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrVisionAPIFailure, res.Err)
		}
		return res.Val.(*domain.VisionAnalysis), nil
	}
}

func (s *WardrobeService) buildGarment(analysis *domain.AnalysisResult, tier, authenticity *string, imageURL string) *domain.Garment {
	quality := s.QualityScore(tier, authenticity)
	now := s.now().UTC()

	return &domain.Garment{
		ID:                     uuid.New(),
		ImageURL:               imageURL,
		OriginalText:           analysis.OriginalText,
		Price:                  analysis.Price,
		Category:               analysis.Category,
		Colors:                 analysis.Colors,
		Fabrics:                analysis.Fabrics,
		Styles:                 analysis.Styles,
		SearchTerms:            analysis.SearchTerms,
		ConfidenceScore:        analysis.ConfidenceScore,
		NeedsReview:            analysis.NeedsReview,
		Tier:                   deref(tier),
		AuthenticityConfidence: deref(authenticity),
		QualityScore:           quality.QualityScore,
		QualityBucket:          quality.QualityBucket,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// generateCacheKey derives the cache key for an image URL.
// Format: "vision:{sha256 hex of the NFKC-normalized, trimmed url}"
func generateCacheKey(imageURL string) string {
	sum := sha256.Sum256([]byte(normalizeForCacheKey(imageURL)))
	return "vision:" + hex.EncodeToString(sum[:])
}

// normalizeForCacheKey applies NFKC and trims surrounding whitespace. Case and
// query strings are kept since URL paths are case-sensitive.
func normalizeForCacheKey(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// getFromCache retrieves a vision analysis from cache
func (s *WardrobeService) getFromCache(ctx context.Context, key string) (*domain.VisionAnalysis, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if analysis, ok := value.(*domain.VisionAnalysis); ok {
		return analysis, nil
	}

	// Cache backends hand back decoded JSON; re-encode into the typed value
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	var analysis domain.VisionAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &analysis, nil
}

// setInCache stores a vision analysis in cache
func (s *WardrobeService) setInCache(ctx context.Context, key string, analysis *domain.VisionAnalysis) error {
	return s.cache.Set(ctx, key, analysis, s.cacheTTL)
}

// visionText joins the vision label, description and brand into extractor input
func visionText(v *domain.VisionAnalysis) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{v.Label, v.Description, v.Brand} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
