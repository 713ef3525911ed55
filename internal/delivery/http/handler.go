package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wardrobe/backend/internal/domain"
)

// WardrobeService is the usecase surface the HTTP layer depends on
type WardrobeService interface {
	AnalyzeText(ctx context.Context, text *string, price *float64) *domain.AnalysisResult
	QualityScore(tier, authenticityConfidence *string) domain.QualityResult
	AnalyzeImage(ctx context.Context, request *domain.ImageAnalysisRequest) (*domain.Garment, error)
	CreateGarment(ctx context.Context, request *domain.GarmentRequest) (*domain.Garment, error)
	ImportReceipt(ctx context.Context, lines []string) ([]domain.Garment, error)
	GetGarment(ctx context.Context, id string) (*domain.Garment, error)
	ListGarments(ctx context.Context, filter domain.GarmentFilter) ([]domain.Garment, error)
	DeleteGarment(ctx context.Context, id string) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	wardrobe WardrobeService
}

// NewHandler creates a new HTTP handler. A nil service makes every API
// endpoint answer 503 so that health checks keep working.
func NewHandler(wardrobe WardrobeService) *Handler {
	return &Handler{wardrobe: wardrobe}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "wardrobe-backend",
		"version": "1.0.0",
	})
}

// AnalyzeText handles POST /api/v1/analysis/text
func (h *Handler) AnalyzeText(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.TextAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, h.wardrobe.AnalyzeText(c.Request.Context(), req.Text, req.Price))
}

// QualityScore handles POST /api/v1/analysis/quality
func (h *Handler) QualityScore(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.QualityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, h.wardrobe.QualityScore(req.Tier, req.AuthenticityConfidence))
}

// AnalyzeImage handles POST /api/v1/analysis/image
func (h *Handler) AnalyzeImage(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.ImageAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidRequest, err.Error())
		return
	}

	garment, err := h.wardrobe.AnalyzeImage(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "")
		return
	}

	status := http.StatusOK
	if req.Save {
		status = http.StatusCreated
	}
	c.JSON(status, garment)
}

// CreateGarment handles POST /api/v1/garments
func (h *Handler) CreateGarment(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.GarmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidRequest, err.Error())
		return
	}

	garment, err := h.wardrobe.CreateGarment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, garment)
}

// ImportReceipt handles POST /api/v1/garments/import
func (h *Handler) ImportReceipt(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.ReceiptImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrInvalidRequest, err.Error())
		return
	}

	garments, err := h.wardrobe.ImportReceipt(c.Request.Context(), req.Lines)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"garments": garments,
		"count":    len(garments),
	})
}

// ListGarments handles GET /api/v1/garments
func (h *Handler) ListGarments(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	filter, err := parseGarmentFilter(c)
	if err != nil {
		respondError(c, domain.ErrInvalidRequest, err.Error())
		return
	}

	garments, err := h.wardrobe.ListGarments(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"garments": garments,
		"count":    len(garments),
		"limit":    filter.WithDefaults().Limit,
		"offset":   filter.WithDefaults().Offset,
	})
}

// GetGarment handles GET /api/v1/garments/:id
func (h *Handler) GetGarment(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	garment, err := h.wardrobe.GetGarment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, garment)
}

// DeleteGarment handles DELETE /api/v1/garments/:id
func (h *Handler) DeleteGarment(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	if err := h.wardrobe.DeleteGarment(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.wardrobe == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "wardrobe service not configured",
		})
		return false
	}
	return true
}

// parseGarmentFilter reads listing filters from the query string
func parseGarmentFilter(c *gin.Context) (domain.GarmentFilter, error) {
	filter := domain.GarmentFilter{
		Category: c.Query("category"),
		Color:    c.Query("color"),
		Fabric:   c.Query("fabric"),
		Bucket:   c.Query("bucket"),
		Search:   c.Query("q"),
	}

	var err error
	if filter.MinQuality, err = queryInt(c, "minQuality"); err != nil {
		return filter, err
	}
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		return filter, err
	}
	if raw, ok := c.GetQuery("needsReview"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.New("needsReview must be a boolean")
		}
		filter.NeedsReview = &v
	}
	return filter, nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return v, nil
}
