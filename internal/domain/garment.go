package domain

import (
	"time"

	"github.com/google/uuid"
)

// Quality buckets used for gallery badges and filters
const (
	BucketExceptional = "exceptional"
	BucketHigh        = "high"
	BucketStandard    = "standard"
	BucketLow         = "low"
)

// Garment is a wardrobe item as persisted in storage
type Garment struct {
	ID                     uuid.UUID   `json:"id"`
	ImageURL               string      `json:"imageUrl,omitempty"`
	OriginalText           string      `json:"originalText"`
	Price                  *float64    `json:"price"`
	Category               Attribute   `json:"category"`
	Colors                 []Attribute `json:"colors"`
	Fabrics                []Attribute `json:"fabrics"`
	Styles                 []Attribute `json:"styles"`
	SearchTerms            []string    `json:"searchTerms"`
	ConfidenceScore        float64     `json:"confidenceScore"`
	NeedsReview            bool        `json:"needsReview"`
	Tier                   string      `json:"tier,omitempty"`
	AuthenticityConfidence string      `json:"authenticityConfidence,omitempty"`
	QualityScore           int         `json:"qualityScore"`
	QualityBucket          string      `json:"qualityBucket"`
	CreatedAt              time.Time   `json:"createdAt"`
	UpdatedAt              time.Time   `json:"updatedAt"`
}

// GarmentRequest represents a manual garment creation request
type GarmentRequest struct {
	Text                   *string  `json:"text"`
	Price                  *float64 `json:"price,omitempty"`
	Tier                   *string  `json:"tier,omitempty"`
	AuthenticityConfidence *string  `json:"authenticityConfidence,omitempty"`
	ImageURL               string   `json:"imageUrl,omitempty"`
}

// ImageAnalysisRequest asks for a vision analysis of a garment photo
type ImageAnalysisRequest struct {
	ImageURL string   `json:"imageUrl" binding:"required"`
	Price    *float64 `json:"price,omitempty"`
	Save     bool     `json:"save"`
}

// ReceiptImportRequest carries raw receipt lines, one garment per line
type ReceiptImportRequest struct {
	Lines []string `json:"lines" binding:"required"`
}

// GarmentFilter narrows a gallery listing. Zero values mean "no constraint".
type GarmentFilter struct {
	Category    string
	Color       string
	Fabric      string
	Bucket      string
	MinQuality  int
	NeedsReview *bool
	Search      string
	Limit       int
	Offset      int
}

// VisionAnalysis is the response of the multimodal AI service for one image
type VisionAnalysis struct {
	Label                  string `json:"label"`
	Description            string `json:"description"`
	Brand                  string `json:"brand,omitempty"`
	Tier                   string `json:"tier,omitempty"`
	AuthenticityConfidence string `json:"authenticity_confidence,omitempty"`
}

// Listing page sizes
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// WithDefaults returns a copy of the filter with paging clamped to sane bounds
func (f GarmentFilter) WithDefaults() GarmentFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
