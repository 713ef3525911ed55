package domain

// UnknownCategory is the category name used when no category keyword matches
const UnknownCategory = "unknown"

// Attribute is a canonical garment attribute a dictionary keyword folds onto
type Attribute struct {
	Name       string  `json:"name"`
	ID         int     `json:"id"`
	Confidence float64 `json:"confidence"`
}

// AnalysisResult is the output of rule-based attribute extraction
type AnalysisResult struct {
	OriginalText    string      `json:"originalText"`
	Price           *float64    `json:"price"`
	Category        Attribute   `json:"category"`
	Colors          []Attribute `json:"colors"`
	Fabrics         []Attribute `json:"fabrics"`
	Styles          []Attribute `json:"styles"`
	SearchTerms     []string    `json:"searchTerms"`
	ConfidenceScore float64     `json:"confidenceScore"` // 0-1
	NeedsReview     bool        `json:"needsReview"`
}

// TextAnalysisRequest is the input of a text analysis.
// Text is a pointer so that a missing field can be told apart from "".
type TextAnalysisRequest struct {
	Text  *string  `json:"text"`
	Price *float64 `json:"price,omitempty"`
}

// QualityRequest carries the AI-reported tier and authenticity confidence
type QualityRequest struct {
	Tier                   *string `json:"tier"`
	AuthenticityConfidence *string `json:"authenticityConfidence"`
}

// QualityResult is a derived quality score and its filter bucket
type QualityResult struct {
	QualityScore  int    `json:"qualityScore"` // 0-100
	QualityBucket string `json:"bucket"`
}
