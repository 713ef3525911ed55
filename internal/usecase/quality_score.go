package usecase

import (
	"strings"

	"github.com/wardrobe/backend/internal/domain"
)

const (
	baseQualityScore = 50
	minQualityScore  = 0
	maxQualityScore  = 100
)

type qualityAdjustment struct {
	keyword string
	delta   int
}

// tierAdjustments are ordered from most to least premium; first match wins
var tierAdjustments = []qualityAdjustment{
	{"haute couture", 40},
	{"luxury", 30},
	{"premium", 20},
	{"diffusion", 10},
	{"mass market", -10},
}

var authenticityAdjustments = []qualityAdjustment{
	{"high", 10},
	{"medium", 5},
	{"low", -5},
}

// DeriveQualityScore turns an AI-reported tier and authenticity confidence
// into a 0-100 score. Missing or unrecognised inputs leave the base score
// untouched for that dimension.
func DeriveQualityScore(tier, authenticityConfidence *string) (score int) {
	defer func() {
		if r := recover(); r != nil {
			score = baseQualityScore
		}
	}()

	score = baseQualityScore
	score += adjustmentFor(tier, tierAdjustments)
	score += adjustmentFor(authenticityConfidence, authenticityAdjustments)

	return min(max(score, minQualityScore), maxQualityScore)
}

func adjustmentFor(value *string, adjustments []qualityAdjustment) int {
	if value == nil {
		return 0
	}
	lower := strings.ToLower(*value)
	for _, adj := range adjustments {
		if strings.Contains(lower, adj.keyword) {
			return adj.delta
		}
	}
	return 0
}

// QualityBucket maps a quality score onto the gallery filter bucket
func QualityBucket(score int) string {
	switch {
	case score >= 85:
		return domain.BucketExceptional
	case score >= 70:
		return domain.BucketHigh
	case score >= 50:
		return domain.BucketStandard
	default:
		return domain.BucketLow
	}
}

// IsQualityBucket reports whether name is one of the known buckets
func IsQualityBucket(name string) bool {
	switch name {
	case domain.BucketExceptional, domain.BucketHigh, domain.BucketStandard, domain.BucketLow:
		return true
	}
	return false
}
