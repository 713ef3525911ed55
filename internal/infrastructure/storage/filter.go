package storage

import (
	"strings"

	"github.com/wardrobe/backend/internal/domain"
)

// matchesFilter applies a GarmentFilter to a single garment in memory
func matchesFilter(g *domain.Garment, f domain.GarmentFilter) bool {
	if f.Category != "" && g.Category.Name != f.Category {
		return false
	}
	if f.Color != "" && !hasAttribute(g.Colors, f.Color) {
		return false
	}
	if f.Fabric != "" && !hasAttribute(g.Fabrics, f.Fabric) {
		return false
	}
	if f.Bucket != "" && g.QualityBucket != f.Bucket {
		return false
	}
	if g.QualityScore < f.MinQuality {
		return false
	}
	if f.NeedsReview != nil && g.NeedsReview != *f.NeedsReview {
		return false
	}
	if f.Search != "" && !matchesSearch(g, f.Search) {
		return false
	}
	return true
}

func hasAttribute(attrs []domain.Attribute, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

func matchesSearch(g *domain.Garment, search string) bool {
	for _, term := range g.SearchTerms {
		if term == search {
			return true
		}
	}
	return strings.Contains(strings.ToLower(g.OriginalText), search)
}
