package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// VisionClient defines the interface for the external multimodal AI service
type VisionClient interface {
	AnalyzeImage(ctx context.Context, imageURL string) (*VisionAnalysis, error)
}

// GarmentRepository defines the interface for garment persistence
type GarmentRepository interface {
	Save(ctx context.Context, garment *Garment) error
	GetByID(ctx context.Context, id string) (*Garment, error)
	List(ctx context.Context, filter GarmentFilter) ([]Garment, error)
	Delete(ctx context.Context, id string) error
}
