package storage

import (
	"context"
	"sync"

	"github.com/wardrobe/backend/internal/domain"
)

// MemoryRepository keeps garments in process memory. Listings are newest first.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Garment
	order []string
}

var _ domain.GarmentRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory garment store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]domain.Garment)}
}

// Save inserts or replaces a garment
func (r *MemoryRepository) Save(ctx context.Context, garment *domain.Garment) error {
	if garment == nil {
		return domain.ErrInvalidRequest
	}
	id := garment.ID.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		r.order = append(r.order, id)
	}
	r.items[id] = *garment
	return nil
}

// GetByID returns the garment with the given id
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Garment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[id]
	if !ok {
		return nil, domain.ErrGarmentNotFound
	}
	return &g, nil
}

// List returns a page of garments matching the filter
func (r *MemoryRepository) List(ctx context.Context, filter domain.GarmentFilter) ([]domain.Garment, error) {
	filter = filter.WithDefaults()

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Garment, 0)
	skipped := 0
	for i := len(r.order) - 1; i >= 0; i-- {
		g := r.items[r.order[i]]
		if !matchesFilter(&g, filter) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		result = append(result, g)
		if len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

// Delete removes a garment
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrGarmentNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
