package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"brandkit/models"
	"brandkit/tracing"
)

// MemoryBrandKitRepository keeps kits in process memory. Used when no
// database is configured and in tests.
type MemoryBrandKitRepository struct {
	mu   sync.RWMutex
	kits map[string][]byte
	svgs map[string][]byte
}

var _ BrandKitRepositoryInterface = (*MemoryBrandKitRepository)(nil)

// NewMemoryBrandKitRepository creates an empty repository
func NewMemoryBrandKitRepository() *MemoryBrandKitRepository {
	return &MemoryBrandKitRepository{
		kits: make(map[string][]byte),
		svgs: make(map[string][]byte),
	}
}

// kits are stored encoded so callers never share state with the store
func (r *MemoryBrandKitRepository) load(id string) (*models.BrandKit, error) {
	data, ok := r.kits[id]
	if !ok {
		return nil, ErrNotFound
	}
	var kit models.BrandKit
	if err := json.Unmarshal(data, &kit); err != nil {
		return nil, fmt.Errorf("failed to decode brand kit: %w", err)
	}
	return &kit, nil
}

func (r *MemoryBrandKitRepository) store(kit *models.BrandKit) error {
	data, err := json.Marshal(kit)
	if err != nil {
		return fmt.Errorf("failed to encode brand kit: %w", err)
	}
	r.kits[kit.ID] = data
	if kit.Logo != nil {
		r.svgs[kit.ID] = kit.Logo.SVG()
	} else {
		delete(r.svgs, kit.ID)
	}
	return nil
}

// Insert stores a new kit; IDs must be unique
func (r *MemoryBrandKitRepository) Insert(_ context.Context, kit *models.BrandKit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.kits[kit.ID]; ok {
		return fmt.Errorf("failed to insert brand kit: duplicate id %s", kit.ID)
	}
	return r.store(kit)
}

// GetByID loads one kit
func (r *MemoryBrandKitRepository) GetByID(_ context.Context, id string) (*models.BrandKit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.load(id)
}

// UpdateLogo replaces the traced logo of a kit
func (r *MemoryBrandKitRepository) UpdateLogo(_ context.Context, id string, logo *tracing.Vector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kit, err := r.load(id)
	if err != nil {
		return err
	}
	kit.Logo = logo
	return r.store(kit)
}

// GetLogoSVG returns the SVG written with the logo
func (r *MemoryBrandKitRepository) GetLogoSVG(_ context.Context, id string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.kits[id]; !ok {
		return nil, ErrNotFound
	}
	svg, ok := r.svgs[id]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), svg...), nil
}

// List returns the newest kits first
func (r *MemoryBrandKitRepository) List(_ context.Context, limit int) ([]models.BrandKitSummary, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	kits := []models.BrandKitSummary{}
	for id := range r.kits {
		kit, err := r.load(id)
		if err != nil {
			return nil, err
		}
		kits = append(kits, models.BrandKitSummary{
			ID:        kit.ID,
			Name:      kit.Name,
			HasLogo:   kit.Logo != nil,
			CreatedAt: kit.CreatedAt,
		})
	}
	sort.Slice(kits, func(i, j int) bool {
		if !kits[i].CreatedAt.Equal(kits[j].CreatedAt) {
			return kits[i].CreatedAt.After(kits[j].CreatedAt)
		}
		return kits[i].ID < kits[j].ID
	})
	if len(kits) > limit {
		kits = kits[:limit]
	}
	return kits, nil
}
