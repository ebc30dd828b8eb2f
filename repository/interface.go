package repository

import (
	"context"
	"errors"

	"brandkit/models"
	"brandkit/tracing"
)

// ErrNotFound is returned when no brand kit has the requested ID
var ErrNotFound = errors.New("brand kit not found")

// BrandKitRepositoryInterface defines the contract for brand kit persistence
type BrandKitRepositoryInterface interface {
	Insert(ctx context.Context, kit *models.BrandKit) error
	GetByID(ctx context.Context, id string) (*models.BrandKit, error)
	UpdateLogo(ctx context.Context, id string, logo *tracing.Vector) error
	// GetLogoSVG returns the SVG stored with the logo, nil when the kit has none
	GetLogoSVG(ctx context.Context, id string) ([]byte, error)
	List(ctx context.Context, limit int) ([]models.BrandKitSummary, error)
}
