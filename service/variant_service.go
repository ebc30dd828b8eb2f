package service

import (
	"context"
	"fmt"
	"log"
	"math"

	"golang.org/x/sync/errgroup"

	"brandkit/models"
	"brandkit/profile"
	"brandkit/tracing"
	"brandkit/utils"
)

// VariantServiceInterface renders logo variants
type VariantServiceInterface interface {
	Render(ctx context.Context, v *tracing.Vector, palette *utils.Palette, kinds []models.VariantKind) ([]models.LogoVariant, error)
}

// VariantService renders the deliverable logo variants from a traced vector
type VariantService struct {
	engine *profile.Engine
	cache  *VariantCache
}

var _ VariantServiceInterface = (*VariantService)(nil)

// NewVariantService creates a VariantService. cache may be nil.
func NewVariantService(engine *profile.Engine, cache *VariantCache) *VariantService {
	return &VariantService{engine: engine, cache: cache}
}

// Render builds every requested kind concurrently. The result follows the
// order of kinds; an empty kinds list renders the profile's variants.
// The first failure cancels the remaining renders.
func (s *VariantService) Render(ctx context.Context, v *tracing.Vector, palette *utils.Palette, kinds []models.VariantKind) ([]models.LogoVariant, error) {
	if v == nil || len(v.Paths) == 0 {
		return nil, tracing.ErrEmptyBitmap
	}
	if err := v.CheckCanvas(maxUploadDim); err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		kinds = s.engine.Variants()
	}

	out := make([]models.LogoVariant, len(kinds))
	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			variant, err := s.renderOne(v, palette, kind)
			if err != nil {
				return fmt.Errorf("failed to render %s variant: %w", kind, err)
			}
			out[i] = *variant
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("❌ Variant rendering failed: %v", err)
		return nil, err
	}
	log.Printf("✓ Rendered %d logo variants", len(out))
	return out, nil
}

// VariantVector is the vector behind one kind, before rasterizing
func VariantVector(v *tracing.Vector, palette *utils.Palette, kind models.VariantKind, iconPadding float64) (*tracing.Vector, error) {
	switch kind {
	case models.VariantOriginal:
		bg := utils.White
		if palette != nil {
			bg = palette.Background
		}
		return v.WithBackground(&bg), nil
	case models.VariantBlack:
		return v.Fill(utils.Black).WithBackground(nil), nil
	case models.VariantWhite:
		return v.Fill(utils.White).WithBackground(nil), nil
	case models.VariantTransparent:
		return v.WithBackground(nil), nil
	case models.VariantNegative:
		bg := utils.Black
		if palette != nil {
			bg = palette.Primary
		}
		return v.Fill(utils.White).WithBackground(&bg), nil
	case models.VariantIcon:
		t := v.WithBackground(nil)
		return t.Frame(t.SquareFrame(iconPadding)), nil
	}
	return nil, fmt.Errorf("unknown logo variant %q", kind)
}

func (s *VariantService) renderOne(v *tracing.Vector, palette *utils.Palette, kind models.VariantKind) (*models.LogoVariant, error) {
	vv, err := VariantVector(v, palette, kind, s.engine.IconPadding())
	if err != nil {
		return nil, err
	}
	svg := vv.SVG()

	w, h := s.pngSize(vv, kind)
	path := ""
	if s.cache != nil {
		path = s.cache.Path(string(kind), CacheKey(string(svg))[:16], w)
		if data, ok := s.cache.Read(path); ok {
			return &models.LogoVariant{Kind: kind, SVG: svg, PNG: data, Width: w, Height: h}, nil
		}
	}

	data, err := EncodePNG(tracing.Rasterize(vv, w, h))
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := s.cache.Save(path, data); err != nil {
			log.Printf("⚠️  Failed to cache %s variant: %v", kind, err)
		}
	}
	return &models.LogoVariant{Kind: kind, SVG: svg, PNG: data, Width: w, Height: h}, nil
}

func (s *VariantService) pngSize(v *tracing.Vector, kind models.VariantKind) (int, int) {
	if kind == models.VariantIcon {
		return s.engine.IconSize(), s.engine.IconSize()
	}
	side := s.engine.PNGWidth()
	if v.Width <= 0 || v.Height <= 0 {
		return side, side
	}
	// the longer side gets png_width
	if v.Height > v.Width {
		return scaleSide(side, v.Width, v.Height), side
	}
	return side, scaleSide(side, v.Height, v.Width)
}

func scaleSide(side, short, long int) int {
	n := int(math.Round(float64(side) * float64(short) / float64(long)))
	if n < 1 {
		n = 1
	}
	return n
}
