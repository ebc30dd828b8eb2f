package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// uploads larger than this are scaled down before tracing
	maxUploadDim = 2048
	// decoded pixel budget, guards against decompression bombs
	maxUploadPixels = 40_000_000
)

// DecodeLogo decodes an uploaded or generated logo (PNG, JPEG, GIF, WebP)
// and scales it down to maxUploadDim on its longer side
func DecodeLogo(data []byte) (image.Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width*cfg.Height > maxUploadPixels {
		return nil, fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	log.Printf("📸 Image decoded: format=%s, bounds=%v", format, img.Bounds())

	b := img.Bounds()
	if b.Dx() > maxUploadDim || b.Dy() > maxUploadDim {
		log.Printf("🔄 Resizing image: %dx%d -> fit %d", b.Dx(), b.Dy(), maxUploadDim)
		return imaging.Fit(img, maxUploadDim, maxUploadDim, imaging.Lanczos), nil
	}
	return img, nil
}

// EncodePNG encodes img with best compression
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// VariantCache stores rendered variant PNGs on disk
type VariantCache struct {
	dir string
}

// NewVariantCache ensures dir exists
func NewVariantCache(dir string) (*VariantCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &VariantCache{dir: dir}, nil
}

// Path returns the cache file path for a rendered variant
func (c *VariantCache) Path(kind string, hash string, width int) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s_%d.png", kind, hash, width))
}

// Read returns cached bytes, ok is false on a miss
func (c *VariantCache) Read(path string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Save writes data to path, replacing any previous entry
func (c *VariantCache) Save(path string, data []byte) error {
	if c == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "variant-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Printf("✓ Variant cached: %s", path)
	return nil
}
