package profile

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"brandkit/models"
	"brandkit/tracing"
)

// ExportProfile represents the export profile file structure
type ExportProfile struct {
	Trace       tracing.Params `yaml:"trace"`
	Variants    []string       `yaml:"variants"`
	PNGWidth    int            `yaml:"png_width"`
	IconSize    int            `yaml:"icon_size"`
	IconPadding float64        `yaml:"icon_padding"`
}

// Engine resolves tracing and export settings from the loaded profile
type Engine struct {
	profile  *ExportProfile
	variants []models.VariantKind
}

var engineInstance *Engine

// DefaultProfile is used when no profile file is configured
func DefaultProfile() ExportProfile {
	kinds := models.AllVariants()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return ExportProfile{
		Trace:       tracing.DefaultParams(),
		Variants:    names,
		PNGWidth:    1024,
		IconSize:    512,
		IconPadding: 0.1,
	}
}

// NewEngine loads the profile at path once; later calls return the same
// engine. An empty path or a missing file selects the default profile.
func NewEngine(path string) (*Engine, error) {
	if engineInstance != nil {
		return engineInstance, nil
	}

	engine, err := Load(path)
	if err != nil {
		return nil, err
	}
	engineInstance = engine
	return engine, nil
}

// Load builds an engine without touching the shared instance
func Load(path string) (*Engine, error) {
	prof := DefaultProfile()

	if path != "" {
		if !filepath.IsAbs(path) {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
			path = filepath.Join(wd, path)
		}

		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			log.Printf("⚠️  Export profile %s not found, using defaults", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read export profile: %w", err)
		default:
			// fields absent from the file keep their default values
			if err := yaml.Unmarshal(data, &prof); err != nil {
				return nil, fmt.Errorf("failed to parse export profile: %w", err)
			}
			log.Printf("✅ Export profile loaded from %s", path)
		}
	}

	return FromProfile(prof)
}

// FromProfile validates p and wraps it in an engine
func FromProfile(p ExportProfile) (*Engine, error) {
	if err := validateProfile(&p); err != nil {
		return nil, fmt.Errorf("invalid export profile: %w", err)
	}

	kinds := make([]models.VariantKind, 0, len(p.Variants))
	seen := make(map[models.VariantKind]bool)
	for _, name := range p.Variants {
		k, err := models.ParseVariantKind(name)
		if err != nil {
			return nil, fmt.Errorf("invalid export profile: %w", err)
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}

	return &Engine{profile: &p, variants: kinds}, nil
}

func validateProfile(p *ExportProfile) error {
	if len(p.Variants) == 0 {
		return fmt.Errorf("at least one variant is required")
	}
	if p.PNGWidth <= 0 || p.PNGWidth > 8192 {
		return fmt.Errorf("png_width must be between 1 and 8192, got %d", p.PNGWidth)
	}
	if p.IconSize <= 0 || p.IconSize > 4096 {
		return fmt.Errorf("icon_size must be between 1 and 4096, got %d", p.IconSize)
	}
	if p.IconPadding < 0 || p.IconPadding >= 0.5 {
		return fmt.Errorf("icon_padding must be in [0, 0.5), got %v", p.IconPadding)
	}
	if p.Trace.Colors < 0 || p.Trace.Colors > 16 {
		return fmt.Errorf("trace.colors must be between 0 and 16, got %d", p.Trace.Colors)
	}
	if p.Trace.Tolerance < 0 {
		return fmt.Errorf("trace.tolerance must not be negative")
	}
	return nil
}

// GetEngine returns the shared engine, or nil before NewEngine ran
func GetEngine() *Engine {
	return engineInstance
}

// TraceParams returns a copy of the configured trace parameters
func (e *Engine) TraceParams() tracing.Params {
	return e.profile.Trace
}

// Variants returns the configured kinds in packaging order
func (e *Engine) Variants() []models.VariantKind {
	out := make([]models.VariantKind, len(e.variants))
	copy(out, e.variants)
	return out
}

// PNGWidth is the longer side of full-size PNG renditions
func (e *Engine) PNGWidth() int {
	return e.profile.PNGWidth
}

// IconSize is the edge length of the square icon
func (e *Engine) IconSize() int {
	return e.profile.IconSize
}

// IconPadding is the margin around the icon artwork, as a fraction
func (e *Engine) IconPadding() float64 {
	return e.profile.IconPadding
}
