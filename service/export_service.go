package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"brandkit/models"
	"brandkit/utils"
)

// ExportService packages a brand kit into a ZIP archive
type ExportService struct {
	variants   VariantServiceInterface
	guidelines GuidelinesServiceInterface
}

// NewExportService creates an ExportService. guidelines may be nil, in
// which case archives never contain a PDF.
func NewExportService(variants VariantServiceInterface, guidelines GuidelinesServiceInterface) *ExportService {
	return &ExportService{variants: variants, guidelines: guidelines}
}

// ExportOptions selects what goes into an export
type ExportOptions struct {
	Kinds      []models.VariantKind
	Guidelines bool
}

// Export renders the kit's variants, optionally prints the guidelines and
// packages everything. A failed PDF is logged and left out.
func (s *ExportService) Export(ctx context.Context, kit *models.BrandKit, opts ExportOptions) ([]byte, error) {
	var variants []models.LogoVariant
	if kit.Logo != nil {
		var err error
		variants, err = s.variants.Render(ctx, kit.Logo, &kit.Palette, opts.Kinds)
		if err != nil {
			return nil, fmt.Errorf("failed to render variants: %w", err)
		}
	}

	var pdf []byte
	if opts.Guidelines && s.guidelines != nil {
		html, err := s.guidelines.RenderHTML(kit, variants)
		if err != nil {
			return nil, fmt.Errorf("failed to render guidelines: %w", err)
		}
		pdf, err = s.guidelines.GeneratePDF(ctx, html)
		if err != nil {
			log.Printf("⚠️  Guidelines PDF skipped for kit %s: %v", kit.ID, err)
			pdf = nil
		}
	}

	return Package(kit, variants, pdf)
}

type brandDocument struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name"`
	Info       models.BrandInfo  `json:"info"`
	Statements models.Statements `json:"statements"`
}

type paletteDocument struct {
	utils.Palette
	Swatches []swatchDocument `json:"swatches"`
}

type swatchDocument struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
	RGB  string `json:"rgb"`
	Text string `json:"text"`
}

type archive struct {
	zw       *zip.Writer
	modified time.Time
}

func newArchive(buf *bytes.Buffer, modified time.Time) *archive {
	if modified.IsZero() {
		modified = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &archive{zw: zip.NewWriter(buf), modified: modified.UTC()}
}

func (a *archive) add(name string, data []byte) error {
	w, err := a.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: a.modified})
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (a *archive) addVariants(variants []models.LogoVariant) error {
	for _, v := range variants {
		if err := a.add(fmt.Sprintf("logos/%s.svg", v.Kind), v.SVG); err != nil {
			return err
		}
		if err := a.add(fmt.Sprintf("logos/%s.png", v.Kind), v.PNG); err != nil {
			return err
		}
	}
	return nil
}

func (a *archive) close() error {
	if err := a.zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// PackageVariants writes only the logos/ folder
func PackageVariants(variants []models.LogoVariant) ([]byte, error) {
	var buf bytes.Buffer
	a := newArchive(&buf, time.Time{})
	if err := a.addVariants(variants); err != nil {
		return nil, err
	}
	if err := a.close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Package writes the archive. Entries are always in the same order and
// carry the kit's creation time, so identical input gives identical bytes.
func Package(kit *models.BrandKit, variants []models.LogoVariant, pdf []byte) ([]byte, error) {
	if kit == nil {
		return nil, fmt.Errorf("brand kit is required")
	}

	var buf bytes.Buffer
	a := newArchive(&buf, kit.CreatedAt)
	if err := a.addVariants(variants); err != nil {
		return nil, err
	}

	pd := paletteDocument{Palette: kit.Palette}
	for _, sw := range kit.Palette.Swatches() {
		pd.Swatches = append(pd.Swatches, swatchDocument{
			Name: sw.Name,
			Hex:  sw.Color.Hex(),
			RGB:  sw.Color.RGB(),
			Text: sw.Text.Hex(),
		})
	}
	paletteJSON, err := json.MarshalIndent(pd, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal palette: %w", err)
	}
	if err := a.add("palette.json", paletteJSON); err != nil {
		return nil, err
	}

	brandJSON, err := json.MarshalIndent(brandDocument{
		ID:         kit.ID,
		Name:       kit.Name,
		Info:       kit.Info,
		Statements: kit.Statements,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal brand: %w", err)
	}
	if err := a.add("brand.json", brandJSON); err != nil {
		return nil, err
	}

	if len(pdf) > 0 {
		if err := a.add("guidelines.pdf", pdf); err != nil {
			return nil, err
		}
	}
	if err := a.add("README.txt", []byte(readme(kit, variants, len(pdf) > 0))); err != nil {
		return nil, err
	}

	if err := a.close(); err != nil {
		return nil, err
	}
	log.Printf("📦 Packaged kit %q: %d variants, %d bytes", kit.Name, len(variants), buf.Len())
	return buf.Bytes(), nil
}

func readme(kit *models.BrandKit, variants []models.LogoVariant, hasPDF bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s brand kit\n", kit.Name)
	b.WriteString(strings.Repeat("=", len(kit.Name)+10) + "\n\n")
	if kit.Statements.Tagline != "" {
		fmt.Fprintf(&b, "%s\n\n", kit.Statements.Tagline)
	}
	if len(variants) > 0 {
		b.WriteString("logos/\n")
		for _, v := range variants {
			fmt.Fprintf(&b, "  %s.svg, %s.png  (%dx%d)  %s\n", v.Kind, v.Kind, v.Width, v.Height, variantNote(v.Kind))
		}
		b.WriteString("\n")
	}
	b.WriteString("palette.json   brand colors with hex, rgb and readable text color\n")
	b.WriteString("brand.json     name, business details and statements\n")
	if hasPDF {
		b.WriteString("guidelines.pdf printable brand guidelines\n")
	}
	return b.String()
}

func variantNote(k models.VariantKind) string {
	switch k {
	case models.VariantOriginal:
		return "full color on the brand background"
	case models.VariantBlack:
		return "single color black, transparent background"
	case models.VariantWhite:
		return "single color white, for dark backgrounds"
	case models.VariantTransparent:
		return "full color, transparent background"
	case models.VariantNegative:
		return "white on the primary color"
	case models.VariantIcon:
		return "square app/social icon"
	}
	return ""
}
