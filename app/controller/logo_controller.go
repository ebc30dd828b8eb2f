package controller

import (
	"fmt"
	"net/http"
	"strings"

	"brandkit/models"
	"brandkit/profile"
	"brandkit/service"
	"brandkit/utils"
)

// LogoController handles vectorizing uploaded logos and rendering variants
type LogoController struct {
	engine   *profile.Engine
	variants service.VariantServiceInterface
}

// NewLogoController creates a new LogoController
func NewLogoController(engine *profile.Engine, variants service.VariantServiceInterface) *LogoController {
	return &LogoController{engine: engine, variants: variants}
}

// Vectorize handles POST /api/logo/vectorize
// Multipart field "image"; trace parameters as query or form values. Returns SVG.
func (c *LogoController) Vectorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, ok := readImage(w, r)
	if !ok {
		return
	}
	p, err := traceParams(r, c.engine.TraceParams())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := service.VectorizeLogo(data, p)
	if err != nil {
		writeError(w, "Failed to vectorize logo", err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeJSON(w, http.StatusOK, v)
		return
	}
	writeFile(w, "image/svg+xml", "", v.SVG())
}

// Variants handles POST /api/logo/variants
// Multipart field "image", optional "primary"/"background" colors and
// "kinds" (comma separated). Returns a ZIP of the rendered variants.
func (c *LogoController) Variants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, ok := readImage(w, r)
	if !ok {
		return
	}
	p, err := traceParams(r, c.engine.TraceParams())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	palette, err := paletteFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	kinds, err := kindsFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := service.VectorizeLogo(data, p)
	if err != nil {
		writeError(w, "Failed to vectorize logo", err)
		return
	}
	variants, err := c.variants.Render(r.Context(), v, palette, kinds)
	if err != nil {
		writeError(w, "Failed to render variants", err)
		return
	}
	archive, err := service.PackageVariants(variants)
	if err != nil {
		writeError(w, "Failed to package variants", err)
		return
	}
	writeFile(w, "application/zip", "logo-variants.zip", archive)
}

// paletteFromForm builds a palette from "primary" and "background"; nil
// when neither is given
func paletteFromForm(r *http.Request) (*utils.Palette, error) {
	primary := strings.TrimSpace(r.FormValue("primary"))
	background := strings.TrimSpace(r.FormValue("background"))
	if primary == "" && background == "" {
		return nil, nil
	}
	p := utils.Palette{Primary: utils.Black, Background: utils.White}
	if primary != "" {
		c, err := utils.ParseColor(primary)
		if err != nil {
			return nil, fmt.Errorf("invalid primary color: %w", err)
		}
		p.Primary = c
	}
	if background != "" {
		c, err := utils.ParseColor(background)
		if err != nil {
			return nil, fmt.Errorf("invalid background color: %w", err)
		}
		p.Background = c
	}
	return &p, nil
}

func kindsFromForm(r *http.Request) ([]models.VariantKind, error) {
	raw := strings.TrimSpace(r.FormValue("kinds"))
	if raw == "" {
		return nil, nil
	}
	var kinds []models.VariantKind
	for _, part := range strings.Split(raw, ",") {
		k, err := models.ParseVariantKind(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
