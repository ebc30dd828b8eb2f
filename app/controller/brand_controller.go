package controller

import (
	"net/http"

	"brandkit/models"
	"brandkit/service"
	"brandkit/utils"
)

// BrandController handles HTTP requests for brand text, palette and logo generation
type BrandController struct {
	generator *service.BrandGenerator
}

// NewBrandController creates a new BrandController
func NewBrandController(generator *service.BrandGenerator) *BrandController {
	return &BrandController{generator: generator}
}

func (c *BrandController) readRequest(w http.ResponseWriter, r *http.Request) (*models.BrandRequest, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}
	var req models.BrandRequest
	if !decodeJSON(w, r, &req) {
		return nil, false
	}
	if err := req.Info.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

// SuggestNames handles POST /api/brand/names
func (c *BrandController) SuggestNames(w http.ResponseWriter, r *http.Request) {
	req, ok := c.readRequest(w, r)
	if !ok {
		return
	}
	names, err := c.generator.SuggestNames(r.Context(), req.Info, req.Count)
	if err != nil {
		writeError(w, "Failed to suggest names", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"names": names})
}

// GenerateStatements handles POST /api/brand/statements
func (c *BrandController) GenerateStatements(w http.ResponseWriter, r *http.Request) {
	req, ok := c.readRequest(w, r)
	if !ok {
		return
	}
	st, err := c.generator.GenerateStatements(r.Context(), req.Info, req.Name)
	if err != nil {
		writeError(w, "Failed to generate statements", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// GeneratePalette handles POST /api/brand/palette
func (c *BrandController) GeneratePalette(w http.ResponseWriter, r *http.Request) {
	req, ok := c.readRequest(w, r)
	if !ok {
		return
	}
	p, err := c.generator.GeneratePalette(r.Context(), req.Info, req.Name)
	if err != nil {
		writeError(w, "Failed to generate palette", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"palette":  p,
		"swatches": swatchesJSON(p),
	})
}

// GenerateLogo handles POST /api/logo/generate and returns a PNG.
// X-Logo-Provider names the provider, "placeholder" for the fallback.
func (c *BrandController) GenerateLogo(w http.ResponseWriter, r *http.Request) {
	req, ok := c.readRequest(w, r)
	if !ok {
		return
	}
	palette := utils.DefaultPalette(service.BrandName(req.Info, req.Name))
	if req.Palette != nil {
		palette = *req.Palette
	}
	res, err := c.generator.GenerateLogo(r.Context(), req.Info, req.Name, palette)
	if err != nil {
		writeError(w, "Failed to generate logo", err)
		return
	}
	w.Header().Set("X-Logo-Provider", res.Provider)
	writeFile(w, http.DetectContentType(res.PNG), "", res.PNG)
}

type swatchJSON struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
	RGB  string `json:"rgb"`
	Text string `json:"text"`
}

func swatchesJSON(p utils.Palette) []swatchJSON {
	var out []swatchJSON
	for _, s := range p.Swatches() {
		out = append(out, swatchJSON{Name: s.Name, Hex: s.Color.Hex(), RGB: s.Color.RGB(), Text: s.Text.Hex()})
	}
	return out
}
