package controller

import (
	"net/http"
	"strconv"
	"strings"

	"brandkit/models"
	"brandkit/profile"
	"brandkit/service"
)

// KitController handles HTTP requests for stored brand kits
type KitController struct {
	kits   *service.KitService
	engine *profile.Engine
}

// NewKitController creates a new KitController
func NewKitController(kits *service.KitService, engine *profile.Engine) *KitController {
	return &KitController{kits: kits, engine: engine}
}

// Collection handles /api/kits: POST creates, GET lists
func (c *KitController) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.Create(w, r)
	case http.MethodGet:
		c.List(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Create handles POST /api/kits
func (c *KitController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBrandKitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" && strings.TrimSpace(req.Info.BusinessName) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	kit, err := c.kits.Create(r.Context(), req)
	if err != nil {
		writeError(w, "Failed to create brand kit", err)
		return
	}
	writeJSON(w, http.StatusCreated, kit)
}

// List handles GET /api/kits?limit=
func (c *KitController) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	kits, err := c.kits.List(r.Context(), limit)
	if err != nil {
		writeError(w, "Failed to list brand kits", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"kits": kits})
}

// Item routes /api/kits/{id}[/action]
func (c *KitController) Item(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/kits/"), "/")
	id, action, _ := strings.Cut(path, "/")
	if id == "" {
		http.Error(w, "id parameter is required", http.StatusBadRequest)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		c.Get(w, r, id)
	case action == "export" && r.Method == http.MethodGet:
		c.Export(w, r, id)
	case action == "guidelines" && r.Method == http.MethodGet:
		c.Guidelines(w, r, id)
	case action == "logo" && r.Method == http.MethodPost:
		c.SetLogo(w, r, id)
	case action == "logo.svg" && r.Method == http.MethodGet:
		c.LogoSVG(w, r, id)
	case action == "upload" && r.Method == http.MethodPost:
		c.Upload(w, r, id)
	case action == "" || action == "export" || action == "guidelines" || action == "logo" || action == "logo.svg" || action == "upload":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// Get handles GET /api/kits/{id}
func (c *KitController) Get(w http.ResponseWriter, r *http.Request, id string) {
	kit, err := c.kits.Get(r.Context(), id)
	if err != nil {
		writeError(w, "Failed to get brand kit", err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

// LogoSVG handles GET /api/kits/{id}/logo.svg
func (c *KitController) LogoSVG(w http.ResponseWriter, r *http.Request, id string) {
	svg, err := c.kits.LogoSVG(r.Context(), id)
	if err != nil {
		writeError(w, "Failed to get brand kit logo", err)
		return
	}
	if len(svg) == 0 {
		http.Error(w, "brand kit has no logo", http.StatusNotFound)
		return
	}
	writeFile(w, "image/svg+xml", "", svg)
}

// Export handles GET /api/kits/{id}/export?guidelines=true&kinds=black,icon
func (c *KitController) Export(w http.ResponseWriter, r *http.Request, id string) {
	kinds, err := kindsFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	withPDF := true
	if v := r.URL.Query().Get("guidelines"); v != "" {
		withPDF, err = strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "guidelines must be true or false", http.StatusBadRequest)
			return
		}
	}

	kit, data, err := c.kits.Export(r.Context(), id, service.ExportOptions{Kinds: kinds, Guidelines: withPDF})
	if err != nil {
		writeError(w, "Failed to export brand kit", err)
		return
	}
	writeFile(w, "application/zip", service.ArchiveName(kit), data)
}

// Guidelines handles GET /api/kits/{id}/guidelines
func (c *KitController) Guidelines(w http.ResponseWriter, r *http.Request, id string) {
	kit, pdf, err := c.kits.Guidelines(r.Context(), id)
	if err != nil {
		writeError(w, "Failed to generate guidelines", err)
		return
	}
	writeFile(w, "application/pdf", strings.TrimSuffix(service.ArchiveName(kit), "-kit.zip")+"-guidelines.pdf", pdf)
}

// SetLogo handles POST /api/kits/{id}/logo
// Either ?driveFileId= imports from Drive, or a multipart "image" upload.
func (c *KitController) SetLogo(w http.ResponseWriter, r *http.Request, id string) {
	if fileID := strings.TrimSpace(r.URL.Query().Get("driveFileId")); fileID != "" {
		p, err := traceParams(r, c.engine.TraceParams())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		kit, err := c.kits.ImportDriveLogo(r.Context(), id, fileID, p)
		if err != nil {
			writeError(w, "Failed to import logo from Drive", err)
			return
		}
		writeJSON(w, http.StatusOK, kit)
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
	kit, err := c.kits.SetLogo(r.Context(), id, data, p)
	if err != nil {
		writeError(w, "Failed to set logo", err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

// Upload handles POST /api/kits/{id}/upload
func (c *KitController) Upload(w http.ResponseWriter, r *http.Request, id string) {
	fileID, err := c.kits.Upload(r.Context(), id)
	if err != nil {
		writeError(w, "Failed to upload brand kit", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"driveFileId": fileID,
	})
}

// DriveLogos handles GET /api/drive/logos?folderId=
func (c *KitController) DriveLogos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	files, err := c.kits.ListDriveLogos(r.Context(), r.URL.Query().Get("folderId"))
	if err != nil {
		writeError(w, "Failed to list Drive logos", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}
