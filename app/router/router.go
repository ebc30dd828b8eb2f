package router

import (
	"log"
	"net/http"
	"time"

	"brandkit/app/controller"
)

type Controllers struct {
	Brand *controller.BrandController
	Logo  *controller.LogoController
	Kit   *controller.KitController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logRequests logs method, path, status and duration of every request
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s -> %d (%v)", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

// SetupRoutes registers every endpoint on mux and returns the logged handler
func SetupRoutes(mux *http.ServeMux, controllers *Controllers) http.Handler {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Brand generation routes
	mux.HandleFunc("/api/brand/names", controllers.Brand.SuggestNames)
	mux.HandleFunc("/api/brand/statements", controllers.Brand.GenerateStatements)
	mux.HandleFunc("/api/brand/palette", controllers.Brand.GeneratePalette)
	mux.HandleFunc("/api/logo/generate", controllers.Brand.GenerateLogo)

	// Logo processing routes
	mux.HandleFunc("/api/logo/vectorize", controllers.Logo.Vectorize)
	mux.HandleFunc("/api/logo/variants", controllers.Logo.Variants)

	// Brand kit routes
	mux.HandleFunc("/api/kits", controllers.Kit.Collection)
	mux.HandleFunc("/api/kits/", controllers.Kit.Item)

	// Drive logo sources
	mux.HandleFunc("/api/drive/logos", controllers.Kit.DriveLogos)

	return logRequests(mux)
}
