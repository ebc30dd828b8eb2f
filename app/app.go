package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"brandkit/app/controller"
	"brandkit/app/router"
	"brandkit/config"
	"brandkit/db"
	"brandkit/profile"
	"brandkit/repository"
	"brandkit/service"
)

// Initialize wires every service from cfg and returns the HTTP handler.
// The database, the AI providers and Drive are optional: without them the
// server keeps kits in memory, serves fallback content and disables the
// Drive endpoints.
func Initialize(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	engine, err := profile.NewEngine(cfg.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load export profile: %w", err)
	}

	// Initialize repository
	var repo repository.BrandKitRepositoryInterface
	if _, err := db.ConnString(); err == nil {
		if err := db.InitDB(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo = repository.NewBrandKitRepository(db.DB)
	} else {
		log.Printf("⚠️  No database configured, brand kits are kept in memory")
		repo = repository.NewMemoryBrandKitRepository()
	}

	// Initialize generation providers
	var text service.TextModel
	var images []service.ImageModel
	if cfg.GeminiAPIKey != "" {
		client, err := service.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		text = service.NewGeminiTextModel(client, cfg.TextModel)
		images = append(images, service.NewGeminiImageModel(client, cfg.ImageModel))
	} else {
		log.Printf("⚠️  GEMINI_API_KEY is not set, text generation serves fallbacks")
	}
	if cfg.ImageAPIKey != "" {
		images = append(images, service.NewHTTPImageModel(cfg.ImageAPIURL, cfg.ImageAPIKey, cfg.ImageAPIModel))
	}
	if len(images) == 0 {
		log.Printf("⚠️  No image provider configured, logos fall back to placeholders")
	}

	cache := service.NewResponseCache(cfg.CacheTTL)
	go purgeLoop(ctx, cache, cfg.CacheTTL)

	retry := service.RetryPolicy{Attempts: cfg.MaxRetries, Base: cfg.RetryBase, Max: cfg.RetryMax}
	generator := service.NewBrandGenerator(text, images, cache, retry)

	// Initialize Drive service
	var drive service.DriveServiceInterface
	if cfg.DriveCredentialsPath != "" {
		ds, err := service.NewDriveService(ctx, cfg.DriveCredentialsPath)
		if err != nil {
			log.Printf("⚠️  Drive disabled: %v", err)
		} else {
			drive = ds
		}
	}

	variantCache, err := service.NewVariantCache(cfg.CacheDir)
	if err != nil {
		log.Printf("⚠️  Variant cache disabled: %v", err)
		variantCache = nil
	}
	variants := service.NewVariantService(engine, variantCache)
	guidelines := service.NewGuidelinesService(cfg.ChromePath)
	export := service.NewExportService(variants, guidelines)
	kits := service.NewKitService(repo, export, drive, cfg.DriveFolderID)

	// Create controllers
	controllers := &router.Controllers{
		Brand: controller.NewBrandController(generator),
		Logo:  controller.NewLogoController(engine, variants),
		Kit:   controller.NewKitController(kits, engine),
	}

	// Setup routes using standard http router
	return router.SetupRoutes(http.NewServeMux(), controllers), nil
}

func purgeLoop(ctx context.Context, cache *service.ResponseCache, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cache.Purge()
		}
	}
}
