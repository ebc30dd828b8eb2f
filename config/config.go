package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting read from the environment
type Config struct {
	Port    string
	BaseURL string

	GeminiAPIKey string
	TextModel    string
	ImageModel   string

	ImageAPIKey   string
	ImageAPIURL   string
	ImageAPIModel string

	CacheTTL   time.Duration
	MaxRetries int
	RetryBase  time.Duration
	RetryMax   time.Duration

	ProfilePath string
	ChromePath  string
	CacheDir    string

	DriveCredentialsPath string
	DriveFolderID        string
}

// ProfileEnv names the export profile path for the server and the CLI
const ProfileEnv = "EXPORT_PROFILE"

// Load reads the configuration from the process environment.
// Call godotenv first when a .env file should be honored.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getenv("PORT", "8080"),
		GeminiAPIKey:         firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
		TextModel:            getenv("TEXT_MODEL", "gemini-2.5-flash"),
		ImageModel:           getenv("IMAGE_MODEL", "imagen-3.0-generate-002"),
		ImageAPIKey:          os.Getenv("IMAGE_API_KEY"),
		ImageAPIURL:          strings.TrimRight(getenv("IMAGE_API_URL", "https://api.openai.com/v1"), "/"),
		ImageAPIModel:        getenv("IMAGE_API_MODEL", "dall-e-3"),
		ProfilePath:          os.Getenv(ProfileEnv),
		ChromePath:           os.Getenv("CHROME_PATH"),
		CacheDir:             getenv("CACHE_DIR", "cache/variants"),
		DriveCredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		DriveFolderID:        os.Getenv("DRIVE_FOLDER_ID"),
	}

	// PORT from some hosts arrives as ":8080"
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")
	cfg.BaseURL = getenv("BASE_URL", "http://localhost:"+cfg.Port)

	var err error
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RetryBase, err = durationEnv("RETRY_BASE", time.Second); err != nil {
		return nil, err
	}
	if cfg.RetryMax, err = durationEnv("RETRY_MAX", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = intEnv("MAX_RETRIES", 3); err != nil {
		return nil, err
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("MAX_RETRIES must not be negative, got %d", cfg.MaxRetries)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
