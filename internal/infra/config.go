package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiUploadURL  string
	PrimaryModel     string
	FallbackModel    string
	BatchModel       string
	CacheDir         string
	JobsDir          string
	ResultsDir       string
	RegistryDir      string
	AllowedOrigins   []string
	GenerateTimeout  time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		GeminiAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiUploadURL:  getEnv("GEMINI_UPLOAD_URL", "https://generativelanguage.googleapis.com/upload/v1beta"),
		PrimaryModel:     getEnv("GEMINI_PRIMARY_MODEL", "gemini-3-pro-image-preview"),
		FallbackModel:    getEnv("GEMINI_FALLBACK_MODEL", "gemini-2.5-flash-image"),
		BatchModel:       getEnv("GEMINI_BATCH_MODEL", "gemini-2.5-flash-image"),
		CacheDir:         getEnv("CACHE_DIR", "data/cache"),
		JobsDir:          getEnv("BATCH_JOBS_DIR", "data/batch_jobs"),
		ResultsDir:       getEnv("BATCH_RESULTS_DIR", "data/batch_results"),
		RegistryDir:      getEnv("JOBS_DIR", "data/jobs"),
		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		GenerateTimeout:  time.Second * time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 120)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 60)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 1800)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 120)),
		RateLimitPerMin:  getEnvInt("GEMINI_RATE_LIMIT_PER_MINUTE", 20),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
