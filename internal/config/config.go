package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Storage
	DataDir     string
	CacheDBPath string
	EnvPath     string

	// Upload limits
	MaxUploadBytes int64

	// CORS
	AllowedOrigins []string

	// OCR
	GeminiAPIKey   string
	GeminiOCRModel string
	VisionEnabled  bool
	SofficeBin     string

	// Layout reconstruction thresholds
	LineBreakJump float64
	SpaceGap      float64

	// HTTP timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, after loading the .env
// file when present. A missing .env is not an error; production
// deployments set real environment variables.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8000"),

		DataDir:     envOr("DATA_DIR", "data"),
		CacheDBPath: envOr("CACHE_DB_PATH", "explain_cache.db"),
		EnvPath:     envOr("ENV_PATH", ".env"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 26214400), // 25MB

		AllowedOrigins: envList("ALLOWED_ORIGINS", []string{"*"}),

		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiOCRModel: envOr("GEMINI_OCR_MODEL", "gemini-2.0-flash-lite"),
		VisionEnabled:  envBool("VISION_ENABLED", true),
		SofficeBin:     envOr("SOFFICE_BIN", "soffice"),

		LineBreakJump: envFloat("LINE_BREAK_JUMP", 5),
		SpaceGap:      envFloat("SPACE_GAP", 2),

		ReadTimeout:     envDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    envDuration("WRITE_TIMEOUT", 120*time.Second),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 26214400
	}
	if cfg.LineBreakJump <= 0 {
		cfg.LineBreakJump = 5
	}
	if cfg.SpaceGap <= 0 {
		cfg.SpaceGap = 2
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
