package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type AppConfig struct {
	Port     string
	LogLevel string
	DBPath   string

	// spatial + rules inputs
	BoundaryPath  string
	CropTablePath string
	PracticesPath string
	PredictionTTL time.Duration

	LLMEndpoint string
	LLMAPIKey   string
	LLMModel    string

	EmbEndpoint string
	EmbAPIKey   string
	EmbModel    string

	KBAllowedDomains []string
	KBMaxBytes       int

	StrictSession bool
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("[cfg] no .env file loaded")
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	cfg := AppConfig{
		Port:             get("PORT", "8080"),
		LogLevel:         get("LOG_LEVEL", "info"),
		DBPath:           get("DB_PATH", "eaa.db"),
		BoundaryPath:     get("BOUNDARY_PATH", ""),
		CropTablePath:    get("CROP_TABLE_PATH", ""),
		PracticesPath:    get("PRACTICES_PATH", ""),
		PredictionTTL:    parseDuration(get("PREDICTION_CACHE_TTL", "30m"), 30*time.Minute),
		LLMEndpoint:      get("LLM_ENDPOINT", ""),
		LLMAPIKey:        get("LLM_API_KEY", ""),
		LLMModel:         get("LLM_MODEL", "gpt-4o-mini"),
		EmbEndpoint:      get("EMB_ENDPOINT", ""),
		EmbAPIKey:        get("EMB_API_KEY", ""),
		EmbModel:         get("EMB_MODEL", "text-embedding-3-small"),
		KBAllowedDomains: splitList(get("KB_ALLOWED_DOMAINS", "edis.ifas.ufl.edu,erec.ifas.ufl.edu")),
		KBMaxBytes:       parseInt(get("KB_MAX_BYTES_PER_PAGE", "1500000"), 1500000),
		StrictSession:    get("STRICT_SESSION", "false") == "true",
	}
	log.Info().
		Str("port", cfg.Port).
		Str("db", cfg.DBPath).
		Str("boundary", cfg.BoundaryPath).
		Bool("llm", cfg.LLMEndpoint != "").
		Bool("strict_session", cfg.StrictSession).
		Msg("[cfg] loaded")
	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
