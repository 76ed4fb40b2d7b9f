package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr string

	DeepgramAPIKey string
	GeminiAPIKey   string

	// UploadDir receives audio uploads; created at startup when missing.
	UploadDir string
	// StaticDir is served under /static when it exists. Empty disables it.
	StaticDir string

	MaxBodyBytes int64
	StageTimeout time.Duration

	// CORSAllowedOrigins is an allowlist of origins. Empty allows any origin.
	CORSAllowedOrigins map[string]struct{}

	ReadHeaderTimeout   time.Duration
	ShutdownGracePeriod time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                getEnv("AGENT_LISTEN_ADDR", ":8080"),
		DeepgramAPIKey:      strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY")),
		GeminiAPIKey:        strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		UploadDir:           getEnv("AGENT_UPLOAD_DIR", "uploads"),
		StaticDir:           getEnv("AGENT_STATIC_DIR", "static"),
		MaxBodyBytes:        25 << 20,
		StageTimeout:        30 * time.Second,
		ReadHeaderTimeout:   5 * time.Second,
		ShutdownGracePeriod: 10 * time.Second,
	}

	if raw := strings.TrimSpace(os.Getenv("AGENT_MAX_BODY_BYTES")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid AGENT_MAX_BODY_BYTES %q", raw)
		}
		cfg.MaxBodyBytes = n
	}

	if raw := strings.TrimSpace(os.Getenv("AGENT_STAGE_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid AGENT_STAGE_TIMEOUT %q", raw)
		}
		cfg.StageTimeout = d
	}

	if raw := strings.TrimSpace(os.Getenv("AGENT_CORS_ALLOWED_ORIGINS")); raw != "" {
		cfg.CORSAllowedOrigins = map[string]struct{}{}
		for origin := range strings.SplitSeq(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowedOrigins[origin] = struct{}{}
			}
		}
	}

	var missing []string
	if cfg.DeepgramAPIKey == "" {
		missing = append(missing, "DEEPGRAM_API_KEY")
	}
	if cfg.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
