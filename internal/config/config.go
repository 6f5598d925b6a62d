package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Optional bearer auth for the API; enforced only when set.
	APIKey string

	// External annotation store (optional).
	AnnotstoreURL    string
	AnnotstoreAPIKey string

	// Upload limits.
	MaxUploadBytes  int64
	MaxSessionBytes int64

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("TRAILVIEW_API_KEY"),

		AnnotstoreURL:    os.Getenv("ANNOTSTORE_URL"),
		AnnotstoreAPIKey: os.Getenv("ANNOTSTORE_API_KEY"),

		MaxUploadBytes:  envInt64("MAX_UPLOAD_BYTES", 52428800),  // 50MB
		MaxSessionBytes: envInt64("MAX_SESSION_BYTES", 10485760), // 10MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxSessionBytes <= 0 {
		cfg.MaxSessionBytes = 10485760
	}

	return cfg
}

func (c Config) Validate() error {
	if c.AnnotstoreURL != "" {
		if _, err := url.Parse(c.AnnotstoreURL); err != nil {
			return fmt.Errorf("invalid ANNOTSTORE_URL: %w", err)
		}
		if c.AnnotstoreAPIKey == "" {
			return fmt.Errorf("ANNOTSTORE_API_KEY is required when ANNOTSTORE_URL is set")
		}
	}
	return nil
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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
