// Package config loads runtime settings from the environment (and an optional
// .env file). Nothing here has a credential default.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every setting the server and the CLI tools read.
type Config struct {
	DatabaseURL   string
	ListenAddr    string
	JWTSecret     string
	SessionTTL    time.Duration
	CORSOrigins   []string
	OpenAIKey     string
	OpenAIBaseURL string
	LogLevel      logrus.Level
	BackupBucket  string
	AWSRegion     string
}

// ErrMissingSetting is wrapped by Require* when a mandatory value is empty.
var ErrMissingSetting = errors.New("missing required setting")

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, so tests can pass a map.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		DatabaseURL:   getenv("DB_URL"),
		ListenAddr:    orDefault(getenv("LISTEN_ADDR"), "localhost:3000"),
		JWTSecret:     getenv("JWT_SECRET"),
		OpenAIKey:     getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: strings.TrimRight(orDefault(getenv("OPENAI_BASE_URL"), "https://api.openai.com"), "/"),
		BackupBucket:  getenv("BACKUP_S3_BUCKET"),
		AWSRegion:     getenv("AWS_REGION"),
	}

	ttl, err := time.ParseDuration(orDefault(getenv("SESSION_TTL"), "72h"))
	if err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
	}
	cfg.SessionTTL = ttl

	for _, o := range strings.Split(orDefault(getenv("CORS_ORIGINS"), "http://localhost:3001"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	level, err := logrus.ParseLevel(orDefault(getenv("LOG_LEVEL"), "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

// RequireDatabase fails when DB_URL is unset.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: DB_URL", ErrMissingSetting)
	}
	return nil
}

// RequireServer checks the settings the HTTP server cannot start without.
func (c Config) RequireServer() error {
	if err := c.RequireDatabase(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissingSetting)
	}
	return nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
