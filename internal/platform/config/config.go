package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Database selects the store. An empty URL runs the in-memory store.
type Database struct {
	URL          string
	MaxOpenConns int
}

// Auth configures bearer token validation.
type Auth struct {
	JWTSigningKey string
	JWTIssuer     string
}

// Log configures the structured logger.
type Log struct {
	Level  string
	Format string
}

// Events configures lifecycle event delivery. No brokers means events are
// written to the log only.
type Events struct {
	Brokers        []string
	Topic          string
	PublishTimeout time.Duration
}

// Config is the full process configuration.
type Config struct {
	Server   Server
	Database Database
	Auth     Auth
	Log      Log
	Events   Events
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	maxOpen, err := intEnv("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return Config{}, err
	}
	shutdown, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	publishTimeout, err := durationEnv("QNA_EVENTS_PUBLISH_TIMEOUT", 3*time.Second)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server: Server{
			Addr:            stringEnv("QNA_ADDR", ":8080"),
			ShutdownTimeout: shutdown,
		},
		Database: Database{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: maxOpen,
		},
		Auth: Auth{
			// Use a default for development - should be overridden in production
			JWTSigningKey: stringEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     stringEnv("JWT_ISSUER", "qna"),
		},
		Log: Log{
			Level:  stringEnv("LOG_LEVEL", "info"),
			Format: stringEnv("LOG_FORMAT", "json"),
		},
		Events: Events{
			Brokers:        listEnv("KAFKA_BROKERS"),
			Topic:          stringEnv("QNA_EVENTS_TOPIC", "qna.lifecycle"),
			PublishTimeout: publishTimeout,
		},
	}, nil
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return v, nil
}

func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
