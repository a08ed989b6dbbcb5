package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort         = "5000"
	defaultDatabaseURL  = "review.db"
	defaultRedisURL     = "redis://localhost:6379"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultJWTTTL       = "24h"
	defaultUploadsDir   = "./uploads"
	defaultAppURL       = "http://localhost:3000"
	defaultAITimeout    = "30s"
	defaultOCRTimeout   = "60s"
	defaultSMTPPort     = "587"
	defaultQueueRetries = 5
)

// Config holds all runtime settings for the API server and the email worker.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string

	JWTSecret string
	JWTTTL    time.Duration

	UploadsDir string

	// Base URL of the web client, used in notification email links.
	AppURL string

	// External collaborators. An empty URL means the service is not
	// configured; callers degrade or surface that per operation.
	AIServiceURL  string
	OCRServiceURL string
	AITimeout     time.Duration
	OCRTimeout    time.Duration

	// Worker-side mail transport.
	SMTPHost    string
	SMTPPort    string
	SMTPUser    string
	SMTPPass    string
	SenderEmail string
	SenderName  string

	QueueMaxRetries int
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.RedisURL = getEnv("REDIS_URL", defaultRedisURL)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.UploadsDir = getEnv("UPLOADS_DIR", defaultUploadsDir)
	cfg.AppURL = strings.TrimRight(getEnv("APP_URL", defaultAppURL), "/")

	cfg.AIServiceURL = strings.TrimRight(strings.TrimSpace(os.Getenv("AI_SERVICE_URL")), "/")
	cfg.OCRServiceURL = strings.TrimRight(strings.TrimSpace(os.Getenv("OCR_SERVICE_URL")), "/")

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPPort = getEnv("SMTP_PORT", defaultSMTPPort)
	cfg.SMTPUser = os.Getenv("SMTP_USER")
	cfg.SMTPPass = os.Getenv("SMTP_PASS")
	cfg.SenderEmail = os.Getenv("SENDER_EMAIL")
	cfg.SenderName = getEnv("SENDER_NAME", "Content Review Platform")

	cfg.QueueMaxRetries = defaultQueueRetries

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.AITimeout, err = parseDurationEnv("AI_TIMEOUT", defaultAITimeout)
	if err != nil {
		return nil, err
	}
	cfg.OCRTimeout, err = parseDurationEnv("OCR_TIMEOUT", defaultOCRTimeout)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
