package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	"github.com/petopia/petopia-server/internal/platform/mail"
)

// Config carries environment-driven settings shared by the Petopia processes.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers string
	KafkaTopic   string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	SMTP mail.Config

	JWTSecret string
	JWTTTL    time.Duration

	SlotRetentionDays int
	ShutdownTimeout   time.Duration
}

// LoadConfig reads an optional .env file, then environment variables, applies defaults, and
// validates basic constraints. Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		Environment:       envDefault("ENVIRONMENT", "local"),
		LogLevel:          envDefault("LOG_LEVEL", "info"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:      strings.TrimSpace(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        envDefault("KAFKA_TOPIC", "petopia.events"),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SMTP: mail.Config{
			Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     strings.TrimSpace(os.Getenv("SMTP_FROM")),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
	}

	var err error
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0, false); err != nil {
		return Config{}, err
	}
	if cfg.SMTP.Port, err = intEnv("SMTP_PORT", 587, true); err != nil {
		return Config{}, err
	}
	ttlMinutes, err := intEnv("JWT_TTL_MINUTES", 60, true)
	if err != nil {
		return Config{}, err
	}
	cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	if cfg.SlotRetentionDays, err = intEnv("SLOT_RETENTION_DAYS", 30, true); err != nil {
		return Config{}, err
	}
	shutdownSeconds, err := intEnv("SHUTDOWN_TIMEOUT_SECONDS", 10, true)
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout = time.Duration(shutdownSeconds) * time.Second

	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			return Config{}, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "petopia-dev-secret-change-me"
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func intEnv(key string, fallback int, positive bool) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || (positive && n == 0) {
		if positive {
			return 0, fmt.Errorf("%s must be a positive integer", key)
		}
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
