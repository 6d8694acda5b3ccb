package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "8080"
	defaultDefaultLanguage = "en"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultTokenTTL        = 90 * 24 * time.Hour
	minSecretKeyLength     = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

var (
	ErrSecretKeyMissing     = errors.New("SECRET_KEY is required")
	ErrSecretKeyPlaceholder = errors.New("SECRET_KEY uses an insecure placeholder")
	ErrSecretKeyTooShort    = fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	ErrInvalidPort          = errors.New("PORT must be a number between 1 and 65535")
	ErrInvalidTokenTTL      = errors.New("TOKEN_TTL must be a positive duration")
	ErrInvalidLogFormat     = errors.New("LOG_FORMAT must be json or console")
)

type Config struct {
	Port            string
	DBPath          string
	Location        *time.Location
	SecretKey       []byte
	DefaultLanguage string
	LogLevel        string
	LogFormat       string
	TokenTTL        time.Duration
}

// Load reads the environment. A .env file in the working directory is applied first
// when present; variables already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	secretKey, err := resolveSecretKey()
	if err != nil {
		return Config{}, err
	}
	port, err := resolvePort()
	if err != nil {
		return Config{}, err
	}
	tokenTTL, err := resolveTokenTTL()
	if err != nil {
		return Config{}, err
	}
	logFormat := strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat))
	if logFormat != "json" && logFormat != "console" {
		return Config{}, ErrInvalidLogFormat
	}

	return Config{
		Port:            port,
		DBPath:          getEnv("DB_PATH", filepath.Join("data", "lullaby.db")),
		Location:        loadLocation(getEnv("TZ", "UTC")),
		SecretKey:       []byte(secretKey),
		DefaultLanguage: strings.ToLower(getEnv("DEFAULT_LANGUAGE", defaultDefaultLanguage)),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:       logFormat,
		TokenTTL:        tokenTTL,
	}, nil
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", ErrSecretKeyMissing
	}
	if _, insecure := insecureSecretKeys[secret]; insecure {
		return "", ErrSecretKeyPlaceholder
	}
	if len(secret) < minSecretKeyLength {
		return "", ErrSecretKeyTooShort
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", defaultPort)
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", ErrInvalidPort
	}
	return strconv.Itoa(port), nil
}

func resolveTokenTTL() (time.Duration, error) {
	raw := getEnv("TOKEN_TTL", "")
	if raw == "" {
		return defaultTokenTTL, nil
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		return 0, ErrInvalidTokenTTL
	}
	return ttl, nil
}

// loadLocation falls back to UTC for unknown zone names.
func loadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
