package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Host     string
	Port     string
	Debug    bool

	// Storage
	StorageBackend string // "postgres" or "sqlite"
	PostgresDSN    string
	SQLitePath     string

	// Auth
	JWTSecret string
	JWTExpiry time.Duration

	// Remote actuator device
	DeviceBaseURL    string
	DeviceAPIKey     string
	DeviceHealthCron string // cron spec for the periodic status probe, empty disables it

	// Detection
	ModelPath string

	CORSOrigins []string
}

// Load reads .env (if present) and the environment exactly once.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Host:             getEnv("HOST", "0.0.0.0"),
		Port:             getEnv("PORT", "8000"),
		Debug:            getEnvBool("DEBUG", false),
		StorageBackend:   getEnv("STORAGE_BACKEND", "sqlite"),
		PostgresDSN:      getEnv("POSTGRES_DSN", ""),
		SQLitePath:       getEnv("SQLITE_PATH", "data/antisnore.db"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTExpiry:        time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		DeviceBaseURL:    getEnv("DEVICE_API_URL", "http://raspberrypi.local:5000"),
		DeviceAPIKey:     getEnv("DEVICE_API_KEY", ""),
		DeviceHealthCron: getEnv("DEVICE_HEALTH_CRON", ""),
		ModelPath:        getEnv("MODEL_PATH", "models/snore_threshold.json"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.StorageBackend != "postgres" && c.StorageBackend != "sqlite" {
		return errors.New("STORAGE_BACKEND must be one of: postgres, sqlite")
	}
	if c.StorageBackend == "postgres" && c.PostgresDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.StorageBackend == "sqlite" && c.SQLitePath == "" {
		return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	return nil
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
