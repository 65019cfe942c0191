package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"highspirit-app-go/pkg/logger"
)

type Config struct {
	HTTPPort       string
	Env            string
	AllowedOrigins []string
	Club           ClubConfig
	DB             DBConfig
	Auth           AuthConfig
	Redis          RedisConfig
	Dashboard      DashboardConfig
	Import         ImportConfig
}

type ClubConfig struct {
	TimeZone           string
	PageSize           int
	ExpiringWindowDays int
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	CookieName        string
	CookieSecure      bool
	OwnerUsername     string
	OwnerPassword     string
	OwnerPasswordHash string
	SkipAuth          bool
	MockUsername      string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DashboardConfig struct {
	CacheTTL time.Duration
}

type ImportConfig struct {
	MaxUploadBytes int64
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		Club: ClubConfig{
			TimeZone:           getEnv("CLUB_TIMEZONE", "Asia/Kathmandu"),
			PageSize:           getEnvInt("CLUB_PAGE_SIZE", 10),
			ExpiringWindowDays: getEnvInt("CLUB_EXPIRING_WINDOW_DAYS", 7),
		},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "highspirit"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("AUTH_JWT_SECRET", ""),
			TokenTTL:          getEnvDuration("AUTH_TOKEN_TTL", 12*time.Hour),
			CookieName:        getEnv("AUTH_COOKIE_NAME", "highspirit_session"),
			CookieSecure:      getEnvBool("AUTH_COOKIE_SECURE", false),
			OwnerUsername:     getEnv("AUTH_OWNER_USERNAME", "admin"),
			OwnerPassword:     getEnv("AUTH_OWNER_PASSWORD", ""),
			OwnerPasswordHash: getEnv("AUTH_OWNER_PASSWORD_HASH", ""),
			SkipAuth:          getEnvBool("AUTH_SKIP", false),
			MockUsername:      getEnv("AUTH_MOCK_USERNAME", "admin"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Dashboard: DashboardConfig{
			CacheTTL: getEnvDuration("DASHBOARD_CACHE_TTL", 30*time.Second),
		},
		Import: ImportConfig{
			MaxUploadBytes: int64(getEnvInt("IMPORT_MAX_UPLOAD_BYTES", 10<<20)),
		},
	}

	if cfg.Auth.JWTSecret == "" && !cfg.Auth.SkipAuth {
		return Config{}, fmt.Errorf("AUTH_JWT_SECRET is required unless AUTH_SKIP is set")
	}

	return cfg, nil
}

// Location resolves the club time zone, falling back to UTC for unknown names.
func (c ClubConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
