// Package config loads runtime configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application runtime configuration.
type Config struct {
	Env      string
	LogLevel string
	HTTPPort string

	DatabaseURL        string
	DBMaxConns         int32
	DBMinConns         int32
	TxStatementTimeout time.Duration

	JWTSecret string

	// ReportLocation is the timezone used to bucket daily revenue.
	ReportLocation *time.Location
	// ReportDailyWindowDays is the trailing window of the daily revenue chart.
	ReportDailyWindowDays int

	CORSAllowedOrigins []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// IsDevelopment reports whether the process runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads environment variables and .env (if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                   getEnv("APP_ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		DBMaxConns:            int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:            int32(getInt("DB_MIN_CONNS", 2)),
		TxStatementTimeout:    getDuration("TX_STATEMENT_TIMEOUT", 30*time.Second),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		ReportDailyWindowDays: getInt("REPORT_DAILY_WINDOW_DAYS", 7),
		CORSAllowedOrigins:    getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ReadTimeout:           getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:          getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:           getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:       getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	loc, err := time.LoadLocation(getEnv("REPORT_TIMEZONE", "UTC"))
	if err != nil {
		return cfg, fmt.Errorf("REPORT_TIMEZONE: %w", err)
	}
	cfg.ReportLocation = loc

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	if cfg.ReportDailyWindowDays <= 0 {
		return cfg, errors.New("REPORT_DAILY_WINDOW_DAYS must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}
