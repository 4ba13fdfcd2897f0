package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/flashvault/flashvault/internal/service/srs"
)

// Config holds process configuration. SRS tuning knobs come from
// srs.DefaultConfig with optional env overrides, so deployments can adjust
// thresholds without a rebuild.
type Config struct {
	ServerPort     string
	MigrationsDir  string
	DBMaxIdleConns int
	DBMaxOpenConns int
	BriefTime      string // daily morning-brief cron time, HH:MM
	SRS            srs.Config
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	cfg := &Config{
		ServerPort:     getEnv("PORT", "8080"),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "migrations"),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 20),
		BriefTime:      getEnv("BRIEF_TIME", "06:00"),
		SRS:            srs.DefaultConfig(),
	}

	cfg.SRS.BaseInterval = getEnvDuration("SRS_BASE_INTERVAL", cfg.SRS.BaseInterval)
	cfg.SRS.RetryInterval = getEnvDuration("SRS_RETRY_INTERVAL", cfg.SRS.RetryInterval)
	cfg.SRS.MaxInterval = getEnvDuration("SRS_MAX_INTERVAL", cfg.SRS.MaxInterval)
	cfg.SRS.MasteryInterval = getEnvDuration("SRS_MASTERY_INTERVAL", cfg.SRS.MasteryInterval)
	cfg.SRS.DueSoonWindow = getEnvDuration("SRS_DUE_SOON_WINDOW", cfg.SRS.DueSoonWindow)
	cfg.SRS.LearningStreak = getEnvInt("SRS_LEARNING_STREAK", cfg.SRS.LearningStreak)
	cfg.SRS.MasteryStreak = getEnvInt("SRS_MASTERY_STREAK", cfg.SRS.MasteryStreak)

	return cfg
}

// DSN assembles the Postgres connection string from the POSTGRES_* variables.
func DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("POSTGRES_HOST"),
		getEnv("POSTGRES_PORT", "5432"),
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_DB"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
