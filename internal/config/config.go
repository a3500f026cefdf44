package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvironment           = "development"
	defaultMigrationsDir         = "migrations"
	defaultSlotTickMinutes       = 30
	defaultDeadlineCheckInterval = time.Minute
	defaultProjectionCacheTTL    = 10 * time.Minute
)

type Config struct {
	TelegramToken string
	DBDSN         string
	RedisURL      string
	Environment   string
	MigrationsDir string

	// SlotTickMinutes is the slot resolution of new time-granular rooms.
	SlotTickMinutes       int
	DeadlineCheckInterval time.Duration
	ProjectionCacheTTL    time.Duration
}

// LoadConfig reads .env (if any) and the process environment.
func LoadConfig() (*Config, error) {
	// A missing .env is fine, the environment may be set by the runtime.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		TelegramToken:         getenv("TELEGRAM_TOKEN"),
		DBDSN:                 getenv("DB_DSN"),
		RedisURL:              getenv("REDIS_URL"),
		Environment:           getenv("ENV"),
		MigrationsDir:         getenv("MIGRATIONS_DIR"),
		SlotTickMinutes:       defaultSlotTickMinutes,
		DeadlineCheckInterval: defaultDeadlineCheckInterval,
		ProjectionCacheTTL:    defaultProjectionCacheTTL,
	}

	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = defaultMigrationsDir
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	if v := getenv("SLOT_TICK_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 24*60 {
			return nil, fmt.Errorf("SLOT_TICK_MINUTES must be a positive number of minutes, got %q", v)
		}
		cfg.SlotTickMinutes = n
	}

	var err error
	if cfg.DeadlineCheckInterval, err = durationOr(getenv, "DEADLINE_CHECK_INTERVAL", cfg.DeadlineCheckInterval); err != nil {
		return nil, err
	}
	if cfg.ProjectionCacheTTL, err = durationOr(getenv, "PROJECTION_CACHE_TTL", cfg.ProjectionCacheTTL); err != nil {
		return nil, err
	}

	return cfg, nil
}

func durationOr(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

// SlotTick is SlotTickMinutes as a duration.
func (c *Config) SlotTick() time.Duration {
	return time.Duration(c.SlotTickMinutes) * time.Minute
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
