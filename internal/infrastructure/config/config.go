package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	DBPath      string
	CatalogPath string // empty means the built-in catalog
	CapSlack    int

	// Session storage
	SessionBackend  string
	SessionCapacity int
	SessionTTL      time.Duration
	RedisAddr       string

	RecorderWorkers int
	CORSOrigin      string
}

// Load reads a .env file if one exists, then the environment. Unset
// variables fall back to defaults; malformed ones are an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress:  getenvDefault("SERVER_ADDRESS", ":8080"),
		DBPath:         getenvDefault("DB_PATH", "freedomology.db"),
		CatalogPath:    os.Getenv("CATALOG_PATH"),
		SessionBackend: getenvDefault("SESSION_BACKEND", SessionBackendMemory),
		RedisAddr:      getenvDefault("REDIS_ADDR", "localhost:6379"),
		CORSOrigin:     getenvDefault("CORS_ORIGIN", "*"),
	}

	var err error
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CapSlack, err = getInt("CAP_SLACK", 10); err != nil {
		return nil, err
	}
	if cfg.SessionCapacity, err = getInt("SESSION_CAPACITY", 10000); err != nil {
		return nil, err
	}
	if cfg.RecorderWorkers, err = getInt("RECORDER_WORKERS", 2); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.SessionBackend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("config: SESSION_BACKEND=%q must be %q or %q",
			c.SessionBackend, SessionBackendMemory, SessionBackendRedis)
	}
	if c.CapSlack < 0 || c.CapSlack > 100 {
		return fmt.Errorf("config: CAP_SLACK=%d must be between 0 and 100", c.CapSlack)
	}
	if c.SessionCapacity < 1 {
		return fmt.Errorf("config: SESSION_CAPACITY=%d must be positive", c.SessionCapacity)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL=%s must be positive", c.SessionTTL)
	}
	if c.RecorderWorkers < 1 {
		return fmt.Errorf("config: RECORDER_WORKERS=%d must be positive", c.RecorderWorkers)
	}
	return nil
}

func getDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}

func getInt(k string, fallback int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid integer: %w", k, v, err)
	}
	return n, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
