package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-farm-analytics/internal/spectral"
)

type Config struct {
	Server    ServerConfig
	Worker    WorkerConfig
	SceneFeed SceneFeedConfig
	DB        DatabaseConfig
	Logging   LoggingConfig
	Analytics AnalyticsConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	RateLimitRPS int
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type SceneFeedConfig struct {
	Enabled      bool
	URL          string
	PollInterval time.Duration
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type AnalyticsConfig struct {
	SoilFactor     float64
	DefaultIndices []spectral.Name
}

func (a AnalyticsConfig) Params() spectral.Params {
	return spectral.Params{SoilFactor: a.SoilFactor}
}

func Load() (*Config, error) {
	indices, err := spectral.ParseNames(getEnv("DEFAULT_INDICES", "NDVI,EVI,SAVI,NDWI,NDMI,NBR"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_INDICES: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 20),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 50),
		},
		SceneFeed: SceneFeedConfig{
			Enabled:      getEnvBool("SCENE_FEED_ENABLED", false),
			URL:          getEnv("SCENE_FEED_URL", ""),
			PollInterval: getEnvDuration("SCENE_FEED_POLL_INTERVAL", 6*time.Hour),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/farm-analytics.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Analytics: AnalyticsConfig{
			SoilFactor:     getEnvFloat("SAVI_SOIL_FACTOR", spectral.DefaultSoilFactor),
			DefaultIndices: indices,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 request/s, got %d", c.Server.RateLimitRPS)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if f := strings.ToLower(c.Logging.Format); f != "json" && f != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.Worker.BufferSize < 0 {
		return fmt.Errorf("worker buffer size must not be negative")
	}

	if c.SceneFeed.Enabled {
		if c.SceneFeed.URL == "" {
			return fmt.Errorf("SCENE_FEED_URL is required when the scene feed is enabled")
		}
		if c.SceneFeed.PollInterval < time.Minute {
			return fmt.Errorf("scene feed poll interval must be at least 1 minute")
		}
	}

	if c.Analytics.SoilFactor < 0 || c.Analytics.SoilFactor > 1 {
		return fmt.Errorf("SAVI soil factor must be within [0, 1], got %v", c.Analytics.SoilFactor)
	}
	if len(c.Analytics.DefaultIndices) == 0 {
		return fmt.Errorf("at least one default index is required")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
