// Package config provides configuration for the book recommendation service.
// It loads a YAML file when given one, applies BR_* environment-variable
// overrides, and falls back to defaults for anything missing.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port             int   `yaml:"port"`
	MaxRequestSizeMB int64 `yaml:"maxRequestSizeMb"`
}

// DataConfig points at the catalog sources and the directory used for
// snapshot and analytics persistence.
type DataConfig struct {
	BooksPath   string `yaml:"booksPath"`
	RatingsPath string `yaml:"ratingsPath"`
	Dir         string `yaml:"dir"`
}

// EngineConfig controls the similarity engine and the query defaults.
type EngineConfig struct {
	// EagerIndexThreshold is the catalog size at which the dense similarity
	// matrix is skipped and recommendations degrade to empty results.
	EagerIndexThreshold int `yaml:"eagerIndexThreshold"`
	TopDefault          int `yaml:"topDefault"`
	RecommendDefault    int `yaml:"recommendDefault"`
	ReviewsDefault      int `yaml:"reviewsDefault"`
	JobWorkers          int `yaml:"jobWorkers"`
	CacheSize           int `yaml:"cacheSize"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a YAML config file (if provided) and applies environment
// variable overrides. It returns a Config populated with defaults for any
// missing values, validated for basic sanity.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultConfig returns a Config with defaults suitable for local
// development against the bundled CSV sources.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             8080,
			MaxRequestSizeMB: 10,
		},
		Data: DataConfig{
			BooksPath:   "./data/books.csv",
			RatingsPath: "./data/ratings.csv",
			Dir:         "./data",
		},
		Engine: EngineConfig{
			EagerIndexThreshold: 5000,
			TopDefault:          12,
			RecommendDefault:    6,
			ReviewsDefault:      3,
			JobWorkers:          2,
			CacheSize:           512,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// applyEnvOverrides reads BR_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BR_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("BR_DATA_BOOKS_PATH"); v != "" {
		cfg.Data.BooksPath = v
	}
	if v := os.Getenv("BR_DATA_RATINGS_PATH"); v != "" {
		cfg.Data.RatingsPath = v
	}
	if v := os.Getenv("BR_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("BR_ENGINE_EAGER_INDEX_THRESHOLD"); v != "" {
		if threshold, err := strconv.Atoi(v); err == nil {
			cfg.Engine.EagerIndexThreshold = threshold
		}
	}
	if v := os.Getenv("BR_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BR_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Data.BooksPath == "" {
		return fmt.Errorf("data.booksPath cannot be empty")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir cannot be empty")
	}
	if c.Engine.EagerIndexThreshold < 1 {
		return fmt.Errorf("engine.eagerIndexThreshold must be positive, got %d", c.Engine.EagerIndexThreshold)
	}
	if c.Engine.TopDefault < 1 || c.Engine.RecommendDefault < 1 || c.Engine.ReviewsDefault < 1 {
		return fmt.Errorf("engine query defaults must be positive")
	}
	if c.Engine.JobWorkers < 1 {
		return fmt.Errorf("engine.jobWorkers must be positive, got %d", c.Engine.JobWorkers)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level '%s'", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown logging format '%s'", c.Logging.Format)
	}
	return nil
}
