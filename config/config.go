package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Fetcher  FetcherConfig
	Cache    CacheConfig
	Analysis AnalysisConfig
	Scraper  ScraperConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FetcherConfig holds image download configuration
type FetcherConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	Workers           int           `mapstructure:"workers"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// CacheConfig holds image hash cache configuration
type CacheConfig struct {
	Capacity int           `mapstructure:"capacity"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// AnalysisConfig holds similarity scoring configuration
type AnalysisConfig struct {
	BaseThreshold      float64 `mapstructure:"base_threshold"`
	RelaxedThreshold   float64 `mapstructure:"relaxed_threshold"`
	MinTitleSimilarity float64 `mapstructure:"min_title_similarity"`
	MaxPriceDifference float64 `mapstructure:"max_price_difference"`
}

// ScraperConfig holds listing title scraper configuration
type ScraperConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxPages          int           `mapstructure:"max_pages"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/listinglens/")

	// Environment variable settings
	v.SetEnvPrefix("LISTINGLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Image fetcher defaults
	v.SetDefault("fetcher.timeout", "10s")
	v.SetDefault("fetcher.workers", 20)
	v.SetDefault("fetcher.requests_per_second", 50.0)
	v.SetDefault("fetcher.burst", 20)

	// Hash cache defaults
	v.SetDefault("cache.capacity", 4096)
	v.SetDefault("cache.ttl", "1h")

	// Similarity analysis defaults
	v.SetDefault("analysis.base_threshold", 0.5)
	v.SetDefault("analysis.relaxed_threshold", 0.4)
	v.SetDefault("analysis.min_title_similarity", 0.3)
	v.SetDefault("analysis.max_price_difference", 0.5)

	// Title scraper defaults
	v.SetDefault("scraper.timeout", "30s")
	v.SetDefault("scraper.max_pages", 4)
	v.SetDefault("scraper.requests_per_second", 0.5)
	v.SetDefault("scraper.burst", 1)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Fetcher.Workers < 1 {
		return fmt.Errorf("fetcher workers must be at least 1, got: %d", config.Fetcher.Workers)
	}

	if config.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher timeout must be positive, got: %s", config.Fetcher.Timeout)
	}

	if config.Cache.Capacity < 1 {
		return fmt.Errorf("cache capacity must be at least 1, got: %d", config.Cache.Capacity)
	}

	if t := config.Analysis.BaseThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("analysis base threshold must be in (0, 1], got: %v", t)
	}

	if t := config.Analysis.RelaxedThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("analysis relaxed threshold must be in (0, 1], got: %v", t)
	}

	if config.Scraper.MaxPages < 1 {
		return fmt.Errorf("scraper max pages must be at least 1, got: %d", config.Scraper.MaxPages)
	}

	return nil
}
