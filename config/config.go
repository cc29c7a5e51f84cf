package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Feed     FeedConfig     `yaml:"feed"`
	Database DatabaseConfig `yaml:"database"`
	Engine   EngineConfig   `yaml:"engine"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// FeedConfig holds the upstream document-feed configuration.
type FeedConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
	HTTPProxy       string        `yaml:"http_proxy"`
	Request         FeedRequest   `yaml:"request"`
}

// FeedRequest defines the HTTP requests for the upstream document feed.
type FeedRequest struct {
	SpacesURL   string            `yaml:"spaces_url"`
	BookingsURL string            `yaml:"bookings_url"`
	Headers     map[string]string `yaml:"headers"`
	PageSize    int               `yaml:"page_size"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// EngineConfig holds the recommendation engine tunables. The scoring weights
// themselves are fixed for cross-client compatibility and not configurable.
type EngineConfig struct {
	HistoryWindowDays        int     `yaml:"history_window_days"`
	HistoryLimit             int     `yaml:"history_limit"`
	PersonalHistoryLimit     int     `yaml:"personal_history_limit"`
	AggregateCacheTTLSeconds int     `yaml:"aggregate_cache_ttl_seconds"`
	DefaultMaxResults        int     `yaml:"default_max_results"`
	DefaultMinScore          float64 `yaml:"default_min_score"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Feed.IntervalSeconds <= 0 {
		cfg.Feed.IntervalSeconds = 60
	}
	cfg.Feed.Interval = time.Duration(cfg.Feed.IntervalSeconds) * time.Second
	if cfg.Feed.Request.PageSize <= 0 {
		cfg.Feed.Request.PageSize = 100
	}

	if cfg.Engine.HistoryWindowDays <= 0 {
		cfg.Engine.HistoryWindowDays = 30
	}
	if cfg.Engine.HistoryLimit <= 0 {
		cfg.Engine.HistoryLimit = 1000
	}
	if cfg.Engine.PersonalHistoryLimit <= 0 {
		cfg.Engine.PersonalHistoryLimit = 50
	}
	if cfg.Engine.AggregateCacheTTLSeconds < 0 {
		log.Printf("engine.aggregate_cache_ttl_seconds is negative; disabling the cache")
		cfg.Engine.AggregateCacheTTLSeconds = 0
	}
	if cfg.Engine.DefaultMaxResults <= 0 {
		cfg.Engine.DefaultMaxResults = 3
	}
	if cfg.Engine.DefaultMinScore <= 0 {
		cfg.Engine.DefaultMinScore = 50
	}

	return &cfg, nil
}
