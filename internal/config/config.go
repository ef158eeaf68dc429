package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. Nested keys use a double
// underscore: REEL_TMDB__API_KEY sets tmdb.api_key.
const EnvPrefix = "REEL_"

type Config struct {
	// TMDB API access (search is disabled until an API key is set)
	TMDB TMDBConfig `koanf:"tmdb"`

	Search SearchConfig `koanf:"search"`

	// Page cache in front of the TMDB client
	Cache CacheConfig `koanf:"cache"`

	Log LogConfig `koanf:"log"`
}

// TMDBConfig holds TMDB API settings.
type TMDBConfig struct {
	APIKey       string        `koanf:"api_key"`
	BaseURL      string        `koanf:"base_url"`       // default: https://api.themoviedb.org/3
	ImageBaseURL string        `koanf:"image_base_url"` // default: https://image.tmdb.org/t/p/w500
	Language     string        `koanf:"language"`       // default: en-US
	IncludeAdult bool          `koanf:"include_adult"`
	Timeout      time.Duration `koanf:"timeout"` // default: 15s
}

// SearchConfig holds search behaviour settings.
type SearchConfig struct {
	Debounce    time.Duration `koanf:"debounce"`     // default: 300ms
	DefaultKind string        `koanf:"default_kind"` // "movie" or "tv" (default: movie)
	Restore     *bool         `koanf:"restore"`      // restore last kind and term (default: true)
}

// CacheConfig holds result page cache settings.
type CacheConfig struct {
	Backend  string        `koanf:"backend"`   // "sqlite", "redis" or "none" (default: sqlite)
	TTL      time.Duration `koanf:"ttl"`       // default: 24h
	RedisURL string        `koanf:"redis_url"` // e.g. "redis://localhost:6379/0"
}

// LogConfig holds log file settings.
type LogConfig struct {
	Level string `koanf:"level"` // zerolog level name (default: info)
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/reel/reel.log
}

// Load reads the config files and environment. When path is not empty it
// replaces the default config file locations.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()
	if path != "" {
		configPaths = []string{expandPath(path)}
	}

	for _, p := range configPaths {
		if _, err := os.Stat(p); err == nil {
			if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
				return nil, err
			}
		} else if path != "" {
			return nil, err
		}
	}

	// Environment overrides files
	if err := k.Load(env.Provider("TMDB_", ".", tmdbEnvKey), nil); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Normalize URLs (remove trailing slash)
	cfg.TMDB.BaseURL = strings.TrimSuffix(cfg.TMDB.BaseURL, "/")
	cfg.TMDB.ImageBaseURL = strings.TrimSuffix(cfg.TMDB.ImageBaseURL, "/")

	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

// envKey maps REEL_TMDB__API_KEY to tmdb.api_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// tmdbEnvKey accepts the conventional TMDB_API_KEY variable only.
func tmdbEnvKey(s string) string {
	if s == "TMDB_API_KEY" {
		return "tmdb.api_key"
	}
	return ""
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/reel/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "reel", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasTMDBConfig returns true if a TMDB API key is configured.
func (c *Config) HasTMDBConfig() bool {
	return c.TMDB.APIKey != ""
}

// GetSearchConfig returns the search configuration with defaults applied.
func (c *Config) GetSearchConfig() SearchConfig {
	cfg := c.Search

	if cfg.Debounce <= 0 {
		cfg.Debounce = 300 * time.Millisecond
	}
	switch strings.ToLower(cfg.DefaultKind) {
	case "tv", "series":
		cfg.DefaultKind = "tv"
	default:
		cfg.DefaultKind = "movie"
	}
	if cfg.Restore == nil {
		restore := true
		cfg.Restore = &restore
	}

	return cfg
}

// GetCacheConfig returns the cache configuration with defaults applied.
func (c *Config) GetCacheConfig() CacheConfig {
	cfg := c.Cache

	switch strings.ToLower(cfg.Backend) {
	case "redis":
		cfg.Backend = "redis"
		if cfg.RedisURL == "" {
			cfg.RedisURL = "redis://localhost:6379/0"
		}
	case "none", "off":
		cfg.Backend = "none"
	default:
		cfg.Backend = "sqlite"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}

	return cfg
}

// GetLogConfig returns the log configuration with defaults applied.
// An empty File means the caller picks the default location.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	cfg.Level = strings.ToLower(cfg.Level)
	return cfg
}
