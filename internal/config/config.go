package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds server settings. File values are optional; environment
// variables override them.
type Config struct {
	Port             string `toml:"port"`
	DBPath           string `toml:"db_path"`
	RegistryPath     string `toml:"registry_path"`
	DegradedFallback *bool  `toml:"degraded_fallback"`
	RandSeed         int64  `toml:"rand_seed"`
}

// Load reads an optional TOML config file, applies env overrides and
// defaults, then validates. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("REGISTRY_PATH"); v != "" {
		cfg.RegistryPath = v
	}
	if v := os.Getenv("DEGRADED_FALLBACK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEGRADED_FALLBACK %q: %w", v, err)
		}
		cfg.DegradedFallback = &b
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "meshpay.db"
	}
	if cfg.DegradedFallback == nil {
		enabled := true
		cfg.DegradedFallback = &enabled
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Port) == "" {
		return fmt.Errorf("config missing port")
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return fmt.Errorf("config port %q is not numeric", cfg.Port)
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return fmt.Errorf("config missing db path")
	}
	return nil
}

// DegradedFallbackEnabled reports whether degraded processors participate as
// a second attempt tier.
func (c Config) DegradedFallbackEnabled() bool {
	return c.DegradedFallback == nil || *c.DegradedFallback
}
