// Package config loads argcheckd's runtime configuration from a YAML file
// and environment variables (prefix ARGCHECKD_), in that order of
// increasing precedence. No command-line flag is bound to these settings.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved set of options the serve command needs.
type Config struct {
	Addr           string        `mapstructure:"addr"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// Defaults returns the documented defaults, applied before any file or env
// override is layered on.
func Defaults() Config {
	return Config{
		Addr:           ":8080",
		MaxConcurrency: 8,
		Timeout:        30 * time.Second,
	}
}

// Load builds a viper instance seeded with Defaults, optionally merges
// configPath (if non-empty), and binds ARGCHECKD_-prefixed environment
// variables over both.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("argcheckd")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	def := Defaults()
	v.SetDefault("addr", def.Addr)
	v.SetDefault("max_concurrency", def.MaxConcurrency)
	v.SetDefault("timeout", def.Timeout)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %q: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
