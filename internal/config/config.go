// Package config loads the CLI configuration using viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/liulalala/switchyard/internal/log"
)

// Config is the top-level CLI configuration.
type Config struct {
	Log log.Config `mapstructure:"log"`
}

// Load reads a YAML config file. An empty path yields the defaults; a path
// that cannot be read or parsed is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
