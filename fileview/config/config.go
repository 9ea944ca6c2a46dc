// Package config loads the fileview configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the fileview configuration.
type Config struct {
	Addr         string `toml:"addr"`
	Root         string `toml:"root"`
	MaxFileBytes int64  `toml:"max_file_bytes"`
	Limits       Limits `toml:"limits"`
	Pack         Pack   `toml:"pack"`
}

// Limits are the size guards applied before diffing or highlighting.
type Limits struct {
	MaxDiffRows       int `toml:"max_diff_rows"`
	MaxHighlightChars int `toml:"max_highlight_chars"`
}

// Pack configures the pack command.
type Pack struct {
	Minify bool `toml:"minify"`
}

// Default returns the configuration used when there's no configuration file.
func Default() *Config {
	return &Config{
		Addr:         "localhost:8080",
		Root:         ".",
		MaxFileBytes: 4 << 20,
		Limits: Limits{
			MaxDiffRows:       20000,
			MaxHighlightChars: 200000,
		},
		Pack: Pack{
			Minify: true,
		},
	}
}

// Load reads the configuration from the TOML file at path. Settings missing from the file keep
// their default values. If the file doesn't exist, Load returns the default configuration.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg, overwriting only the settings present in data.
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.validate()
}

func (c *Config) validate() error {
	switch {
	case c.MaxFileBytes <= 0:
		return fmt.Errorf("max_file_bytes must be positive, got %d", c.MaxFileBytes)
	case c.Limits.MaxDiffRows <= 0:
		return fmt.Errorf("limits.max_diff_rows must be positive, got %d", c.Limits.MaxDiffRows)
	case c.Limits.MaxHighlightChars <= 0:
		return fmt.Errorf("limits.max_highlight_chars must be positive, got %d", c.Limits.MaxHighlightChars)
	}
	return nil
}
