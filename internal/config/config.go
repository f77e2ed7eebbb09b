// Package config holds the runtime-tunable settings for the xplain CLI
// and facade: the plan ID tag, JSON output style, and log level.
package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds the ambient tunables read by the CLI and facade.
type Config struct {
	IDTag      string `yaml:"id_tag"`
	PrettyJSON bool   `yaml:"pretty_json"`
	LogLevel   string `yaml:"log_level"`
}

var (
	mu     sync.RWMutex
	active = Default()
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		IDTag:      "xplain_",
		PrettyJSON: true,
		LogLevel:   "info",
	}
}

// Active returns the currently applied configuration.
func Active() Config {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// Use replaces the active configuration.
func Use(cfg Config) {
	mu.Lock()
	active = cfg
	mu.Unlock()
}

// Apply loads configuration from the given YAML path. An empty path
// resets to Default.
func Apply(path string) error {
	if path == "" {
		Use(Default())
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	Use(cfg)
	return nil
}
