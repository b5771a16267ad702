package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the compiled-in configuration with optional overrides. It
// tunes the orchestration surface only; the audit semantics come entirely
// from the request.
type Config struct {
	SchemaVersion string      `yaml:"schemaVersion"`
	CreateMode    string      `yaml:"createMode"`
	MaxRequest    int         `yaml:"maxRequestBytes"`
	RunLogPath    string      `yaml:"runLogPath"`
	Watch         WatchConfig `yaml:"watch"`
}

// WatchConfig tunes the watch loop.
type WatchConfig struct {
	DebounceMs int `yaml:"debounceMs"`
}

// Flags carries the command-line inputs that affect config resolution.
type Flags struct {
	ConfigPath string
}

// Default returns the compiled-in defaults.
func Default() Config {
	return Config{
		SchemaVersion: "1.0",
		CreateMode:    "0644",
		MaxRequest:    10 * 1024 * 1024,
		RunLogPath:    "",
		Watch: WatchConfig{
			DebounceMs: 300,
		},
	}
}

// Load reads a YAML config from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies defaults and the optional override, then validates.
func Resolve(flags Flags) (Config, string, error) {
	cfg := Default()
	var cfgPath string

	if flags.ConfigPath != "" {
		loaded, err := Load(flags.ConfigPath)
		if err != nil {
			return Config{}, "", err
		}
		mergeConfigDefaults(&loaded, &cfg)
		cfg = loaded
		cfgPath = flags.ConfigPath
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, cfgPath, nil
}

// Validate checks the resolved configuration for consistency.
func (c *Config) Validate() error {
	if c.SchemaVersion != "1.0" {
		return fmt.Errorf("unsupported schemaVersion: %s (expected 1.0)", c.SchemaVersion)
	}
	if _, err := strconv.ParseUint(c.CreateMode, 8, 32); err != nil {
		return fmt.Errorf("createMode %q is not an octal permission string", c.CreateMode)
	}
	if c.MaxRequest <= 0 {
		return fmt.Errorf("maxRequestBytes must be positive, got %d", c.MaxRequest)
	}
	return nil
}

// CreateFileMode returns the mode used for files created by remediation.
// Validate guarantees the string parses.
func (c *Config) CreateFileMode() os.FileMode {
	n, _ := strconv.ParseUint(c.CreateMode, 8, 32)
	return os.FileMode(n)
}

func mergeConfigDefaults(cfg *Config, defaults *Config) {
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = defaults.SchemaVersion
	}
	if cfg.CreateMode == "" {
		cfg.CreateMode = defaults.CreateMode
	}
	if cfg.MaxRequest == 0 {
		cfg.MaxRequest = defaults.MaxRequest
	}
	if cfg.RunLogPath == "" {
		cfg.RunLogPath = defaults.RunLogPath
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = defaults.Watch.DebounceMs
	}
}
