// Package config loads and persists retrofit configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for retrofit.
type Config struct {
	// Marker is the prefix applied to renamed components and prop types.
	Marker string `yaml:"marker" env:"RETROFIT_MARKER"`

	// ProtectedPackage is the module specifier whose imported bindings
	// are never renamed.
	ProtectedPackage string `yaml:"protected_package" env:"RETROFIT_PROTECTED_PACKAGE"`

	// TypeSuffix is the conventional prop-type suffix (Props).
	TypeSuffix string `yaml:"type_suffix" env:"RETROFIT_TYPE_SUFFIX"`

	// SourceDir and OutputDir are the default batch directories.
	SourceDir string `yaml:"source_dir" env:"RETROFIT_SOURCE_DIR"`
	OutputDir string `yaml:"output_dir" env:"RETROFIT_OUTPUT_DIR"`

	// Workers is the batch parallelism. Zero means one worker per CPU.
	Workers int `yaml:"workers" env:"RETROFIT_WORKERS"`

	// Cache enables the batch result cache.
	Cache bool `yaml:"cache" env:"RETROFIT_CACHE"`

	// Logging
	Verbose bool `yaml:"verbose" env:"RETROFIT_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Marker:           "Trailhead",
		ProtectedPackage: "react",
		TypeSuffix:       "Props",
		SourceDir:        "vendor-ui",
		OutputDir:        "components",
		Workers:          0,
		Cache:            true,
		Verbose:          false,
	}
}

// globalConfigFilePath returns the global config file path (~/.retrofit/config.yaml)
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".retrofit/config.yaml"
	}
	return filepath.Join(home, ".retrofit", "config.yaml")
}

// ProjectConfigFilePath returns the project-level config file path.
func ProjectConfigFilePath() string {
	return ".retrofit/config.yaml"
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Project-level config (./.retrofit/config.yaml)
// 3. Global config (~/.retrofit/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	globalConfigPath := globalConfigFilePath()
	if data, err := os.ReadFile(globalConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", globalConfigPath, err)
		}
	}

	projectConfigPath := ProjectConfigFilePath()
	if data, err := os.ReadFile(projectConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", projectConfigPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RETROFIT_MARKER"); v != "" {
		cfg.Marker = v
	}
	if v := os.Getenv("RETROFIT_PROTECTED_PACKAGE"); v != "" {
		cfg.ProtectedPackage = v
	}
	if v := os.Getenv("RETROFIT_TYPE_SUFFIX"); v != "" {
		cfg.TypeSuffix = v
	}
	if v := os.Getenv("RETROFIT_SOURCE_DIR"); v != "" {
		cfg.SourceDir = v
	}
	if v := os.Getenv("RETROFIT_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("RETROFIT_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			cfg.Workers = i
		}
	}
	if v := os.Getenv("RETROFIT_CACHE"); v != "" {
		cfg.Cache = v == "true" || v == "1" || v == "yes"
	}
	if v := os.Getenv("RETROFIT_VERBOSE"); v != "" {
		cfg.Verbose = v == "true" || v == "1" || v == "yes"
	}
}

// Validate checks that the configuration has valid required fields.
func (c *Config) Validate() error {
	if c.Marker == "" {
		return fmt.Errorf("marker must not be empty")
	}
	for _, r := range c.Marker {
		if !isWordRune(r) {
			return fmt.Errorf("marker %q must be a valid identifier prefix", c.Marker)
		}
	}
	if c.Marker[0] >= 'a' && c.Marker[0] <= 'z' {
		return fmt.Errorf("marker %q must start with an uppercase letter", c.Marker)
	}
	if c.ProtectedPackage == "" {
		return fmt.Errorf("protected_package must not be empty")
	}
	if c.TypeSuffix == "" {
		return fmt.Errorf("type_suffix must not be empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}
	return nil
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	}
	return false
}
