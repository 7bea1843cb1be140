// Package config loads benchmark settings from an optional YAML file and
// the process environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file searched for when none is given.
const DefaultPath = ".toonbench.yml"

// EnvModel overrides the configured model name.
const EnvModel = "TOONBENCH_MODEL"

// Config holds every tunable of a benchmark run.
type Config struct {
	Model        string `yaml:"model"`
	Dataset      string `yaml:"dataset"`
	OutputDir    string `yaml:"output_dir"`
	CooldownMs   int    `yaml:"cooldown_ms"`
	ExcerptLimit int    `yaml:"excerpt_limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model:        "gemini-2.5-flash",
		Dataset:      "testdata/dataset.json",
		OutputDir:    "reports",
		CooldownMs:   15000,
		ExcerptLimit: 300,
	}
}

// Load reads, parses, normalizes, and validates a config file. A missing
// file at the default path falls back to defaults; an explicit path must
// exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return ApplyEnv(Default()), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	Normalize(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return ApplyEnv(cfg), nil
}

// Normalize fills unset fields with defaults.
func Normalize(cfg *Config) {
	defaults := Default()
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaults.Model
	}
	if strings.TrimSpace(cfg.Dataset) == "" {
		cfg.Dataset = defaults.Dataset
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		cfg.OutputDir = defaults.OutputDir
	}
	if cfg.CooldownMs == 0 {
		cfg.CooldownMs = defaults.CooldownMs
	}
	if cfg.ExcerptLimit == 0 {
		cfg.ExcerptLimit = defaults.ExcerptLimit
	}
}

// Validate rejects settings no run could use.
func Validate(cfg Config) error {
	if cfg.CooldownMs < 0 {
		return fmt.Errorf("cooldown_ms must be non-negative, got %d", cfg.CooldownMs)
	}
	if cfg.ExcerptLimit < 0 {
		return fmt.Errorf("excerpt_limit must be non-negative, got %d", cfg.ExcerptLimit)
	}
	return nil
}

// ApplyEnv layers environment overrides on top of file settings.
func ApplyEnv(cfg Config) Config {
	if model := strings.TrimSpace(os.Getenv(EnvModel)); model != "" {
		cfg.Model = model
	}
	return cfg
}
