// Package config loads imgstrip settings from ~/.imgstrip/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"imgstrip/internal/layout"
)

const (
	// PathEnv overrides the config file location.
	PathEnv = "IMGSTRIP_CONFIG"
	// LogFileEnv overrides Config.LogFile.
	LogFileEnv = "IMGSTRIP_LOG"
	// DefaultPath is relative to the user's home directory.
	DefaultPath = ".imgstrip/config.yaml"
	// ExportFileName is the fixed name of the exported composite.
	ExportFileName = "combined-image-hd.png"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Config holds user-tunable settings.
type Config struct {
	// Orientation is "horizontal" or "vertical".
	Orientation string `yaml:"orientation"`
	Gap         int    `yaml:"gap"`

	Preview ResolutionConfig `yaml:"preview"`
	Export  ResolutionConfig `yaml:"export"`

	// ExportDir is where the composite is written. Empty means the working directory.
	ExportDir string `yaml:"export_dir"`
	// Compression is "default", "speed" or "best".
	Compression string `yaml:"compression"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
}

// ResolutionConfig overrides a layout preset. Zero values keep the preset.
type ResolutionConfig struct {
	NormalizedSize float64 `yaml:"normalized_size"`
	MaxPrimaryAxis float64 `yaml:"max_primary_axis"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Orientation: layout.Horizontal.String(),
		Gap:         10,
		Preview: ResolutionConfig{
			NormalizedSize: layout.Preview.NormalizedSize,
			MaxPrimaryAxis: layout.Preview.MaxPrimaryAxis,
		},
		Export: ResolutionConfig{
			NormalizedSize: layout.Export.NormalizedSize,
		},
		Compression: "default",
		LogLevel:    "info",
	}
}

// Path returns the config file path, honoring IMGSTRIP_CONFIG.
func Path() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultPath), nil
}

// Load reads the config file at the default path.
func Load() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(p)
}

// LoadFile reads and parses path. A missing file yields Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(LogFileEnv); v != "" {
		c.LogFile = v
	}
}

// Validate rejects values layout cannot use.
func (c *Config) Validate() error {
	if _, ok := layout.ParseOrientation(c.Orientation); !ok {
		return fmt.Errorf("invalid orientation %q", c.Orientation)
	}
	if c.Gap < 0 {
		return fmt.Errorf("gap must be non-negative, got %d", c.Gap)
	}
	if c.Preview.NormalizedSize < 0 || c.Export.NormalizedSize < 0 {
		return fmt.Errorf("normalized_size must be non-negative")
	}
	if c.Preview.MaxPrimaryAxis < 0 || c.Export.MaxPrimaryAxis < 0 {
		return fmt.Errorf("max_primary_axis must be non-negative")
	}
	switch c.Compression {
	case "", "default", "speed", "best":
	default:
		return fmt.Errorf("invalid compression %q", c.Compression)
	}
	return nil
}

// InitialOrientation returns the parsed orientation, defaulting to horizontal.
func (c *Config) InitialOrientation() layout.Orientation {
	o, _ := layout.ParseOrientation(c.Orientation)
	return o
}

// PreviewParams returns the preview preset with config overrides applied.
func (c *Config) PreviewParams() layout.Params {
	return c.Preview.apply(layout.Preview)
}

// ExportParams returns the export preset with config overrides applied.
func (c *Config) ExportParams() layout.Params {
	return c.Export.apply(layout.Export)
}

func (r ResolutionConfig) apply(p layout.Params) layout.Params {
	if r.NormalizedSize > 0 {
		p.NormalizedSize = r.NormalizedSize
	}
	if r.MaxPrimaryAxis > 0 {
		p.MaxPrimaryAxis = r.MaxPrimaryAxis
	}
	return p
}

// expandEnvVars replaces ${VAR} with the environment value.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}
