// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/roomstate/lib/checkpoint"
	"github.com/bureau-foundation/roomstate/lib/ref"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "ROOMSTATE_CONFIG"

// ErrNotConfigured is returned by [Load] when EnvironmentVariable is
// unset. Callers that can run on defaults check for it with errors.Is.
var ErrNotConfigured = errors.New(EnvironmentVariable + " environment variable not set")

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the configuration for the room state tools.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// SelfUserID is the Matrix user whose point of view room names
	// are computed from. Empty means unknown.
	SelfUserID string `yaml:"self_user_id"`

	// Display configures terminal output.
	Display DisplayConfig `yaml:"display"`

	// Checkpoint configures where and how room state is saved.
	Checkpoint CheckpointConfig `yaml:"checkpoint"`

	// Log configures diagnostic logging.
	Log LogConfig `yaml:"log"`

	// Per-environment overrides, applied after the base config is
	// loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	SelfUserID string            `yaml:"self_user_id,omitempty"`
	Display    *DisplayConfig    `yaml:"display,omitempty"`
	Checkpoint *CheckpointConfig `yaml:"checkpoint,omitempty"`
	Log        *LogConfig        `yaml:"log,omitempty"`
}

// DisplayConfig configures how room and member names are rendered.
type DisplayConfig struct {
	// Color controls ANSI styling: "auto" (only on a terminal),
	// "always", or "never".
	// Default: auto
	Color string `yaml:"color"`

	// DisambiguationColor is the lipgloss color of the " (n)" suffix
	// that tells apart members sharing a display name. An ANSI index
	// ("245") or hex value ("#8a8a8a").
	// Default: 245
	DisambiguationColor string `yaml:"disambiguation_color"`

	// Style selects the disambiguation form: "position" for " (n)",
	// "user_id" for " (@user:server)".
	// Default: position
	Style string `yaml:"style"`
}

// CheckpointConfig configures saved room state.
type CheckpointConfig struct {
	// Directory is where checkpoints named by room are written when
	// no explicit path is given.
	// Default: ${HOME}/.cache/roomstate/checkpoints
	Directory string `yaml:"directory"`

	// Compression is "none", "lz4", or "zstd".
	// Default: zstd
	Compression string `yaml:"compression"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is a slog level name: debug, info, warn, error.
	// Default: info (development), warn (production)
	Level string `yaml:"level"`
}

var (
	colorModes         = []string{"auto", "always", "never"}
	disambiguationKind = []string{"position", "user_id"}
)

// Default returns the default configuration, used as the base every
// config file is merged into and by callers running without one.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Environment: Development,
		Display: DisplayConfig{
			Color:               "auto",
			DisambiguationColor: "245",
			Style:               "position",
		},
		Checkpoint: CheckpointConfig{
			Directory:   filepath.Join(homeDir, ".cache", "roomstate", "checkpoints"),
			Compression: "zstd",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the file named by ROOMSTATE_CONFIG.
// It returns ErrNotConfigured when the variable is unset; there is no
// discovery of config files in well-known places.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%w; set it to the path of a roomstate.yaml file, or use --config", ErrNotConfigured)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, applies the
// section for the configured environment, and expands ${VAR} and
// ${VAR:-default} in path fields. Environment variables never override
// values in the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production is quieter and never writes escape codes into
		// collected logs unless asked to.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Display: &DisplayConfig{Color: "never"},
				Log:     &LogConfig{Level: "warn"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.SelfUserID != "" {
		c.SelfUserID = overrides.SelfUserID
	}

	if overrides.Display != nil {
		if overrides.Display.Color != "" {
			c.Display.Color = overrides.Display.Color
		}
		if overrides.Display.DisambiguationColor != "" {
			c.Display.DisambiguationColor = overrides.Display.DisambiguationColor
		}
		if overrides.Display.Style != "" {
			c.Display.Style = overrides.Display.Style
		}
	}

	if overrides.Checkpoint != nil {
		if overrides.Checkpoint.Directory != "" {
			c.Checkpoint.Directory = overrides.Checkpoint.Directory
		}
		if overrides.Checkpoint.Compression != "" {
			c.Checkpoint.Compression = overrides.Checkpoint.Compression
		}
	}

	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Checkpoint.Directory = expandVars(c.Checkpoint.Directory, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.SelfUserID != "" {
		if _, err := ref.ParseUserID(c.SelfUserID); err != nil {
			errs = append(errs, fmt.Errorf("self_user_id: %w", err))
		}
	}

	if !slices.Contains(colorModes, c.Display.Color) {
		errs = append(errs, fmt.Errorf("display.color must be one of: %v", colorModes))
	}
	if !slices.Contains(disambiguationKind, c.Display.Style) {
		errs = append(errs, fmt.Errorf("display.style must be one of: %v", disambiguationKind))
	}

	if _, err := checkpoint.ParseCompression(c.Checkpoint.Compression); err != nil {
		errs = append(errs, fmt.Errorf("checkpoint.compression: %w", err))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// CheckpointPath returns the default checkpoint file for a room inside
// Checkpoint.Directory. The sigil is dropped and ':' and path
// separators become '_', so the result is always a direct child of
// the directory.
func (c *Config) CheckpointPath(roomID ref.RoomID) string {
	name := make([]byte, 0, len(roomID.String()))
	for _, character := range []byte(roomID.String()) {
		switch character {
		case '!':
			continue
		case ':', '/', '\\':
			name = append(name, '_')
		default:
			name = append(name, character)
		}
	}
	return filepath.Join(c.Checkpoint.Directory, string(name)+".rsck")
}

// EnsureCheckpointDirectory creates Checkpoint.Directory if needed.
func (c *Config) EnsureCheckpointDirectory() error {
	if c.Checkpoint.Directory == "" {
		return nil
	}
	if err := os.MkdirAll(c.Checkpoint.Directory, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", c.Checkpoint.Directory, err)
	}
	return nil
}
