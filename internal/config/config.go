// Package config provides configuration management for repostat.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sync engines.
const (
	EngineCLI    = "cli"
	EngineNative = "native"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// EnvPrefix prefixes environment overrides, e.g. REPOSTAT_SYNC_ENGINE.
const EnvPrefix = "REPOSTAT"

// Config holds all configuration for repostat.
type Config struct {
	Git           GitConfig          `mapstructure:"git"`
	Sync          SyncConfig         `mapstructure:"sync"`
	Output        OutputConfig       `mapstructure:"output"`
	Labels        LabelConfig        `mapstructure:"labels"`
	Theme         ThemeConfig        `mapstructure:"theme"`
	Notifications NotificationConfig `mapstructure:"notifications"`

	// Source is the file the configuration was read from, empty when only
	// defaults and environment were used.
	Source string `mapstructure:"-"`
}

// GitConfig holds settings for the git command line.
type GitConfig struct {
	Binary string `mapstructure:"binary"`
}

// SyncConfig holds sync check settings.
type SyncConfig struct {
	Engine  string        `mapstructure:"engine"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	Color       string `mapstructure:"color"`
	Sort        bool   `mapstructure:"sort"`
	ColumnWidth int    `mapstructure:"column_width"`
}

// LabelConfig holds the verdict texts.
type LabelConfig struct {
	Clean    string `mapstructure:"clean"`
	Dirty    string `mapstructure:"dirty"`
	Synced   string `mapstructure:"synced"`
	Unsynced string `mapstructure:"unsynced"`
}

// ThemeConfig holds verdict colors. Values are lipgloss colors: ANSI
// indexes ("2") or hex ("#10B981").
type ThemeConfig struct {
	Clean    string `mapstructure:"clean"`
	Dirty    string `mapstructure:"dirty"`
	Synced   string `mapstructure:"synced"`
	Unsynced string `mapstructure:"unsynced"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DefaultThemeConfig returns green/red for the working tree and
// green/blue for sync.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		Clean:    "2",
		Dirty:    "1",
		Synced:   "2",
		Unsynced: "4",
	}
}

// DefaultLabelConfig returns the default verdict texts.
func DefaultLabelConfig() LabelConfig {
	return LabelConfig{
		Clean:    "Clean",
		Dirty:    "Commit!",
		Synced:   "Synced",
		Unsynced: "Push!",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Git: GitConfig{
			Binary: "git",
		},
		Sync: SyncConfig{
			Engine: EngineCLI,
		},
		Output: OutputConfig{
			Color:       ColorAuto,
			ColumnWidth: 10,
		},
		Labels: DefaultLabelConfig(),
		Theme:  DefaultThemeConfig(),
	}
}

// Load reads the configuration file at path over the defaults, then applies
// REPOSTAT_* environment overrides. An empty path means the default
// location, where a missing file, or no config directory at all, is not an
// error. Load never writes files.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		// Without a config directory only defaults and environment apply.
		path, _ = GetConfigPath()
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	source := ""
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			source = path
		} else if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := checkDurationUnits(v, "sync.timeout"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	switch c.Sync.Engine {
	case EngineCLI, EngineNative:
	default:
		return fmt.Errorf("invalid sync engine %q: want %s or %s", c.Sync.Engine, EngineCLI, EngineNative)
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q: want %s, %s or %s", c.Output.Color, ColorAuto, ColorAlways, ColorNever)
	}

	if c.Output.ColumnWidth < 1 {
		return fmt.Errorf("invalid column width %d: must be at least 1", c.Output.ColumnWidth)
	}
	if c.Sync.Timeout < 0 {
		return fmt.Errorf("invalid sync timeout %s: must not be negative", c.Sync.Timeout)
	}
	if c.Git.Binary == "" {
		return errors.New("git binary must not be empty")
	}

	return nil
}

// checkDurationUnits rejects bare numbers for duration keys. TOML integers
// would otherwise decode as nanoseconds.
func checkDurationUnits(v *viper.Viper, keys ...string) error {
	for _, key := range keys {
		switch n := v.Get(key).(type) {
		case int, int32, int64, uint, uint32, uint64, float32, float64:
			if fmt.Sprint(n) != "0" {
				return fmt.Errorf("invalid %s %v: needs a unit, e.g. \"%vs\"", key, n, n)
			}
		}
	}
	return nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "repostat", "config.toml"), nil
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("git.binary", defaults.Git.Binary)
	v.SetDefault("sync.engine", defaults.Sync.Engine)
	v.SetDefault("sync.timeout", defaults.Sync.Timeout.String())
	v.SetDefault("output.color", defaults.Output.Color)
	v.SetDefault("output.sort", defaults.Output.Sort)
	v.SetDefault("output.column_width", defaults.Output.ColumnWidth)
	v.SetDefault("labels.clean", defaults.Labels.Clean)
	v.SetDefault("labels.dirty", defaults.Labels.Dirty)
	v.SetDefault("labels.synced", defaults.Labels.Synced)
	v.SetDefault("labels.unsynced", defaults.Labels.Unsynced)
	v.SetDefault("theme.clean", defaults.Theme.Clean)
	v.SetDefault("theme.dirty", defaults.Theme.Dirty)
	v.SetDefault("theme.synced", defaults.Theme.Synced)
	v.SetDefault("theme.unsynced", defaults.Theme.Unsynced)
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
}
