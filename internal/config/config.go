// Package config loads and validates toolshed configuration.
// Configuration lives in a YAML file under the user config directory
// (~/.config/toolshed/config.yaml by default) and every field can be
// overridden through TOOLSHED_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all toolshed configuration.
type Config struct {
	// Converter settings
	Converter ConverterConfig `yaml:"converter"`

	// Timer settings
	Timer TimerConfig `yaml:"timer"`

	// Resume checker settings
	Checker CheckerConfig `yaml:"checker"`

	// Link opener settings
	Opener OpenerConfig `yaml:"opener"`

	// Run history persistence
	History HistoryConfig `yaml:"history"`
}

// ConverterConfig configures the parquet-to-CSV converter.
type ConverterConfig struct {
	// BatchSize is the number of rows fetched per cursor batch in
	// streaming conversions.
	BatchSize int `yaml:"batch_size"`

	// Parallelism bounds concurrent file conversions in batch mode.
	Parallelism int `yaml:"parallelism"`

	// Delimiter is the CSV field separator (single rune).
	Delimiter string `yaml:"delimiter"`
}

// TimerConfig configures the countdown presets.
type TimerConfig struct {
	Focus      time.Duration `yaml:"focus"`
	ShortBreak time.Duration `yaml:"short_break"`
	LongBreak  time.Duration `yaml:"long_break"`
}

// CheckerConfig configures the resume checker.
type CheckerConfig struct {
	// MinWords and MaxWords bound the recommended resume length.
	MinWords int `yaml:"min_words"`
	MaxWords int `yaml:"max_words"`
}

// OpenerConfig configures the bulk link opener.
type OpenerConfig struct {
	// MaxLinks caps how many tabs one run may open.
	MaxLinks int `yaml:"max_links"`

	// OpenDelay is the pause between consecutive opens.
	OpenDelay time.Duration `yaml:"open_delay"`

	// Dedupe drops duplicate URLs within a single run.
	Dedupe bool `yaml:"dedupe"`

	// BrowserBin is an explicit browser binary for the managed browser.
	// Empty means auto-detect, falling back to the OS opener.
	BrowserBin string `yaml:"browser_bin"`
}

// HistoryConfig configures the SQLite run history.
type HistoryConfig struct {
	// DatabasePath is the SQLite file location. Empty disables history.
	DatabasePath string `yaml:"database_path"`

	// Keep is how many entries `toolshed history` lists by default.
	Keep int `yaml:"keep"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Converter: ConverterConfig{
			BatchSize:   2048,
			Parallelism: 4,
			Delimiter:   ",",
		},
		Timer: TimerConfig{
			Focus:      25 * time.Minute,
			ShortBreak: 5 * time.Minute,
			LongBreak:  15 * time.Minute,
		},
		Checker: CheckerConfig{
			MinWords: 200,
			MaxWords: 1200,
		},
		Opener: OpenerConfig{
			MaxLinks:  50,
			OpenDelay: 150 * time.Millisecond,
			Dedupe:    true,
		},
		History: HistoryConfig{
			DatabasePath: defaultHistoryPath(),
			Keep:         20,
		},
	}
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "toolshed", "history.db")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "toolshed", "config.yaml")
}

// Load reads the config file at path, overlaying it on the defaults and
// then applying environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from TOOLSHED_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("TOOLSHED_HISTORY_DB"); v != "" {
		c.History.DatabasePath = v
	}
	if v := os.Getenv("TOOLSHED_BROWSER_BIN"); v != "" {
		c.Opener.BrowserBin = v
	}
	if v := os.Getenv("TOOLSHED_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Converter.BatchSize = n
		}
	}
	if v := os.Getenv("TOOLSHED_MAX_LINKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Opener.MaxLinks = n
		}
	}
}

// Validate rejects configurations the tools cannot run with.
func (c *Config) Validate() error {
	if c.Converter.BatchSize < 1 {
		return fmt.Errorf("converter.batch_size must be >= 1, got %d", c.Converter.BatchSize)
	}
	if c.Converter.Parallelism < 1 {
		return fmt.Errorf("converter.parallelism must be >= 1, got %d", c.Converter.Parallelism)
	}
	if len([]rune(c.Converter.Delimiter)) != 1 {
		return fmt.Errorf("converter.delimiter must be a single character, got %q", c.Converter.Delimiter)
	}
	if c.Timer.Focus <= 0 || c.Timer.ShortBreak <= 0 || c.Timer.LongBreak <= 0 {
		return fmt.Errorf("timer presets must be positive durations")
	}
	if c.Checker.MinWords < 0 || c.Checker.MaxWords <= c.Checker.MinWords {
		return fmt.Errorf("checker word bounds invalid: min=%d max=%d", c.Checker.MinWords, c.Checker.MaxWords)
	}
	if c.Opener.MaxLinks < 1 {
		return fmt.Errorf("opener.max_links must be >= 1, got %d", c.Opener.MaxLinks)
	}
	return nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
