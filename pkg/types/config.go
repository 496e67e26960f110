// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Config defaults, shared by the CLI flag definitions and `init`.
const (
	DefaultDelimiter     = "//~"
	DefaultOutput        = "SPECIFICATION.md"
	DefaultCacheDir      = ".spec-cache"
	DefaultMemoryEntries = 256
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"

	// OutputStdout selects standard output instead of a file.
	OutputStdout = "-"
)

// CacheConfig holds settings for the extraction cache.
type CacheConfig struct {
	// Enabled turns on the SQLite-backed cache.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Dir is the directory holding extract.db.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MemoryEntries is the size of the in-process LRU in front of the database.
	MemoryEntries int `json:"memory_entries" yaml:"memory_entries" mapstructure:"memory_entries"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config is the full tool configuration, read from spec-assembler.yaml,
// SPEC_ASSEMBLER_* environment variables, and flags.
type Config struct {
	// Delimiter marks a spec comment in source files (e.g. "//~").
	Delimiter string `json:"delimiter" yaml:"delimiter" mapstructure:"delimiter"`

	// Files lists source paths or glob patterns in assembly order.
	Files []string `json:"files" yaml:"files" mapstructure:"files"`

	// Output is the path of the assembled document, or "-" for stdout.
	Output string `json:"output" yaml:"output" mapstructure:"output"`

	// Title is written into the front matter when Frontmatter is set.
	Title string `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`

	// Frontmatter prepends a YAML header listing the sources.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter" mapstructure:"frontmatter"`

	// SkipFailures reports failing files and continues instead of aborting.
	SkipFailures bool `json:"skip_failures" yaml:"skip_failures" mapstructure:"skip_failures"`

	Cache CacheConfig `json:"cache" yaml:"cache" mapstructure:"cache"`
	Log   LogConfig   `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Delimiter: DefaultDelimiter,
		Files:     []string{},
		Output:    DefaultOutput,
		Cache: CacheConfig{
			Dir:           DefaultCacheDir,
			MemoryEntries: DefaultMemoryEntries,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
)

// Validate reports every invalid setting in c.
func (c Config) Validate() error {
	var errs []error
	if c.Delimiter == "" {
		errs = append(errs, errors.New("delimiter must not be empty"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output must not be empty"))
	}
	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Errorf("log.level %q: want debug, info, warn, or error", c.Log.Level))
	}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}
	if c.Cache.Enabled {
		if c.Cache.Dir == "" {
			errs = append(errs, errors.New("cache.dir must not be empty when the cache is enabled"))
		}
		if c.Cache.MemoryEntries <= 0 {
			errs = append(errs, fmt.Errorf("cache.memory_entries %d: must be positive", c.Cache.MemoryEntries))
		}
	}
	return errors.Join(errs...)
}
