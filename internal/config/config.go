// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/titanous/json5"
)

// Config represents the CLI configuration that can be loaded from a JSON5 file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Snapshots
	BeforeDir    string `json:"before_dir,omitempty" validate:"required"`    // Previous snapshot directory
	AfterDir     string `json:"after_dir,omitempty" validate:"required"`     // Current snapshot directory
	ReservedName string `json:"reserved_name,omitempty"`                     // Marker file kept in both directories

	// Logging
	LogPath string `json:"log_path,omitempty"` // Append-only run log
	Verbose bool   `json:"verbose,omitempty"`  // Log at DEBUG level

	// Post memory
	MemoryBackend string `json:"memory_backend,omitempty" validate:"omitempty,oneof=file postgres sqlite"`
	MemoryPath    string `json:"memory_path,omitempty"`                                                // File or SQLite path; each backend has its own default
	DatabaseURL   string `json:"database_url,omitempty" validate:"required_if=MemoryBackend postgres"` // PostgreSQL connection URL

	// Publishing
	ImagePath     string `json:"image_path,omitempty"`                              // Image attached to every post
	IOCFlags      bool   `json:"ioc_flags,omitempty"`                               // Resolve IOC codes (GER, NED...) to flags too
	APIBaseURL    string `json:"api_base_url,omitempty" validate:"omitempty,url"`    // X API v2 base URL
	UploadBaseURL string `json:"upload_base_url,omitempty" validate:"omitempty,url"` // X media upload base URL

	// Scraping
	BaseURL        string `json:"base_url,omitempty" validate:"omitempty,url"` // Records-by-category page prefix
	MenButtonXPath string `json:"men_button_xpath,omitempty"`                   // XPath of the men's tab
	TableSelector  string `json:"table_selector,omitempty"`                     // CSS selector of the records table
	Headful        bool   `json:"headful,omitempty"`                            // Show the browser window

	// Scheduling
	Schedule string `json:"schedule,omitempty"` // Cron spec for the schedule command
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BeforeDir:     "data/data_before",
		AfterDir:      "data/data_after",
		ReservedName:  "README.md",
		LogPath:       "log/log.log",
		MemoryBackend: "file",
		Schedule:      "0 6 * * *",
	}
}

// LoadConfig loads configuration from a JSON5 file (plain JSON is valid JSON5).
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config error: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("'%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("config error: %s", strings.Join(msgs, ", "))
	}

	if c.BeforeDir == c.AfterDir {
		return fmt.Errorf("config error: 'before_dir' and 'after_dir' must differ")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&result.BeforeDir, defaults.BeforeDir)
	fill(&result.AfterDir, defaults.AfterDir)
	fill(&result.ReservedName, defaults.ReservedName)
	fill(&result.LogPath, defaults.LogPath)
	fill(&result.MemoryBackend, defaults.MemoryBackend)
	fill(&result.MemoryPath, defaults.MemoryPath)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.ImagePath, defaults.ImagePath)
	fill(&result.APIBaseURL, defaults.APIBaseURL)
	fill(&result.UploadBaseURL, defaults.UploadBaseURL)
	fill(&result.BaseURL, defaults.BaseURL)
	fill(&result.MenButtonXPath, defaults.MenButtonXPath)
	fill(&result.TableSelector, defaults.TableSelector)
	fill(&result.Schedule, defaults.Schedule)

	// Bool fields: cannot distinguish unset from false, so we OR them
	result.Verbose = result.Verbose || defaults.Verbose
	result.IOCFlags = result.IOCFlags || defaults.IOCFlags
	result.Headful = result.Headful || defaults.Headful

	return result
}

// ApplyEnv fills settings that may come from the environment.
func (c *Config) ApplyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}
