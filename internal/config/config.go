// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for studydesk.
//
// Configuration is read from a TOML file, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file location:
//   - ~/.studydesk/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/studydesk/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete studydesk configuration.
type Config struct {
	// Document service connection
	Service ServiceConfig `toml:"service"`

	// Workspace behaviour
	Workspace WorkspaceConfig `toml:"workspace"`

	// Transient notification timing
	Notifications NotificationsConfig `toml:"notifications"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Log output
	Logging LoggingConfig `toml:"logging"`

	// Workspace export
	Export ExportConfig `toml:"export"`
}

// ServiceConfig describes how to reach the document service.
type ServiceConfig struct {
	// BaseURL is the root URL of the document service
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds each request; 0 waits for the service indefinitely
	TimeoutSecs int `toml:"timeout_secs"`
	// RequestsPerMinute paces outgoing requests; 0 disables pacing
	RequestsPerMinute int `toml:"requests_per_minute"`
	// MaxResponseMB caps the size of a response body
	MaxResponseMB int `toml:"max_response_mb"`
}

// WorkspaceConfig contains settings for the study workspace.
type WorkspaceConfig struct {
	// QuestionCount is the number of practice questions requested per generation
	QuestionCount int `toml:"question_count"`
}

// NotificationsConfig holds how long notifications stay visible.
type NotificationsConfig struct {
	// WorkspaceSecs applies to generation, grading, copy and export notifications
	WorkspaceSecs int `toml:"workspace_secs"`
	// UploadSecs applies to the upload screen
	UploadSecs int `toml:"upload_secs"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowHelp shows the key help line at the bottom of the screen
	ShowHelp bool `toml:"show_help"`
}

// LoggingConfig controls the structured log.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level"`
	// File is the log file path; empty uses ~/.studydesk/studydesk.log
	File string `toml:"file"`
	// MaxSizeMB is the size at which the log file is rotated
	MaxSizeMB int `toml:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep
	MaxBackups int `toml:"max_backups"`
	// MaxAgeDays is how long rotated files are kept
	MaxAgeDays int `toml:"max_age_days"`
}

// ExportConfig contains workspace export settings.
type ExportConfig struct {
	// Dir is the output directory; empty uses the current directory
	Dir string `toml:"dir"`
	// Format is the default export format: "markdown", "html", "json"
	Format string `toml:"format"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:           "http://127.0.0.1:8000",
			TimeoutSecs:       0, // no timeout; requests run to completion
			RequestsPerMinute: 0, // unlimited
			MaxResponseMB:     10,
		},

		Workspace: WorkspaceConfig{
			QuestionCount: 8,
		},

		Notifications: NotificationsConfig{
			WorkspaceSecs: 4,
			UploadSecs:    5,
		},

		UI: UIConfig{
			Theme:    "dark",
			ShowHelp: true,
		},

		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},

		Export: ExportConfig{
			Format: "markdown",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the studydesk configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".studydesk"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file and falls back to
// defaults when it does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
				cfg = Default()
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Return the config with any load error for informational purposes
	return cfg, loadErr
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	// Service
	if cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = defaults.Service.BaseURL
	}
	if cfg.Service.MaxResponseMB == 0 {
		cfg.Service.MaxResponseMB = defaults.Service.MaxResponseMB
	}

	// Workspace
	if cfg.Workspace.QuestionCount == 0 {
		cfg.Workspace.QuestionCount = defaults.Workspace.QuestionCount
	}

	// Notifications
	if cfg.Notifications.WorkspaceSecs == 0 {
		cfg.Notifications.WorkspaceSecs = defaults.Notifications.WorkspaceSecs
	}
	if cfg.Notifications.UploadSecs == 0 {
		cfg.Notifications.UploadSecs = defaults.Notifications.UploadSecs
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	// Logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = defaults.Logging.MaxSizeMB
	}

	// Export
	if cfg.Export.Format == "" {
		cfg.Export.Format = defaults.Export.Format
	}

	return nil
}

// SetDefaults normalizes values that were set but are unusable as given.
func (c *Config) SetDefaults() {
	c.Service.BaseURL = strings.TrimRight(strings.TrimSpace(c.Service.BaseURL), "/")
	c.UI.Theme = strings.ToLower(c.UI.Theme)
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Export.Format = strings.ToLower(c.Export.Format)
	if c.Export.Format == "md" {
		c.Export.Format = "markdown"
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Timeout returns the request timeout, zero meaning none.
func (s ServiceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// MaxResponseBytes returns the response size cap in bytes.
func (s ServiceConfig) MaxResponseBytes() int64 {
	return int64(s.MaxResponseMB) << 20
}

// Workspace returns the display time of workspace notifications.
func (n NotificationsConfig) Workspace() time.Duration {
	return time.Duration(n.WorkspaceSecs) * time.Second
}

// Upload returns the display time of upload notifications.
func (n NotificationsConfig) Upload() time.Duration {
	return time.Duration(n.UploadSecs) * time.Second
}

// LogPath returns the configured log file, or the default inside ConfigDir.
func (l LoggingConfig) LogPath() (string, error) {
	if l.File != "" {
		return l.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "studydesk.log"), nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# studydesk configuration file")
	fmt.Fprintln(&buf, "# Generated by studydesk - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Service
	if u, err := url.Parse(c.Service.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "service.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be absolute (e.g. http://127.0.0.1:8000)", c.Service.BaseURL),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{
			Field:   "service.base_url",
			Message: fmt.Sprintf("unsupported scheme '%s', must be http or https", u.Scheme),
		})
	}
	if c.Service.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "service.timeout_secs", Message: "must not be negative"})
	}
	if c.Service.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{Field: "service.requests_per_minute", Message: "must not be negative"})
	}
	if c.Service.MaxResponseMB < 1 || c.Service.MaxResponseMB > 512 {
		errs = append(errs, ValidationError{
			Field:   "service.max_response_mb",
			Message: fmt.Sprintf("value %d out of range, must be between 1 and 512", c.Service.MaxResponseMB),
		})
	}

	// Workspace
	if c.Workspace.QuestionCount < 1 || c.Workspace.QuestionCount > 50 {
		errs = append(errs, ValidationError{
			Field:   "workspace.question_count",
			Message: fmt.Sprintf("value %d out of range, must be between 1 and 50", c.Workspace.QuestionCount),
		})
	}

	// Notifications
	if c.Notifications.WorkspaceSecs < 1 {
		errs = append(errs, ValidationError{Field: "notifications.workspace_secs", Message: "must be at least 1"})
	}
	if c.Notifications.UploadSecs < 1 {
		errs = append(errs, ValidationError{Field: "notifications.upload_secs", Message: "must be at least 1"})
	}

	// UI
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[c.UI.Theme] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	// Logging
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}
	if c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		errs = append(errs, ValidationError{Field: "logging", Message: "max_backups and max_age_days must not be negative"})
	}

	// Export
	validFormats := map[string]bool{"markdown": true, "html": true, "json": true}
	if !validFormats[c.Export.Format] {
		errs = append(errs, ValidationError{
			Field:   "export.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: markdown, html, json", c.Export.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// Supported environment variables:
//   - STUDYDESK_API_BASE_URL: overrides service.base_url
//   - STUDYDESK_QUESTION_COUNT: overrides workspace.question_count
//   - STUDYDESK_LOG_LEVEL: overrides logging.level
//   - STUDYDESK_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if base := os.Getenv("STUDYDESK_API_BASE_URL"); base != "" {
		c.Service.BaseURL = base
	}

	if count := os.Getenv("STUDYDESK_QUESTION_COUNT"); count != "" {
		if n, err := strconv.Atoi(count); err == nil {
			c.Workspace.QuestionCount = n
		}
	}

	if level := os.Getenv("STUDYDESK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if theme := os.Getenv("STUDYDESK_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "service.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "workspace.question_count").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"service.base_url",
		"service.timeout_secs",
		"service.requests_per_minute",
		"service.max_response_mb",
		"workspace.question_count",
		"notifications.workspace_secs",
		"notifications.upload_secs",
		"ui.theme",
		"ui.show_help",
		"logging.level",
		"logging.file",
		"logging.max_size_mb",
		"logging.max_backups",
		"logging.max_age_days",
		"export.dir",
		"export.format",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
