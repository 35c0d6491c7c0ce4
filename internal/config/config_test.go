// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// isolateHome points the config directory at a temporary location.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, env := range []string{"STUDYDESK_API_BASE_URL", "STUDYDESK_QUESTION_COUNT", "STUDYDESK_LOG_LEVEL", "STUDYDESK_THEME"} {
		t.Setenv(env, "")
	}
	return home
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	// 50 writers using SetGlobal, 50 readers using Global
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.Workspace.QuestionCount = 5
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

// TestConfig_GlobalInitialization tests that Global() properly initializes
// the config on first access.
func TestConfig_GlobalInitialization(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()

	cfg := Global()
	if cfg == nil {
		t.Fatal("Global() returned nil")
	}
	if cfg.Service.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("BaseURL = %q", cfg.Service.BaseURL)
	}
}

// TestConfig_SetGlobalOverwrites tests that SetGlobal properly overwrites
// the existing global config.
func TestConfig_SetGlobalOverwrites(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()
	_ = Global()

	custom := Default()
	custom.Service.BaseURL = "http://docs.internal:9000"
	SetGlobal(custom)

	if got := Global().Service.BaseURL; got != "http://docs.internal:9000" {
		t.Errorf("Expected custom base URL, got '%s'", got)
	}
}

// TestConfig_Default tests that Default() returns a valid config with defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.Service.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("Expected default base URL, got '%s'", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout() != 0 {
		t.Error("Default config should not time out requests")
	}
	if cfg.Workspace.QuestionCount != 8 {
		t.Errorf("Expected 8 questions, got %d", cfg.Workspace.QuestionCount)
	}
	if cfg.Notifications.Workspace() != 4*time.Second {
		t.Errorf("Workspace notification duration = %v", cfg.Notifications.Workspace())
	}
	if cfg.Notifications.Upload() != 5*time.Second {
		t.Errorf("Upload notification duration = %v", cfg.Notifications.Upload())
	}
	if cfg.Service.MaxResponseBytes() != 10<<20 {
		t.Errorf("MaxResponseBytes = %d", cfg.Service.MaxResponseBytes())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid default config", mutate: func(c *Config) {}},
		{name: "relative base url", mutate: func(c *Config) { c.Service.BaseURL = "localhost" }, wantErr: "service.base_url"},
		{name: "ftp base url", mutate: func(c *Config) { c.Service.BaseURL = "ftp://host" }, wantErr: "service.base_url"},
		{name: "negative timeout", mutate: func(c *Config) { c.Service.TimeoutSecs = -1 }, wantErr: "service.timeout_secs"},
		{name: "negative pacing", mutate: func(c *Config) { c.Service.RequestsPerMinute = -5 }, wantErr: "service.requests_per_minute"},
		{name: "zero questions", mutate: func(c *Config) { c.Workspace.QuestionCount = 0 }, wantErr: "workspace.question_count"},
		{name: "too many questions", mutate: func(c *Config) { c.Workspace.QuestionCount = 51 }, wantErr: "workspace.question_count"},
		{name: "zero toast duration", mutate: func(c *Config) { c.Notifications.UploadSecs = 0 }, wantErr: "notifications.upload_secs"},
		{name: "invalid theme", mutate: func(c *Config) { c.UI.Theme = "neon" }, wantErr: "ui.theme"},
		{name: "invalid level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "invalid export format", mutate: func(c *Config) { c.Export.Format = "pdf" }, wantErr: "export.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error on %s", tt.wantErr)
			}
			if _, ok := err.(ValidateErrors); !ok {
				t.Errorf("Validate() error type = %T, want ValidateErrors", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

// TestConfig_EnvOverrides tests that STUDYDESK_* variables override the file.
func TestConfig_EnvOverrides(t *testing.T) {
	isolateHome(t)
	t.Setenv("STUDYDESK_API_BASE_URL", "https://api.example.com/")
	t.Setenv("STUDYDESK_QUESTION_COUNT", "12")
	t.Setenv("STUDYDESK_LOG_LEVEL", "DEBUG")
	t.Setenv("STUDYDESK_THEME", "light")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", cfg.Service.BaseURL)
	}
	if cfg.Workspace.QuestionCount != 12 {
		t.Errorf("QuestionCount = %d", cfg.Workspace.QuestionCount)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

// TestConfig_SaveAndLoad tests a TOML round trip through the config directory.
func TestConfig_SaveAndLoad(t *testing.T) {
	home := isolateHome(t)

	cfg := Default()
	cfg.Service.BaseURL = "http://10.0.0.5:8000"
	cfg.Notifications.WorkspaceSecs = 6
	cfg.Export.Format = "html"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path := filepath.Join(home, ".studydesk", "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "# studydesk configuration file") {
		t.Error("config file should start with the header comment")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Service.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("BaseURL = %q", loaded.Service.BaseURL)
	}
	if loaded.Notifications.WorkspaceSecs != 6 {
		t.Errorf("WorkspaceSecs = %d", loaded.Notifications.WorkspaceSecs)
	}
	if loaded.Export.Format != "html" {
		t.Errorf("Format = %q", loaded.Export.Format)
	}
}

// TestConfig_LoadFromPathFillsDefaults tests that a partial file keeps defaults.
func TestConfig_LoadFromPathFillsDefaults(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "partial.toml")
	content := "[service]\nbase_url = \"http://docs:8000\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Service.BaseURL != "http://docs:8000" {
		t.Errorf("BaseURL = %q", cfg.Service.BaseURL)
	}
	if cfg.Workspace.QuestionCount != 8 {
		t.Errorf("QuestionCount = %d, want default 8", cfg.Workspace.QuestionCount)
	}
}

// TestConfig_LoadInvalidTOML tests that a broken file falls back to defaults.
func TestConfig_LoadInvalidTOML(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".studydesk")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[service\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err == nil {
		t.Error("Load() should report the decode error")
	}
	if cfg == nil || cfg.Service.BaseURL != "http://127.0.0.1:8000" {
		t.Error("Load() should fall back to defaults")
	}
}

// TestConfig_GetSet tests Get and Set methods with dot notation.
func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("service.base_url")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != "http://127.0.0.1:8000" {
		t.Errorf("Get('service.base_url') = %v", val)
	}

	if err := cfg.Set("workspace.question_count", "10"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.Workspace.QuestionCount != 10 {
		t.Errorf("QuestionCount after Set = %d", cfg.Workspace.QuestionCount)
	}

	if err := cfg.Set("ui.show_help", "false"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.UI.ShowHelp {
		t.Error("ShowHelp should be false")
	}

	if _, err := cfg.Get("invalid.key"); err == nil {
		t.Error("Get() with invalid key should return error")
	}
	if _, err := cfg.Get("service.base_url.extra"); err == nil {
		t.Error("Get() through a non-struct should return error")
	}
}

// TestConfig_AllKeysResolve tests that every advertised key can be read.
func TestConfig_AllKeysResolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) error = %v", key, err)
		}
	}
}

// TestConfig_String tests that String renders TOML.
func TestConfig_String(t *testing.T) {
	out := Default().String()
	for _, want := range []string{"[service]", "base_url", "[notifications]", "question_count"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q", want)
		}
	}
}

// TestConfig_Clone tests that Clone creates an independent copy.
func TestConfig_Clone(t *testing.T) {
	original := Default()
	clone := original.Clone()
	clone.Service.BaseURL = "http://other"

	if original.Service.BaseURL == "http://other" {
		t.Error("Clone should create an independent copy")
	}
}
