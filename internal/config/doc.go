// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for studydesk.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServiceConfig: Document service URL, timeout, pacing and size limits
//   - NotificationsConfig: Display time of workspace and upload notifications
//   - LoggingConfig: Log level and rotation of the log file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command line flags (--base-url, --config)
//   - Environment variables (STUDYDESK_*)
//   - ~/.studydesk/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	base := cfg.Service.BaseURL
//	toast := cfg.Notifications.Workspace()
package config
