// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for datachat.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServerConfig: Analysis service location and transfer limits
//   - UIConfig: Layout breakpoint and terminal cell conversion
//   - StorageConfig, LogConfig: Preference store and log file locations
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (DATACHAT_*), including a .env file in the
//     working directory
//   - ~/.datachat/config.toml (or the path given with --config)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	client := analysis.NewClient(cfg.Server.BaseURL)
package config
