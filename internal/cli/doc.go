// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli is the datachat command line.
//
// The root command runs the full-screen chat when stdout is a terminal and
// the plain line mode otherwise (or with --plain). Subcommands:
//
//	datachat probe              check that the analysis service is up
//	datachat config show        print the effective configuration
//	datachat config get KEY     print one value (dot notation)
//	datachat config set KEY VAL write one value to the config file
//	datachat config path        print the config file location
package cli
