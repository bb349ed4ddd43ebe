// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/datachat-tui/internal/config"
	"github.com/jeranaias/datachat-tui/internal/ui/styles"
)

var (
	configTitleStyle = lipgloss.NewStyle().Foreground(styles.Indigo).Bold(true)
	configKeyStyle   = lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(28)
	configValueStyle = lipgloss.NewStyle().Foreground(styles.Teal)
	configPathStyle  = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
)

func newConfigCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfig(cmd.OutOrStdout(), rt.cfg, rt.configFile())
			},
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print one value, e.g. server.base_url",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := rt.cfg.Get(args[0])
				if err != nil {
					return &UsageError{Message: err.Error()}
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Write one value to the config file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := rt.configFile()
				if err := setConfigValue(path, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess(fmt.Sprintf("%s = %s", args[0], args[1])))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), rt.configFile())
				return nil
			},
		},
	)
	return cmd
}

// configFile is the --config path or the default location.
func (rt *runtime) configFile() string {
	if rt.flags.configPath != "" {
		return rt.flags.configPath
	}
	path, err := config.ConfigPath()
	if err != nil {
		return "config.toml"
	}
	return path
}

// setConfigValue updates one key in the file at path. Environment overrides
// are not written back.
func setConfigValue(path, key, value string) error {
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return &ConfigError{Err: err}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return &ConfigError{Err: err}
	}

	if err := cfg.Set(key, value); err != nil {
		return &UsageError{Message: err.Error()}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Err: err}
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return &ConfigError{Err: err}
	}
	return nil
}

func showConfig(w io.Writer, cfg *config.Config, path string) error {
	fmt.Fprintln(w, configTitleStyle.Render("datachat configuration"))
	fmt.Fprintln(w, strings.Repeat("=", 41))

	section := ""
	for _, key := range config.GetAllKeys() {
		name, _, _ := strings.Cut(key, ".")
		if name != section {
			section = name
			fmt.Fprintf(w, "\n[%s]\n", section)
		}
		v, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s%s\n", configKeyStyle.Render(key), configValueStyle.Render(fmt.Sprint(v)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 41))
	fmt.Fprintf(w, "Config file: %s\n", configPathStyle.Render(path))
	return nil
}
