// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/datachat-tui/internal/config"
	"github.com/jeranaias/datachat-tui/internal/logger"
	"github.com/jeranaias/datachat-tui/internal/prefs"
	"github.com/jeranaias/datachat-tui/internal/session"
	"github.com/jeranaias/datachat-tui/internal/ui/chat"
	"github.com/jeranaias/datachat-tui/internal/ui/styles"
)

// Version information (set at build time).
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// flags holds the global command line flags.
type flags struct {
	url        string
	configPath string
	file       string
	logFile    string
	plain      bool
	debug      bool
}

// runtime is the state shared by every command after setup.
type runtime struct {
	flags flags
	cfg   *config.Config
}

// NewRootCommand builds the datachat command tree.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "datachat",
		Short: "Ask questions about CSV data in your terminal",
		Long: `datachat attaches a CSV or ZIP file, sends your question to an analysis
service and shows the answer as text or as a chart.`,
		Example: `  datachat --file sales.csv
  datachat --url http://analysis.internal:8000
  datachat --plain < questions.txt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Close()
			return rt.runChat(cmd.Context())
		},
	}
	root.Version = Version
	root.SetVersionTemplate(versionTemplate())

	pf := root.PersistentFlags()
	pf.StringVar(&rt.flags.url, "url", "", "analysis service base URL (overrides config)")
	pf.StringVar(&rt.flags.configPath, "config", "", "config file (default ~/.datachat/config.toml)")
	pf.StringVar(&rt.flags.logFile, "log-file", "", "log file (default ~/.datachat/datachat.log)")
	pf.BoolVar(&rt.flags.debug, "debug", false, "enable debug logging")
	root.Flags().StringVarP(&rt.flags.file, "file", "f", "", "CSV or ZIP file to stage on startup")
	root.Flags().BoolVar(&rt.flags.plain, "plain", false, "use the line mode instead of the full-screen chat")

	root.AddCommand(newProbeCommand(rt), newConfigCommand(rt))
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	err := NewRootCommand().ExecuteContext(context.Background())
	if err != nil {
		DisplayError(err)
	}
	return GetExitCode(err)
}

func versionTemplate() string {
	if GitCommit != "unknown" && GitCommit != "" {
		return fmt.Sprintf("datachat %s\n  commit: %s\n  built:  %s\n", Version, GitCommit, BuildDate)
	}
	return fmt.Sprintf("datachat %s\n", Version)
}

// setup loads .env and configuration, applies flags and starts logging.
func (rt *runtime) setup() error {
	if wd, err := os.Getwd(); err == nil {
		if err := config.LoadDotEnv(wd); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
		}
	}

	cfg, err := config.Load(rt.flags.configPath)
	if err != nil {
		return &ConfigError{Err: err}
	}
	if rt.flags.url != "" {
		cfg.Server.BaseURL = strings.TrimRight(rt.flags.url, "/")
	}
	if rt.flags.logFile != "" {
		cfg.Log.Path = rt.flags.logFile
	}
	if rt.flags.debug {
		cfg.Log.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Err: err}
	}
	rt.cfg = cfg

	logger.SetDebug(cfg.Log.Debug)
	if err := logger.Init(cfg.Log.Path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %s\n", err)
	}
	return nil
}

// openPrefs opens the preference database, falling back to memory.
func (rt *runtime) openPrefs() (prefs.Store, func()) {
	store, err := prefs.OpenSQLite(rt.cfg.Storage.PrefsPath)
	if err != nil {
		logger.ComponentLogger("cli").Warn("preferences will not persist", "path", rt.cfg.Storage.PrefsPath, "error", err)
		return prefs.NewMemoryStore(), func() {}
	}
	return store, func() { store.Close() }
}

// runChat starts the full-screen chat, or the line mode when asked to or
// when there is no terminal.
func (rt *runtime) runChat(ctx context.Context) error {
	store, closeStore := rt.openPrefs()
	defer closeStore()

	if rt.flags.plain || !interactive() {
		return runPlain(ctx, rt, store, rt.flags.file)
	}

	sess := session.New(rt.cfg.Server.BaseURL)
	m := chat.New(chat.Options{
		Session:        sess,
		Client:         newClient(rt.cfg),
		Theme:          styles.NewTheme(),
		Prefs:          store,
		Breakpoint:     rt.cfg.UI.BreakpointUnits,
		CellWidth:      rt.cfg.UI.CellWidthUnits,
		MaxUploadBytes: rt.cfg.MaxUploadBytes(),
		InitialFile:    rt.flags.file,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if rt.cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	final, err := tea.NewProgram(m, opts...).Run()
	if fm, ok := final.(chat.Model); ok {
		fm.Close()
	}
	if err != nil {
		return fmt.Errorf("error running chat: %w", err)
	}
	return nil
}
