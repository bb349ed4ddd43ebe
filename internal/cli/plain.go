// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/datachat-tui/internal/analysis"
	"github.com/jeranaias/datachat-tui/internal/config"
	"github.com/jeranaias/datachat-tui/internal/model"
	"github.com/jeranaias/datachat-tui/internal/prefs"
	"github.com/jeranaias/datachat-tui/internal/session"
	"github.com/jeranaias/datachat-tui/internal/staging"
	"github.com/jeranaias/datachat-tui/internal/ui/components"
	"github.com/jeranaias/datachat-tui/internal/ui/styles"
)

const plainPrompt = "datachat> "

var (
	plainTitleStyle  = lipgloss.NewStyle().Foreground(styles.Indigo).Bold(true)
	plainAgentStyle  = lipgloss.NewStyle().Foreground(styles.Teal).Bold(true)
	plainErrorStyle  = lipgloss.NewStyle().Foreground(styles.Red)
	plainNoticeStyle = lipgloss.NewStyle().Foreground(styles.Amber)
	plainMutedStyle  = lipgloss.NewStyle().Foreground(styles.TextMuted)
)

// =============================================================================
// PLAIN CHAT
// =============================================================================

// plainChat is the line-mode front end. It drives the same session as the
// full-screen chat, one exchange at a time.
type plainChat struct {
	sess      *session.Session
	client    *analysis.Client
	themePref *prefs.ThemePreference
	markdown  *components.Markdown
	out       io.Writer
	width     int
	maxUpload int64
	previews  bool

	printed map[string]bool
}

func newPlainChat(sess *session.Session, client *analysis.Client, store prefs.Store, out io.Writer, width int) *plainChat {
	p := &plainChat{
		sess:     sess,
		client:   client,
		out:      out,
		width:    width,
		markdown: components.NewMarkdown("dark", max(20, width-4)),
		printed:  make(map[string]bool),
	}
	p.themePref = prefs.NewThemePreference(store, func(t prefs.Theme) {
		p.markdown.Configure(string(t), max(20, p.width-4))
	})
	if err := p.themePref.Init(); err != nil {
		fmt.Fprintln(out, plainNoticeStyle.Render("Theme preference unavailable: "+err.Error()))
	}
	return p
}

// handleLine processes one line of input. It returns false when the user
// asked to quit.
func (p *plainChat) handleLine(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "/") {
		return p.handleCommand(ctx, trimmed)
	}

	outcome, effects := p.sess.Submit(line)
	if outcome == session.OutcomeIgnored {
		return true
	}
	p.apply(ctx, effects)
	p.flush()
	return true
}

func (p *plainChat) handleCommand(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/q", "/exit":
		return false

	case "/file", "/f":
		if arg == "" {
			fmt.Fprintln(p.out, p.sess.Stager().Label())
			return true
		}
		p.stage(ctx, arg)

	case "/new", "/n":
		p.apply(ctx, p.sess.NewConversation())
		p.printed = make(map[string]bool)
		fmt.Fprintln(p.out, plainMutedStyle.Render("Started a new conversation."))
		p.flush()

	case "/theme":
		if err := p.themePref.Toggle(!p.themePref.IsLight()); err != nil {
			fmt.Fprintln(p.out, plainNoticeStyle.Render("Theme changed but could not be saved: "+err.Error()))
			return true
		}
		fmt.Fprintf(p.out, "Switched to %s mode.\n", p.themePref.Current())

	case "/raw":
		reply, ok := p.sess.LastReply()
		if !ok {
			fmt.Fprintln(p.out, plainMutedStyle.Render("No response yet."))
			return true
		}
		fmt.Fprintf(p.out, "HTTP %d %s\n", reply.Status, reply.StatusText)
		if pretty, ok := components.FormatJSON(reply.Body); ok {
			fmt.Fprintln(p.out, pretty)
		} else {
			fmt.Fprintln(p.out, string(reply.Body))
		}

	case "/status":
		state := "connected"
		if !p.sess.Connected() {
			state = "offline"
		}
		fmt.Fprintf(p.out, "Service: %s (%s)\n", p.sess.BaseURL(), state)
		fmt.Fprintf(p.out, "File:    %s\n", p.sess.Stager().Label())
		fmt.Fprintf(p.out, "Theme:   %s\n", p.themePref.Current())

	case "/help", "/h", "/?":
		p.printHelp()

	default:
		fmt.Fprintln(p.out, plainNoticeStyle.Render("Unknown command "+cmd+". Type /help for commands."))
	}
	return true
}

func (p *plainChat) printHelp() {
	fmt.Fprintln(p.out, `Commands:
  /file PATH   stage a CSV or ZIP file
  /file        show the staged file
  /new         start a new conversation
  /theme       toggle light and dark output
  /raw         show the last raw response
  /status      show the service and staged file
  /quit        exit
Anything else is sent as a question about the staged file.`)
}

func (p *plainChat) stage(ctx context.Context, path string) {
	path = expandPath(path)
	c, err := staging.FromPath(path, p.maxUpload)
	if err != nil {
		fmt.Fprintln(p.out, plainErrorStyle.Render("Could not stage "+filepath.Base(path)+": "+err.Error()))
		return
	}
	p.apply(ctx, p.sess.StageFile(c))
	if current, ok := p.sess.Stager().Current(); ok && current.Path == c.Path {
		fmt.Fprintln(p.out, p.sess.Stager().Label())
	}
}

// apply performs session effects synchronously.
func (p *plainChat) apply(ctx context.Context, effects []session.Effect) {
	for _, e := range effects {
		switch e := e.(type) {
		case session.Notice:
			fmt.Fprintln(p.out, plainNoticeStyle.Render(styles.StatusIndicators.Warning+" "+e.Text))
		case session.Send:
			fmt.Fprintln(p.out, plainMutedStyle.Render(model.PendingText))
			reply, err := session.Perform(ctx, p.client, e.Exchange)
			p.apply(ctx, p.sess.Resolve(e.Exchange.PlaceholderID, reply, err))
		case session.LoadImage:
			chart, err := p.client.FetchImage(ctx, e.Ref)
			p.sess.SetChartLoad(e.MessageID, err)
			if err == nil && p.previews && chart.Image != nil {
				p.flush()
				fmt.Fprintln(p.out, components.RenderChartPreview(chart.Image, min(p.width, 100), 24))
			}
		case session.ClearInput:
		}
	}
}

// flush prints agent messages not printed yet.
func (p *plainChat) flush() {
	for _, msg := range p.sess.Conversation().Messages() {
		if p.printed[msg.ID] || msg.IsPending() {
			continue
		}
		p.printed[msg.ID] = true
		if msg.Sender == model.SenderUser {
			continue
		}
		fmt.Fprintln(p.out, p.renderMessage(msg))
	}
}

func (p *plainChat) renderMessage(msg model.Message) string {
	label := plainAgentStyle.Render("Agent")
	if msg.IsChart() {
		ref := msg.ImageRef
		if abs, err := p.client.ResolveRef(ref); err == nil {
			ref = abs
		}
		lines := []string{label, "📊 " + msg.Caption, plainMutedStyle.Render(ref)}
		if status := msg.StatusText(); status != "" {
			lines = append(lines, plainMutedStyle.Render(status))
		}
		return strings.Join(lines, "\n")
	}
	for _, prefix := range []string{session.ErrorPrefix, "🔌"} {
		if strings.HasPrefix(msg.Text, prefix) {
			return label + "\n" + plainErrorStyle.Render(msg.Text)
		}
	}
	return label + "\n" + p.markdown.Render(msg.Text)
}

// =============================================================================
// LOOP
// =============================================================================

// runPlain reads lines until EOF or /quit.
func runPlain(ctx context.Context, rt *runtime, store prefs.Store, initialFile string) error {
	sess := session.New(rt.cfg.Server.BaseURL)
	client := newClient(rt.cfg)

	p := newPlainChat(sess, client, store, os.Stdout, GetTerminalWidth())
	p.maxUpload = rt.cfg.MaxUploadBytes()
	p.previews = IsStdoutTTY()

	fmt.Fprintln(p.out, plainTitleStyle.Render("📊 Data Analysis Chat")+" "+plainMutedStyle.Render(sess.BaseURL()))
	sess.RecordProbe(client.Probe(ctx))
	if !sess.Connected() {
		fmt.Fprintln(p.out, plainNoticeStyle.Render(session.ConnectionErrorText(sess.BaseURL())))
	}
	p.flush()
	if initialFile != "" {
		p.stage(ctx, initialFile)
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	historyPath := filepath.Join(filepath.Dir(rt.cfg.Storage.PrefsPath), "history")
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(line, historyPath)

	for {
		input, err := line.Prompt(plainPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if !p.handleLine(ctx, input) {
			return nil
		}
	}
}

func saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}

// expandPath strips quotes and expands a leading ~.
func expandPath(path string) string {
	path = strings.Trim(path, `"'`)
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// newClient builds the analysis client from configuration.
func newClient(cfg *config.Config) *analysis.Client {
	return analysis.NewClient(cfg.Server.BaseURL).
		WithChatPath(cfg.Server.ChatPath).
		WithProbePath(cfg.Server.ProbePath).
		WithImageTimeout(cfg.ImageTimeout())
}
