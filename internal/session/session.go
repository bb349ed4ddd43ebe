// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/datachat-tui/internal/analysis"
	"github.com/jeranaias/datachat-tui/internal/logger"
	"github.com/jeranaias/datachat-tui/internal/model"
	"github.com/jeranaias/datachat-tui/internal/staging"
)

// Notice texts.
const (
	NoFileText       = "Please select a CSV or ZIP file."
	InvalidFileText  = "Please select a CSV or ZIP file. %s is not supported."
	BusyText         = "Still waiting for the previous answer."
	connectivityWarn = 30 * time.Second
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the per-process conversation state.
type Session struct {
	id        string
	startTime time.Time
	baseURL   string

	conv   *model.Conversation
	stager *staging.Stager

	connected bool
	pendingID string
	lastReply *analysis.Reply

	log      *slog.Logger
	warnOnce rate.Sometimes
}

// New creates a session for the service at baseURL with a fresh
// conversation and an empty stager.
func New(baseURL string) *Session {
	id := uuid.NewString()
	return &Session{
		id:        id,
		startTime: time.Now(),
		baseURL:   baseURL,
		conv:      model.NewConversation(),
		stager:    staging.New(),
		connected: true,
		log:       logger.WithSession(id).With("component", "session"),
		warnOnce:  rate.Sometimes{First: 1, Interval: connectivityWarn},
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// StartTime returns when the session was created.
func (s *Session) StartTime() time.Time {
	return s.startTime
}

// BaseURL returns the analysis service origin.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// Conversation returns the message log.
func (s *Session) Conversation() *model.Conversation {
	return s.conv
}

// Stager returns the file stager.
func (s *Session) Stager() *staging.Stager {
	return s.stager
}

// Connected reports the outcome of the most recent network attempt. It is
// diagnostic only and never gates a submit.
func (s *Session) Connected() bool {
	return s.connected
}

// Pending returns the id of the in-flight placeholder.
func (s *Session) Pending() (string, bool) {
	return s.pendingID, s.pendingID != ""
}

// LastReply returns the raw reply of the most recent exchange.
func (s *Session) LastReply() (*analysis.Reply, bool) {
	return s.lastReply, s.lastReply != nil
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// StageFile offers a candidate to the stager. A rejected candidate raises a
// blocking notice and leaves the staged file as it was.
func (s *Session) StageFile(c staging.Candidate) []Effect {
	if _, err := s.stager.Stage(c); err != nil {
		var verr *staging.ValidationError
		if errors.As(err, &verr) {
			return []Effect{Notice{Text: fmt.Sprintf(InvalidFileText, verr.Name), Blocking: true}}
		}
		return []Effect{Notice{Text: err.Error(), Blocking: true}}
	}
	return nil
}

// Submit asks question about the staged file.
func (s *Session) Submit(question string) (Outcome, []Effect) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return OutcomeIgnored, nil
	}

	file, ok := s.stager.Current()
	if !ok {
		s.log.Info("submit rejected: no file staged")
		return OutcomeRejected, []Effect{Notice{Text: NoFileText, Blocking: true}}
	}

	if s.pendingID != "" {
		s.log.Info("submit rejected: exchange pending", "pendingID", s.pendingID)
		return OutcomeBusy, []Effect{Notice{Text: BusyText}}
	}

	s.conv.Append(model.NewUserText(question))
	placeholder := s.conv.Append(model.NewPending())
	s.pendingID = placeholder.ID

	s.log.Info("submit accepted", "placeholderID", placeholder.ID, "file", file.Name)
	return OutcomeSent, []Effect{
		ClearInput{},
		Send{Exchange: Exchange{
			PlaceholderID: placeholder.ID,
			File:          file,
			Question:      trimmed,
		}},
	}
}

// Resolve completes the exchange behind placeholderID. Exactly one of reply
// and err is expected to be set. A resolution for a placeholder that no
// longer exists is dropped.
func (s *Session) Resolve(placeholderID string, reply *analysis.Reply, err error) []Effect {
	if placeholderID == "" || placeholderID != s.pendingID {
		s.log.Debug("stale resolution dropped", "placeholderID", placeholderID)
		return nil
	}
	s.pendingID = ""
	if !s.conv.RemoveByID(placeholderID) {
		s.log.Debug("placeholder already gone", "placeholderID", placeholderID)
		return nil
	}

	switch {
	case err != nil && analysis.IsTransport(err):
		s.connected = false
		s.warnOnce.Do(func() {
			s.log.Warn("analysis service unreachable", "baseURL", s.baseURL, "error", err)
		})
		s.conv.Append(model.NewAgentText(ConnectionErrorText(s.baseURL)))
		return nil

	case err != nil:
		s.log.Error("exchange failed", "error", err)
		s.conv.Append(model.NewAgentText(ErrorPrefix + err.Error()))
		return nil

	case reply == nil:
		s.conv.Append(model.NewAgentText(ErrorPrefix + UnexpectedReplyText))
		return nil
	}

	s.connected = true
	s.lastReply = reply
	msg := s.conv.Append(Interpret(reply))
	s.log.Info("exchange resolved", "status", reply.Status, "kind", msg.Kind, "elapsed", reply.Elapsed)

	if msg.IsChart() {
		return []Effect{LoadImage{MessageID: msg.ID, Ref: msg.ImageRef}}
	}
	return nil
}

// SetChartLoad records the outcome of a chart image load. It never changes
// the order or number of messages.
func (s *Session) SetChartLoad(messageID string, err error) {
	state := model.LoadLoaded
	if err != nil {
		state = model.LoadFailed
		s.log.Warn("chart failed to load", "messageID", messageID, "error", err)
	}
	if !s.conv.SetLoadState(messageID, state) {
		s.log.Debug("chart load for unknown message", "messageID", messageID)
	}
}

// RecordProbe records the startup liveness probe. err is nil when the
// service answered with a 2xx status.
func (s *Session) RecordProbe(err error) {
	s.connected = err == nil
	if err != nil {
		s.log.Warn("analysis service is not reachable; check that it is running", "baseURL", s.baseURL, "error", err)
		return
	}
	s.log.Info("analysis service connected", "baseURL", s.baseURL)
}

// NewConversation resets the log to the greeting, clears the staged file
// and abandons any pending exchange.
func (s *Session) NewConversation() []Effect {
	if s.pendingID != "" {
		s.log.Info("pending exchange abandoned", "placeholderID", s.pendingID)
	}
	s.pendingID = ""
	s.conv.Reset()
	s.stager.Clear()
	s.log.Info("new conversation started")
	return []Effect{ClearInput{}}
}

// =============================================================================
// EXCHANGE
// =============================================================================

// Perform opens the staged file and posts the exchange. It blocks until the
// service answers or the connection fails.
func Perform(ctx context.Context, client *analysis.Client, ex Exchange) (*analysis.Reply, error) {
	body, err := ex.File.Open()
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", ex.File.Name, err)
	}
	defer body.Close()

	return client.Chat(ctx, analysis.Upload{
		Name:      ex.File.Name,
		MediaType: ex.File.MediaType,
		Body:      body,
	}, ex.Question)
}
