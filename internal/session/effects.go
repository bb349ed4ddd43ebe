// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "github.com/jeranaias/datachat-tui/internal/staging"

// Outcome is the result of a Submit.
type Outcome int

const (
	// OutcomeIgnored means the question was blank. Nothing happened.
	OutcomeIgnored Outcome = iota
	// OutcomeRejected means no file was staged. A blocking notice is raised.
	OutcomeRejected
	// OutcomeBusy means another exchange is still pending.
	OutcomeBusy
	// OutcomeSent means the question was appended and an exchange is due.
	OutcomeSent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeRejected:
		return "rejected"
	case OutcomeBusy:
		return "busy"
	case OutcomeSent:
		return "sent"
	default:
		return "unknown"
	}
}

// Effect is work a transition asks the front end to perform.
type Effect interface {
	effect()
}

// Notice asks the front end to tell the user something. Blocking notices
// must be acknowledged before other input is accepted.
type Notice struct {
	Text     string
	Blocking bool
}

// Send asks the front end to perform an exchange and report back with
// Resolve.
type Send struct {
	Exchange Exchange
}

// LoadImage asks the front end to fetch a chart image and report back with
// SetChartLoad.
type LoadImage struct {
	MessageID string
	Ref       string
}

// ClearInput asks the front end to empty the question input.
type ClearInput struct{}

func (Notice) effect()     {}
func (Send) effect()       {}
func (LoadImage) effect()  {}
func (ClearInput) effect() {}

// Exchange is one question and file ready to be posted.
type Exchange struct {
	PlaceholderID string
	File          staging.StagedFile
	Question      string
}
