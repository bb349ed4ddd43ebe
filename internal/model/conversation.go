// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"time"
)

// =============================================================================
// CHANGE NOTIFICATIONS
// =============================================================================

// ChangeKind tells the view how to react to a mutation.
type ChangeKind int

const (
	// ChangeScroll follows an append, removal or reset. The view scrolls to
	// the latest message.
	ChangeScroll ChangeKind = iota
	// ChangeUpdate follows an in-place visual update. The view re-renders
	// without moving.
	ChangeUpdate
)

// Change describes a single mutation of the conversation.
type Change struct {
	Kind      ChangeKind
	MessageID string
}

// Listener receives every change. It runs synchronously on the caller's
// goroutine.
type Listener func(Change)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered message log of a session.
type Conversation struct {
	messages []*Message
	nextID   int
	listener Listener
	now      func() time.Time
}

// NewConversation creates a log holding only the greeting.
func NewConversation() *Conversation {
	c := &Conversation{now: time.Now}
	c.Reset()
	return c
}

// SetListener registers the change listener, replacing any previous one.
func (c *Conversation) SetListener(l Listener) {
	c.listener = l
}

func (c *Conversation) notify(kind ChangeKind, id string) {
	if c.listener != nil {
		c.listener(Change{Kind: kind, MessageID: id})
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Append assigns the next id and a creation time, adds msg at the end and
// returns it.
func (c *Conversation) Append(msg *Message) *Message {
	c.nextID++
	msg.ID = "msg-" + strconv.Itoa(c.nextID)
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = c.now()
	}
	c.messages = append(c.messages, msg)
	c.notify(ChangeScroll, msg.ID)
	return msg
}

// RemoveByID removes the message with the given id. It reports false, and
// notifies nothing, when no such message exists.
func (c *Conversation) RemoveByID(id string) bool {
	for i, msg := range c.messages {
		if msg.ID == id {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			c.notify(ChangeScroll, id)
			return true
		}
	}
	return false
}

// Reset discards the history and restores the greeting. The id counter keeps
// counting so ids stay unique across resets.
func (c *Conversation) Reset() {
	c.messages = nil
	c.Append(NewAgentText(GreetingText))
}

// SetLoadState updates a chart's image state. The sequence is not touched.
// It reports false when id does not name a chart.
func (c *Conversation) SetLoadState(id string, state LoadState) bool {
	msg := c.find(id)
	if msg == nil || msg.Kind != KindChart {
		return false
	}
	if msg.Load == state {
		return true
	}
	msg.Load = state
	c.notify(ChangeUpdate, id)
	return true
}

// =============================================================================
// QUERIES
// =============================================================================

func (c *Conversation) find(id string) *Message {
	for _, msg := range c.messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// Messages returns a snapshot of the log in display order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	for i, msg := range c.messages {
		out[i] = *msg
	}
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// PendingCount returns the number of placeholders in the log.
func (c *Conversation) PendingCount() int {
	n := 0
	for _, msg := range c.messages {
		if msg.Kind == KindPending {
			n++
		}
	}
	return n
}

// Last returns a copy of the most recent message.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return *c.messages[len(c.messages)-1], true
}

// Get returns a copy of the message with the given id.
func (c *Conversation) Get(id string) (Message, bool) {
	msg := c.find(id)
	if msg == nil {
		return Message{}, false
	}
	return *msg, true
}

// LastChart returns the most recent chart message.
func (c *Conversation) LastChart() (Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Kind == KindChart {
			return *c.messages[i], true
		}
	}
	return Message{}, false
}
