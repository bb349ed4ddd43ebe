// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session runs the question and answer exchange.
//
// A Session owns the conversation, the file stager, the connectivity flag
// and the id of the in-flight placeholder. Its methods are transitions: they
// mutate that state and return a list of Effects for the front end to carry
// out (show a notice, send an exchange, load a chart image). None of them
// block or touch the network.
//
// # Key Types
//
//   - Session: Per-process state shared by every front end
//   - Outcome: Result of a Submit
//   - Effect: Notice, Send, LoadImage, ClearInput
//   - Exchange: One question and file ready to be posted
//
// # Usage
//
//	s := session.New(cfg.Server.BaseURL)
//	outcome, effects := s.Submit("What is the total revenue?")
//	for _, e := range effects {
//	    if send, ok := e.(session.Send); ok {
//	        reply, err := session.Perform(ctx, client, send.Exchange)
//	        effects = s.Resolve(send.Exchange.PlaceholderID, reply, err)
//	    }
//	}
//
// Only one exchange may be in flight. A Submit while one is pending returns
// OutcomeBusy and leaves the conversation untouched.
package session
