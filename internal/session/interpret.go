// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"

	"github.com/jeranaias/datachat-tui/internal/analysis"
	"github.com/jeranaias/datachat-tui/internal/model"
)

// Texts produced when the service reply leaves something out.
const (
	ErrorPrefix          = "❌ Error: "
	DefaultChartCaption  = "Analysis complete with chart!"
	DefaultResponseText  = "Analysis complete."
	UnexpectedReplyText  = "unexpected response from the analysis service"
	connectionErrorTitle = "🔌 Connection error: check that the analysis service is running at "
)

// Interpret converts a reply into the single agent message that answers it.
// The first matching rule wins:
//
//  1. a non-2xx status yields an error text from "error", "detail" or the
//     status line
//  2. a 2xx body with a non-empty "error" yields that error
//  3. a non-empty "image_url" yields a chart captioned by "response"
//  4. anything else yields the "response" text
func Interpret(reply *analysis.Reply) *model.Message {
	payload, isJSON := analysis.DecodePayload(reply.Body)

	if !reply.OK() {
		if !isJSON {
			return model.NewAgentText(fmt.Sprintf("%sError %d: %s", ErrorPrefix, reply.Status, reply.StatusText))
		}
		msg := payload.Error
		if msg == "" {
			msg = payload.DetailText()
		}
		if msg == "" {
			msg = fmt.Sprintf("Error %d", reply.Status)
		}
		return model.NewAgentText(ErrorPrefix + msg)
	}

	if !isJSON {
		return model.NewAgentText(ErrorPrefix + UnexpectedReplyText)
	}
	if payload.Error != "" {
		return model.NewAgentText(ErrorPrefix + payload.Error)
	}
	if payload.ImageURL != "" {
		caption := payload.Response
		if caption == "" {
			caption = DefaultChartCaption
		}
		return model.NewChart(caption, payload.ImageURL)
	}
	if payload.Response != "" {
		return model.NewAgentText(payload.Response)
	}
	return model.NewAgentText(DefaultResponseText)
}

// ConnectionErrorText is shown when the service could not be reached.
func ConnectionErrorText(baseURL string) string {
	return connectionErrorTitle + baseURL
}
