// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analysis is the HTTP transport to the data analysis service.
//
// The service exposes three endpoints:
//
//   - POST /chat/ takes a multipart body with a "file" part and a
//     "question" field and answers with a JSON object carrying optional
//     "response", "image_url", "error" or "detail" members
//   - GET / is probed once at startup to log reachability
//   - GET <image_url> serves rendered charts
//
// The chat exchange has no timeout and is never retried. Interpretation of
// the reply belongs to the session package; this package only returns the
// raw status and body.
package analysis
