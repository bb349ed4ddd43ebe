// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the conversation log and its messages.
//
// # Key Types
//
//   - Conversation: Ordered message log; owns id assignment and placeholder removal
//   - Message: A user or agent entry carrying Text, Chart or Pending content
//   - LoadState: Visual state of a chart image (loading, loaded, failed)
//   - Change: Notification sent to the view after every mutation
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.SetListener(func(c model.Change) { ... })
//	conv.Append(model.NewUserText("What is the total revenue?"))
//	pending := conv.Append(model.NewPending())
//	conv.RemoveByID(pending.ID)
//
// Insertion order is display order. Apart from Reset, the only removal is
// of a pending placeholder once its exchange resolves.
package model
