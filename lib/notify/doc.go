// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package notify provides a single-use, pollable notification channel
// for delivering one terminator event from a control goroutine into an
// event loop.
//
// A Go channel cannot be registered with epoll, so the channel is an
// eventfd(2): [Sender.Send] increments the counter, which makes the
// [Receiver]'s descriptor readable. The event loop registers the
// receiver with its multiplexer like any other source.
//
// The channel carries exactly one event. A second Send returns
// [ErrAlreadySent]. Once the receiver is closed, Send returns
// [ErrReceiverClosed]; the sender is expected to log that and move on,
// since a closed receiver means the loop already exited.
package notify
