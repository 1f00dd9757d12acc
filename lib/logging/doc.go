// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the slog logger used by the shapes binaries.
//
// [New] chooses a handler by sink: slog.TextHandler when the sink is a
// terminal, slog.JSONHandler otherwise. A terminal in raw mode does not
// translate "\n" into "\r\n", so a terminal sink is wrapped in
// [RawWriter] to keep log lines starting at column zero.
package logging
