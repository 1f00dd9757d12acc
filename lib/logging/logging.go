// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/term"
)

// Options configures New.
type Options struct {
	// Writer receives log output.
	Writer io.Writer

	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// Terminal forces the text handler and raw-mode line endings. When
	// false, New detects a terminal from Writer.
	Terminal bool
}

// fdWriter is satisfied by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// New creates a structured logger. When the writer is a terminal, uses
// slog.TextHandler with "\r\n" line endings. Otherwise uses
// slog.JSONHandler for machine-parseable output.
func New(options Options) (*slog.Logger, error) {
	level, err := ParseLevel(options.Level)
	if err != nil {
		return nil, err
	}

	handlerOptions := &slog.HandlerOptions{Level: level}
	if options.Terminal || isTerminal(options.Writer) {
		return slog.New(slog.NewTextHandler(&RawWriter{Writer: options.Writer}, handlerOptions)), nil
	}
	return slog.New(slog.NewJSONHandler(options.Writer, handlerOptions)), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
