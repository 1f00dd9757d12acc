// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package shapes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bureau-foundation/shapes/lib/logging"
	"github.com/bureau-foundation/shapes/lib/notify"
)

// StopSender delivers the loop's single terminator. *notify.Sender
// satisfies it.
type StopSender interface {
	Send() error
}

// WatchInterrupt blocks until a signal arrives on signals, then sends
// one terminator through sender. It returns without sending when ctx is
// cancelled or signals is closed, which is how main releases it after
// the loop exits on its own.
//
// A receiver that is already closed means the loop has shut down; that
// is logged and not treated as an error.
func WatchInterrupt(ctx context.Context, signals <-chan os.Signal, sender StopSender, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("component", "control")

	select {
	case <-ctx.Done():
		logger.Debug("interrupt watch cancelled")
		return nil
	case received, ok := <-signals:
		if !ok {
			logger.Debug("signal channel closed")
			return nil
		}
		logger.Info("interrupt received, stopping", "signal", received.String())
	}

	err := sender.Send()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, notify.ErrReceiverClosed):
		logger.Info("event loop already stopped")
		return nil
	default:
		return fmt.Errorf("sending stop: %w", err)
	}
}
