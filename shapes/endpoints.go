// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package shapes

import (
	"log/slog"
	"time"

	"github.com/bureau-foundation/shapes/bus"
	"github.com/bureau-foundation/shapes/lib/poller"
	"github.com/bureau-foundation/shapes/lib/shape"
)

// Multiplexer waits for readiness on registered sources.
// *poller.Poller satisfies it.
type Multiplexer interface {
	Register(source poller.Source, token poller.Token, interest poller.Interest, trigger poller.Trigger) error
	Wait(timeout *time.Duration) ([]poller.Event, error)
}

// MessageReader is the subscription endpoint. *bus.Reader[shape.Shape]
// satisfies it.
type MessageReader interface {
	poller.Source
	Drain(limit int) ([]bus.Received[shape.Shape], error)
}

// MessageWriter is the publication endpoint. *bus.Writer[shape.Shape]
// satisfies it.
type MessageWriter interface {
	Publish(value shape.Shape) error
}

// StopReceiver becomes readable once the control side has sent its
// terminator. *notify.Receiver satisfies it.
type StopReceiver interface {
	poller.Source
}

// KeyboardTimer is a one-shot timer that must be rearmed after each
// firing. *oneshot.Timer satisfies it.
type KeyboardTimer interface {
	poller.Source
	Acknowledge() (bool, error)
	Arm() error
}

// KeyboardSource reads stdin without blocking, returning
// keyboard.ErrNoInput when nothing is buffered. *keyboard.Source
// satisfies it.
type KeyboardSource interface {
	ReadByte() (byte, error)
}

// Display shows shapes to the user.
type Display interface {
	ShowReceived(sample bus.Received[shape.Shape])
	ShowLocal(current shape.Shape)
}

// Endpoints gathers everything the loop drives. All fields except
// Logger and DrainBatch are required.
type Endpoints struct {
	Multiplexer Multiplexer
	Reader      MessageReader
	Writer      MessageWriter
	Stop        StopReceiver
	Timer       KeyboardTimer
	Keyboard    KeyboardSource
	Display     Display

	// Logger defaults to a discarding logger.
	Logger *slog.Logger

	// DrainBatch caps samples taken per reader wakeup. Zero means
	// DefaultDrainBatch.
	DrainBatch int
}
