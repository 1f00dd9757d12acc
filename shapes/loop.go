// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package shapes

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/shapes/lib/keyboard"
	"github.com/bureau-foundation/shapes/lib/logging"
	"github.com/bureau-foundation/shapes/lib/poller"
	"github.com/bureau-foundation/shapes/lib/shape"
)

// Tokens identifying each source registered with the multiplexer.
const (
	TokenStop   poller.Token = 0
	TokenReader poller.Token = 1
	TokenTimer  poller.Token = 2
)

// DefaultDrainBatch is the most samples taken from the reader per wakeup.
const DefaultDrainBatch = 100

// Loop is the event loop. It is not safe for concurrent use; Run owns it
// until it returns.
type Loop struct {
	endpoints  Endpoints
	drainBatch int
	logger     *slog.Logger

	current shape.Shape
	decoder keyboard.Decoder

	// keyboardClosed is set once stdin reaches end of file. The timer
	// is not rearmed after that.
	keyboardClosed bool
}

// New validates endpoints and returns a loop starting from initial.
func New(endpoints Endpoints, initial shape.Shape) (*Loop, error) {
	switch {
	case endpoints.Multiplexer == nil:
		return nil, errors.New("shapes: multiplexer is required")
	case endpoints.Reader == nil:
		return nil, errors.New("shapes: reader is required")
	case endpoints.Writer == nil:
		return nil, errors.New("shapes: writer is required")
	case endpoints.Stop == nil:
		return nil, errors.New("shapes: stop receiver is required")
	case endpoints.Timer == nil:
		return nil, errors.New("shapes: keyboard timer is required")
	case endpoints.Keyboard == nil:
		return nil, errors.New("shapes: keyboard source is required")
	case endpoints.Display == nil:
		return nil, errors.New("shapes: display is required")
	case endpoints.DrainBatch < 0:
		return nil, fmt.Errorf("shapes: drain batch %d is negative", endpoints.DrainBatch)
	}

	logger := endpoints.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	drainBatch := endpoints.DrainBatch
	if drainBatch == 0 {
		drainBatch = DefaultDrainBatch
	}
	return &Loop{
		endpoints:  endpoints,
		drainBatch: drainBatch,
		logger:     logger.With("component", "loop"),
		current:    initial,
	}, nil
}

// Run builds a Loop and runs it.
func Run(endpoints Endpoints, initial shape.Shape) error {
	loop, err := New(endpoints, initial)
	if err != nil {
		return err
	}
	return loop.Run()
}

// Shape returns the current local shape.
func (loop *Loop) Shape() shape.Shape {
	return loop.current
}

// Run registers the sources, arms the keyboard timer, and dispatches
// readiness until a stop or quit. It returns an error only when the loop
// cannot start or the multiplexer has been closed underneath it.
func (loop *Loop) Run() error {
	if err := loop.register(); err != nil {
		return err
	}
	if err := loop.endpoints.Timer.Arm(); err != nil {
		return fmt.Errorf("arming keyboard timer: %w", err)
	}
	loop.logger.Debug("event loop started", "shape", loop.current.String())

	for {
		events, err := loop.endpoints.Multiplexer.Wait(nil)
		if err != nil {
			if errors.Is(err, poller.ErrClosed) {
				return fmt.Errorf("waiting for events: %w", err)
			}
			loop.logger.Warn("wait failed", "error", err)
			continue
		}

		for _, event := range events {
			switch event.Token {
			case TokenStop:
				loop.logger.Debug("stop received")
				return nil
			case TokenReader:
				loop.drainReader()
			case TokenTimer:
				if loop.pollKeyboard() {
					loop.logger.Debug("quit key pressed")
					return nil
				}
			default:
				loop.logger.Warn("event for unknown token", "token", uint64(event.Token))
			}
		}
	}
}

func (loop *Loop) register() error {
	sources := []struct {
		name   string
		source poller.Source
		token  poller.Token
	}{
		{"stop receiver", loop.endpoints.Stop, TokenStop},
		{"reader", loop.endpoints.Reader, TokenReader},
		{"keyboard timer", loop.endpoints.Timer, TokenTimer},
	}
	for _, entry := range sources {
		if err := loop.endpoints.Multiplexer.Register(entry.source, entry.token, poller.Readable, poller.Edge); err != nil {
			return fmt.Errorf("registering %s: %w", entry.name, err)
		}
	}
	return nil
}

// drainReader takes one bounded batch from the reader and shows every
// sample that decoded.
func (loop *Loop) drainReader() {
	samples, err := loop.endpoints.Reader.Drain(loop.drainBatch)
	if err != nil {
		loop.logger.Warn("draining reader failed", "error", err)
		return
	}
	for _, sample := range samples {
		if !sample.OK() {
			loop.logger.Debug("dropping undecodable sample",
				"writer", sample.Info.Writer,
				"sequence", sample.Info.Sequence,
				"error", sample.Err,
			)
			continue
		}
		loop.endpoints.Display.ShowReceived(sample)
	}
}

// pollKeyboard handles one timer firing: it reads stdin until nothing is
// buffered, applies each command, and rearms the timer on the way out
// unless the user quit. Returns true on quit.
func (loop *Loop) pollKeyboard() (quit bool) {
	if _, err := loop.endpoints.Timer.Acknowledge(); err != nil {
		loop.logger.Warn("acknowledging keyboard timer failed", "error", err)
	}
	defer func() {
		if quit || loop.keyboardClosed {
			return
		}
		if err := loop.endpoints.Timer.Arm(); err != nil {
			loop.logger.Warn("rearming keyboard timer failed", "error", err)
		}
	}()

	for {
		b, err := loop.endpoints.Keyboard.ReadByte()
		switch {
		case errors.Is(err, keyboard.ErrNoInput):
			return false
		case errors.Is(err, keyboard.ErrClosed):
			loop.logger.Info("keyboard input closed, still receiving")
			loop.keyboardClosed = true
			return false
		case err != nil:
			loop.logger.Warn("reading keyboard failed", "error", err)
			return false
		}

		key, complete := loop.decoder.Feed(b)
		if !complete {
			continue
		}
		command := keyboard.CommandFor(key)
		switch {
		case command == shape.Quit:
			return true
		case command.Moves():
			loop.move(command)
		default:
			loop.logger.Debug("ignoring key", "key", key.String())
		}
	}
}

// move applies command, publishes the result, and shows it. A publish
// failure is logged and otherwise ignored.
func (loop *Loop) move(command shape.Command) {
	loop.current = loop.current.Apply(command)
	if err := loop.endpoints.Writer.Publish(loop.current); err != nil {
		loop.logger.Warn("publishing shape failed",
			"command", command.String(),
			"shape", loop.current.String(),
			"error", err,
		)
	}
	loop.endpoints.Display.ShowLocal(loop.current)
}
