// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package shapes

import (
	"errors"
	"time"

	"github.com/bureau-foundation/shapes/bus"
	"github.com/bureau-foundation/shapes/lib/keyboard"
	"github.com/bureau-foundation/shapes/lib/poller"
	"github.com/bureau-foundation/shapes/lib/shape"
)

type registration struct {
	token    poller.Token
	interest poller.Interest
	trigger  poller.Trigger
}

// scriptedMultiplexer returns one scripted result per Wait. Once the
// script runs out it reports poller.ErrClosed so a test that forgets a
// stop event fails instead of hanging.
type scriptedMultiplexer struct {
	registrations []registration
	registerErr   map[poller.Token]error
	script        []waitResult
	waits         int
}

type waitResult struct {
	events []poller.Event
	err    error
}

func (mux *scriptedMultiplexer) Register(source poller.Source, token poller.Token, interest poller.Interest, trigger poller.Trigger) error {
	if err := mux.registerErr[token]; err != nil {
		return err
	}
	mux.registrations = append(mux.registrations, registration{token, interest, trigger})
	return nil
}

func (mux *scriptedMultiplexer) Wait(timeout *time.Duration) ([]poller.Event, error) {
	mux.waits++
	if len(mux.script) == 0 {
		return nil, poller.ErrClosed
	}
	next := mux.script[0]
	mux.script = mux.script[1:]
	return next.events, next.err
}

func batch(tokens ...poller.Token) waitResult {
	events := make([]poller.Event, len(tokens))
	for index, token := range tokens {
		events[index] = poller.Event{Token: token, Readable: true}
	}
	return waitResult{events: events}
}

type fakeSource struct{ fd int }

func (source fakeSource) Fd() int { return source.fd }

type fakeReader struct {
	fakeSource
	pending  []bus.Received[shape.Shape]
	limits   []int
	drainErr error
}

func (reader *fakeReader) Drain(limit int) ([]bus.Received[shape.Shape], error) {
	reader.limits = append(reader.limits, limit)
	if reader.drainErr != nil {
		return nil, reader.drainErr
	}
	count := min(limit, len(reader.pending))
	taken := reader.pending[:count]
	reader.pending = reader.pending[count:]
	return taken, nil
}

type fakeWriter struct {
	published []shape.Shape
	err       error
}

func (writer *fakeWriter) Publish(value shape.Shape) error {
	writer.published = append(writer.published, value)
	return writer.err
}

type fakeTimer struct {
	fakeSource
	arms   int
	acks   int
	armErr error
	// failRearm fails every Arm after the first.
	failRearm bool
}

func (timer *fakeTimer) Arm() error {
	timer.arms++
	if timer.failRearm && timer.arms > 1 {
		return errors.New("timerfd_settime: invalid argument")
	}
	return timer.armErr
}

func (timer *fakeTimer) Acknowledge() (bool, error) {
	timer.acks++
	return true, nil
}

// fakeKeyboard delivers input in chunks, one chunk per timer firing.
// Each chunk ends with ErrNoInput. After the last chunk it returns
// ErrNoInput forever, or keyboard.ErrClosed when eof is set.
type fakeKeyboard struct {
	chunks [][]byte
	eof    bool
	reads  int
}

func (source *fakeKeyboard) ReadByte() (byte, error) {
	source.reads++
	if len(source.chunks) == 0 {
		if source.eof {
			return 0, keyboard.ErrClosed
		}
		return 0, keyboard.ErrNoInput
	}
	if len(source.chunks[0]) == 0 {
		source.chunks = source.chunks[1:]
		return 0, keyboard.ErrNoInput
	}
	b := source.chunks[0][0]
	source.chunks[0] = source.chunks[0][1:]
	return b, nil
}

func (source *fakeKeyboard) remaining() int {
	total := 0
	for _, chunk := range source.chunks {
		total += len(chunk)
	}
	return total
}

type fakeDisplay struct {
	local    []shape.Shape
	received []bus.Received[shape.Shape]
}

func (display *fakeDisplay) ShowLocal(current shape.Shape) {
	display.local = append(display.local, current)
}

func (display *fakeDisplay) ShowReceived(sample bus.Received[shape.Shape]) {
	display.received = append(display.received, sample)
}

type harness struct {
	mux      *scriptedMultiplexer
	reader   *fakeReader
	writer   *fakeWriter
	timer    *fakeTimer
	keyboard *fakeKeyboard
	display  *fakeDisplay
}

func newHarness(script ...waitResult) *harness {
	return &harness{
		mux:      &scriptedMultiplexer{script: script},
		reader:   &fakeReader{fakeSource: fakeSource{fd: 11}},
		writer:   &fakeWriter{},
		timer:    &fakeTimer{fakeSource: fakeSource{fd: 12}},
		keyboard: &fakeKeyboard{},
		display:  &fakeDisplay{},
	}
}

func (h *harness) endpoints() Endpoints {
	return Endpoints{
		Multiplexer: h.mux,
		Reader:      h.reader,
		Writer:      h.writer,
		Stop:        fakeSource{fd: 10},
		Timer:       h.timer,
		Keyboard:    h.keyboard,
		Display:     h.display,
	}
}

func received(x, y int32, sequence uint64) bus.Received[shape.Shape] {
	return bus.Received[shape.Shape]{
		Value: shape.New("RED", x, y, 30),
		Info:  bus.SampleInfo{Topic: "Square", Writer: "remote", Sequence: sequence},
	}
}

func undecodable(sequence uint64) bus.Received[shape.Shape] {
	return bus.Received[shape.Shape]{
		Info: bus.SampleInfo{Topic: "Square", Writer: "remote", Sequence: sequence},
		Err:  errors.New("cbor: cannot unmarshal"),
	}
}

const (
	arrowUp    = "\x1b[A"
	arrowDown  = "\x1b[B"
	arrowRight = "\x1b[C"
	arrowLeft  = "\x1b[D"
)
