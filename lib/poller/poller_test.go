// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package poller

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// pipeSource is the read end of a non-blocking pipe.
type pipeSource struct {
	readFd  int
	writeFd int
}

func (p *pipeSource) Fd() int { return p.readFd }

func newPipe(t *testing.T) *pipeSource {
	t.Helper()
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe2: %v", err)
	}
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})
	return &pipeSource{readFd: fds[0], writeFd: fds[1]}
}

func (p *pipeSource) write(t *testing.T, data string) {
	t.Helper()
	if _, err := unix.Write(p.writeFd, []byte(data)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readSome reads up to n bytes without blocking.
func (p *pipeSource) readSome(t *testing.T, n int) int {
	t.Helper()
	buffer := make([]byte, n)
	count, err := unix.Read(p.readFd, buffer)
	if err == unix.EAGAIN {
		return 0
	}
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return count
}

func newPoller(t *testing.T) *Poller {
	t.Helper()
	poller, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { poller.Close() })
	return poller
}

func zeroTimeout() *time.Duration {
	timeout := time.Duration(0)
	return &timeout
}

func tokens(events []Event) []Token {
	result := make([]Token, 0, len(events))
	for _, event := range events {
		result = append(result, event.Token)
	}
	return result
}

func TestWaitReportsReadySource(t *testing.T) {
	t.Parallel()

	poller := newPoller(t)
	first := newPipe(t)
	second := newPipe(t)
	if err := poller.Register(first, 7, Readable, Edge); err != nil {
		t.Fatalf("Register first: %v", err)
	}
	if err := poller.Register(second, 1<<40, Readable, Edge); err != nil {
		t.Fatalf("Register second: %v", err)
	}

	second.write(t, "x")
	events, err := poller.Wait(nil)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(events) != 1 || events[0].Token != 1<<40 || !events[0].Readable {
		t.Fatalf("events = %+v, want one readable event for token 1<<40", events)
	}
}

func TestWaitTimeoutReturnsEmpty(t *testing.T) {
	t.Parallel()

	poller := newPoller(t)
	if err := poller.Register(newPipe(t), 1, Readable, Edge); err != nil {
		t.Fatalf("Register: %v", err)
	}
	events, err := poller.Wait(zeroTimeout())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("events = %+v, want none", events)
	}
}

func TestEdgeTriggeredDoesNotResignalUndrainedData(t *testing.T) {
	t.Parallel()

	poller := newPoller(t)
	pipe := newPipe(t)
	if err := poller.Register(pipe, 1, Readable, Edge); err != nil {
		t.Fatalf("Register: %v", err)
	}

	pipe.write(t, "abcdef")
	events, err := poller.Wait(zeroTimeout())
	if err != nil || len(events) != 1 {
		t.Fatalf("first Wait = %+v, %v; want one event", events, err)
	}

	// Consume only part of the data. Edge triggering must not report
	// the leftover bytes again.
	if count := pipe.readSome(t, 2); count != 2 {
		t.Fatalf("partial read = %d, want 2", count)
	}
	events, err = poller.Wait(zeroTimeout())
	if err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("edge source re-signalled without new data: %+v", events)
	}

	// New data produces a new edge.
	pipe.write(t, "g")
	events, err = poller.Wait(zeroTimeout())
	if err != nil || len(events) != 1 {
		t.Fatalf("third Wait = %+v, %v; want one event", events, err)
	}
}

func TestLevelTriggeredResignals(t *testing.T) {
	t.Parallel()

	poller := newPoller(t)
	pipe := newPipe(t)
	if err := poller.Register(pipe, 3, Readable, Level); err != nil {
		t.Fatalf("Register: %v", err)
	}
	pipe.write(t, "abc")

	for attempt := range 2 {
		events, err := poller.Wait(zeroTimeout())
		if err != nil {
			t.Fatalf("Wait %d: %v", attempt, err)
		}
		if len(events) != 1 || events[0].Token != 3 {
			t.Fatalf("Wait %d = %+v, want token 3", attempt, events)
		}
	}
}

func TestMultipleReadySourcesInOneBatch(t *testing.T) {
	t.Parallel()

	poller := newPoller(t)
	pipes := []*pipeSource{newPipe(t), newPipe(t), newPipe(t)}
	for index, pipe := range pipes {
		if err := poller.Register(pipe, Token(index), Readable, Edge); err != nil {
			t.Fatalf("Register %d: %v", index, err)
		}
		pipe.write(t, "x")
	}

	events, err := poller.Wait(zeroTimeout())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	seen := map[Token]bool{}
	for _, token := range tokens(events) {
		seen[token] = true
	}
	if len(seen) != 3 {
		t.Fatalf("batch tokens = %v, want all three", tokens(events))
	}
}

func TestRegisterDuplicateToken(t *testing.T) {
	t.Parallel()

	poller := newPoller(t)
	if err := poller.Register(newPipe(t), 1, Readable, Edge); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := poller.Register(newPipe(t), 1, Readable, Edge)
	if !errors.Is(err, ErrTokenInUse) {
		t.Fatalf("duplicate Register: got %v, want ErrTokenInUse", err)
	}
	if poller.Registered() != 1 {
		t.Errorf("Registered() = %d, want 1", poller.Registered())
	}
}

func TestRegisterInvalidDescriptor(t *testing.T) {
	t.Parallel()

	poller := newPoller(t)
	pipe := newPipe(t)
	invalid := &pipeSource{readFd: -1, writeFd: pipe.writeFd}
	if err := poller.Register(invalid, 1, Readable, Edge); err == nil {
		t.Fatal("Register with fd -1 succeeded")
	}
	if poller.Registered() != 0 {
		t.Errorf("failed registration was recorded")
	}
}

func TestDeregister(t *testing.T) {
	t.Parallel()

	poller := newPoller(t)
	pipe := newPipe(t)
	if err := poller.Register(pipe, 9, Readable, Edge); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := poller.Deregister(9); err != nil {
		t.Fatalf("Deregister: %v", err)
	}
	pipe.write(t, "x")
	events, err := poller.Wait(zeroTimeout())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("deregistered source reported: %+v", events)
	}
	if err := poller.Deregister(9); !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("second Deregister: got %v, want ErrUnknownToken", err)
	}
	// The token is free again.
	if err := poller.Register(pipe, 9, Readable, Edge); err != nil {
		t.Fatalf("re-Register: %v", err)
	}
}

func TestHangupIsReadable(t *testing.T) {
	t.Parallel()

	poller := newPoller(t)
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe2: %v", err)
	}
	defer unix.Close(fds[0])
	source := &pipeSource{readFd: fds[0], writeFd: fds[1]}
	if err := poller.Register(source, 2, Readable, Edge); err != nil {
		t.Fatalf("Register: %v", err)
	}
	unix.Close(fds[1])

	events, err := poller.Wait(zeroTimeout())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(events) != 1 || !events[0].Hangup || !events[0].Readable {
		t.Fatalf("events = %+v, want one readable hangup", events)
	}
}

func TestClosedPoller(t *testing.T) {
	t.Parallel()

	poller, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := poller.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := poller.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := poller.Wait(zeroTimeout()); !errors.Is(err, ErrClosed) {
		t.Errorf("Wait after Close: got %v, want ErrClosed", err)
	}
	if err := poller.Register(newPipe(t), 1, Readable, Edge); !errors.Is(err, ErrClosed) {
		t.Errorf("Register after Close: got %v, want ErrClosed", err)
	}
}
