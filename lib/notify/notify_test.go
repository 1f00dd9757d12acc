// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/bureau-foundation/shapes/lib/poller"
	"github.com/bureau-foundation/shapes/lib/testutil"
)

func newChannel(t *testing.T) (*Sender, *Receiver) {
	t.Helper()
	sender, receiver, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { receiver.Close() })
	return sender, receiver
}

func TestReceivedBeforeSend(t *testing.T) {
	t.Parallel()

	_, receiver := newChannel(t)
	received, err := receiver.Received()
	if err != nil {
		t.Fatalf("Received: %v", err)
	}
	if received {
		t.Fatal("Received() = true before Send")
	}
}

func TestSendThenReceived(t *testing.T) {
	t.Parallel()

	sender, receiver := newChannel(t)
	if err := sender.Send(); err != nil {
		t.Fatalf("Send: %v", err)
	}
	for attempt := range 2 {
		received, err := receiver.Received()
		if err != nil {
			t.Fatalf("Received %d: %v", attempt, err)
		}
		if !received {
			t.Fatalf("Received %d = false after Send", attempt)
		}
	}
}

func TestSecondSendRejected(t *testing.T) {
	t.Parallel()

	sender, _ := newChannel(t)
	if err := sender.Send(); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := sender.Send(); !errors.Is(err, ErrAlreadySent) {
		t.Fatalf("second Send: got %v, want ErrAlreadySent", err)
	}
}

func TestSendAfterReceiverClosed(t *testing.T) {
	t.Parallel()

	sender, receiver := newChannel(t)
	if err := receiver.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := sender.Send(); !errors.Is(err, ErrReceiverClosed) {
		t.Fatalf("Send after Close: got %v, want ErrReceiverClosed", err)
	}
	if err := receiver.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestReceiverIsPollable(t *testing.T) {
	t.Parallel()

	sender, receiver := newChannel(t)
	multiplexer, err := poller.New()
	if err != nil {
		t.Fatalf("poller.New: %v", err)
	}
	defer multiplexer.Close()
	if err := multiplexer.Register(receiver, 0, poller.Readable, poller.Edge); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Send from another goroutine, the way the control goroutine does.
	sendResult := make(chan error, 1)
	go func() { sendResult <- sender.Send() }()

	events, err := multiplexer.Wait(nil)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(events) != 1 || events[0].Token != 0 {
		t.Fatalf("events = %+v, want token 0", events)
	}
	if err := testutil.RequireReceive(t, sendResult, 5*time.Second, "send result"); err != nil {
		t.Fatalf("Send: %v", err)
	}
}
