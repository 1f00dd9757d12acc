// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package notify

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	// ErrReceiverClosed is returned by Send after the receiving half
	// has been closed.
	ErrReceiverClosed = errors.New("notify: receiver closed")

	// ErrAlreadySent is returned by every Send after the first.
	ErrAlreadySent = errors.New("notify: terminator already sent")
)

// channel is the state shared by both halves. The mutex guarantees
// Send never writes to a descriptor that Close has released (and that
// the kernel may already have reused).
type channel struct {
	mutex  sync.Mutex
	fd     int
	closed bool
	sent   bool
}

// Sender is the sending half. Owned by the control goroutine.
type Sender struct {
	channel *channel
}

// Receiver is the receiving half. Owned by the event loop.
type Receiver struct {
	channel *channel
}

// New creates a connected Sender/Receiver pair.
func New() (*Sender, *Receiver, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, nil, fmt.Errorf("eventfd: %w", err)
	}
	shared := &channel{fd: fd}
	return &Sender{channel: shared}, &Receiver{channel: shared}, nil
}

// Send delivers the terminator.
func (sender *Sender) Send() error {
	shared := sender.channel
	shared.mutex.Lock()
	defer shared.mutex.Unlock()

	if shared.closed {
		return ErrReceiverClosed
	}
	if shared.sent {
		return ErrAlreadySent
	}

	var value [8]byte
	binary.NativeEndian.PutUint64(value[:], 1)
	if _, err := unix.Write(shared.fd, value[:]); err != nil {
		return fmt.Errorf("writing terminator: %w", err)
	}
	shared.sent = true
	return nil
}

// Fd returns the descriptor to register with a multiplexer. It becomes
// readable once Send has been called.
func (receiver *Receiver) Fd() int {
	return receiver.channel.fd
}

// Received reports whether the terminator has been delivered. It never
// blocks. The first call that observes the terminator consumes it from
// the descriptor; later calls keep returning true.
func (receiver *Receiver) Received() (bool, error) {
	shared := receiver.channel
	shared.mutex.Lock()
	defer shared.mutex.Unlock()

	if shared.closed {
		return shared.sent, nil
	}
	var value [8]byte
	_, err := unix.Read(shared.fd, value[:])
	switch {
	case err == unix.EAGAIN:
		return shared.sent, nil
	case err != nil:
		return false, fmt.Errorf("reading terminator: %w", err)
	}
	return true, nil
}

// Close releases the descriptor. Subsequent Sends return
// ErrReceiverClosed. Safe to call more than once.
func (receiver *Receiver) Close() error {
	shared := receiver.channel
	shared.mutex.Lock()
	defer shared.mutex.Unlock()

	if shared.closed {
		return nil
	}
	shared.closed = true
	return unix.Close(shared.fd)
}
