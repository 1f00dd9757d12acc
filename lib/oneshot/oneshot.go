// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package oneshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// State is the timer's position in its state machine.
type State int

const (
	Disarmed State = iota
	Armed
	Fired
)

func (state State) String() string {
	switch state {
	case Disarmed:
		return "disarmed"
	case Armed:
		return "armed"
	case Fired:
		return "fired"
	default:
		return fmt.Sprintf("State(%d)", int(state))
	}
}

// ErrClosed is returned by operations on a closed Timer.
var ErrClosed = errors.New("oneshot: timer closed")

// Timer is a one-shot timer with a fixed interval. Not safe for
// concurrent use.
type Timer struct {
	fd       int
	interval time.Duration
	state    State
	closed   bool
}

// New creates a disarmed timer that, once armed, expires interval
// later.
func New(interval time.Duration) (*Timer, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("oneshot: interval must be positive, got %v", interval)
	}
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("timerfd_create: %w", err)
	}
	return &Timer{fd: fd, interval: interval}, nil
}

// Fd returns the descriptor to register with a multiplexer.
func (timer *Timer) Fd() int { return timer.fd }

// Interval returns the configured expiry interval.
func (timer *Timer) Interval() time.Duration { return timer.interval }

// State returns the current state.
func (timer *Timer) State() State { return timer.state }

// Arm schedules one expiry Interval from now, replacing any pending
// expiry.
func (timer *Timer) Arm() error {
	if timer.closed {
		return ErrClosed
	}
	spec := unix.ItimerSpec{
		Value: unix.NsecToTimespec(timer.interval.Nanoseconds()),
	}
	if err := unix.TimerfdSettime(timer.fd, 0, &spec, nil); err != nil {
		return fmt.Errorf("timerfd_settime: %w", err)
	}
	timer.state = Armed
	return nil
}

// Acknowledge consumes a pending expiry without blocking. It returns
// true and moves the timer to Fired if the timer had expired, false if
// nothing was pending.
func (timer *Timer) Acknowledge() (bool, error) {
	if timer.closed {
		return false, ErrClosed
	}
	var expirations [8]byte
	for {
		_, err := unix.Read(timer.fd, expirations[:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return false, nil
		case err != nil:
			return false, fmt.Errorf("reading timer expirations: %w", err)
		}
		if binary.NativeEndian.Uint64(expirations[:]) == 0 {
			return false, nil
		}
		timer.state = Fired
		return true, nil
	}
}

// Disarm cancels a pending expiry.
func (timer *Timer) Disarm() error {
	if timer.closed {
		return ErrClosed
	}
	var spec unix.ItimerSpec
	if err := unix.TimerfdSettime(timer.fd, 0, &spec, nil); err != nil {
		return fmt.Errorf("timerfd_settime: %w", err)
	}
	timer.state = Disarmed
	return nil
}

// Close releases the descriptor. Safe to call more than once.
func (timer *Timer) Close() error {
	if timer.closed {
		return nil
	}
	timer.closed = true
	timer.state = Disarmed
	return unix.Close(timer.fd)
}
