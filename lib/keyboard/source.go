// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package keyboard

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrNoInput is returned by [Source.ReadByte] when no byte is
// immediately available.
var ErrNoInput = errors.New("keyboard: no input available")

// ErrClosed is returned by reads on a closed Source.
var ErrClosed = errors.New("keyboard: source closed")

// Source reads bytes from a file descriptor without blocking. It
// buffers one read(2) worth of input so that draining a burst of
// keystrokes costs one system call, not one per byte.
type Source struct {
	fd     int
	closed bool

	// wasBlocking records the descriptor's mode before NewSource
	// switched it, so Close can put it back. Stdin is shared with the
	// parent shell, which expects blocking reads.
	wasBlocking bool

	buffer [256]byte
	start  int
	end    int
}

// NewSource switches fd to non-blocking mode and returns a Source
// reading from it. The caller keeps ownership of fd; Close restores
// its blocking mode but does not close it.
//
// When fd is os.Stdin, obtain it with os.Stdin.Fd() before calling
// NewSource: (*os.File).Fd puts the descriptor back into blocking mode.
func NewSource(fd int) (*Source, error) {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor flags: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, fmt.Errorf("setting descriptor non-blocking: %w", err)
	}
	return &Source{fd: fd, wasBlocking: flags&unix.O_NONBLOCK == 0}, nil
}

// Fd returns the underlying descriptor.
func (s *Source) Fd() int { return s.fd }

// ReadByte returns the next buffered byte. It returns [ErrNoInput]
// when the descriptor has nothing to read right now, and io errors
// from read(2) otherwise. End of file is reported as [ErrClosed]: a
// terminal that hangs up produces no more keys.
func (s *Source) ReadByte() (byte, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.start == s.end {
		if err := s.fill(); err != nil {
			return 0, err
		}
	}
	b := s.buffer[s.start]
	s.start++
	return b, nil
}

func (s *Source) fill() error {
	for {
		count, err := unix.Read(s.fd, s.buffer[:])
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return ErrNoInput
		case err != nil:
			return fmt.Errorf("reading keyboard: %w", err)
		case count == 0:
			return ErrClosed
		}
		s.start, s.end = 0, count
		return nil
	}
}

// Buffered returns the number of bytes already read from the
// descriptor but not yet returned.
func (s *Source) Buffered() int { return s.end - s.start }

// Close restores the descriptor's original blocking mode. It is safe to
// call more than once.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.wasBlocking {
		if err := unix.SetNonblock(s.fd, false); err != nil {
			return fmt.Errorf("restoring blocking mode: %w", err)
		}
	}
	return nil
}
