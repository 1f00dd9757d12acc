// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package keyboard

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

// newPipeSource returns a Source reading from the read end of a pipe
// and the write end for the test to feed.
func newPipeSource(t *testing.T) (*Source, int) {
	t.Helper()
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})
	source, err := NewSource(fds[0])
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	t.Cleanup(func() { source.Close() })
	return source, fds[1]
}

func TestSourceEmptyReturnsNoInput(t *testing.T) {
	t.Parallel()

	source, _ := newPipeSource(t)
	if _, err := source.ReadByte(); !errors.Is(err, ErrNoInput) {
		t.Fatalf("ReadByte on empty pipe: got %v, want ErrNoInput", err)
	}
}

func TestSourceDrainsEverythingThenStops(t *testing.T) {
	t.Parallel()

	source, writeEnd := newPipeSource(t)
	if _, err := unix.Write(writeEnd, []byte("\x1b[Cq")); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got []byte
	for {
		b, err := source.ReadByte()
		if errors.Is(err, ErrNoInput) {
			break
		}
		if err != nil {
			t.Fatalf("ReadByte: %v", err)
		}
		got = append(got, b)
	}
	if string(got) != "\x1b[Cq" {
		t.Errorf("drained %q, want %q", got, "\x1b[Cq")
	}
	if source.Buffered() != 0 {
		t.Errorf("Buffered() = %d after drain, want 0", source.Buffered())
	}
}

func TestSourceEndOfFile(t *testing.T) {
	t.Parallel()

	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer unix.Close(fds[0])
	source, err := NewSource(fds[0])
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	unix.Close(fds[1])

	if _, err := source.ReadByte(); !errors.Is(err, ErrClosed) {
		t.Fatalf("ReadByte after writer hangup: got %v, want ErrClosed", err)
	}
}

func TestSourceCloseRestoresBlockingMode(t *testing.T) {
	t.Parallel()

	source, _ := newPipeSource(t)
	if err := source.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	flags, err := unix.FcntlInt(uintptr(source.Fd()), unix.F_GETFL, 0)
	if err != nil {
		t.Fatalf("F_GETFL: %v", err)
	}
	if flags&unix.O_NONBLOCK != 0 {
		t.Error("descriptor still non-blocking after Close")
	}
	if _, err := source.ReadByte(); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadByte after Close: got %v, want ErrClosed", err)
	}
}
