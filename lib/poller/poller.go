// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package poller

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// Token identifies a registered source in the events returned by Wait.
type Token uint64

// Interest is the set of readiness conditions a source is watched for.
type Interest uint32

// Readable is the only interest the event loop uses.
const Readable Interest = 1 << 0

// Trigger selects edge- or level-triggered notification.
type Trigger int

const (
	Edge Trigger = iota
	Level
)

func (trigger Trigger) String() string {
	if trigger == Level {
		return "level"
	}
	return "edge"
}

// Source is anything backed by a pollable file descriptor.
type Source interface {
	Fd() int
}

// Event reports readiness for one registered source.
type Event struct {
	Token Token
	// Readable is set when the source has data to read.
	Readable bool
	// Hangup is set when the peer closed or the descriptor errored.
	// A hung-up source is also reported Readable so the consumer
	// drains it and observes the error from its own read.
	Hangup bool
}

var (
	// ErrTokenInUse is returned when registering a second source
	// under a token that is already registered.
	ErrTokenInUse = errors.New("poller: token already registered")

	// ErrUnknownToken is returned by Deregister for tokens that were
	// never registered.
	ErrUnknownToken = errors.New("poller: token not registered")

	// ErrClosed is returned by every method after Close.
	ErrClosed = errors.New("poller: closed")
)

// defaultBatchCapacity bounds the events returned by one Wait. Ready
// sources beyond the capacity are reported by the next Wait.
const defaultBatchCapacity = 64

// Poller wraps an epoll instance.
type Poller struct {
	epollFd int
	closed  bool

	// registered maps token → descriptor. Tokens are stored in the
	// epoll_event data field and translated back on Wait.
	registered map[Token]int

	events []unix.EpollEvent
}

// New creates a Poller.
func New() (*Poller, error) {
	epollFd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll_create1: %w", err)
	}
	return &Poller{
		epollFd:    epollFd,
		registered: make(map[Token]int),
		events:     make([]unix.EpollEvent, defaultBatchCapacity),
	}, nil
}

// Register starts watching source under token. Tokens must be unique:
// registering a token twice returns [ErrTokenInUse] and leaves the
// original registration in place.
func (poller *Poller) Register(source Source, token Token, interest Interest, trigger Trigger) error {
	if poller.closed {
		return ErrClosed
	}
	if _, exists := poller.registered[token]; exists {
		return fmt.Errorf("registering token %d: %w", token, ErrTokenInUse)
	}

	fd := source.Fd()
	event := unix.EpollEvent{Events: epollFlags(interest, trigger)}
	setToken(&event, token)
	if err := unix.EpollCtl(poller.epollFd, unix.EPOLL_CTL_ADD, fd, &event); err != nil {
		return fmt.Errorf("epoll_ctl add fd %d (token %d): %w", fd, token, err)
	}
	poller.registered[token] = fd
	return nil
}

// Deregister stops watching the source registered under token. Call it
// before closing the source's descriptor.
func (poller *Poller) Deregister(token Token) error {
	if poller.closed {
		return ErrClosed
	}
	fd, exists := poller.registered[token]
	if !exists {
		return fmt.Errorf("deregistering token %d: %w", token, ErrUnknownToken)
	}
	delete(poller.registered, token)
	if err := unix.EpollCtl(poller.epollFd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll_ctl del fd %d (token %d): %w", fd, token, err)
	}
	return nil
}

// Wait blocks until at least one source is ready or timeout elapses.
// A nil timeout waits indefinitely and never returns an empty batch. A
// bounded wait interrupted by a signal returns an empty batch and no
// error.
func (poller *Poller) Wait(timeout *time.Duration) ([]Event, error) {
	if poller.closed {
		return nil, ErrClosed
	}

	milliseconds := -1
	if timeout != nil {
		milliseconds = int(timeout.Milliseconds())
		if milliseconds < 0 {
			milliseconds = 0
		}
	}

	var count int
	for {
		var err error
		count, err = unix.EpollWait(poller.epollFd, poller.events, milliseconds)
		if err == unix.EINTR {
			// The Go runtime interrupts blocked threads for goroutine
			// preemption. An indefinite wait resumes; a bounded one
			// reports an empty batch rather than recomputing the
			// remaining time.
			if timeout == nil {
				continue
			}
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("epoll_wait: %w", err)
		}
		break
	}

	batch := make([]Event, 0, count)
	for _, raw := range poller.events[:count] {
		hangup := raw.Events&(unix.EPOLLHUP|unix.EPOLLERR|unix.EPOLLRDHUP) != 0
		batch = append(batch, Event{
			Token:    tokenOf(&raw),
			Readable: raw.Events&unix.EPOLLIN != 0 || hangup,
			Hangup:   hangup,
		})
	}
	return batch, nil
}

// Registered returns the number of registered sources.
func (poller *Poller) Registered() int {
	return len(poller.registered)
}

// Close releases the epoll descriptor. Registered sources are not
// closed. Safe to call more than once.
func (poller *Poller) Close() error {
	if poller.closed {
		return nil
	}
	poller.closed = true
	poller.registered = nil
	return unix.Close(poller.epollFd)
}

func epollFlags(interest Interest, trigger Trigger) uint32 {
	var flags uint32
	if interest&Readable != 0 {
		flags |= unix.EPOLLIN | unix.EPOLLRDHUP
	}
	if trigger == Edge {
		flags |= unix.EPOLLET
	}
	return flags
}

// The epoll_event data union is 64 bits wide; x/sys/unix exposes it as
// the Fd and Pad int32 fields.
func setToken(event *unix.EpollEvent, token Token) {
	event.Fd = int32(uint32(token))
	event.Pad = int32(uint32(token >> 32))
}

func tokenOf(event *unix.EpollEvent) Token {
	return Token(uint32(event.Fd)) | Token(uint32(event.Pad))<<32
}
