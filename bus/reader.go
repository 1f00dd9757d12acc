// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package bus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/shapes/lib/codec"
)

// ErrReaderClosed is returned by Drain after the reader or its
// participant has been closed.
var ErrReaderClosed = errors.New("bus: reader closed")

// SampleInfo describes where a sample came from.
type SampleInfo struct {
	Topic    string
	Writer   string
	Sequence uint64
}

// Received is one drained sample. Exactly one of Value and Err is
// meaningful: Err is set when the payload did not decode as T.
type Received[T any] struct {
	Value T
	Info  SampleInfo
	Err   error
}

// OK reports whether the sample decoded.
func (received Received[T]) OK() bool { return received.Err == nil }

// Reader receives values of type T published on one topic.
type Reader[T any] struct {
	participant *Participant
	topicInfo   Topic
	qos         QoS

	mutex    sync.Mutex
	queue    []Envelope
	dropped  uint64
	notifyFd int
	closed   bool
}

// Compile-time interface check.
var _ subscriber = (*Reader[int])(nil)

// NewReader creates a reader for topic.
func NewReader[T any](participant *Participant, topic Topic, qos QoS) (*Reader[T], error) {
	if err := topic.validate(); err != nil {
		return nil, err
	}
	if err := qos.validate(); err != nil {
		return nil, err
	}
	notifyFd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("creating reader readiness eventfd: %w", err)
	}
	reader := &Reader[T]{
		participant: participant,
		topicInfo:   topic,
		qos:         qos,
		notifyFd:    notifyFd,
	}
	if err := participant.attach(reader); err != nil {
		unix.Close(notifyFd)
		return nil, err
	}
	return reader, nil
}

// Fd returns the readiness descriptor. It becomes readable each time a
// sample is buffered.
func (reader *Reader[T]) Fd() int { return reader.notifyFd }

// Topic returns the reader's topic.
func (reader *Reader[T]) Topic() Topic { return reader.topicInfo }

func (reader *Reader[T]) topic() Topic { return reader.topicInfo }

// deliver buffers an envelope and signals readiness. Called from the
// participant's receive goroutine.
func (reader *Reader[T]) deliver(envelope Envelope) {
	reader.mutex.Lock()
	defer reader.mutex.Unlock()
	if reader.closed {
		return
	}
	if len(reader.queue) >= reader.qos.HistoryDepth {
		reader.queue[0] = Envelope{}
		reader.queue = reader.queue[1:]
		reader.dropped++
	}
	reader.queue = append(reader.queue, envelope)

	// Every write is a new edge for an edge-triggered poller, whether
	// or not the counter was already non-zero. The write happens under
	// the mutex so it cannot race with Close releasing the descriptor.
	var one [8]byte
	binary.NativeEndian.PutUint64(one[:], 1)
	unix.Write(reader.notifyFd, one[:])
}

// Drain removes up to limit buffered samples and decodes them, oldest
// first. It never blocks. Payloads that fail to decode appear as
// Received values with Err set; they count toward limit.
func (reader *Reader[T]) Drain(limit int) ([]Received[T], error) {
	reader.mutex.Lock()
	if reader.closed {
		reader.mutex.Unlock()
		return nil, ErrReaderClosed
	}
	count := min(limit, len(reader.queue))
	if count <= 0 {
		reader.resetReadiness()
		reader.mutex.Unlock()
		return nil, nil
	}
	taken := make([]Envelope, count)
	copy(taken, reader.queue[:count])
	clear(reader.queue[:count])
	reader.queue = reader.queue[count:]
	reader.resetReadiness()
	reader.mutex.Unlock()

	samples := make([]Received[T], 0, count)
	for _, envelope := range taken {
		sample := Received[T]{
			Info: SampleInfo{
				Topic:    envelope.Topic,
				Writer:   envelope.Writer,
				Sequence: envelope.Sequence,
			},
		}
		if err := codec.Unmarshal(envelope.Payload, &sample.Value); err != nil {
			sample.Err = fmt.Errorf("decoding %s sample %d from %s: %w",
				reader.topicInfo, envelope.Sequence, envelope.Writer, err)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// resetReadiness zeroes the eventfd counter. Called with the mutex
// held. Edge notification depends on writes, not on the counter value,
// so leftover samples beyond a Drain limit stay unsignalled until the
// next arrival.
func (reader *Reader[T]) resetReadiness() {
	var counter [8]byte
	unix.Read(reader.notifyFd, counter[:])
}

// Pending returns the number of buffered samples.
func (reader *Reader[T]) Pending() int {
	reader.mutex.Lock()
	defer reader.mutex.Unlock()
	return len(reader.queue)
}

// Dropped returns how many samples were evicted by the history bound.
func (reader *Reader[T]) Dropped() uint64 {
	reader.mutex.Lock()
	defer reader.mutex.Unlock()
	return reader.dropped
}

// Close detaches the reader from its participant and releases the
// readiness descriptor. Safe to call more than once.
func (reader *Reader[T]) Close() error {
	reader.participant.detach(reader)
	return reader.release()
}

// detach is called by the participant when it closes.
func (reader *Reader[T]) detach() {
	reader.release()
}

func (reader *Reader[T]) release() error {
	reader.mutex.Lock()
	defer reader.mutex.Unlock()
	if reader.closed {
		return nil
	}
	reader.closed = true
	reader.queue = nil
	return unix.Close(reader.notifyFd)
}
