// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bureau-foundation/shapes/lib/codec"
)

// ErrWriterClosed is returned by Publish after Close.
var ErrWriterClosed = errors.New("bus: writer closed")

// Writer publishes values of type T on one topic.
type Writer[T any] struct {
	participant *Participant
	topicInfo   Topic
	id          string

	mutex    sync.Mutex
	sequence uint64
	closed   bool
}

// NewWriter creates a writer for topic.
func NewWriter[T any](participant *Participant, topic Topic) (*Writer[T], error) {
	if err := topic.validate(); err != nil {
		return nil, err
	}
	id, err := participant.entityID()
	if err != nil {
		return nil, err
	}
	return &Writer[T]{participant: participant, topicInfo: topic, id: id}, nil
}

// ID returns the writer's identity as it appears in SampleInfo.Writer.
func (writer *Writer[T]) ID() string { return writer.id }

// Topic returns the writer's topic.
func (writer *Writer[T]) Topic() Topic { return writer.topicInfo }

// Publish encodes value and sends it to every reader of the topic.
// Delivery is best effort; a nil error means the datagram was handed to
// the transport, not that any reader received it.
func (writer *Writer[T]) Publish(value T) error {
	payload, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s sample: %w", writer.topicInfo, err)
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	if writer.closed {
		return ErrWriterClosed
	}
	writer.sequence++
	err = writer.participant.send(Envelope{
		Topic:    writer.topicInfo.Name,
		Type:     writer.topicInfo.TypeName,
		Writer:   writer.id,
		Sequence: writer.sequence,
		Payload:  payload,
	})
	if err != nil {
		return fmt.Errorf("publishing %s sample %d: %w", writer.topicInfo, writer.sequence, err)
	}
	return nil
}

// Sequence returns the sequence number of the most recent Publish.
func (writer *Writer[T]) Sequence() uint64 {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	return writer.sequence
}

// Close stops the writer. Safe to call more than once.
func (writer *Writer[T]) Close() error {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	writer.closed = true
	return nil
}
