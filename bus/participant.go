// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bus

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/bureau-foundation/shapes/lib/codec"
)

// ErrParticipantClosed is returned when creating endpoints on a closed
// participant.
var ErrParticipantClosed = errors.New("bus: participant closed")

// ParticipantConfig identifies a participant.
type ParticipantConfig struct {
	// Domain isolates groups of participants. Samples published in one
	// domain are never delivered in another.
	Domain uint16

	// Index distinguishes participants in the same process or host. It
	// is informational: it appears in writer identities and logs.
	Index uint16
}

// subscriber is the type-erased view of a Reader that the receive
// goroutine routes envelopes to.
type subscriber interface {
	topic() Topic
	deliver(envelope Envelope)
	detach()
}

// Participant is a member of one bus domain. It owns a transport and a
// receive goroutine that routes incoming envelopes to its readers.
type Participant struct {
	config    ParticipantConfig
	guid      uuid.UUID
	transport Transport
	logger    *slog.Logger

	mutex       sync.Mutex
	subscribers map[string][]subscriber // keyed by topic name
	nextEntity  uint32
	closed      bool

	receiveDone chan struct{}
}

// NewParticipant starts a participant on transport. The participant
// takes ownership of transport and closes it on Close.
func NewParticipant(config ParticipantConfig, transport Transport, logger *slog.Logger) *Participant {
	guid := uuid.New()
	participant := &Participant{
		config:    config,
		guid:      guid,
		transport: transport,
		logger: logger.With(
			"component", "bus",
			"domain", config.Domain,
			"participant", config.Index,
		),
		subscribers: make(map[string][]subscriber),
		receiveDone: make(chan struct{}),
	}
	go participant.receiveLoop()
	return participant
}

// GUID returns the participant's globally unique identifier.
func (participant *Participant) GUID() uuid.UUID { return participant.guid }

// Domain returns the participant's domain.
func (participant *Participant) Domain() uint16 { return participant.config.Domain }

// Index returns the participant index from its config.
func (participant *Participant) Index() uint16 { return participant.config.Index }

// entityID allocates an identity for a new writer.
func (participant *Participant) entityID() (string, error) {
	participant.mutex.Lock()
	defer participant.mutex.Unlock()
	if participant.closed {
		return "", ErrParticipantClosed
	}
	participant.nextEntity++
	return fmt.Sprintf("%s.%d.%d", participant.guid, participant.config.Index, participant.nextEntity), nil
}

func (participant *Participant) attach(reader subscriber) error {
	participant.mutex.Lock()
	defer participant.mutex.Unlock()
	if participant.closed {
		return ErrParticipantClosed
	}
	name := reader.topic().Name
	participant.subscribers[name] = append(participant.subscribers[name], reader)
	return nil
}

func (participant *Participant) detach(reader subscriber) {
	participant.mutex.Lock()
	defer participant.mutex.Unlock()
	name := reader.topic().Name
	readers := participant.subscribers[name]
	for index, candidate := range readers {
		if candidate == reader {
			participant.subscribers[name] = append(readers[:index:index], readers[index+1:]...)
			break
		}
	}
	if len(participant.subscribers[name]) == 0 {
		delete(participant.subscribers, name)
	}
}

// send transmits an already-addressed envelope.
func (participant *Participant) send(envelope Envelope) error {
	envelope.Domain = participant.config.Domain
	datagram, err := encodeEnvelope(envelope)
	if err != nil {
		return err
	}
	return participant.transport.Send(datagram)
}

// receiveLoop runs until the transport is closed.
func (participant *Participant) receiveLoop() {
	defer close(participant.receiveDone)

	buffer := make([]byte, MaxDatagramSize)
	for {
		count, err := participant.transport.Receive(buffer)
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				participant.logger.Error("bus receive failed, participant stops receiving", "error", err)
			}
			return
		}
		participant.route(buffer[:count])
	}
}

func (participant *Participant) route(datagram []byte) {
	envelope, err := decodeEnvelope(datagram)
	if err != nil {
		diagnostic, diagnoseErr := codec.Diagnose(datagram)
		if diagnoseErr != nil {
			diagnostic = "not CBOR"
		}
		participant.logger.Debug("dropping malformed datagram",
			"bytes", len(datagram),
			"cbor", diagnostic,
			"error", err,
		)
		return
	}
	if envelope.Domain != participant.config.Domain {
		return
	}
	// The receive buffer is reused for the next datagram.
	envelope.Payload = append([]byte(nil), envelope.Payload...)

	participant.mutex.Lock()
	readers := participant.subscribers[envelope.Topic]
	matched := 0
	for _, reader := range readers {
		if envelope.matches(reader.topic()) {
			reader.deliver(envelope)
			matched++
		}
	}
	participant.mutex.Unlock()

	if matched == 0 && len(readers) > 0 {
		participant.logger.Debug("dropping sample with mismatched type",
			"topic", envelope.Topic,
			"type", envelope.Type,
			"writer", envelope.Writer,
		)
	}
}

// Close stops the receive goroutine, closes the transport, and detaches
// every reader (their Drain calls then fail with ErrReaderClosed).
// Safe to call more than once.
func (participant *Participant) Close() error {
	participant.mutex.Lock()
	if participant.closed {
		participant.mutex.Unlock()
		return nil
	}
	participant.closed = true
	var readers []subscriber
	for _, topicReaders := range participant.subscribers {
		readers = append(readers, topicReaders...)
	}
	participant.subscribers = make(map[string][]subscriber)
	participant.mutex.Unlock()

	err := participant.transport.Close()
	<-participant.receiveDone
	for _, reader := range readers {
		reader.detach()
	}
	return err
}
