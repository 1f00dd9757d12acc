// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bus

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/shapes/lib/codec"
)

// Topic names a typed channel on the bus. Two topics with the same Name
// but different TypeName do not match.
type Topic struct {
	Name     string
	TypeName string
}

func (topic Topic) validate() error {
	if topic.Name == "" {
		return errors.New("topic name is empty")
	}
	if topic.TypeName == "" {
		return fmt.Errorf("topic %q has no type name", topic.Name)
	}
	return nil
}

func (topic Topic) String() string {
	return topic.Name + "<" + topic.TypeName + ">"
}

// Envelope is the datagram format. Payload is the CBOR encoding of the
// published value, left encoded until a reader drains it.
type Envelope struct {
	Domain   uint16           `cbor:"domain"`
	Topic    string           `cbor:"topic"`
	Type     string           `cbor:"type"`
	Writer   string           `cbor:"writer"`
	Sequence uint64           `cbor:"seq"`
	Payload  codec.RawMessage `cbor:"payload"`
}

// encodeEnvelope produces the datagram for envelope.
func encodeEnvelope(envelope Envelope) ([]byte, error) {
	data, err := codec.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encoding envelope: %w", err)
	}
	return data, nil
}

// decodeEnvelope parses a datagram. Only the envelope is decoded; the
// payload is validated as well-formed CBOR but not interpreted.
func decodeEnvelope(datagram []byte) (Envelope, error) {
	var envelope Envelope
	if err := codec.Unmarshal(datagram, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if envelope.Topic == "" || envelope.Writer == "" {
		return Envelope{}, errors.New("decoding envelope: missing topic or writer")
	}
	return envelope, nil
}

// matches reports whether envelope belongs to topic.
func (envelope Envelope) matches(topic Topic) bool {
	return envelope.Topic == topic.Name && envelope.Type == topic.TypeName
}
