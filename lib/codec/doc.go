// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration shared by every
// participant on the shapes bus.
//
// All bus traffic is CBOR: the datagram envelope that carries topic,
// writer identity, and sequence number, and the typed payload nested
// inside it. Two processes that disagree about encoding options would
// see each other's samples as decode failures, so the encoder and
// decoder modes live here and nowhere else.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same shape at the same position always produces identical bytes.
//
// For buffer-oriented operations (datagrams, envelopes):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Payloads are carried inside envelopes as [RawMessage] so that a
// reader can accept the envelope and defer payload decoding to the
// moment a sample is drained. A payload that fails to decode then
// surfaces as a per-sample error instead of poisoning the batch.
//
// Wire types use `cbor` struct tags exclusively.
package codec
