// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bus is a small typed publish-subscribe bus.
//
// A [Participant] joins one numbered domain over a [Transport]. Within
// the participant, a [Writer] publishes values of one Go type on a
// named [Topic] and a [Reader] receives them. Writers and readers never
// learn about each other: a reader receives every sample published on
// its topic, in its domain, by any participant reachable through the
// transport, including its own.
//
// # Wire format
//
// Each sample travels as one datagram holding a CBOR [Envelope]:
// domain, topic, type name, writer identity, per-writer sequence
// number, and the CBOR-encoded payload. The participant's receive
// goroutine decodes envelopes and routes them by topic; payloads stay
// encoded until the sample is drained, so a payload that does not
// decode as the reader's type is reported per sample by
// [Reader.Drain] and never fails the batch.
//
// # Readiness
//
// A Reader owns an eventfd that is written every time a sample is
// buffered. Registering [Reader.Fd] with an edge-triggered multiplexer
// yields one wakeup per arrival burst. [Reader.Drain] returns at most
// the requested number of samples; anything left behind is reported
// again only when a further sample arrives.
//
// # Transports
//
// [UDPTransport] uses IPv4 multicast with RTPS-style port mapping
// (PortBase + DomainGain*domain + 1), so participants on one LAN find
// each other without discovery. [MemoryHub] connects participants in
// one process for tests.
//
// # History
//
// [QoS.HistoryDepth] bounds each reader's buffer. When it is full the
// oldest sample is discarded (keep-last) and counted in
// [Reader.Dropped].
package bus
