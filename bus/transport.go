// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bus

// MaxDatagramSize is the largest datagram a transport delivers. Larger
// sends fail; larger receives are truncated and will not decode.
const MaxDatagramSize = 64 * 1024

// Transport moves opaque datagrams between participants. Delivery is
// best effort: datagrams may be lost or reordered, never corrupted.
//
// Send and Receive may be called concurrently. Receive blocks until a
// datagram arrives or Close is called, after which it returns an error
// wrapping net.ErrClosed.
type Transport interface {
	Send(datagram []byte) error
	Receive(buffer []byte) (int, error)
	Close() error
}
