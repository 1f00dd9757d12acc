// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bus

import (
	"fmt"
	"net"
	"sync"
)

// Compile-time interface check.
var _ Transport = (*MemoryTransport)(nil)

// memoryInboxCapacity is how many undelivered datagrams a memory
// endpoint holds before further datagrams are dropped, the way a full
// socket receive buffer drops UDP.
const memoryInboxCapacity = 4096

// MemoryHub is an in-process broadcast medium for tests. Every
// datagram sent by any connected endpoint is delivered to every
// connected endpoint, including the sender.
type MemoryHub struct {
	mutex     sync.Mutex
	endpoints map[*MemoryTransport]struct{}
}

// NewMemoryHub creates an empty hub.
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{endpoints: make(map[*MemoryTransport]struct{})}
}

// Connect attaches a new endpoint to the hub.
func (hub *MemoryHub) Connect() *MemoryTransport {
	endpoint := &MemoryTransport{
		hub:    hub,
		inbox:  make(chan []byte, memoryInboxCapacity),
		closed: make(chan struct{}),
	}
	hub.mutex.Lock()
	hub.endpoints[endpoint] = struct{}{}
	hub.mutex.Unlock()
	return endpoint
}

func (hub *MemoryHub) broadcast(datagram []byte) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	for endpoint := range hub.endpoints {
		select {
		case endpoint.inbox <- datagram:
		default:
			endpoint.dropped++
		}
	}
}

func (hub *MemoryHub) disconnect(endpoint *MemoryTransport) {
	hub.mutex.Lock()
	delete(hub.endpoints, endpoint)
	hub.mutex.Unlock()
}

// MemoryTransport is one endpoint on a MemoryHub.
type MemoryTransport struct {
	hub       *MemoryHub
	inbox     chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	// dropped counts datagrams discarded because inbox was full.
	// Guarded by hub.mutex.
	dropped uint64
}

func (endpoint *MemoryTransport) Send(datagram []byte) error {
	select {
	case <-endpoint.closed:
		return fmt.Errorf("memory transport send: %w", net.ErrClosed)
	default:
	}
	if len(datagram) > MaxDatagramSize {
		return fmt.Errorf("datagram of %d bytes exceeds %d", len(datagram), MaxDatagramSize)
	}
	// Receivers must not observe later mutation of the caller's buffer.
	endpoint.hub.broadcast(append([]byte(nil), datagram...))
	return nil
}

func (endpoint *MemoryTransport) Receive(buffer []byte) (int, error) {
	select {
	case datagram := <-endpoint.inbox:
		return copy(buffer, datagram), nil
	case <-endpoint.closed:
		return 0, fmt.Errorf("memory transport receive: %w", net.ErrClosed)
	}
}

// Dropped returns the number of datagrams this endpoint discarded
// because its inbox was full.
func (endpoint *MemoryTransport) Dropped() uint64 {
	endpoint.hub.mutex.Lock()
	defer endpoint.hub.mutex.Unlock()
	return endpoint.dropped
}

// Close detaches the endpoint from its hub. Safe to call more than
// once.
func (endpoint *MemoryTransport) Close() error {
	endpoint.closeOnce.Do(func() {
		endpoint.hub.disconnect(endpoint)
		close(endpoint.closed)
	})
	return nil
}
