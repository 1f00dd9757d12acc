// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bus

import (
	"errors"
	"fmt"
	"net"
)

// Compile-time interface check.
var _ Transport = (*UDPTransport)(nil)

// Defaults for UDPConfig. The port mapping matches the RTPS
// user-multicast rule (PB + DG*domain + d2, with d2 = 1) so that the
// demo occupies the ports operators already expect for a domain.
const (
	DefaultMulticastGroup = "239.255.0.1"
	DefaultPortBase       = 7400
	DefaultDomainGain     = 250
	userMulticastOffset   = 1
)

// UDPConfig configures a multicast transport.
type UDPConfig struct {
	// Group is the IPv4 multicast group address.
	Group string

	// PortBase and DomainGain map a domain number to a UDP port.
	PortBase   int
	DomainGain int

	// Domain selects the port. Participants in different domains never
	// see each other's datagrams.
	Domain uint16

	// Interface is the network interface name to join the group on and
	// to send from. Empty lets the kernel choose both.
	Interface string
}

// Port returns the UDP port for the configured domain.
func (config UDPConfig) Port() (int, error) {
	port := config.PortBase + config.DomainGain*int(config.Domain) + userMulticastOffset
	if config.PortBase <= 0 || config.DomainGain < 0 || port > 65535 {
		return 0, fmt.Errorf("domain %d maps to invalid port %d (base %d, gain %d)",
			config.Domain, port, config.PortBase, config.DomainGain)
	}
	return port, nil
}

// UDPTransport sends and receives datagrams on an IPv4 multicast
// group. Sends leave multicast loopback enabled, so other processes on
// the same host (and this one) receive them.
type UDPTransport struct {
	group    *net.UDPAddr
	receiver *net.UDPConn
	sender   *net.UDPConn
}

// NewUDPTransport joins the configured multicast group.
func NewUDPTransport(config UDPConfig) (*UDPTransport, error) {
	port, err := config.Port()
	if err != nil {
		return nil, err
	}
	groupIP := net.ParseIP(config.Group)
	if groupIP == nil || groupIP.To4() == nil || !groupIP.IsMulticast() {
		return nil, fmt.Errorf("multicast group %q is not an IPv4 multicast address", config.Group)
	}
	group := &net.UDPAddr{IP: groupIP, Port: port}

	var networkInterface *net.Interface
	if config.Interface != "" {
		networkInterface, err = net.InterfaceByName(config.Interface)
		if err != nil {
			return nil, fmt.Errorf("looking up interface %q: %w", config.Interface, err)
		}
	}

	receiver, err := net.ListenMulticastUDP("udp4", networkInterface, group)
	if err != nil {
		return nil, fmt.Errorf("joining %s: %w", group, err)
	}
	sender, err := net.DialUDP("udp4", nil, group)
	if err != nil {
		receiver.Close()
		return nil, fmt.Errorf("opening send socket to %s: %w", group, err)
	}
	if networkInterface != nil {
		if err := setMulticastInterface(sender, networkInterface); err != nil {
			receiver.Close()
			sender.Close()
			return nil, fmt.Errorf("sending via interface %q: %w", config.Interface, err)
		}
	}
	return &UDPTransport{group: group, receiver: receiver, sender: sender}, nil
}

// Group returns the multicast address datagrams are sent to.
func (transport *UDPTransport) Group() *net.UDPAddr { return transport.group }

func (transport *UDPTransport) Send(datagram []byte) error {
	if len(datagram) > MaxDatagramSize {
		return fmt.Errorf("datagram of %d bytes exceeds %d", len(datagram), MaxDatagramSize)
	}
	if _, err := transport.sender.Write(datagram); err != nil {
		return fmt.Errorf("sending to %s: %w", transport.group, err)
	}
	return nil
}

func (transport *UDPTransport) Receive(buffer []byte) (int, error) {
	count, _, err := transport.receiver.ReadFromUDP(buffer)
	if err != nil {
		return 0, fmt.Errorf("receiving on %s: %w", transport.group, err)
	}
	return count, nil
}

// Close leaves the group and closes both sockets.
func (transport *UDPTransport) Close() error {
	return errors.Join(transport.receiver.Close(), transport.sender.Close())
}
