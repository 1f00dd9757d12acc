// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package bus

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// setMulticastInterface makes conn send multicast datagrams out of
// networkInterface instead of the default route (IP_MULTICAST_IF).
func setMulticastInterface(conn *net.UDPConn, networkInterface *net.Interface) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var sockoptErr error
	err = raw.Control(func(fd uintptr) {
		sockoptErr = unix.SetsockoptIPMreqn(int(fd), unix.IPPROTO_IP, unix.IP_MULTICAST_IF,
			&unix.IPMreqn{Ifindex: int32(networkInterface.Index)})
	})
	if err != nil {
		return err
	}
	if sockoptErr != nil {
		return fmt.Errorf("setsockopt IP_MULTICAST_IF: %w", sockoptErr)
	}
	return nil
}
