// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package bus

import (
	"errors"
	"net"
)

func setMulticastInterface(conn *net.UDPConn, networkInterface *net.Interface) error {
	return errors.New("choosing the outbound multicast interface is only supported on linux")
}
