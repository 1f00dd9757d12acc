// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keyboard

import (
	"fmt"

	"golang.org/x/term"
)

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// MakeRaw puts the terminal on fd into raw mode: no line buffering, no
// echo, no signal generation. The returned function restores the
// previous state and must be called on every exit path.
func MakeRaw(fd int) (restore func() error, err error) {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("set terminal raw mode: %w", err)
	}
	return func() error {
		return term.Restore(fd, oldState)
	}, nil
}
