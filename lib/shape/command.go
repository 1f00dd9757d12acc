// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package shape

// Command is an action decoded from keyboard input.
type Command int

const (
	// None is any input that has no effect.
	None Command = iota
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	// Quit ends the interactive session.
	Quit
)

// Delta returns the position change for command. Screen coordinates:
// y grows downward.
func (c Command) Delta() (dx, dy int32) {
	switch c {
	case MoveUp:
		return 0, -1
	case MoveDown:
		return 0, 1
	case MoveLeft:
		return -1, 0
	case MoveRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Moves reports whether the command changes the shape's position.
func (c Command) Moves() bool {
	dx, dy := c.Delta()
	return dx != 0 || dy != 0
}

func (c Command) String() string {
	switch c {
	case None:
		return "none"
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}
