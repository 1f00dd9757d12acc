// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keyboard

import (
	"fmt"

	"github.com/bureau-foundation/shapes/lib/shape"
)

// KeyKind classifies a decoded key.
type KeyKind int

const (
	// KeyRune is a printable or control byte delivered as-is.
	KeyRune KeyKind = iota
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	// KeyUnknown is a complete escape sequence the decoder does not
	// recognize (function keys, Home, mouse reports).
	KeyUnknown
)

// Key is one decoded keypress. Byte is meaningful only for KeyRune.
type Key struct {
	Kind KeyKind
	Byte byte
}

// Rune returns a KeyRune key for b.
func Rune(b byte) Key { return Key{Kind: KeyRune, Byte: b} }

// Control byte for Ctrl-C in raw mode.
const ctrlC = 0x03

func (k Key) String() string {
	switch k.Kind {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyRight:
		return "right"
	case KeyLeft:
		return "left"
	case KeyUnknown:
		return "unknown"
	}
	if k.Byte < 0x20 || k.Byte == 0x7f {
		return fmt.Sprintf("0x%02x", k.Byte)
	}
	return fmt.Sprintf("%q", rune(k.Byte))
}

// CommandFor maps a key through the fixed command table. Keys outside
// the table map to shape.None.
func CommandFor(key Key) shape.Command {
	switch key.Kind {
	case KeyUp:
		return shape.MoveUp
	case KeyDown:
		return shape.MoveDown
	case KeyRight:
		return shape.MoveRight
	case KeyLeft:
		return shape.MoveLeft
	case KeyRune:
		switch key.Byte {
		case 'q', ctrlC:
			return shape.Quit
		}
	}
	return shape.None
}
