// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keyboard

const escape = 0x1b

type decoderState int

const (
	stateGround decoderState = iota
	// stateEscape: ESC seen, waiting for the introducer.
	stateEscape
	// stateSequence: ESC [ or ESC O seen, waiting for the final byte.
	stateSequence
)

// Decoder assembles terminal input bytes into keys. The zero value is
// ready to use. A Decoder is not safe for concurrent use; the event
// loop owns exactly one.
type Decoder struct {
	state decoderState
}

// Feed consumes one byte. It returns the completed key and true, or
// false while an escape sequence is still being assembled.
//
// Handling of malformed input:
//
//   - ESC followed by anything other than '[' or 'O' drops the ESC
//     and delivers the following byte as a rune (terminals send Alt-x
//     as ESC x).
//   - CSI parameter bytes (digits, ';') are skipped; the sequence ends
//     at the first byte in 0x40-0x7e. Final bytes other than A-D
//     yield KeyUnknown.
func (d *Decoder) Feed(b byte) (Key, bool) {
	switch d.state {
	case stateEscape:
		switch b {
		case '[', 'O':
			d.state = stateSequence
			return Key{}, false
		case escape:
			return Key{}, false
		}
		d.state = stateGround
		return Rune(b), true

	case stateSequence:
		if b < 0x40 || b > 0x7e {
			return Key{}, false
		}
		d.state = stateGround
		switch b {
		case 'A':
			return Key{Kind: KeyUp}, true
		case 'B':
			return Key{Kind: KeyDown}, true
		case 'C':
			return Key{Kind: KeyRight}, true
		case 'D':
			return Key{Kind: KeyLeft}, true
		}
		return Key{Kind: KeyUnknown}, true
	}

	if b == escape {
		d.state = stateEscape
		return Key{}, false
	}
	return Rune(b), true
}

// Pending reports whether a partial escape sequence is buffered.
func (d *Decoder) Pending() bool {
	return d.state != stateGround
}

// Reset discards any partial escape sequence.
func (d *Decoder) Reset() {
	d.state = stateGround
}
