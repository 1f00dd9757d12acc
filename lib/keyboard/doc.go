// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package keyboard turns raw terminal input into shape commands.
//
// Three layers, each usable on its own:
//
//   - [Source] reads bytes from a non-blocking file descriptor
//     (normally stdin in raw mode). [Source.ReadByte] returns
//     [ErrNoInput] instead of blocking when nothing is buffered, so a
//     caller can drain everything currently available and stop.
//   - [Decoder] assembles bytes into [Key] values. Arrow keys arrive
//     as three-byte escape sequences (ESC [ A, or ESC O A in
//     application cursor mode); a sequence split across two drains is
//     held in the decoder until its final byte arrives.
//   - [CommandFor] is the fixed command table mapping keys to
//     [shape.Command] values.
//
// [MakeRaw] switches the controlling terminal into raw mode and
// returns a function that restores it. Raw mode disables ISIG, so
// Ctrl-C arrives as byte 0x03 and is mapped to Quit by the table.
package keyboard
