// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package shapes is the interactive core of the shapes client: a
// single-threaded event loop that moves a shape with the arrow keys,
// publishes each new position, and displays shapes received from other
// participants.
//
// [Loop] multiplexes three edge-triggered sources:
//
//   - the stop receiver, which ends the loop
//   - the bus reader, drained in bounded batches and shown on the display
//   - the one-shot keyboard timer, which on each firing drains stdin,
//     applies any commands, and rearms itself
//
// Because every source is edge-triggered, each dispatch branch consumes
// everything it can before the loop waits again. The reader branch is the
// exception: it takes at most [DefaultDrainBatch] samples per wakeup, and
// anything beyond that waits for the next arrival to signal the reader.
//
// [WatchInterrupt] is the control side. It runs on its own goroutine,
// waits for SIGINT or SIGTERM, and sends the loop exactly one stop.
//
// [TerminalDisplay] renders shapes as colored lines for a terminal in
// raw mode.
package shapes
