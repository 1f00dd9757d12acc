// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package oneshot is a pollable one-shot timer built on timerfd(2).
//
// The timer never repeats on its own. It moves through an explicit
// state machine:
//
//	Disarmed --Arm--> Armed --(expiry observed by Acknowledge)--> Fired --Arm--> Armed
//
// Periodic behavior comes from the consumer re-arming the timer inside
// its own expiry handler. The event loop does that with a deferred Arm
// so that an early return from the handler still leaves the timer
// armed.
//
// The descriptor becomes readable when the timer expires, so it can be
// registered with an edge-triggered multiplexer alongside sockets and
// other event sources.
package oneshot
