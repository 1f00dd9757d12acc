// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package poller is a readiness multiplexer over Linux epoll.
//
// Sources are anything with a file descriptor ([Source]). Each is
// registered under a caller-chosen [Token]; [Poller.Wait] blocks until
// at least one registered source is ready and returns the ready tokens
// in the order the kernel reported them.
//
// # Edge triggering
//
// A source registered with [Edge] is reported once per transition from
// "nothing to read" to "something to read". The consumer must drain it
// completely before calling Wait again: unread data left behind does
// not produce another event until more data arrives. [Level] sources
// are reported on every Wait for as long as they remain readable.
//
// A Poller is not safe for concurrent Register and Wait; it is owned by
// a single event loop goroutine.
package poller
