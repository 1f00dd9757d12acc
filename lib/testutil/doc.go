// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so individual tests
// never block forever on a goroutine that failed to report back.
// [RequireEventually] polls a condition for state that is published by
// a background goroutine without a channel to wait on, such as samples
// arriving in a bus reader's buffer. These helpers are the only place
// in the test suite where wall-clock timeouts appear.
//
// [UniqueID] generates monotonically increasing identifiers, used to
// give each test its own bus topic so parallel tests sharing a hub do
// not see each other's samples.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no internal dependencies.
package testutil
