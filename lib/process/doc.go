// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers. They cover the
// raw I/O that happens before the structured logger exists or after
// main has given up on it:
//
//   - Fatal error reporting to stderr when the logger may not be
//     initialized.
//   - Process exit after an unrecoverable error in main().
//
// Fatal takes cleanup functions because the shapes client puts the
// terminal in raw mode; exiting without restoring it would leave the
// user's shell unusable.
package process
