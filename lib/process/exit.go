// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"io"
	"os"
)

// exit is replaced in tests.
var exit = os.Exit

// Fatal runs each cleanup in order, writes "error: err" to stderr, and
// exits with code 1. Use it in main() for errors from run() where the
// structured logger may not be initialized.
func Fatal(err error, cleanups ...func()) {
	report(os.Stderr, err, cleanups...)
	exit(1)
}

func report(w io.Writer, err error, cleanups ...func()) {
	for _, cleanup := range cleanups {
		if cleanup != nil {
			cleanup()
		}
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
