// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"io"
)

// RawWriter converts each "\n" to "\r\n" before writing. A terminal in
// raw mode has output post-processing disabled, so a bare newline moves
// down without returning the cursor.
//
// Input that already contains "\r\n" gets an extra "\r", which a
// terminal renders identically.
type RawWriter struct {
	Writer io.Writer
}

// Write reports len(p) on success so callers see their own byte count,
// not the expanded one.
func (w *RawWriter) Write(p []byte) (int, error) {
	if bytes.IndexByte(p, '\n') < 0 {
		return w.Writer.Write(p)
	}
	expanded := bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\r', '\n'})
	if _, err := w.Writer.Write(expanded); err != nil {
		return 0, err
	}
	return len(p), nil
}
