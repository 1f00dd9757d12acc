// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package shapes

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/shapes/lib/shape"
)

func TestShowLocal(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	display := NewTerminalDisplay(&output, termenv.TrueColor)
	display.ShowLocal(shape.New("BLUE", 3, -2, 21))

	raw := output.String()
	if !strings.HasSuffix(raw, "\r\n") {
		t.Errorf("line %q does not end in \\r\\n", raw)
	}
	if !strings.Contains(raw, "\x1b[") {
		t.Errorf("line %q has no styling under a true-color profile", raw)
	}
	visible := ansi.Strip(raw)
	for _, want := range []string{"local", "BLUE", "x=3", "y=-2", "size=21"} {
		if !strings.Contains(visible, want) {
			t.Errorf("visible line %q missing %q", visible, want)
		}
	}
}

func TestShowReceived(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	display := NewTerminalDisplay(&output, termenv.Ascii)
	display.ShowReceived(received(10, 20, 42))

	raw := output.String()
	if strings.Contains(raw, "\x1b[") {
		t.Errorf("ascii profile produced escape sequences: %q", raw)
	}
	for _, want := range []string{"recv", "RED", "x=10", "y=20", "from remote #42"} {
		if !strings.Contains(raw, want) {
			t.Errorf("line %q missing %q", raw, want)
		}
	}
}

func TestShowUnknownColor(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	display := NewTerminalDisplay(&output, termenv.TrueColor)
	display.ShowLocal(shape.New("TEAL", 0, 0, 5))

	if !strings.Contains(ansi.Strip(output.String()), "TEAL") {
		t.Errorf("unknown color not shown: %q", output.String())
	}
}

func TestSetTitle(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	display := NewTerminalDisplay(&output, termenv.Ascii)
	if err := display.SetTitle("shapes: Square domain 0"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	if output.String() != ansi.SetWindowTitle("shapes: Square domain 0") {
		t.Errorf("title sequence = %q", output.String())
	}
}

type brokenWriter struct{ writes int }

func (writer *brokenWriter) Write(p []byte) (int, error) {
	writer.writes++
	return 0, errors.New("broken pipe")
}

func TestDisplayKeepsFirstWriteError(t *testing.T) {
	t.Parallel()

	writer := &brokenWriter{}
	display := NewTerminalDisplay(writer, termenv.Ascii)
	display.ShowLocal(shape.Default())
	display.ShowLocal(shape.Default())

	if display.Err() == nil {
		t.Fatal("Err() = nil after failed writes")
	}
	if writer.writes != 2 {
		t.Errorf("display stopped writing after failure: %d writes", writer.writes)
	}
}

func TestShowReceivedStripsTerminalControl(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	display := NewTerminalDisplay(&output, termenv.Ascii)
	sample := received(1, 2, 1)
	sample.Value.Color = "\x1b]52;c;ZXZpbA==\x07\x1b[2J"
	sample.Info.Writer = "w\x1b]0;pwned\x07"
	display.ShowReceived(sample)

	line := output.String()
	if strings.ContainsAny(strings.TrimSuffix(line, "\r\n"), "\x1b\x07\r\n") {
		t.Fatalf("control bytes reached the terminal: %q", line)
	}
	for _, want := range []string{"x=1", "y=2", "from w #1"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestPrintable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"BLUE", "BLUE"},
		{"RED\x1b[31m", "RED"},
		{"a\x07b\x00c\x7f", "abc"},
		{"\x1b]0;title\x07GREEN", "GREEN"},
		{"grün", "grün"},
	}
	for _, test := range tests {
		if got := printable(test.input); got != test.want {
			t.Errorf("printable(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}
