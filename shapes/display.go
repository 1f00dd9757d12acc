// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package shapes

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/shapes/bus"
	"github.com/bureau-foundation/shapes/lib/shape"
)

// shapeColors maps each shape color to its terminal foreground.
var shapeColors = map[string]lipgloss.Color{
	"PURPLE":  "#AF5FD7",
	"BLUE":    "#5F87FF",
	"RED":     "#FF5F5F",
	"GREEN":   "#5FD75F",
	"YELLOW":  "#FFD75F",
	"CYAN":    "#5FD7D7",
	"MAGENTA": "#FF5FD7",
	"ORANGE":  "#FFAF5F",
}

// TerminalDisplay writes one line per shape. Lines end in "\r\n"
// because the terminal is in raw mode.
type TerminalDisplay struct {
	writer io.Writer

	localLabel    lipgloss.Style
	receivedLabel lipgloss.Style
	detail        lipgloss.Style
	styles        map[string]lipgloss.Style
	unknown       lipgloss.Style

	// err is the first write failure. Display methods have no error
	// return so the loop never branches on rendering.
	err error
}

var _ Display = (*TerminalDisplay)(nil)

// NewTerminalDisplay renders to writer using profile. Callers detect
// the profile once, e.g. termenv.NewOutput(os.Stdout).EnvColorProfile().
func NewTerminalDisplay(writer io.Writer, profile termenv.Profile) *TerminalDisplay {
	// SetColorProfile is required: Renderer.ColorProfile() ignores the
	// termenv.Output profile and re-detects from the environment unless
	// one was set explicitly.
	renderer := lipgloss.NewRenderer(writer, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)

	styles := make(map[string]lipgloss.Style, len(shapeColors))
	for name, color := range shapeColors {
		styles[name] = renderer.NewStyle().Foreground(color).Bold(true)
	}
	return &TerminalDisplay{
		writer:        writer,
		localLabel:    renderer.NewStyle().Reverse(true),
		receivedLabel: renderer.NewStyle().Faint(true),
		detail:        renderer.NewStyle().Faint(true),
		styles:        styles,
		unknown:       renderer.NewStyle(),
	}
}

// ShowLocal shows the shape this client controls.
func (display *TerminalDisplay) ShowLocal(current shape.Shape) {
	display.writeLine(display.localLabel.Render("local"), display.describe(current), "")
}

// ShowReceived shows a shape published by another writer. Strings
// from the bus are printable-only before they reach the terminal.
func (display *TerminalDisplay) ShowReceived(sample bus.Received[shape.Shape]) {
	value := sample.Value
	value.Color = printable(value.Color)
	origin := display.detail.Render(fmt.Sprintf("from %s #%d", printable(sample.Info.Writer), sample.Info.Sequence))
	display.writeLine(display.receivedLabel.Render("recv "), display.describe(value), origin)
}

// SetTitle sets the terminal window title.
func (display *TerminalDisplay) SetTitle(title string) error {
	_, err := io.WriteString(display.writer, ansi.SetWindowTitle(title))
	return err
}

// Err returns the first write failure, if any.
func (display *TerminalDisplay) Err() error {
	return display.err
}

func (display *TerminalDisplay) describe(value shape.Shape) string {
	style, ok := display.styles[value.Color]
	if !ok {
		style = display.unknown
	}
	return style.Render(fmt.Sprintf("%-7s x=%-4d y=%-4d size=%d", value.Color, value.X, value.Y, value.Size))
}

func (display *TerminalDisplay) writeLine(label, body, suffix string) {
	line := label + " " + body
	if suffix != "" {
		line += "  " + suffix
	}
	if _, err := io.WriteString(display.writer, line+"\r\n"); err != nil && display.err == nil {
		display.err = err
	}
}

// printable removes escape sequences and every remaining control
// character from s. Peers on the bus are untrusted, and the terminal
// would otherwise execute what they send (OSC 52 clipboard writes,
// title changes, screen clears).
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, ansi.Strip(s))
}
