// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package shape

import (
	"fmt"
	"slices"
)

// TypeName is the bus type name for Shape samples.
const TypeName = "ShapeType"

// DefaultTopic is the topic shapes are published on unless configured
// otherwise.
const DefaultTopic = "Square"

// Default construction values.
const (
	DefaultColor = "BLUE"
	DefaultSize  = 30
)

// Colors lists the colors every shapes-demo implementation recognizes.
var Colors = []string{"PURPLE", "BLUE", "RED", "GREEN", "YELLOW", "CYAN", "MAGENTA", "ORANGE"}

// ValidColor reports whether color is one of [Colors].
func ValidColor(color string) bool {
	return slices.Contains(Colors, color)
}

// Shape is a colored square at an integer position.
type Shape struct {
	Color string `cbor:"color"`
	X     int32  `cbor:"x"`
	Y     int32  `cbor:"y"`
	Size  int32  `cbor:"shapesize"`
}

// New returns a shape at (x, y).
func New(color string, x, y, size int32) Shape {
	return Shape{Color: color, X: x, Y: y, Size: size}
}

// Default returns the shape the interactive client starts with.
func Default() Shape {
	return New(DefaultColor, 0, 0, DefaultSize)
}

// Apply returns the shape moved according to command. Commands that do
// not move the shape (Quit, None) return it unchanged.
func (s Shape) Apply(command Command) Shape {
	dx, dy := command.Delta()
	s.X += dx
	s.Y += dy
	return s
}

func (s Shape) String() string {
	return fmt.Sprintf("%s (%d,%d) size %d", s.Color, s.X, s.Y, s.Size)
}
