// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package shape defines the Shape message exchanged on the bus and the
// keyboard commands that move it.
//
// A Shape has a color and a size fixed at construction and an (X, Y)
// position that changes by exactly one unit per accepted [Command].
// [Shape.Apply] is the only mutation path; it never touches Color or
// Size.
//
// The wire field names (color, x, y, shapesize) follow the convention
// used by other shapes-demo implementations so that mixed deployments
// see each other's samples.
package shape
