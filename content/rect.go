// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package content

import "fmt"

// Rect is an integer axis-aligned rectangle in display pixels.
// Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// R is shorthand for Rect{l, t, r, b}.
func R(l, t, r, b int) Rect {
	return Rect{Left: l, Top: t, Right: r, Bottom: b}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Union returns the smallest rectangle containing both r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		Left:   min(r.Left, s.Left),
		Top:    min(r.Top, s.Top),
		Right:  max(r.Right, s.Right),
		Bottom: max(r.Bottom, s.Bottom),
	}
}

// Intersect returns the overlap of r and s.
// Returns the zero Rect if they don't overlap.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		Left:   max(r.Left, s.Left),
		Top:    max(r.Top, s.Top),
		Right:  min(r.Right, s.Right),
		Bottom: min(r.Bottom, s.Bottom),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Contains reports whether s lies entirely inside r.
func (r Rect) Contains(s Rect) bool {
	return s.Left >= r.Left && s.Top >= r.Top && s.Right <= r.Right && s.Bottom <= r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// FRect is a source crop rectangle in buffer coordinates.
// Crops are fractional after scaling so they use float64.
type FRect struct {
	Left, Top, Right, Bottom float64
}

// Width returns the horizontal extent of r.
func (r FRect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r FRect) Height() float64 { return r.Bottom - r.Top }

func (r FRect) String() string {
	return fmt.Sprintf("(%.1f,%.1f,%.1f,%.1f)", r.Left, r.Top, r.Right, r.Bottom)
}

// Transform describes how a layer's buffer is oriented onto its destination.
// Flips are applied before the 90 degree rotation.
type Transform uint8

const (
	FlipH Transform = 1 << iota
	FlipV
	Rot90

	TransformIdentity Transform = 0
	Rot180                      = FlipH | FlipV
	Rot270                      = FlipH | FlipV | Rot90
)

func (t Transform) String() string {
	switch t {
	case TransformIdentity:
		return "identity"
	case FlipH:
		return "flip-h"
	case FlipV:
		return "flip-v"
	case Rot90:
		return "rot90"
	case Rot180:
		return "rot180"
	case Rot270:
		return "rot270"
	case FlipH | Rot90:
		return "flip-h-rot90"
	case FlipV | Rot90:
		return "flip-v-rot90"
	default:
		return fmt.Sprintf("Transform(%d)", uint8(t))
	}
}

// ParseTransform returns the Transform named s, as printed by String.
func ParseTransform(s string) (Transform, error) {
	for t := Transform(0); t <= Rot270; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	if s == "" {
		return TransformIdentity, nil
	}
	return 0, fmt.Errorf("content: unknown transform %q", s)
}
