// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package content

import (
	"errors"
	"strings"
)

// Content is one frame's composition state, one Display per screen.
// It flows through the filter pipeline by pointer.
type Content struct {
	Displays []Display
}

// New returns a Content holding displays.
func New(displays ...Display) *Content {
	return &Content{Displays: displays}
}

// Len returns the number of displays.
func (c *Content) Len() int { return len(c.Displays) }

// Display returns the display at index i for reading or editing.
func (c *Content) Display(i int) *Display { return &c.Displays[i] }

// Resize grows or shrinks c to n displays. New displays are zero valued.
func (c *Content) Resize(n int) {
	if n <= cap(c.Displays) {
		old := len(c.Displays)
		c.Displays = c.Displays[:n]
		for i := old; i < n; i++ {
			c.Displays[i] = Display{}
		}
		return
	}
	grown := make([]Display, n)
	copy(grown, c.Displays)
	c.Displays = grown
}

// Assign makes c a shallow copy of src. Display values are copied and
// each layer stack gets its own pointer slice, so SetLayer and RemoveLayer
// on c never affect src. The layers themselves are shared.
//
// Storage already owned by c is reused.
func (c *Content) Assign(src *Content) {
	c.Resize(src.Len())
	for i := range src.Displays {
		owned := c.Displays[i].Stack.Layers[:0]
		c.Displays[i] = src.Displays[i]
		c.Displays[i].Stack.Layers = append(owned, src.Displays[i].Stack.Layers...)
	}
}

// SnapshotOf makes c a deep copy of src for later comparison.
func (c *Content) SnapshotOf(src *Content) error {
	displays := make([]Display, src.Len())
	var errs []error
	for i := range src.Displays {
		if err := displays[i].SnapshotOf(&src.Displays[i]); err != nil {
			errs = append(errs, err)
		}
	}
	c.Displays = displays
	return errors.Join(errs...)
}

// Dump returns a description of every display, prefixed with label.
func (c *Content) Dump(label string) string {
	var b strings.Builder
	b.WriteString(label)
	for i := range c.Displays {
		b.WriteString("\n")
		b.WriteString(c.Displays[i].Dump())
	}
	return b.String()
}
