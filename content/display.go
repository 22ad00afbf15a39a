// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package content

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/jinzhu/copier"
)

// Display is the state of one physical or virtual screen for a frame.
type Display struct {
	ID      uint32
	Name    string
	Enabled bool

	// FrameIndex increases by one for every frame presented on the display.
	FrameIndex uint32

	// GeometryChanged tells downstream stages that the layer topology
	// differs from the previous frame and layout must be recomputed.
	GeometryChanged bool

	Width, Height int
	Format        gputypes.TextureFormat

	Stack LayerStack
}

// Matches reports whether d and o composite the same content.
// FrameIndex and GeometryChanged are ignored.
func (d *Display) Matches(o *Display) bool {
	return d.ID == o.ID &&
		d.Enabled == o.Enabled &&
		d.Width == o.Width &&
		d.Height == o.Height &&
		d.Format == o.Format &&
		d.Stack.Matches(&o.Stack)
}

// SnapshotOf makes d a deep copy of src, layers included, so that later
// edits to src or its layers do not show through.
func (d *Display) SnapshotOf(src *Display) error {
	*d = Display{}
	if err := copier.CopyWithOption(d, src, copier.Option{DeepCopy: true}); err != nil {
		return fmt.Errorf("content: snapshot display %d: %w", src.ID, err)
	}
	return nil
}

// Dump returns a multi-line description of d.
func (d *Display) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "D%d %q %dx%d en:%t frame:%d geo:%t layers:%d",
		d.ID, d.Name, d.Width, d.Height, d.Enabled, d.FrameIndex,
		d.GeometryChanged, d.Stack.Len())
	for _, l := range d.Stack.Layers {
		b.WriteString("\n  ")
		b.WriteString(l.Dump())
	}
	return b.String()
}
