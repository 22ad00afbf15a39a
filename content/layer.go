// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package content

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
)

// NoFence marks a layer that holds no acquire fence.
const NoFence = -1

// Blending is the per-pixel blend equation used for a layer.
type Blending uint8

const (
	// BlendNone composites the layer as opaque.
	BlendNone Blending = iota
	// BlendPremult uses premultiplied source alpha.
	BlendPremult
	// BlendCoverage uses non-premultiplied source alpha.
	BlendCoverage
)

func (b Blending) String() string {
	switch b {
	case BlendNone:
		return "none"
	case BlendPremult:
		return "premult"
	case BlendCoverage:
		return "coverage"
	default:
		return fmt.Sprintf("Blending(%d)", uint8(b))
	}
}

// Layer is one compositable surface on a display.
//
// ID, Name, Format, Transform, Blending and PlaneAlpha identify the surface
// and survive UpdateFrameState. FrameIndex, AcquireFence and Buffer are
// per-frame bookkeeping.
type Layer struct {
	ID         uint64
	Name       string
	Format     gputypes.TextureFormat
	Transform  Transform
	Blending   Blending
	PlaneAlpha float32

	// Src is the crop of the buffer that is shown.
	Src FRect
	// Dst is where Src lands on the display.
	Dst Rect
	// VisibleRegions are the unoccluded parts of Dst. Never empty.
	VisibleRegions []Rect

	FrameIndex   uint32
	AcquireFence int
	Buffer       uint64
}

// Clone returns a deep copy of l. The copy does not own l's acquire fence;
// call UpdateFrameState to take the frame state over.
func (l *Layer) Clone() *Layer {
	c := &Layer{}
	c.CopyFrom(l)
	return c
}

// CopyFrom makes l a copy of src like Clone does, reusing l's visible
// region storage.
func (l *Layer) CopyFrom(src *Layer) {
	regions := l.VisibleRegions[:0]
	*l = *src
	l.VisibleRegions = append(regions, src.VisibleRegions...)
	l.AcquireFence = NoFence
}

// UpdateFrameState refreshes the per-frame bookkeeping of l from prev.
// Identity and geometry fields are left alone.
func (l *Layer) UpdateFrameState(prev *Layer) {
	l.FrameIndex = prev.FrameIndex
	l.AcquireFence = prev.AcquireFence
	l.Buffer = prev.Buffer
}

// VisibleRegionBounds returns the smallest rectangle containing every
// visible region of l.
func (l *Layer) VisibleRegionBounds() Rect {
	if len(l.VisibleRegions) == 0 {
		return Rect{}
	}
	bounds := l.VisibleRegions[0]
	for _, r := range l.VisibleRegions[1:] {
		bounds = bounds.Union(r)
	}
	return bounds
}

// ClipTo shrinks Dst to its intersection with r and crops Src by the same
// proportions, honouring Transform. It returns false, leaving both
// rectangles zero, when nothing of Dst remains.
func (l *Layer) ClipTo(r Rect) bool {
	dst := l.Dst
	clipped := dst.Intersect(r)
	if clipped.Empty() {
		l.Dst = Rect{}
		l.Src = FRect{}
		return false
	}
	if clipped == dst {
		return true
	}

	dw, dh := float64(dst.Width()), float64(dst.Height())
	// Fractions cut from the left, top, right and bottom destination edges.
	cut := [4]float64{
		float64(clipped.Left-dst.Left) / dw,
		float64(clipped.Top-dst.Top) / dh,
		float64(dst.Right-clipped.Right) / dw,
		float64(dst.Bottom-clipped.Bottom) / dh,
	}

	// Undo the rotation, then the flips, to find the matching buffer edges.
	if l.Transform&Rot90 != 0 {
		cut = [4]float64{cut[1], cut[2], cut[3], cut[0]}
	}
	if l.Transform&FlipH != 0 {
		cut[0], cut[2] = cut[2], cut[0]
	}
	if l.Transform&FlipV != 0 {
		cut[1], cut[3] = cut[3], cut[1]
	}

	src := l.Src
	sw, sh := src.Width(), src.Height()
	l.Src = FRect{
		Left:   src.Left + cut[0]*sw,
		Top:    src.Top + cut[1]*sh,
		Right:  src.Right - cut[2]*sw,
		Bottom: src.Bottom - cut[3]*sh,
	}
	l.Dst = clipped
	return true
}

// Opaque reports whether l fully covers what lies beneath its Dst.
func (l *Layer) Opaque() bool {
	return l.Blending == BlendNone && l.PlaneAlpha >= 1
}

// Scaled reports whether the source crop is resized onto Dst.
func (l *Layer) Scaled() bool {
	sw, sh := l.Src.Width(), l.Src.Height()
	if l.Transform&Rot90 != 0 {
		sw, sh = sh, sw
	}
	return sw != float64(l.Dst.Width()) || sh != float64(l.Dst.Height())
}

// Matches reports whether l and o composite identically, ignoring
// per-frame bookkeeping.
func (l *Layer) Matches(o *Layer) bool {
	return l.ID == o.ID &&
		l.Format == o.Format &&
		l.Transform == o.Transform &&
		l.Blending == o.Blending &&
		l.PlaneAlpha == o.PlaneAlpha &&
		l.Src == o.Src &&
		l.Dst == o.Dst &&
		slices.Equal(l.VisibleRegions, o.VisibleRegions)
}

// Dump returns a one-line description of l.
func (l *Layer) Dump() string {
	return fmt.Sprintf("L%d %q src%v dst%v vis%v tr:%v blend:%v alpha:%.2f fmt:%v frame:%d",
		l.ID, l.Name, l.Src, l.Dst, l.VisibleRegions, l.Transform, l.Blending,
		l.PlaneAlpha, l.Format, l.FrameIndex)
}
