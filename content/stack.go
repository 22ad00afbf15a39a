// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package content

import "slices"

// LayerFlags summarises a LayerStack for later pipeline stages.
// Recompute with UpdateLayerFlags after editing the stack.
type LayerFlags struct {
	Count       int
	Opaque      bool // every layer is opaque
	Blended     bool // at least one layer blends
	Scaled      bool // at least one layer is scaled
	Transformed bool // at least one layer is flipped or rotated
	VisibleArea int  // summed Dst area
}

// LayerStack is the ordered list of layers composited on one display,
// bottom-most first.
//
// Layers are held by pointer. A filter replacing a layer must install its
// own copy with SetLayer instead of editing the shared one.
type LayerStack struct {
	Layers []*Layer
	Flags  LayerFlags
}

// NewLayerStack returns a stack holding layers with flags computed.
func NewLayerStack(layers ...*Layer) LayerStack {
	s := LayerStack{Layers: layers}
	s.UpdateLayerFlags()
	return s
}

// Len returns the number of layers.
func (s *LayerStack) Len() int { return len(s.Layers) }

// Layer returns the layer at index i.
func (s *LayerStack) Layer(i int) *Layer { return s.Layers[i] }

// SetLayer replaces the layer at index i.
func (s *LayerStack) SetLayer(i int, l *Layer) { s.Layers[i] = l }

// RemoveLayer drops the layer at index i. Later layers shift down by one
// and keep their relative order.
func (s *LayerStack) RemoveLayer(i int) {
	s.Layers = slices.Delete(s.Layers, i, i+1)
}

// UpdateLayerFlags recomputes Flags from the current layers.
func (s *LayerStack) UpdateLayerFlags() {
	f := LayerFlags{Count: len(s.Layers), Opaque: len(s.Layers) > 0}
	for _, l := range s.Layers {
		if !l.Opaque() {
			f.Opaque = false
			f.Blended = true
		}
		if l.Scaled() {
			f.Scaled = true
		}
		if l.Transform != TransformIdentity {
			f.Transformed = true
		}
		f.VisibleArea += l.Dst.Width() * l.Dst.Height()
	}
	s.Flags = f
}

// Matches reports whether both stacks hold matching layers in the same order.
func (s *LayerStack) Matches(o *LayerStack) bool {
	return slices.EqualFunc(s.Layers, o.Layers, func(a, b *Layer) bool {
		return a.Matches(b)
	})
}
