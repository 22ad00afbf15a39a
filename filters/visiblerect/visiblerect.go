// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package visiblerect clips layers to the part of them that is visible.
//
// A layer whose destination is larger than the bounding box of its visible
// regions is clipped, source crop included, to that box. A layer with no
// visible area left is dropped so later stages don't spend composition
// time on it.
package visiblerect

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/hwcfilter"
	"github.com/gogpu/hwcfilter/content"
)

// DefaultMaxLayers is the largest layer stack the filter keeps scratch
// space for unless WithMaxLayers says otherwise.
const DefaultMaxLayers = 256

// Option configures a Filter.
type Option func(*Filter)

// WithLogger sets the filter's logger instead of hwcfilter.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Filter) {
		f.logger = l
	}
}

// WithMaxLayers caps the per-display scratch space. Displays with more
// layers than n are passed through untouched.
func WithMaxLayers(n int) Option {
	return func(f *Filter) {
		f.maxLayers = n
	}
}

// displayState is the scratch space for one display's clipped layers.
// Slot i holds the replacement for the layer at stack index i.
type displayState struct {
	layers []content.Layer
}

// stats describes the last Apply.
type stats struct {
	touched int // displays changed
	clipped int // layers replaced with a clipped copy
	removed int // layers dropped
	skipped int // displays left alone for lack of scratch space
}

// Filter is the visible-rect pipeline stage. It runs in window-system space
// at hwcfilter.PositionVisibleRect.
//
// The Content returned by Apply, when it is not the input, is owned by the
// Filter and valid until the next call.
type Filter struct {
	logger    *slog.Logger
	maxLayers int

	reference content.Content
	displays  []displayState
	frames    uint64
	last      stats
}

var _ hwcfilter.Filter = (*Filter)(nil)

// New creates a visible-rect filter.
func New(opts ...Option) *Filter {
	f := &Filter{maxLayers: DefaultMaxLayers}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Filter) log() *slog.Logger {
	if f.logger != nil {
		return f.logger
	}
	return hwcfilter.Logger()
}

// Name returns "VisibleRect".
func (f *Filter) Name() string { return "VisibleRect" }

// OutputsPhysicalDisplays returns false.
func (f *Filter) OutputsPhysicalDisplays() bool { return false }

// OpenSession drops all scratch space; it is rebuilt on demand.
func (f *Filter) OpenSession(dev hwcfilter.DeviceHandle) {
	f.reference.Resize(0)
	f.displays = nil
	f.last = stats{}
	if dev == nil {
		f.log().Debug("visiblerect: session opened without device")
		return
	}
	f.log().Debug("visiblerect: session opened", "surface_format", dev.SurfaceFormat())
}

// Dump reports what the last Apply did.
func (f *Filter) Dump() string {
	return fmt.Sprintf("frames:%d touched:%d clipped:%d removed:%d skipped:%d",
		f.frames, f.last.touched, f.last.clipped, f.last.removed, f.last.skipped)
}

// Apply clips every layer of every enabled display to its visible region
// bounds. It returns in unchanged when no layer needed clipping.
func (f *Filter) Apply(in *content.Content) *content.Content {
	f.frames++
	f.last = stats{}
	modified := false

	for d := range in.Len() {
		if !in.Display(d).Enabled {
			continue
		}

		// Read from the input until the display needs its first edit, then
		// switch to the owned copy.
		stack := &in.Display(d).Stack
		touched := false

		for ly := 0; ly < stack.Len(); {
			layer := stack.Layer(ly)
			visible := layer.VisibleRegionBounds()
			if layer.Dst == visible {
				ly++
				continue
			}

			if !touched {
				if !f.prepare(d, stack.Len()) {
					f.last.skipped++
					break
				}
				if !modified {
					f.reference.Assign(in)
					modified = true
				}
				stack = &f.reference.Display(d).Stack
				touched = true
			}

			slot := &f.displays[d].layers[ly]
			slot.CopyFrom(layer)
			slot.UpdateFrameState(layer)

			if slot.ClipTo(visible) {
				stack.SetLayer(ly, slot)
				f.last.clipped++
				ly++
			} else {
				// Later layers shift into ly.
				stack.RemoveLayer(ly)
				f.last.removed++
			}
			stack.UpdateLayerFlags()
		}

		if touched {
			f.last.touched++
			f.log().Debug("visiblerect: display clipped",
				"display", d, "layers_in", in.Display(d).Stack.Len(), "layers_out", stack.Len())
		}
	}

	if !modified {
		// Nothing to do; don't hold on to the old copy.
		if f.reference.Len() > 0 {
			f.reference.Resize(0)
		}
		return in
	}
	return &f.reference
}

// prepare makes sure display d has scratch slots for n layers, growing
// only when it has fewer. It reports false if n is over the limit.
func (f *Filter) prepare(d, n int) bool {
	if d >= len(f.displays) {
		f.displays = append(f.displays, make([]displayState, d+1-len(f.displays))...)
	}
	state := &f.displays[d]
	if len(state.layers) >= n {
		return true
	}
	if n > f.maxLayers {
		f.log().Warn("visiblerect: no scratch space for display, skipping it this frame",
			"display", d, "layers", n, "max_layers", f.maxLayers)
		return false
	}
	state.layers = append(state.layers, make([]content.Layer, n-len(state.layers))...)
	return true
}
