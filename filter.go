// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hwcfilter

import "github.com/gogpu/hwcfilter/content"

// Filter is one stage of the pipeline.
//
// Apply transforms a frame. It either returns its input unchanged or a
// Content owned by the filter, which stays valid until the filter's next
// Apply. A filter must not keep the input across calls, must not call back
// into the Manager that runs it, and must not block.
//
// The Manager identifies filters with ==, so the dynamic type must be
// comparable; implement Filter on a pointer.
type Filter interface {
	// Name is a short stable identifier used in logs and dumps.
	Name() string

	// Apply runs the filter on one frame.
	Apply(c *content.Content) *content.Content

	// OpenSession is called when the display device is (re)opened.
	OpenSession(dev DeviceHandle)

	// Dump describes the filter's state. Empty means nothing to report.
	Dump() string

	// OutputsPhysicalDisplays reports whether the filter's output is in
	// device space. It must agree with the registered position.
	OutputsPhysicalDisplays() bool
}

// FilterBase provides the optional Filter methods. Embed it in filters that
// have no session state and nothing to dump.
type FilterBase struct{}

// OpenSession does nothing.
func (FilterBase) OpenSession(DeviceHandle) {}

// Dump returns an empty string.
func (FilterBase) Dump() string { return "" }
