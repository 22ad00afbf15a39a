// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hwcfilter

import "github.com/gogpu/hwcfilter/content"

// ValidateGeometryChange checks that next sets the geometry-changed flag
// exactly when it has to, relative to prev.
//
// Only displays present, enabled and exactly one frame apart in both are
// compared. A matching display that still signals a geometry change is
// logged as a warning: safe but wasteful. A display whose content changed
// without the signal is logged as an error and handed to the fatal handler,
// since downstream stages would keep a stale layout.
//
// prev is replaced by a deep snapshot of next for the following call.
// The result is false if anything was logged.
func (m *Manager) ValidateGeometryChange(label string, next, prev *content.Content) bool {
	log := m.log()
	warned := false
	var missing []int

	for d := range min(next.Len(), prev.Len()) {
		nd, od := next.Display(d), prev.Display(d)
		if !od.Enabled || !nd.Enabled {
			continue
		}
		if nd.FrameIndex != od.FrameIndex+1 {
			continue
		}

		if od.Matches(nd) {
			if nd.GeometryChanged {
				log.Warn("hwcfilter: unnecessary geometry change", "stage", label, "display", d)
				warned = true
			}
			continue
		}
		if !nd.GeometryChanged {
			log.Error("hwcfilter: missing required geometry change",
				"stage", label, "display", d, "old", od.Dump(), "new", nd.Dump())
			missing = append(missing, d)
		}
	}

	if err := prev.SnapshotOf(next); err != nil {
		log.Error("hwcfilter: snapshot for validation failed", "stage", label, "error", err)
	}

	if len(missing) > 0 {
		m.fatal(&GeometryChangeError{Label: label, Displays: missing})
	}
	return len(missing) == 0 && !warned
}
