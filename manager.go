// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hwcfilter

import (
	"cmp"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/gogpu/hwcfilter/content"
	"github.com/gogpu/hwcfilter/internal/spinlock"
)

// Registration is a filter and the position it runs at.
type Registration struct {
	Filter   Filter
	Position Position
}

// entry is one registered filter plus the validator snapshot of its
// previous output.
type entry struct {
	filter     Filter
	pos        Position
	prevOutput content.Content
}

// Manager runs registered filters over each frame in position order.
//
// A single spin lock covers registration, OpenSession, Dump and the whole
// of every Apply pass, so passes never overlap and registration waits for
// an in-flight pass. Filters must therefore never call back into the
// Manager that is running them.
//
// Filters are identified by ==, so register pointers. Add rejects
// filters whose dynamic type is not comparable.
type Manager struct {
	mu      spinlock.SpinLock
	filters []*entry // sorted ascending by pos

	logger      *slog.Logger
	diagnostics bool
	fatal       func(error)

	// prevInput holds the validator snapshot of the last Apply input for
	// each pipeline segment, keyed by the segment's first position.
	prevInput map[Position]*content.Content
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager{
		logger:      o.logger,
		diagnostics: o.diagnostics,
		fatal:       o.fatal,
	}
}

func (m *Manager) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return Logger()
}

// Diagnostics reports whether validation and Dump are enabled.
func (m *Manager) Diagnostics() bool { return m.diagnostics }

// Add registers f to run at pos.
//
// Filters before PositionDisplayManager must output window-system displays
// and filters at or after it must output physical displays; a mismatch is
// rejected with a *PositionSpaceError. The registry stays sorted by
// position, and filters sharing a position run in registration order.
func (m *Manager) Add(f Filter, pos Position) error {
	if f == nil {
		return ErrNilFilter
	}
	if !reflect.TypeOf(f).Comparable() {
		return fmt.Errorf("%w: %T", ErrFilterNotComparable, f)
	}
	if f.OutputsPhysicalDisplays() != pos.DeviceSpace() {
		return &PositionSpaceError{
			Filter:   f.Name(),
			Position: pos,
			Physical: f.OutputsPhysicalDisplays(),
		}
	}

	defer spinlock.Scoped(&m.mu)()
	m.filters = append(m.filters, &entry{filter: f, pos: pos})
	slices.SortStableFunc(m.filters, func(a, b *entry) int {
		return cmp.Compare(a.pos, b.pos)
	})
	m.log().Debug("hwcfilter: filter added", "filter", f.Name(), "position", pos)
	return nil
}

// Remove unregisters f. It does nothing if f is not registered.
func (m *Manager) Remove(f Filter) {
	defer spinlock.Scoped(&m.mu)()
	for i, e := range m.filters {
		if e.filter == f {
			m.log().Debug("hwcfilter: filter removed", "filter", f.Name(), "index", i)
			m.filters = slices.Delete(m.filters, i, i+1)
			return
		}
	}
}

// Filters returns the registered filters in dispatch order.
func (m *Manager) Filters() []Registration {
	defer spinlock.Scoped(&m.mu)()
	out := make([]Registration, len(m.filters))
	for i, e := range m.filters {
		out[i] = Registration{Filter: e.filter, Position: e.pos}
	}
	return out
}

// Apply runs every filter positioned in [first, last] over c, in ascending
// position order, each consuming the previous filter's result. It returns
// the final result: c itself when no filter changed anything, otherwise
// Content owned by the last filter that did.
func (m *Manager) Apply(c *content.Content, first, last Position) *content.Content {
	defer spinlock.Scoped(&m.mu)()

	log := m.log()
	if m.diagnostics {
		m.ValidateGeometryChange("FilterManager Entry SF", c, m.segmentInput(first))
	}

	ref := c
	for i, e := range m.filters {
		if e.pos < first {
			continue
		}
		if e.pos > last {
			break
		}

		out := e.filter.Apply(ref)

		if m.diagnostics {
			m.ValidateGeometryChange(stageLabel(i, e.filter), out, &e.prevOutput)
		}
		if out != ref {
			log.Debug("hwcfilter: filter replaced content",
				"filter", e.filter.Name(), "position", e.pos, "displays", out.Len())
			ref = out
		}
	}
	return ref
}

// segmentInput returns the entry snapshot of the segment starting at first.
func (m *Manager) segmentInput(first Position) *content.Content {
	prev, ok := m.prevInput[first]
	if !ok {
		if m.prevInput == nil {
			m.prevInput = make(map[Position]*content.Content)
		}
		prev = content.New()
		m.prevInput[first] = prev
	}
	return prev
}

func stageLabel(i int, f Filter) string {
	space := "SF"
	if f.OutputsPhysicalDisplays() {
		space = "P"
	}
	return fmt.Sprintf("F%d %s%s", i, f.Name(), space)
}

// OpenSession passes dev to every filter in dispatch order.
func (m *Manager) OpenSession(dev DeviceHandle) {
	defer spinlock.Scoped(&m.mu)()
	for _, e := range m.filters {
		e.filter.OpenSession(dev)
	}
}

// Dump reports the state of every filter that has something to say, one
// "name: state" line each. It returns "" when diagnostics are disabled.
func (m *Manager) Dump() string {
	if !m.diagnostics {
		return ""
	}

	defer spinlock.Scoped(&m.mu)()
	var b strings.Builder
	for _, e := range m.filters {
		state := e.filter.Dump()
		if state == "" {
			continue
		}
		b.WriteString(e.filter.Name())
		b.WriteString(": ")
		b.WriteString(state)
		b.WriteString("\n")
	}
	return b.String()
}
