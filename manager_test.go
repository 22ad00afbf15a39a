package hwcfilter

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gogpu/hwcfilter/content"
)

// recordFilter logs every call into a shared trace.
type recordFilter struct {
	name     string
	physical bool
	trace    *[]string
	out      *content.Content // returned from Apply when set
	input    *content.Content // last Apply input
	state    string
	sessions []DeviceHandle
}

func (f *recordFilter) Name() string                  { return f.name }
func (f *recordFilter) OutputsPhysicalDisplays() bool { return f.physical }
func (f *recordFilter) Dump() string                  { return f.state }

func (f *recordFilter) Apply(c *content.Content) *content.Content {
	*f.trace = append(*f.trace, f.name)
	f.input = c
	if f.out != nil {
		return f.out
	}
	return c
}

func (f *recordFilter) OpenSession(dev DeviceHandle) {
	*f.trace = append(*f.trace, "open:"+f.name)
	f.sessions = append(f.sessions, dev)
}

func newRecord(name string, pos Position, trace *[]string) *recordFilter {
	return &recordFilter{name: name, physical: pos.DeviceSpace(), trace: trace}
}

// passFilter relies on FilterBase for the optional methods.
type passFilter struct {
	FilterBase
}

func (passFilter) Name() string                              { return "pass" }
func (passFilter) OutputsPhysicalDisplays() bool             { return false }
func (passFilter) Apply(c *content.Content) *content.Content { return c }

func testFrame(frame uint32) *content.Content {
	l := &content.Layer{
		ID:             1,
		PlaneAlpha:     1,
		Src:            content.FRect{Right: 100, Bottom: 100},
		Dst:            content.R(0, 0, 100, 100),
		VisibleRegions: []content.Rect{content.R(0, 0, 100, 100)},
	}
	return content.New(content.Display{
		Enabled:    true,
		FrameIndex: frame,
		Width:      100,
		Height:     100,
		Stack:      content.NewLayerStack(l),
	})
}

func TestManager_RegistrationOrderIndependence(t *testing.T) {
	var trace []string
	m := NewManager()
	for _, p := range []Position{PositionLogicalDisplay, PositionTransparency, PositionVisibleRect} {
		if err := m.Add(newRecord(p.String(), p, &trace), p); err != nil {
			t.Fatalf("Add(%v) error = %v", p, err)
		}
	}

	m.Apply(testFrame(1), PositionDebug, PositionLast)

	want := []string{"transparency", "visiblerect", "logicaldisplay"}
	if !slices.Equal(trace, want) {
		t.Errorf("dispatch order = %v, want %v", trace, want)
	}
}

func TestManager_ApplyRange(t *testing.T) {
	var trace []string
	m := NewManager()
	for p := PositionDebug; p <= PositionLast; p++ {
		if err := m.Add(newRecord(p.String(), p, &trace), p); err != nil {
			t.Fatalf("Add(%v) error = %v", p, err)
		}
	}

	for first := PositionDebug; first <= PositionLast; first++ {
		for last := first; last <= PositionLast; last++ {
			trace = trace[:0]
			m.Apply(testFrame(1), first, last)

			var want []string
			for p := first; p <= last; p++ {
				want = append(want, p.String())
			}
			if !slices.Equal(trace, want) {
				t.Errorf("Apply(%v, %v) ran %v, want %v", first, last, trace, want)
			}
		}
	}
}

func TestManager_SamePositionKeepsRegistrationOrder(t *testing.T) {
	var trace []string
	m := NewManager()
	_ = m.Add(newRecord("b", PositionVisibleRect, &trace), PositionVisibleRect)
	_ = m.Add(newRecord("a", PositionVisibleRect, &trace), PositionVisibleRect)
	_ = m.Add(newRecord("first", PositionDebug, &trace), PositionDebug)

	m.Apply(testFrame(1), PositionDebug, PositionLast)
	if want := []string{"first", "b", "a"}; !slices.Equal(trace, want) {
		t.Errorf("dispatch order = %v, want %v", trace, want)
	}
}

func TestManager_ApplyThreadsReferences(t *testing.T) {
	var trace []string
	in := testFrame(1)
	owned := testFrame(1)

	a := newRecord("a", PositionTransparency, &trace)
	a.out = owned
	b := newRecord("b", PositionVisibleRect, &trace)

	m := NewManager()
	_ = m.Add(a, PositionTransparency)
	_ = m.Add(b, PositionVisibleRect)

	got := m.Apply(in, PositionDebug, PositionLast)
	if a.input != in {
		t.Error("first filter did not receive the caller's content")
	}
	if b.input != owned {
		t.Error("second filter did not receive the first filter's output")
	}
	if got != owned {
		t.Error("Apply() did not return the last produced content")
	}

	// Outside the range nothing runs and the input comes back.
	if got := m.Apply(in, PositionDisplayManager, PositionLast); got != in {
		t.Error("Apply() over an empty range should return its input")
	}
}

func TestManager_AddRejectsWrongSpace(t *testing.T) {
	var trace []string
	m := NewManager()

	tests := []struct {
		name     string
		physical bool
		pos      Position
	}{
		{"physical before display manager", true, PositionVisibleRect},
		{"window-system at display manager", false, PositionDisplayManager},
		{"window-system after display manager", false, PositionGlobalScaling},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &recordFilter{name: tt.name, physical: tt.physical, trace: &trace}
			err := m.Add(f, tt.pos)

			var spaceErr *PositionSpaceError
			if !errors.As(err, &spaceErr) {
				t.Fatalf("Add() error = %v, want *PositionSpaceError", err)
			}
			if spaceErr.Position != tt.pos || spaceErr.Physical != tt.physical {
				t.Errorf("error = %+v", spaceErr)
			}
		})
	}

	if n := len(m.Filters()); n != 0 {
		t.Errorf("rejected filters registered: Filters() has %d entries", n)
	}
	if err := m.Add(nil, PositionDebug); !errors.Is(err, ErrNilFilter) {
		t.Errorf("Add(nil) error = %v, want ErrNilFilter", err)
	}
}

// sliceFilter is a value filter that cannot be compared with ==.
type sliceFilter struct {
	FilterBase
	names []string
}

func (sliceFilter) Name() string                              { return "slice" }
func (sliceFilter) OutputsPhysicalDisplays() bool             { return false }
func (sliceFilter) Apply(c *content.Content) *content.Content { return c }

func TestManager_AddRejectsNonComparable(t *testing.T) {
	m := NewManager()
	if err := m.Add(sliceFilter{names: []string{"a"}}, PositionDebug); !errors.Is(err, ErrFilterNotComparable) {
		t.Errorf("Add(sliceFilter) error = %v, want ErrFilterNotComparable", err)
	}
	if n := len(m.Filters()); n != 0 {
		t.Errorf("Filters() has %d entries, want 0", n)
	}

	// Remove must not panic comparing against registered filters.
	_ = m.Add(passFilter{}, PositionDebug)
	m.Remove(sliceFilter{})
	if n := len(m.Filters()); n != 1 {
		t.Errorf("Filters() has %d entries, want 1", n)
	}
}

func TestManager_Remove(t *testing.T) {
	var trace []string
	a := newRecord("a", PositionDebug, &trace)
	b := newRecord("b", PositionVisibleRect, &trace)
	absent := newRecord("absent", PositionDebug, &trace)

	m := NewManager()
	_ = m.Add(a, PositionDebug)
	_ = m.Add(b, PositionVisibleRect)

	m.Remove(absent)
	if n := len(m.Filters()); n != 2 {
		t.Fatalf("Remove(absent) changed registry: %d entries", n)
	}

	m.Remove(a)
	m.Apply(testFrame(1), PositionDebug, PositionLast)
	if want := []string{"b"}; !slices.Equal(trace, want) {
		t.Errorf("after Remove ran %v, want %v", trace, want)
	}
}

func TestManager_OpenSession(t *testing.T) {
	var trace []string
	a := newRecord("a", PositionGlobalScaling, &trace)
	b := newRecord("b", PositionDebug, &trace)

	m := NewManager()
	_ = m.Add(a, PositionGlobalScaling)
	_ = m.Add(b, PositionDebug)
	_ = m.Add(passFilter{}, PositionTransparency)

	m.OpenSession(NullDevice{})

	if want := []string{"open:b", "open:a"}; !slices.Equal(trace, want) {
		t.Errorf("OpenSession order = %v, want %v", trace, want)
	}
	if len(a.sessions) != 1 || a.sessions[0] != (NullDevice{}) {
		t.Errorf("filter a sessions = %v", a.sessions)
	}
}

func TestManager_Dump(t *testing.T) {
	var trace []string
	a := newRecord("a", PositionDebug, &trace)
	a.state = "clipped 2"
	b := newRecord("b", PositionVisibleRect, &trace)
	c := newRecord("c", PositionGlobalScaling, &trace)
	c.state = "scale 1.5"

	build := func(diag bool) *Manager {
		m, err := NewBuilder(WithDiagnostics(diag)).
			Add(c, PositionGlobalScaling).
			Add(b, PositionVisibleRect).
			Add(a, PositionDebug).
			Add(passFilter{}, PositionTransparency).
			Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		return m
	}

	if got := build(false).Dump(); got != "" {
		t.Errorf("Dump() without diagnostics = %q, want empty", got)
	}
	want := "a: clipped 2\nc: scale 1.5\n"
	if got := build(true).Dump(); got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

// serialFilter fails the test if two passes overlap.
type serialFilter struct {
	FilterBase
	t      *testing.T
	inside atomic.Int32
	calls  atomic.Int32
}

func (f *serialFilter) Name() string                  { return "serial" }
func (f *serialFilter) OutputsPhysicalDisplays() bool { return false }

func (f *serialFilter) Apply(c *content.Content) *content.Content {
	if n := f.inside.Add(1); n != 1 {
		f.t.Errorf("%d passes inside filter at once", n)
	}
	f.calls.Add(1)
	f.inside.Add(-1)
	return c
}

func TestManager_ConcurrentApplySerializes(t *testing.T) {
	f := &serialFilter{t: t}
	m := NewManager()
	if err := m.Add(f, PositionVisibleRect); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	const goroutines = 8
	const frames = 200
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			frame := testFrame(1)
			for range frames {
				m.Apply(frame, PositionDebug, PositionLast)
			}
		}()
	}
	wg.Wait()

	if got := f.calls.Load(); got != goroutines*frames {
		t.Errorf("calls = %d, want %d", got, goroutines*frames)
	}
}

func TestBuilder_CollectsErrors(t *testing.T) {
	var trace []string
	_, err := NewBuilder().
		Add(&recordFilter{name: "phys", physical: true, trace: &trace}, PositionDebug).
		Add(newRecord("ok", PositionVisibleRect, &trace), PositionVisibleRect).
		Add(nil, PositionDebug).
		Build()

	var spaceErr *PositionSpaceError
	if !errors.As(err, &spaceErr) {
		t.Errorf("Build() error = %v, want *PositionSpaceError", err)
	}
	if !errors.Is(err, ErrNilFilter) {
		t.Errorf("Build() error = %v, want ErrNilFilter", err)
	}
}

func BenchmarkManager_Apply(b *testing.B) {
	m := NewManager()
	for p := PositionDebug; p <= PositionLogicalDisplay; p++ {
		_ = m.Add(passFilter{}, p)
	}
	frame := testFrame(1)

	b.ReportAllocs()
	for b.Loop() {
		m.Apply(frame, PositionDebug, PositionLast)
	}
}

// shrinkFilter replaces every layer with a copy clipped to a fixed rect.
type shrinkFilter struct {
	FilterBase
	out content.Content
}

func (f *shrinkFilter) Name() string                  { return "shrink" }
func (f *shrinkFilter) OutputsPhysicalDisplays() bool { return false }

func (f *shrinkFilter) Apply(c *content.Content) *content.Content {
	f.out.Assign(c)
	for d := range f.out.Len() {
		stack := &f.out.Display(d).Stack
		for i := range stack.Len() {
			l := stack.Layer(i).Clone()
			l.ClipTo(content.R(0, 0, 50, 50))
			stack.SetLayer(i, l)
		}
		stack.UpdateLayerFlags()
	}
	return &f.out
}

func TestManager_ApplySegmentsValidateSeparately(t *testing.T) {
	f := newValidatorFixture()
	var trace []string
	if err := f.m.Add(&shrinkFilter{}, PositionVisibleRect); err != nil {
		t.Fatal(err)
	}
	if err := f.m.Add(newRecord("scale", PositionGlobalScaling, &trace), PositionGlobalScaling); err != nil {
		t.Fatal(err)
	}

	for frame := uint32(1); frame <= 3; frame++ {
		sf := f.m.Apply(testFrame(frame), PositionDebug, PositionLogicalDisplay)
		f.m.Apply(sf, PositionDisplayManager, PositionLast)
	}

	if len(f.fatals) != 0 {
		t.Errorf("fatal calls = %v, want none\n%s", f.fatals, f.logs.String())
	}
	if want := []string{"scale", "scale", "scale"}; !slices.Equal(trace, want) {
		t.Errorf("device-space trace = %v, want %v", trace, want)
	}
}
