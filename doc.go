// Package hwcfilter runs a display compositor's per-frame filter pipeline.
//
// # Overview
//
// Each frame the host compositor describes what every display should show
// as a [content.Content]: displays, each with an ordered stack of layers.
// Before that description reaches display hardware or a fallback renderer,
// a [Manager] passes it through an ordered chain of [Filter] stages that
// reorder, clip or annotate layers. Filters never draw anything.
//
// # Building a pipeline
//
//	m, err := hwcfilter.NewBuilder().
//	    Add(visiblerect.New(), hwcfilter.PositionVisibleRect).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	m.OpenSession(dev)
//
//	// once per frame
//	out := m.Apply(frame, hwcfilter.PositionDebug, hwcfilter.PositionLast)
//
// # Positions and coordinate spaces
//
// A [Position] orders filters and also fixes which coordinates they work
// in. Positions below [PositionDisplayManager] see window-system displays;
// positions from it upward see physical displays. A filter's
// OutputsPhysicalDisplays must agree with its position or [Manager.Add]
// rejects it.
//
// # Content ownership
//
// Content flows by pointer. A filter that changes nothing returns its
// input. A filter that changes something returns a Content it owns and
// reuses on every frame, so the result is only valid until that filter
// runs again.
//
// # Diagnostics
//
// Builds tagged hwcinternal, or managers created with WithDiagnostics(true),
// validate the geometry-changed flag of every stage's output against the
// previous frame and enable [Manager.Dump]. The setting is fixed when the
// Manager is created.
//
// # Thread Safety
//
// A Manager is safe for concurrent use, but passes are fully serialized
// under one spin lock. Filters are only ever called with that lock held.
package hwcfilter
