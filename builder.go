package hwcfilter

import (
	"errors"
	"fmt"
)

// Builder assembles a Manager from filters at explicit positions.
//
// Example:
//
//	m, err := hwcfilter.NewBuilder(hwcfilter.WithDiagnostics(true)).
//	    Add(visiblerect.New(), hwcfilter.PositionVisibleRect).
//	    Add(scaler, hwcfilter.PositionGlobalScaling).
//	    Build()
type Builder struct {
	opts   []Option
	stages []Registration
}

// NewBuilder starts a pipeline configured with opts.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{opts: opts}
}

// Add queues f to be registered at pos. Order of calls does not matter;
// dispatch follows positions.
func (b *Builder) Add(f Filter, pos Position) *Builder {
	b.stages = append(b.stages, Registration{Filter: f, Position: pos})
	return b
}

// Build registers every queued filter. It fails, returning every
// registration error, if any filter is rejected.
func (b *Builder) Build() (*Manager, error) {
	m := NewManager(b.opts...)

	var errs []error
	for i, s := range b.stages {
		if err := m.Add(s.Filter, s.Position); err != nil {
			errs = append(errs, fmt.Errorf("stage %d: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}
