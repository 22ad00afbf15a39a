package hwcfilter

import (
	"errors"
	"fmt"
)

// ErrNilFilter is returned when registering a nil filter.
var ErrNilFilter = errors.New("hwcfilter: nil filter")

// ErrFilterNotComparable is returned when registering a filter whose
// dynamic type cannot be compared with ==, such as a struct value holding
// a slice. Register a pointer instead.
var ErrFilterNotComparable = errors.New("hwcfilter: filter type is not comparable")

// PositionSpaceError reports a filter registered at a position whose
// coordinate space does not match the filter's output.
type PositionSpaceError struct {
	Filter   string
	Position Position
	Physical bool
}

func (e *PositionSpaceError) Error() string {
	if e.Position.DeviceSpace() {
		return fmt.Sprintf("hwcfilter: filter %s at %v must output physical displays (positions >= %v)",
			e.Filter, e.Position, PositionDisplayManager)
	}
	return fmt.Sprintf("hwcfilter: filter %s at %v must output window-system displays (positions < %v)",
		e.Filter, e.Position, PositionDisplayManager)
}

// GeometryChangeError reports displays whose content changed between two
// consecutive frames without the geometry-changed flag set.
type GeometryChangeError struct {
	Label    string
	Displays []int
}

func (e *GeometryChangeError) Error() string {
	return fmt.Sprintf("hwcfilter: %s: displays %v missing required geometry change", e.Label, e.Displays)
}
