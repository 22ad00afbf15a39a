// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hwcfilter

import "fmt"

// Position is a filter's place in the pipeline. Filters run in ascending
// position order.
//
// Positions below PositionDisplayManager work on window-system displays;
// PositionDisplayManager and above work on physical displays.
type Position uint32

const (
	PositionDebug Position = iota
	PositionTransparency
	PositionVisibleRect
	PositionLogicalDisplay

	// PositionDisplayManager is the first device-space position.
	PositionDisplayManager

	PositionGlobalScaling
	PositionPlaneAllocation

	// PositionLast is the highest valid position.
	PositionLast
)

var positionNames = [...]string{
	PositionDebug:           "debug",
	PositionTransparency:    "transparency",
	PositionVisibleRect:     "visiblerect",
	PositionLogicalDisplay:  "logicaldisplay",
	PositionDisplayManager:  "displaymanager",
	PositionGlobalScaling:   "globalscaling",
	PositionPlaneAllocation: "planeallocation",
	PositionLast:            "last",
}

func (p Position) String() string {
	if int(p) < len(positionNames) {
		return positionNames[p]
	}
	return fmt.Sprintf("Position(%d)", uint32(p))
}

// DeviceSpace reports whether filters at p must output physical displays.
func (p Position) DeviceSpace() bool {
	return p >= PositionDisplayManager
}

// ParsePosition returns the position with the given name.
func ParsePosition(name string) (Position, error) {
	for i, n := range positionNames {
		if n == name {
			return Position(i), nil
		}
	}
	return 0, fmt.Errorf("hwcfilter: unknown position %q", name)
}
