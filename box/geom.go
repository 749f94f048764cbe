/*package box contains routines for dealing with the geometry of simulation
boxes and of the lightcones cut from them.*/
package box

import (
	"fmt"
)

// CheckAxis panics if axis isn't 0, 1 or 2.
func CheckAxis(axis int) {
	if axis < 0 || axis > 2 {
		panic(fmt.Sprintf("Axis %d is not 0, 1, or 2.", axis))
	}
}

// Perpendicular returns an axis perpendicular to axis.
func Perpendicular(axis int) int {
	CheckAxis(axis)
	return (axis + 1) % 3
}

// CellWidth returns the width of one grid cell in a lightcone with the given
// shape, measured along an axis perpendicular to the line of sight. The
// line-of-sight extent of a lightcone isn't a box width, so it can't be used.
func CellWidth(width float64, shape []int, losAxis int) float64 {
	if len(shape) != 3 {
		panic(fmt.Sprintf("Lightcone has %d dimensions, not 3.", len(shape)))
	}
	return width / float64(shape[Perpendicular(losAxis)])
}

// Slicer maps flat indices into a row-major 3D array onto their index along
// a single axis.
type Slicer struct {
	stride, n int
}

// NewSlicer returns a Slicer for arrays of the given shape.
func NewSlicer(shape []int, axis int) Slicer {
	CheckAxis(axis)
	if len(shape) != 3 {
		panic(fmt.Sprintf("Array has %d dimensions, not 3.", len(shape)))
	}

	stride := 1
	for i := axis + 1; i < 3; i++ {
		stride *= shape[i]
	}
	return Slicer{stride: stride, n: shape[axis]}
}

// Index returns the index along the Slicer's axis of the element at flat.
func (s Slicer) Index(flat int) int { return (flat / s.stride) % s.n }

// Len returns the length of the Slicer's axis.
func (s Slicer) Len() int { return s.n }
