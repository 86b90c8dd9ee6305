package imageloader

import "strconv"

// Coord addresses a single axis of an N-dimensional read. A coordinate is
// either fixed to one index along the axis, or open, meaning the whole axis
// is read. Open coordinates are only meaningful for plane reads.
type Coord struct {
	index int
	whole bool
}

// Fixed returns a coordinate bound to a single index along its axis.
func Fixed(index int) Coord {
	return Coord{index: index}
}

// WholeAxis is the open coordinate: the entire axis is read.
var WholeAxis = Coord{whole: true}

// Whole reports whether the coordinate spans the entire axis.
func (c Coord) Whole() bool {
	return c.whole
}

// Index returns the fixed index of the coordinate. Only meaningful when
// Whole() is false.
func (c Coord) Index() int {
	return c.index
}

func (c Coord) String() string {
	if c.whole {
		return "*"
	}
	return strconv.Itoa(c.index)
}
