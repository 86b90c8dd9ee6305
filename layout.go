package imageloader

// axisLayout fixes which axes of an array act as the spatial X and Y axes.
// It is computed once at construction and never changes.
//
// By convention the last two axes are spatial (Y then X). When the array is
// RGB-interleaved the last axis holds the interleaved channel samples and the
// two axes before it are spatial (Y then X).
type axisLayout struct {
	interleaved bool
	xAxis       int
	yAxis       int
}

func newAxisLayout(rank int, interleaved bool) (axisLayout, error) {
	if interleaved {
		if rank < 3 {
			return axisLayout{}, ConfigurationError("interleaved arrays must have at least 3 dimensions")
		}
		return axisLayout{interleaved: true, xAxis: rank - 2, yAxis: rank - 3}, nil
	}
	if rank < 2 {
		return axisLayout{}, ConfigurationError("arrays must have at least 2 dimensions")
	}
	return axisLayout{xAxis: rank - 1, yAxis: rank - 2}, nil
}

// packedAxis returns the axis immediately preceding Y, or -1 when no such
// axis exists. When that axis has a chunk shape greater than one, multiple
// channels are packed into each physical chunk.
func (a axisLayout) packedAxis() int {
	return a.yAxis - 1
}

// GuessInterleaved reports whether a shape looks RGB(A)-interleaved: three or
// more axes with the last axis holding exactly 3 or 4 samples.
func GuessInterleaved(shape []int) bool {
	if len(shape) < 3 {
		return false
	}
	last := shape[len(shape)-1]
	return last == 3 || last == 4
}

// isStrictlyDecreasing reports whether each shape in the sequence is strictly
// smaller than its predecessor along every axis.
func isStrictlyDecreasing(shapes [][]int) bool {
	for i := 1; i < len(shapes); i++ {
		prev, cur := shapes[i-1], shapes[i]
		if len(prev) != len(cur) {
			return false
		}
		for d := range cur {
			if cur[d] >= prev[d] {
				return false
			}
		}
	}
	return true
}
