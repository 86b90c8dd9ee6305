package imageloader

import "context"

// Plane is the result of an open-axis read: one contiguous buffer together
// with the logical shape of the data it holds, in the same axis order as the
// array it was read from.
type Plane struct {
	Data  []byte
	Shape []int
}

// ChunkStore is the contract the loader requires of an underlying chunked
// N-dimensional array. The zarr subpackage provides an implementation; any
// store with the same semantics can back a loader.
//
// Reads whose coordinates fall outside the array extent must fail with an
// error matching errors.Is(err, ErrOutOfBounds); any other failure is treated
// as a hard store error and propagated to the loader's caller.
type ChunkStore interface {
	// Shape returns the total number of elements along each axis.
	Shape() []int
	// ChunkShape returns the number of elements along each axis of one
	// storage chunk.
	ChunkShape() []int
	// DataType returns the element type of the array.
	DataType() DataType

	// ReadChunk reads the single chunk addressed by the given chunk-grid
	// coordinates. Every coordinate must be fixed.
	ReadChunk(ctx context.Context, coord []Coord) ([]byte, error)

	// ReadPlane reads a hyperslab: fixed coordinates select one element
	// index along their axis, open coordinates select the whole axis. The
	// returned buffer is contiguous in C order.
	ReadPlane(ctx context.Context, coord []Coord) (*Plane, error)
}
