package zarr

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/x448/float16"

	imageloader "github.com/manzt/vitessce-image-loader"
)

// Array is a read handle on one zarr v2 array. It implements
// imageloader.ChunkStore, so a multiscale group of arrays can back an
// ImageLoader directly.
type Array struct {
	store Store
	path  string
	meta  *ArrayMeta
	dtype imageloader.DataType
	order binary.ByteOrder
	codec Codec
}

var _ imageloader.ChunkStore = (*Array)(nil)

// OpenArray reads and validates the ".zarray" document at the given logical
// path ("" for the store root).
func OpenArray(ctx context.Context, store Store, path string) (*Array, error) {
	raw, err := store.Get(ctx, joinKey(path, ".zarray"))
	if err != nil {
		return nil, fmt.Errorf("zarr: opening array %q: %w", path, err)
	}

	meta := &ArrayMeta{}
	if err := json.Unmarshal(raw, meta); err != nil {
		return nil, fmt.Errorf("zarr: decoding array metadata at %q: %w", path, err)
	}
	if err := meta.validate(); err != nil {
		return nil, err
	}

	dtype, order, err := ParseDataType(meta.DType)
	if err != nil {
		return nil, err
	}
	codec, err := codecFor(meta.Compressor)
	if err != nil {
		return nil, err
	}

	return &Array{
		store: store,
		path:  path,
		meta:  meta,
		dtype: dtype,
		order: order,
		codec: codec,
	}, nil
}

// OpenPyramid opens an ordered list of arrays, base level first, returning
// them as chunk stores ready to back an ImageLoader.
func OpenPyramid(ctx context.Context, store Store, paths ...string) ([]imageloader.ChunkStore, error) {
	out := make([]imageloader.ChunkStore, len(paths))
	for i, path := range paths {
		arr, err := OpenArray(ctx, store, path)
		if err != nil {
			return nil, err
		}
		out[i] = arr
	}
	return out, nil
}

func (a *Array) Shape() []int {
	out := make([]int, len(a.meta.Shape))
	copy(out, a.meta.Shape)
	return out
}

func (a *Array) ChunkShape() []int {
	out := make([]int, len(a.meta.Chunks))
	copy(out, a.meta.Chunks)
	return out
}

func (a *Array) DataType() imageloader.DataType {
	return a.dtype
}

// ByteOrder returns the element byte order declared by the array's dtype.
func (a *Array) ByteOrder() binary.ByteOrder {
	return a.order
}

// Meta returns the decoded array metadata.
func (a *Array) Meta() *ArrayMeta {
	return a.meta
}

// gridShape is the number of chunks along each axis, rounding partial edge
// chunks up.
func (a *Array) gridShape() []int {
	grid := make([]int, len(a.meta.Shape))
	for i := range grid {
		grid[i] = (a.meta.Shape[i] + a.meta.Chunks[i] - 1) / a.meta.Chunks[i]
	}
	return grid
}

func (a *Array) chunkElems() int {
	elems := 1
	for _, c := range a.meta.Chunks {
		elems *= c
	}
	return elems
}

func (a *Array) chunkKey(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return joinKey(a.path, strings.Join(parts, a.meta.separator()))
}

func joinKey(path, name string) string {
	if path == "" {
		return name
	}
	return path + "/" + name
}

// ReadChunk fetches and decodes the chunk at the given chunk-grid
// coordinates. Coordinates beyond the grid fail with
// imageloader.ErrOutOfBounds; a missing key inside the grid decodes to a
// fill-value chunk per the zarr spec.
func (a *Array) ReadChunk(ctx context.Context, coord []imageloader.Coord) ([]byte, error) {
	if len(coord) != len(a.meta.Shape) {
		return nil, fmt.Errorf("zarr: coordinate %v does not match array rank %d", coord, len(a.meta.Shape))
	}
	indices := make([]int, len(coord))
	grid := a.gridShape()
	for i, c := range coord {
		if c.Whole() {
			return nil, fmt.Errorf("zarr: chunk reads require fixed coordinates, axis %d is open", i)
		}
		if c.Index() < 0 || c.Index() >= grid[i] {
			return nil, fmt.Errorf("zarr: chunk coordinate %d on axis %d outside grid %v: %w",
				c.Index(), i, grid, imageloader.ErrOutOfBounds)
		}
		indices[i] = c.Index()
	}
	return a.readChunkAt(ctx, indices)
}

func (a *Array) readChunkAt(ctx context.Context, indices []int) ([]byte, error) {
	raw, err := a.store.Get(ctx, a.chunkKey(indices))
	if errors.Is(err, ErrKeyNotFound) {
		return a.fillChunk(), nil
	}
	if err != nil {
		return nil, err
	}

	chunk, err := a.codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("zarr: decoding chunk %v: %w", indices, err)
	}
	if want := a.chunkElems() * a.dtype.Size(); len(chunk) != want {
		return nil, fmt.Errorf("zarr: chunk %v decoded to %d bytes, expected %d", indices, len(chunk), want)
	}
	return chunk, nil
}

func (a *Array) fillChunk() []byte {
	buf := make([]byte, a.chunkElems()*a.dtype.Size())
	if a.meta.FillValue == nil || *a.meta.FillValue == 0 {
		return buf
	}
	elem := make([]byte, a.dtype.Size())
	a.dtype.PutValue(elem, a.order, fillAs(a.dtype, *a.meta.FillValue))
	for i := 0; i < len(buf); i += len(elem) {
		copy(buf[i:], elem)
	}
	return buf
}

func fillAs(dt imageloader.DataType, v float64) any {
	switch dt {
	case imageloader.DataTypeBool:
		return v != 0
	case imageloader.DataTypeInt8:
		return int8(v)
	case imageloader.DataTypeUint8:
		return uint8(v)
	case imageloader.DataTypeInt16:
		return int16(v)
	case imageloader.DataTypeUint16:
		return uint16(v)
	case imageloader.DataTypeInt32:
		return int32(v)
	case imageloader.DataTypeUint32:
		return uint32(v)
	case imageloader.DataTypeInt64:
		return int64(v)
	case imageloader.DataTypeUint64:
		return uint64(v)
	case imageloader.DataTypeFloat16:
		return float16.Fromfloat32(float32(v))
	case imageloader.DataTypeFloat32:
		return float32(v)
	default:
		return v
	}
}

// ReadPlane assembles the hyperslab selected by the coordinate vector into
// one contiguous C-order buffer. Open coordinates span their whole axis;
// fixed coordinates select a single element index and collapse the axis to
// extent 1. Edge chunks are clamped to the array extent.
func (a *Array) ReadPlane(ctx context.Context, coord []imageloader.Coord) (*imageloader.Plane, error) {
	rank := len(a.meta.Shape)
	if len(coord) != rank {
		return nil, fmt.Errorf("zarr: coordinate %v does not match array rank %d", coord, rank)
	}

	shape := a.meta.Shape
	chunks := a.meta.Chunks
	elemSize := a.dtype.Size()

	outShape := make([]int, rank)
	for i, c := range coord {
		if c.Whole() {
			outShape[i] = shape[i]
			continue
		}
		if c.Index() < 0 || c.Index() >= shape[i] {
			return nil, fmt.Errorf("zarr: index %d on axis %d outside extent %d: %w",
				c.Index(), i, shape[i], imageloader.ErrOutOfBounds)
		}
		outShape[i] = 1
	}

	outElems := 1
	for _, s := range outShape {
		outElems *= s
	}
	out := make([]byte, outElems*elemSize)

	outStride := make([]int, rank)
	chunkStride := make([]int, rank)
	outStride[rank-1] = 1
	chunkStride[rank-1] = 1
	for i := rank - 2; i >= 0; i-- {
		outStride[i] = outStride[i+1] * outShape[i+1]
		chunkStride[i] = chunkStride[i+1] * chunks[i+1]
	}

	// chunk-grid range touched by the slab along each axis
	grid := a.gridShape()
	first := make([]int, rank)
	last := make([]int, rank)
	for i, c := range coord {
		if c.Whole() {
			first[i], last[i] = 0, grid[i]-1
		} else {
			first[i] = c.Index() / chunks[i]
			last[i] = first[i]
		}
	}

	chunkIdx := make([]int, rank)
	copy(chunkIdx, first)
	for {
		chunk, err := a.readChunkAt(ctx, chunkIdx)
		if err != nil {
			return nil, err
		}
		a.copySlab(out, chunk, coord, chunkIdx, outStride, chunkStride, elemSize)

		axis := rank - 1
		for ; axis >= 0; axis-- {
			chunkIdx[axis]++
			if chunkIdx[axis] <= last[axis] {
				break
			}
			chunkIdx[axis] = first[axis]
		}
		if axis < 0 {
			break
		}
	}

	return &imageloader.Plane{Data: out, Shape: outShape}, nil
}

// copySlab copies the portion of one chunk that intersects the requested
// slab into the output buffer, one contiguous innermost-axis run at a time.
func (a *Array) copySlab(out, chunk []byte, coord []imageloader.Coord, chunkIdx, outStride, chunkStride []int, elemSize int) {
	rank := len(coord)
	shape := a.meta.Shape
	chunks := a.meta.Chunks

	inStart := make([]int, rank)
	outStart := make([]int, rank)
	count := make([]int, rank)
	for i, c := range coord {
		if c.Whole() {
			inStart[i] = 0
			outStart[i] = chunkIdx[i] * chunks[i]
			count[i] = min(chunks[i], shape[i]-outStart[i])
		} else {
			inStart[i] = c.Index() % chunks[i]
			outStart[i] = 0
			count[i] = 1
		}
	}

	runBytes := count[rank-1] * elemSize
	it := make([]int, rank-1)
	for {
		srcOff := inStart[rank-1]
		dstOff := outStart[rank-1]
		for i := 0; i < rank-1; i++ {
			srcOff += (inStart[i] + it[i]) * chunkStride[i]
			dstOff += (outStart[i] + it[i]) * outStride[i]
		}
		copy(out[dstOff*elemSize:dstOff*elemSize+runBytes], chunk[srcOff*elemSize:])

		axis := rank - 2
		for ; axis >= 0; axis-- {
			it[axis]++
			if it[axis] < count[axis] {
				break
			}
			it[axis] = 0
		}
		if axis < 0 {
			break
		}
	}
}
