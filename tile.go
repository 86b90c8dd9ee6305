package imageloader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Raster holds one full-resolution plane per active channel selection.
// Width and Height come from the resolved array's shape at the X and Y axis
// positions, independent of the buffer sizes returned by the store.
type Raster struct {
	Data   [][]byte
	Width  int
	Height int
}

// GetTile reads the chunk at tile coordinates (x, y) of the given pyramid
// level, once per active channel selection. Reads fan out concurrently and
// results preserve selection order. A swallowed read (out of bounds by
// default policy) leaves a nil buffer in its slot. For packed-multichannel
// arrays the single fetched chunk is split into per-channel views.
func (l *ImageLoader) GetTile(ctx context.Context, x, y, level int) ([][]byte, error) {
	store, err := l.resolve(level)
	if err != nil {
		if err := l.tileError(err); err != nil {
			return nil, err
		}
		return nil, nil
	}

	selections := *l.selections.Load()
	tiles := make([][]byte, len(selections))

	g, ctx := errgroup.WithContext(ctx)
	for i, sel := range selections {
		i, sel := i, sel
		g.Go(func() error {
			coord := make([]Coord, len(sel))
			for axis, index := range sel {
				coord[axis] = Fixed(index)
			}
			coord[l.layout.xAxis] = Fixed(x)
			coord[l.layout.yAxis] = Fixed(y)

			buf, err := store.ReadChunk(ctx, coord)
			if err != nil {
				return l.tileError(err)
			}
			tiles[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if l.packed {
		if len(tiles) == 0 || tiles[0] == nil {
			return tiles, nil
		}
		return SplitPackedChannels(tiles[0], store.ChunkShape()[l.layout.packedAxis()])
	}
	return tiles, nil
}

// GetRaster reads the full spatial extent of the given pyramid level, once
// per active channel selection. The spatial axes are read whole; interleaved
// arrays additionally read the whole channel axis, and packed-multichannel
// arrays read the whole packed axis and split the result per channel.
func (l *ImageLoader) GetRaster(ctx context.Context, level int) (*Raster, error) {
	store, err := l.resolve(level)
	if err != nil {
		if err := l.tileError(err); err != nil {
			return nil, err
		}
		return nil, nil
	}

	selections := *l.selections.Load()
	planes := make([][]byte, len(selections))

	g, ctx := errgroup.WithContext(ctx)
	for i, sel := range selections {
		i, sel := i, sel
		g.Go(func() error {
			coord := make([]Coord, len(sel))
			for axis, index := range sel {
				coord[axis] = Fixed(index)
			}
			coord[l.layout.xAxis] = WholeAxis
			coord[l.layout.yAxis] = WholeAxis
			if l.layout.interleaved {
				coord[len(coord)-1] = WholeAxis
			}
			if l.packed {
				coord[l.layout.packedAxis()] = WholeAxis
			}

			plane, err := store.ReadPlane(ctx, coord)
			if err != nil {
				return l.tileError(err)
			}
			planes[i] = plane.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shape := store.Shape()
	raster := &Raster{
		Width:  shape[l.layout.xAxis],
		Height: shape[l.layout.yAxis],
	}

	if l.packed && len(planes) > 0 && planes[0] != nil {
		split, err := SplitPackedChannels(planes[0], store.ChunkShape()[l.layout.packedAxis()])
		if err != nil {
			return nil, err
		}
		raster.Data = split
		return raster, nil
	}
	raster.Data = planes
	return raster, nil
}

// SplitPackedChannels separates a buffer holding count channel-major packed
// channels into count non-overlapping views of the same backing buffer. View
// i covers the half-open byte range [i*offset, (i+1)*offset) where offset is
// len(buf)/count.
//
// The split assumes channel-major contiguous packing, matching the chunk
// layout of C-order stores with the channel axis ahead of the spatial axes.
func SplitPackedChannels(buf []byte, count int) ([][]byte, error) {
	if count <= 0 {
		return nil, fmt.Errorf("imageloader: invalid packed channel count %d", count)
	}
	if len(buf)%count != 0 {
		return nil, fmt.Errorf("imageloader: buffer of %d bytes not divisible into %d channels", len(buf), count)
	}
	offset := len(buf) / count
	views := make([][]byte, count)
	for i := range views {
		views[i] = buf[i*offset : (i+1)*offset : (i+1)*offset]
	}
	return views, nil
}
