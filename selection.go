package imageloader

import (
	"fmt"
	"slices"
)

// ChannelSelection picks one logical channel: a coordinate vector with one
// entry per axis, where the spatial entries are placeholders overwritten per
// request and the remaining entries fix an index along their axis.
//
// Two forms are accepted: IndexSelection carries raw numeric indices, and
// NamedSelection maps dimension labels to indices (requires the loader to be
// constructed with dimension labels).
type ChannelSelection interface {
	resolve(labels []string, rank int) ([]int, error)
}

// IndexSelection is a raw numeric selection, one index per axis.
type IndexSelection []int

func (s IndexSelection) resolve(labels []string, rank int) ([]int, error) {
	out := make([]int, len(s))
	copy(out, s)
	return out, nil
}

// NamedSelection maps dimension labels to fixed indices. Axes not named in
// the map default to index 0.
type NamedSelection map[string]int

func (s NamedSelection) resolve(labels []string, rank int) ([]int, error) {
	if labels == nil {
		return nil, ConfigurationError("named selection used without dimension labels")
	}
	return ResolveNamedSelection(labels, s)
}

// ResolveNamedSelection converts a named selection into a numeric index
// vector for the given ordered dimension labels. Axes not present in the
// selection resolve to 0. An unknown dimension name is an error.
func ResolveNamedSelection(labels []string, sel map[string]int) ([]int, error) {
	out := make([]int, len(labels))
	for name, index := range sel {
		axis := slices.Index(labels, name)
		if axis < 0 {
			return nil, ConfigurationError(fmt.Sprintf("unknown dimension name %q", name))
		}
		out[axis] = index
	}
	return out, nil
}

// SetChannelSelections validates and atomically replaces the active channel
// selection set. The order of selections defines the channel order of tile
// and raster results. On any validation failure the previously active set
// stays in effect.
//
// Interleaved and packed-multichannel arrays permit at most one selection,
// since every read along those layouts already covers the full channel axis.
// Axes whose chunk shape exceeds one cannot be indexed into and must carry
// selection value 0; their channels are separated after the read instead.
func (l *ImageLoader) SetChannelSelections(selections ...ChannelSelection) error {
	base := l.data[0]
	rank := len(base.Shape())
	chunks := base.ChunkShape()

	if (l.layout.interleaved || l.packed) && len(selections) > 1 {
		return ConfigurationError("arrays with interleaved or chunk-packed channels allow at most one selection")
	}

	resolved := make([][]int, len(selections))
	for i, sel := range selections {
		vec, err := sel.resolve(l.labels, rank)
		if err != nil {
			return err
		}
		if len(vec) != rank {
			return ConfigurationError(fmt.Sprintf(
				"selection %v has %d entries, array rank is %d", vec, len(vec), rank))
		}
		for axis, index := range vec {
			if axis == l.layout.xAxis || axis == l.layout.yAxis {
				continue
			}
			if chunks[axis] > 1 && index != 0 {
				return ConfigurationError(fmt.Sprintf(
					"cannot select index %d along axis %d: chunk shape %d > 1, chunked axes are read whole and split after the read",
					index, axis, chunks[axis]))
			}
		}
		resolved[i] = vec
	}

	l.selections.Store(&resolved)
	return nil
}

// ChannelSelections returns a copy of the active selection set in order.
func (l *ImageLoader) ChannelSelections() [][]int {
	active := *l.selections.Load()
	out := make([][]int, len(active))
	for i, sel := range active {
		out[i] = make([]int, len(sel))
		copy(out[i], sel)
	}
	return out
}
