package imageloader

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ImageLoader extracts rectangular tiles and full-resolution rasters from a
// multiscale pyramid of chunked N-dimensional arrays. Axis roles, the pyramid
// reference and the interleaved/packed layout are fixed at construction; the
// active channel selection set is the only mutable state and is replaced
// wholesale by SetChannelSelections.
type ImageLoader struct {
	data   []ChunkStore
	labels []string
	layout axisLayout
	packed bool

	// Passthrough metadata for renderers; never interpreted here.
	scale     []float64
	translate []float64

	tileError  func(error) error
	selections atomic.Pointer[[][]int]
}

// Option configures an ImageLoader during construction.
type Option func(*loaderConfig)

type loaderConfig struct {
	labels         []string
	interleaved    bool
	interleavedSet bool
	scale          []float64
	translate      []float64
	tileError      func(error) error
}

// WithDimensionLabels names each axis of the arrays, enabling named channel
// selections. The number of labels must equal the array rank.
func WithDimensionLabels(labels ...string) Option {
	return func(c *loaderConfig) { c.labels = labels }
}

// WithInterleaved overrides the interleaved-layout heuristic.
func WithInterleaved(interleaved bool) Option {
	return func(c *loaderConfig) {
		c.interleaved = interleaved
		c.interleavedSet = true
	}
}

// WithScale attaches per-axis scale metadata. The loader stores it untouched
// for downstream consumers.
func WithScale(scale ...float64) Option {
	return func(c *loaderConfig) { c.scale = scale }
}

// WithTranslate attaches per-axis translation metadata. The loader stores it
// untouched for downstream consumers.
func WithTranslate(translate ...float64) Option {
	return func(c *loaderConfig) { c.translate = translate }
}

// WithTileErrorHandler replaces the policy applied to failed reads. The
// handler receives the store error and returns nil to swallow it (the tile is
// reported as absent) or an error to propagate. The default handler swallows
// ErrOutOfBounds and propagates everything else.
func WithTileErrorHandler(handler func(error) error) Option {
	return func(c *loaderConfig) { c.tileError = handler }
}

// New creates a loader over a pyramid of chunked arrays ordered from the
// base (highest resolution) level downward. A single-element pyramid is the
// degenerate single-array case. Every level must be strictly smaller than the
// previous one along every axis.
func New(data []ChunkStore, opts ...Option) (*ImageLoader, error) {
	if len(data) == 0 {
		return nil, ConfigurationError("loader requires at least one array")
	}

	cfg := loaderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	shapes := make([][]int, len(data))
	for i, d := range data {
		shapes[i] = d.Shape()
	}
	if !isStrictlyDecreasing(shapes) {
		return nil, ConfigurationError("pyramid levels must strictly decrease in every dimension")
	}

	base := data[0]
	rank := len(base.Shape())
	if cfg.labels != nil && len(cfg.labels) != rank {
		return nil, ConfigurationError(fmt.Sprintf(
			"expected %d dimension labels for array of rank %d, got %d", rank, rank, len(cfg.labels)))
	}

	interleaved := cfg.interleaved
	if !cfg.interleavedSet {
		interleaved = GuessInterleaved(base.Shape())
	}
	layout, err := newAxisLayout(rank, interleaved)
	if err != nil {
		return nil, err
	}

	packed := false
	if p := layout.packedAxis(); p >= 0 && base.ChunkShape()[p] > 1 {
		packed = true
	}

	l := &ImageLoader{
		data:      data,
		labels:    cfg.labels,
		layout:    layout,
		packed:    packed,
		scale:     cfg.scale,
		translate: cfg.translate,
		tileError: cfg.tileError,
	}
	if l.tileError == nil {
		l.tileError = defaultTileError
	}

	initial := [][]int{make([]int, rank)}
	l.selections.Store(&initial)
	return l, nil
}

func defaultTileError(err error) error {
	if errors.Is(err, ErrOutOfBounds) {
		return nil
	}
	return err
}

// resolve picks the array backing the given pyramid level. A single-array
// loader always resolves to its one array. An out-of-range level on a real
// pyramid is reported the same way a store reports an out-of-bounds read, so
// the tile error policy applies to it.
func (l *ImageLoader) resolve(level int) (ChunkStore, error) {
	if len(l.data) == 1 {
		return l.data[0], nil
	}
	if level < 0 || level >= len(l.data) {
		return nil, fmt.Errorf("pyramid level %d outside [0, %d): %w", level, len(l.data), ErrOutOfBounds)
	}
	return l.data[level], nil
}

// Levels returns the number of resolution levels in the pyramid.
func (l *ImageLoader) Levels() int {
	return len(l.data)
}

// Interleaved reports whether the base array uses an RGB-interleaved layout.
func (l *ImageLoader) Interleaved() bool {
	return l.layout.interleaved
}

// PackedChannels reports whether multiple channels are packed into a single
// physical chunk and are split after each read.
func (l *ImageLoader) PackedChannels() bool {
	return l.packed
}

// DimensionLabels returns the axis names configured at construction, or nil.
func (l *ImageLoader) DimensionLabels() []string {
	if l.labels == nil {
		return nil
	}
	out := make([]string, len(l.labels))
	copy(out, l.labels)
	return out
}

// Scale returns the scale metadata supplied at construction, uninterpreted.
func (l *ImageLoader) Scale() []float64 {
	return l.scale
}

// Translate returns the translation metadata supplied at construction,
// uninterpreted.
func (l *ImageLoader) Translate() []float64 {
	return l.translate
}
