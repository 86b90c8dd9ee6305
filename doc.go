// Package imageloader maps tile and raster requests against multiscale
// pyramids of chunked N-dimensional arrays onto concrete chunk reads, and
// reassembles the results into per-channel buffers.
//
// The loader itself is store-agnostic: any implementation of ChunkStore can
// back it. The zarr subpackage provides a zarr v2 store over memory,
// directory and HTTP backends.
package imageloader
