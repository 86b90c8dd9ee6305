package zarr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec encodes and decodes chunk payloads for one numcodecs compressor id.
type Codec interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

func codecFor(cfg *CompressorConfig) (Codec, error) {
	if cfg == nil {
		return noopCodec{}, nil
	}
	switch cfg.ID {
	case "", "none":
		return noopCodec{}, nil
	case "gzip":
		return gzipCodec{level: cfg.Level}, nil
	case "zlib":
		return zlibCodec{level: cfg.Level}, nil
	case "zstd":
		return zstdCodec{level: cfg.Level}, nil
	case "lz4":
		return lz4Codec{}, nil
	default:
		return nil, fmt.Errorf("zarr: unsupported compressor %q", cfg.ID)
	}
}

type noopCodec struct{}

func (noopCodec) Encode(data []byte) ([]byte, error) { return data, nil }
func (noopCodec) Decode(data []byte) ([]byte, error) { return data, nil }

type gzipCodec struct {
	level int
}

func (c gzipCodec) Encode(data []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	level := c.level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	w, err := gzip.NewWriterLevel(buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c gzipCodec) Decode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

type zlibCodec struct {
	level int
}

func (c zlibCodec) Encode(data []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	level := c.level
	if level == 0 {
		level = zlib.DefaultCompression
	}
	w, err := zlib.NewWriterLevel(buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c zlibCodec) Decode(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// zstd decoders are designed for reuse; pooling them avoids re-allocating
// decompression state on every chunk.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("zarr: failed to create zstd decoder: %v", err))
		}
		return decoder
	},
}

type zstdCodec struct {
	level int
}

func (c zstdCodec) Encode(data []byte) ([]byte, error) {
	level := zstd.SpeedDefault
	if c.level != 0 {
		level = zstd.EncoderLevelFromZstd(c.level)
	}
	w, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, err
	}
	out := w.EncodeAll(data, nil)
	return out, w.Close()
}

func (c zstdCodec) Decode(data []byte) ([]byte, error) {
	decoder := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)
	return decoder.DecodeAll(data, nil)
}

// lz4Codec implements the numcodecs lz4 format: a 4-byte little-endian
// original-size prefix followed by a single lz4 block.
type lz4Codec struct{}

func (lz4Codec) Encode(data []byte) ([]byte, error) {
	out := make([]byte, 4+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(out, uint32(len(data)))

	var compressor lz4.Compressor
	n, err := compressor.CompressBlock(data, out[4:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// incompressible input still needs a valid block: emit it as one
		// literal-only sequence
		n = literalBlock(data, out[4:])
	}
	return out[:4+n], nil
}

func literalBlock(data, dst []byte) int {
	n := len(data)
	i := 1
	if n < 15 {
		dst[0] = byte(n) << 4
	} else {
		dst[0] = 0xf0
		rem := n - 15
		for ; rem >= 255; rem -= 255 {
			dst[i] = 255
			i++
		}
		dst[i] = byte(rem)
		i++
	}
	copy(dst[i:], data)
	return i + n
}

func (lz4Codec) Decode(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("zarr: lz4 chunk of %d bytes is missing its size prefix", len(data))
	}
	size := binary.LittleEndian.Uint32(data)
	out := make([]byte, size)
	n, err := lz4.UncompressBlock(data[4:], out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}
