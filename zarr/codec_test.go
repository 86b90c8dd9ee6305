package zarr

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	compressible := bytes.Repeat([]byte("abcd"), 256)
	incompressible := make([]byte, 1024)
	rng := rand.New(rand.NewSource(1))
	rng.Read(incompressible)

	for _, id := range []string{"none", "gzip", "zlib", "zstd", "lz4"} {
		t.Run(id, func(t *testing.T) {
			codec, err := codecFor(&CompressorConfig{ID: id})
			if err != nil {
				t.Fatal(err)
			}
			for _, data := range [][]byte{compressible, incompressible, {}} {
				encoded, err := codec.Encode(data)
				if err != nil {
					t.Fatal(err)
				}
				decoded, err := codec.Decode(encoded)
				if err != nil {
					t.Fatal(err)
				}
				if !bytes.Equal(decoded, data) {
					t.Errorf("round trip of %d bytes produced %d bytes", len(data), len(decoded))
				}
			}
		})
	}
}

func TestCodecForUnknownCompressor(t *testing.T) {
	if _, err := codecFor(&CompressorConfig{ID: "blosc"}); err == nil {
		t.Error("expected error for unsupported compressor")
	}
}

func TestLZ4LiteralBlock(t *testing.T) {
	// lengths around the 15-literal token boundary and past one 255 extension
	for _, n := range []int{0, 1, 14, 15, 16, 270, 271} {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i * 7)
		}
		dst := make([]byte, n+8)
		written := literalBlock(data, dst)
		if written > len(dst) {
			t.Fatalf("literalBlock wrote %d bytes into %d", written, len(dst))
		}
	}
}
