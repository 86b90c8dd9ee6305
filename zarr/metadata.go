package zarr

import (
	"encoding/binary"
	"fmt"

	imageloader "github.com/manzt/vitessce-image-loader"
)

// ArrayMeta is the decoded form of a zarr v2 ".zarray" document.
type ArrayMeta struct {
	Shape              []int             `json:"shape"`
	Chunks             []int             `json:"chunks"`
	DType              string            `json:"dtype"`
	Compressor         *CompressorConfig `json:"compressor"`
	Order              string            `json:"order"`
	FillValue          *float64          `json:"fill_value"`
	ZarrFormat         int               `json:"zarr_format"`
	DimensionSeparator string            `json:"dimension_separator,omitempty"`
}

// CompressorConfig identifies the numcodecs codec applied to each chunk.
type CompressorConfig struct {
	ID    string `json:"id"`
	Level int    `json:"level,omitempty"`
}

func (m *ArrayMeta) validate() error {
	if len(m.Shape) == 0 {
		return fmt.Errorf("zarr: array metadata has empty shape")
	}
	if len(m.Chunks) != len(m.Shape) {
		return fmt.Errorf("zarr: chunk shape %v does not match array shape %v", m.Chunks, m.Shape)
	}
	for i, c := range m.Chunks {
		if c <= 0 || m.Shape[i] <= 0 {
			return fmt.Errorf("zarr: non-positive extent in shape %v / chunks %v", m.Shape, m.Chunks)
		}
	}
	if m.Order != "" && m.Order != "C" {
		return fmt.Errorf("zarr: unsupported chunk memory order %q", m.Order)
	}
	return nil
}

func (m *ArrayMeta) separator() string {
	if m.DimensionSeparator == "" {
		return "."
	}
	return m.DimensionSeparator
}

// ParseDataType decodes a numpy-style dtype string ("<u2", "|u1", ">f4",
// "<f2", ...) into an element type and byte order.
func ParseDataType(dtype string) (imageloader.DataType, binary.ByteOrder, error) {
	if len(dtype) != 3 {
		return imageloader.DataTypeUnknown, nil, fmt.Errorf("zarr: invalid dtype %q", dtype)
	}

	var order binary.ByteOrder
	switch dtype[0] {
	case '<', '|':
		order = binary.LittleEndian
	case '>':
		order = binary.BigEndian
	default:
		return imageloader.DataTypeUnknown, nil, fmt.Errorf("zarr: invalid byte order in dtype %q", dtype)
	}

	var dt imageloader.DataType
	switch dtype[1:] {
	case "b1":
		dt = imageloader.DataTypeBool
	case "i1":
		dt = imageloader.DataTypeInt8
	case "u1":
		dt = imageloader.DataTypeUint8
	case "i2":
		dt = imageloader.DataTypeInt16
	case "u2":
		dt = imageloader.DataTypeUint16
	case "i4":
		dt = imageloader.DataTypeInt32
	case "u4":
		dt = imageloader.DataTypeUint32
	case "i8":
		dt = imageloader.DataTypeInt64
	case "u8":
		dt = imageloader.DataTypeUint64
	case "f2":
		dt = imageloader.DataTypeFloat16
	case "f4":
		dt = imageloader.DataTypeFloat32
	case "f8":
		dt = imageloader.DataTypeFloat64
	default:
		return imageloader.DataTypeUnknown, nil, fmt.Errorf("zarr: unsupported dtype %q", dtype)
	}
	return dt, order, nil
}
