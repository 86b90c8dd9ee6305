package imageloader

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// DataType describes the element type stored in a chunked array.
type DataType uint32

const (
	DataTypeUnknown DataType = 0
	DataTypeBool    DataType = 1
	DataTypeInt8    DataType = 2
	DataTypeUint8   DataType = 3
	DataTypeInt16   DataType = 4
	DataTypeUint16  DataType = 5
	DataTypeInt32   DataType = 6
	DataTypeUint32  DataType = 7
	DataTypeInt64   DataType = 8
	DataTypeUint64  DataType = 9
	DataTypeFloat16 DataType = 10
	DataTypeFloat32 DataType = 11
	DataTypeFloat64 DataType = 12
)

// Size returns the size of one element of this type in bytes.
func (d DataType) Size() int {
	switch d {
	case DataTypeBool, DataTypeInt8, DataTypeUint8:
		return 1
	case DataTypeInt16, DataTypeUint16, DataTypeFloat16:
		return 2
	case DataTypeInt32, DataTypeUint32, DataTypeFloat32:
		return 4
	case DataTypeInt64, DataTypeUint64, DataTypeFloat64:
		return 8
	default:
		return 0
	}
}

func (d DataType) String() string {
	switch d {
	case DataTypeBool:
		return "bool"
	case DataTypeInt8:
		return "int8"
	case DataTypeUint8:
		return "uint8"
	case DataTypeInt16:
		return "int16"
	case DataTypeUint16:
		return "uint16"
	case DataTypeInt32:
		return "int32"
	case DataTypeUint32:
		return "uint32"
	case DataTypeInt64:
		return "int64"
	case DataTypeUint64:
		return "uint64"
	case DataTypeFloat16:
		return "float16"
	case DataTypeFloat32:
		return "float32"
	case DataTypeFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// Value reads one element of this type from the start of the provided raw
// byte slice. The read is type-dependent, so the caller always gets a value
// of the Go type matching the DataType.
func (d DataType) Value(raw []byte, order binary.ByteOrder) any {
	switch d {
	case DataTypeBool:
		return raw[0] != 0
	case DataTypeInt8:
		return int8(raw[0])
	case DataTypeUint8:
		return raw[0]
	case DataTypeInt16:
		return int16(order.Uint16(raw))
	case DataTypeUint16:
		return order.Uint16(raw)
	case DataTypeInt32:
		return int32(order.Uint32(raw))
	case DataTypeUint32:
		return order.Uint32(raw)
	case DataTypeInt64:
		return int64(order.Uint64(raw))
	case DataTypeUint64:
		return order.Uint64(raw)
	case DataTypeFloat16:
		return float16.Frombits(order.Uint16(raw))
	case DataTypeFloat32:
		return math.Float32frombits(order.Uint32(raw))
	case DataTypeFloat64:
		return math.Float64frombits(order.Uint64(raw))
	default:
		panic("imageloader: tried to read value of unknown data type")
	}
}

// PutValue writes a value of the Go type matching this DataType into the
// start of the provided byte slice. Panics if the value's dynamic type does
// not match.
func (d DataType) PutValue(raw []byte, order binary.ByteOrder, val any) {
	switch d {
	case DataTypeBool:
		if val.(bool) {
			raw[0] = 1
		} else {
			raw[0] = 0
		}
	case DataTypeInt8:
		raw[0] = byte(val.(int8))
	case DataTypeUint8:
		raw[0] = val.(uint8)
	case DataTypeInt16:
		order.PutUint16(raw, uint16(val.(int16)))
	case DataTypeUint16:
		order.PutUint16(raw, val.(uint16))
	case DataTypeInt32:
		order.PutUint32(raw, uint32(val.(int32)))
	case DataTypeUint32:
		order.PutUint32(raw, val.(uint32))
	case DataTypeInt64:
		order.PutUint64(raw, uint64(val.(int64)))
	case DataTypeUint64:
		order.PutUint64(raw, val.(uint64))
	case DataTypeFloat16:
		order.PutUint16(raw, val.(float16.Float16).Bits())
	case DataTypeFloat32:
		order.PutUint32(raw, math.Float32bits(val.(float32)))
	case DataTypeFloat64:
		order.PutUint64(raw, math.Float64bits(val.(float64)))
	default:
		panic("imageloader: tried to write value of unknown data type")
	}
}

// Slice decodes an entire raw buffer into a typed slice ([]uint16,
// []float16.Float16, []float32, ...). The buffer length must be a multiple
// of the element size.
func (d DataType) Slice(raw []byte, order binary.ByteOrder) any {
	n := len(raw) / d.Size()
	switch d {
	case DataTypeBool:
		out := make([]bool, n)
		for i := range out {
			out[i] = raw[i] != 0
		}
		return out
	case DataTypeInt8:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(raw[i])
		}
		return out
	case DataTypeUint8:
		out := make([]uint8, n)
		copy(out, raw)
		return out
	case DataTypeInt16:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(order.Uint16(raw[i*2:]))
		}
		return out
	case DataTypeUint16:
		out := make([]uint16, n)
		for i := range out {
			out[i] = order.Uint16(raw[i*2:])
		}
		return out
	case DataTypeInt32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(order.Uint32(raw[i*4:]))
		}
		return out
	case DataTypeUint32:
		out := make([]uint32, n)
		for i := range out {
			out[i] = order.Uint32(raw[i*4:])
		}
		return out
	case DataTypeInt64:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(order.Uint64(raw[i*8:]))
		}
		return out
	case DataTypeUint64:
		out := make([]uint64, n)
		for i := range out {
			out[i] = order.Uint64(raw[i*8:])
		}
		return out
	case DataTypeFloat16:
		out := make([]float16.Float16, n)
		for i := range out {
			out[i] = float16.Frombits(order.Uint16(raw[i*2:]))
		}
		return out
	case DataTypeFloat32:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(order.Uint32(raw[i*4:]))
		}
		return out
	case DataTypeFloat64:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(order.Uint64(raw[i*8:]))
		}
		return out
	default:
		panic("imageloader: tried to decode slice of unknown data type")
	}
}
