package effect

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-addons/common"
)

// Uniform values are stored as raw 32-bit components in the variable's own base type.
// Reads and writes through a different base type convert per component, the way a shader
// compiler converts between scalar types.

func boolBits(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func floatBits(f float32) uint32 {
	return math.Float32bits(f)
}

// toFloat converts a raw component of base to float32.
func toFloat(base common.BaseType, bits uint32) float32 {
	switch base {
	case common.BaseTypeFloat:
		return math.Float32frombits(bits)
	case common.BaseTypeInt:
		return float32(int32(bits))
	default:
		return float32(bits)
	}
}

// toInt converts a raw component of base to int32.
func toInt(base common.BaseType, bits uint32) int32 {
	if base == common.BaseTypeFloat {
		return int32(math.Float32frombits(bits))
	}
	return int32(bits)
}

// toUint converts a raw component of base to uint32.
func toUint(base common.BaseType, bits uint32) uint32 {
	if base == common.BaseTypeFloat {
		return uint32(math.Float32frombits(bits))
	}
	return bits
}

// toBool converts a raw component of base to bool.
func toBool(base common.BaseType, bits uint32) bool {
	if base == common.BaseTypeFloat {
		return math.Float32frombits(bits) != 0
	}
	return bits != 0
}

// fromFloat converts f to a raw component of base.
func fromFloat(base common.BaseType, f float32) uint32 {
	switch base {
	case common.BaseTypeFloat:
		return floatBits(f)
	case common.BaseTypeBool:
		return boolBits(f != 0)
	case common.BaseTypeInt:
		return uint32(int32(f))
	default:
		return uint32(f)
	}
}

// fromInt converts i to a raw component of base.
func fromInt(base common.BaseType, i int32) uint32 {
	switch base {
	case common.BaseTypeFloat:
		return floatBits(float32(i))
	case common.BaseTypeBool:
		return boolBits(i != 0)
	default:
		return uint32(i)
	}
}

// fromUint converts u to a raw component of base.
func fromUint(base common.BaseType, u uint32) uint32 {
	switch base {
	case common.BaseTypeFloat:
		return floatBits(float32(u))
	case common.BaseTypeBool:
		return boolBits(u != 0)
	default:
		return u
	}
}

// encodeComponents serializes raw components as little-endian bytes.
func encodeComponents(components []uint32) []byte {
	out := make([]byte, 4*len(components))
	for i, c := range components {
		binary.LittleEndian.PutUint32(out[4*i:], c)
	}
	return out
}
