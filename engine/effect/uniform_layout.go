package effect

import (
	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/gogpu/naga/ir"
)

// uniformType describes an editable uniform type: a scalar, vector or matrix of 32-bit components
// together with its WGSL size and alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
type uniformType struct {
	base    common.BaseType
	columns int // 1 for scalars and vectors
	rows    int // vector width, 1 for scalars
	size    uint64
	align   uint64
}

// components returns the number of scalar components the type holds.
func (t uniformType) components() int {
	return t.columns * t.rows
}

// columnStride returns the byte distance between matrix columns in a uniform buffer.
func (t uniformType) columnStride() uint64 {
	return roundUpAlign(vectorAlign(t.rows), uint64(4*t.rows))
}

// roundUpAlign rounds value up to the next multiple of alignment.
// Alignment must be a power of two.
//
// Parameters:
//   - alignment: the required alignment (must be a power of two)
//   - value: the value to align
//
// Returns:
//   - uint64: value rounded up to the next multiple of alignment
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// vectorAlign returns the WGSL alignment of a 32-bit vector with n components. vec3 aligns like vec4.
func vectorAlign(n int) uint64 {
	switch n {
	case 1:
		return 4
	case 2:
		return 8
	default:
		return 16
	}
}

// newUniformType builds the layout of a columns x rows type of base components.
func newUniformType(base common.BaseType, columns, rows int) uniformType {
	t := uniformType{base: base, columns: columns, rows: rows}
	if columns == 1 {
		t.size = uint64(4 * rows)
		t.align = vectorAlign(rows)
		return t
	}
	t.align = vectorAlign(rows)
	t.size = uint64(columns) * t.columnStride()
	return t
}

// resolveUniformType resolves a lowered WGSL type to an editable uniform type.
// Structs, arrays, f16 types and integer matrices are not editable.
//
// Parameters:
//   - inner: the naga IR type
//
// Returns:
//   - uniformType: the resolved type
//   - bool: true if the type is an editable scalar, vector or matrix
func resolveUniformType(inner ir.TypeInner) (uniformType, bool) {
	switch t := inner.(type) {
	case ir.ScalarType:
		base, ok := scalarBase(t)
		if !ok {
			return uniformType{}, false
		}
		return newUniformType(base, 1, 1), true
	case ir.VectorType:
		base, ok := scalarBase(t.Scalar)
		if !ok {
			return uniformType{}, false
		}
		return newUniformType(base, 1, int(t.Size)), true
	case ir.MatrixType:
		base, ok := scalarBase(t.Scalar)
		if !ok || base != common.BaseTypeFloat {
			return uniformType{}, false
		}
		return newUniformType(base, int(t.Columns), int(t.Rows)), true
	default:
		return uniformType{}, false
	}
}

// scalarBase maps a naga scalar to a base type. bool is stored as a 32-bit component at runtime.
func scalarBase(s ir.ScalarType) (common.BaseType, bool) {
	if s.Kind == ir.ScalarBool {
		return common.BaseTypeBool, true
	}
	if s.Width != 4 {
		return common.BaseTypeUnknown, false
	}
	switch s.Kind {
	case ir.ScalarFloat:
		return common.BaseTypeFloat, true
	case ir.ScalarSint:
		return common.BaseTypeInt, true
	case ir.ScalarUint:
		return common.BaseTypeUint, true
	default:
		return common.BaseTypeUnknown, false
	}
}
