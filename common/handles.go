package common

import "fmt"

// VariableHandle is an opaque, non-owning token identifying a uniform variable inside a host
// effect runtime. The zero value never identifies a variable. Handles are only meaningful to
// the runtime that issued them and must be passed back through the runtime for every read or write.
type VariableHandle uint64

// TechniqueHandle is an opaque, non-owning token identifying a technique inside a host effect
// runtime. The zero value never identifies a technique.
type TechniqueHandle uint64

// IsValid reports whether the handle was issued by a runtime.
//
// Returns:
//   - bool: true if the handle is non-zero
func (h VariableHandle) IsValid() bool {
	return h != 0
}

// IsValid reports whether the handle was issued by a runtime.
//
// Returns:
//   - bool: true if the handle is non-zero
func (h TechniqueHandle) IsValid() bool {
	return h != 0
}

// BaseType is the scalar kind every component of a uniform variable shares.
type BaseType int

const (
	// BaseTypeUnknown marks a variable whose element type cannot be edited (structs, textures, f16).
	BaseTypeUnknown BaseType = iota

	// BaseTypeBool is a 32-bit boolean component (0 or 1).
	BaseTypeBool

	// BaseTypeFloat is a 32-bit IEEE-754 float component.
	BaseTypeFloat

	// BaseTypeInt is a 32-bit signed integer component.
	BaseTypeInt

	// BaseTypeUint is a 32-bit unsigned integer component.
	BaseTypeUint
)

// MaxComponents is the largest number of scalar components a single uniform variable may carry (a 4x4 matrix).
const MaxComponents = 16

func (b BaseType) String() string {
	switch b {
	case BaseTypeBool:
		return "bool"
	case BaseTypeFloat:
		return "f32"
	case BaseTypeInt:
		return "i32"
	case BaseTypeUint:
		return "u32"
	default:
		return fmt.Sprintf("BaseType(%d)", int(b))
	}
}
