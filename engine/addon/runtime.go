package addon

import (
	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/google/uuid"
)

// Runtime is the capability contract an effect runtime exposes to add-ons.
// Add-ons never touch runtime internals directly; every read or write of uniform values,
// technique state, annotations, per-instance storage and input goes through this interface.
// All methods are called on the runtime's own thread.
type Runtime interface {
	// UniformVariableType returns the base type and component count of a uniform variable.
	//
	// Parameters:
	//   - v: the variable handle
	//
	// Returns:
	//   - common.BaseType: the scalar kind of every component, BaseTypeUnknown for stale handles
	//   - int: the number of scalar components (1..16)
	UniformVariableType(v common.VariableHandle) (common.BaseType, int)

	// UniformVariableName returns the display name of a uniform variable.
	//
	// Parameters:
	//   - v: the variable handle
	//
	// Returns:
	//   - string: the variable name, or an empty string for stale handles
	UniformVariableName(v common.VariableHandle) string

	// UniformAnnotationString looks up a string annotation on a uniform variable.
	//
	// Parameters:
	//   - v: the variable handle
	//   - name: the annotation key (e.g. "ui_type")
	//
	// Returns:
	//   - string: the annotation value
	//   - bool: true if the annotation exists
	UniformAnnotationString(v common.VariableHandle, name string) (string, bool)

	// UniformAnnotationFloat looks up a numeric annotation on a uniform variable as floats.
	//
	// Parameters:
	//   - v: the variable handle
	//   - name: the annotation key (e.g. "ui_step")
	//
	// Returns:
	//   - []float32: the annotation values
	//   - bool: true if the annotation exists and is numeric
	UniformAnnotationFloat(v common.VariableHandle, name string) ([]float32, bool)

	// UniformAnnotationInt looks up a numeric annotation on a uniform variable as integers.
	//
	// Parameters:
	//   - v: the variable handle
	//   - name: the annotation key
	//
	// Returns:
	//   - []int32: the annotation values
	//   - bool: true if the annotation exists and is numeric
	UniformAnnotationInt(v common.VariableHandle, name string) ([]int32, bool)

	// UniformValueBool reads the current components of a bool variable.
	UniformValueBool(v common.VariableHandle) []bool

	// UniformValueFloat reads the current components of a float variable.
	UniformValueFloat(v common.VariableHandle) []float32

	// UniformValueInt reads the current components of a signed integer variable.
	UniformValueInt(v common.VariableHandle) []int32

	// UniformValueUint reads the current components of an unsigned integer variable.
	UniformValueUint(v common.VariableHandle) []uint32

	// SetUniformValueBool writes up to len(values) components of a bool variable.
	SetUniformValueBool(v common.VariableHandle, values ...bool)

	// SetUniformValueFloat writes up to len(values) components of a float variable.
	SetUniformValueFloat(v common.VariableHandle, values ...float32)

	// SetUniformValueInt writes up to len(values) components of a signed integer variable.
	SetUniformValueInt(v common.VariableHandle, values ...int32)

	// SetUniformValueUint writes up to len(values) components of an unsigned integer variable.
	SetUniformValueUint(v common.VariableHandle, values ...uint32)

	// TechniqueName returns the display name of a technique.
	//
	// Parameters:
	//   - t: the technique handle
	//
	// Returns:
	//   - string: the technique name, or an empty string for stale handles
	TechniqueName(t common.TechniqueHandle) string

	// TechniqueAnnotationInt looks up a numeric annotation on a technique.
	//
	// Parameters:
	//   - t: the technique handle
	//   - name: the annotation key (e.g. "timeout")
	//
	// Returns:
	//   - []int32: the annotation values
	//   - bool: true if the annotation exists and is numeric
	TechniqueAnnotationInt(t common.TechniqueHandle, name string) ([]int32, bool)

	// TechniqueState reports whether a technique is enabled.
	TechniqueState(t common.TechniqueHandle) bool

	// SetTechniqueState enables or disables a technique.
	SetTechniqueState(t common.TechniqueHandle, enabled bool)

	// CreatePrivateData attaches an add-on owned object to this runtime instance under key,
	// replacing any previous object stored under the same key.
	CreatePrivateData(key uuid.UUID, data any)

	// PrivateData returns the object attached under key, or nil.
	PrivateData(key uuid.UUID) any

	// DestroyPrivateData detaches the object stored under key.
	DestroyPrivateData(key uuid.UUID)

	// IsKeyReleased reports whether keyCode went up during the current frame.
	IsKeyReleased(keyCode uint32) bool

	// IsKeyDown reports whether keyCode is currently held.
	IsKeyDown(keyCode uint32) bool

	// LastKeyPressed returns the last key pressed during the current frame, or 0.
	LastKeyPressed() uint32
}

// PrivateDataOf returns the object of type T attached to rt under key.
//
// Parameters:
//   - rt: the runtime instance
//   - key: the private data key
//
// Returns:
//   - T: the stored object
//   - bool: true if an object of type T is attached under key
func PrivateDataOf[T any](rt Runtime, key uuid.UUID) (T, bool) {
	v, ok := rt.PrivateData(key).(T)
	return v, ok
}
