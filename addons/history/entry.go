// Package history implements the History Window add-on: an edit history over uniform values and
// technique toggles of an effect runtime, with linear undo/redo navigation and an overlay that
// lists every recorded edit.
package history

import (
	"math"

	"github.com/Carmen-Shannon/oxy-addons/common"
)

// UniformValue holds up to 16 raw 32-bit components of a uniform variable in the variable's own
// base type. Bools are stored as 0 or 1, floats as their IEEE-754 bits.
type UniformValue [common.MaxComponents]uint32

// Floats returns the first n components as float32.
func (u UniformValue) Floats(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(u[i])
	}
	return out
}

// Ints returns the first n components as int32.
func (u UniformValue) Ints(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(u[i])
	}
	return out
}

// Uints returns the first n components as uint32.
func (u UniformValue) Uints(n int) []uint32 {
	return append([]uint32(nil), u[:n]...)
}

// Bools returns the first n components as bool.
func (u UniformValue) Bools(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = u[i] != 0
	}
	return out
}

// Entry is one recorded, reversible change. It is either a UniformValueChange or a
// TechniqueStateChange.
type Entry interface {
	isEntry()
}

// UniformValueChange records a change of a uniform variable from Before to After.
type UniformValueChange struct {
	Variable   common.VariableHandle
	BaseType   common.BaseType
	Components int
	Before     UniformValue
	After      UniformValue
}

// TechniqueStateChange records a technique being enabled or disabled.
type TechniqueStateChange struct {
	Technique common.TechniqueHandle
	// Name is copied when the change is recorded; the handle may not outlive the effect.
	Name    string
	Enabled bool
}

func (UniformValueChange) isEntry()   {}
func (TechniqueStateChange) isEntry() {}
