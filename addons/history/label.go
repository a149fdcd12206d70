package history

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/Carmen-Shannon/oxy-addons/engine/addon"
)

const (
	// defaultStep is the ui_step assumed for float variables that do not declare a usable one.
	defaultStep float32 = 0.001
	// minStep is the smallest ui_step honored; float32 machine epsilon.
	minStep float32 = 1.1920929e-07
)

// Label formats an entry for display: the variable name followed by one change per component,
// or the technique name followed by its new state.
//
// Parameters:
//   - rt: the runtime used to look up names and annotations
//   - e: the entry to format
//
// Returns:
//   - string: the label, without an ImGui style "##id" suffix
func Label(rt addon.Runtime, e Entry) string {
	switch e := e.(type) {
	case TechniqueStateChange:
		return e.Name + boolText(e.Enabled, "True", "False")
	case UniformValueChange:
		return uniformLabel(rt, e)
	default:
		return ""
	}
}

func uniformLabel(rt addon.Runtime, e UniformValueChange) string {
	uiType, _ := rt.UniformAnnotationString(e.Variable, "ui_type")

	var sb strings.Builder
	sb.WriteString(rt.UniformVariableName(e.Variable))

	axes := "XYZW"
	if uiType == "color" {
		axes = "RGBA"
	}

	switch e.BaseType {
	case common.BaseTypeBool:
		for i := range e.Components {
			if uiType == "combo" {
				sb.WriteString(boolText(e.After[i] != 0, "On", "Off"))
			} else {
				sb.WriteString(boolText(e.After[i] != 0, "True", "False"))
			}
		}
	case common.BaseTypeFloat:
		before, after := e.Before.Floats(e.Components), e.After.Floats(e.Components)
		if uiType == "color" {
			for i := range after {
				fmt.Fprintf(&sb, " %s %+.0f (%.0f)", axis(axes, i), (after[i]-before[i])*255, after[i]*255)
			}
			break
		}
		precision := stepPrecision(rt, e.Variable)
		for i := range after {
			fmt.Fprintf(&sb, " %s %+.*f (%.*f)", axis(axes, i), precision, after[i]-before[i], precision, after[i])
		}
	case common.BaseTypeInt, common.BaseTypeUint:
		for i := range e.Components {
			delta := componentInt(e.BaseType, e.After[i]) - componentInt(e.BaseType, e.Before[i])
			value := componentInt(e.BaseType, e.After[i])
			if uiType == "combo" {
				fmt.Fprintf(&sb, " %+d (%s)", delta, comboItem(rt, e.Variable, e.After[0]))
			} else {
				fmt.Fprintf(&sb, " %s %+d (%d)", axis(axes, i), delta, value)
			}
		}
	}
	return sb.String()
}

func boolText(b bool, yes, no string) string {
	if b {
		return " " + yes
	}
	return " " + no
}

// axis names component i; components past the fourth are numbered.
func axis(letters string, i int) string {
	if i < len(letters) {
		return letters[i : i+1]
	}
	return strconv.Itoa(i)
}

func componentInt(base common.BaseType, bits uint32) int64 {
	if base == common.BaseTypeInt {
		return int64(int32(bits))
	}
	return int64(bits)
}

// stepPrecision returns the number of decimals needed to show a change of one ui_step.
func stepPrecision(rt addon.Runtime, v common.VariableHandle) int {
	step := defaultStep
	if values, ok := rt.UniformAnnotationFloat(v, "ui_step"); ok && values[0] >= minStep {
		step = values[0]
	}
	precision := 0
	for x := float32(1); x*step < 1 && precision < 9; x *= 10 {
		precision++
	}
	return precision
}

// comboItem returns the ui_items entry at index. Items are separated by NUL or '|'.
func comboItem(rt addon.Runtime, v common.VariableHandle, index uint32) string {
	items, _ := rt.UniformAnnotationString(v, "ui_items")
	fields := strings.Split(strings.ReplaceAll(items, "\x00", "|"), "|")
	if uint64(index) >= uint64(len(fields)) {
		return ""
	}
	return fields[index]
}
