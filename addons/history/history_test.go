package history

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/Carmen-Shannon/oxy-addons/engine/addon"
	"github.com/Carmen-Shannon/oxy-addons/engine/effect"
)

const testEffect = `struct Params {
//@oxy:annotation ui_type slider
    strength: f32,
//@oxy:annotation ui_type color
    tint: vec3<f32>,
//@oxy:annotation ui_type combo
//@oxy:annotation ui_items Off|Low|High
    quality: i32,
//@oxy:annotation ui_type combo
    toggle: bool,
//@oxy:annotation ui_type drag
//@oxy:annotation ui_step 0.01
    offset: vec2<f32>,
    hidden: f32,
//@oxy:annotation ui_type drag
    count: u32,
//@oxy:annotation ui_type input
    level: i32,
}

@group(0) @binding(0) var<uniform> params: Params;

//@oxy:technique Vignette
//@oxy:technique Bloom
//@oxy:technique AlwaysOn enabled=1
//@oxy:technique Screenshot enabled_in_screenshot=0
//@oxy:technique Timer timeout=1000
`

type fixture struct {
	t  *testing.T
	rt effect.Runtime
	tr Tracker
	ui *UIState
}

func newFixture(t *testing.T, options ...AddonBuilderOption) *fixture {
	t.Helper()
	registry := addon.NewRegistry()
	if err := registry.Register(NewAddon(options...)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	rt, err := effect.NewRuntime(effect.WithRegistry(registry), effect.WithEffectSource(testEffect))
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	t.Cleanup(rt.Destroy)

	inst, ok := InstanceOf(rt)
	if !ok {
		t.Fatal("history instance not attached to runtime")
	}
	return &fixture{t: t, rt: rt, tr: inst.Tracker, ui: inst.UI}
}

func (f *fixture) variable(name string) common.VariableHandle {
	f.t.Helper()
	v, err := f.rt.FindUniformVariable(name)
	if err != nil {
		f.t.Fatal(err)
	}
	return v
}

func (f *fixture) technique(name string) common.TechniqueHandle {
	f.t.Helper()
	h, err := f.rt.FindTechnique(name)
	if err != nil {
		f.t.Fatal(err)
	}
	return h
}

func (f *fixture) setFloat(name string, values ...float32) {
	f.rt.SetUniformValueFloat(f.variable(name), values...)
}

func (f *fixture) float(name string) float32 {
	return f.rt.UniformValueFloat(f.variable(name))[0]
}

// snapshot captures the raw bytes of every variable and the state of every technique.
func (f *fixture) snapshot() map[string]string {
	out := make(map[string]string)
	for _, v := range f.rt.UniformVariables() {
		out[f.rt.UniformVariableName(v)] = string(f.rt.UniformValueBytes(v))
	}
	for _, h := range f.rt.Techniques() {
		state := "off"
		if f.rt.TechniqueState(h) {
			state = "on"
		}
		out["technique:"+f.rt.TechniqueName(h)] = state
	}
	return out
}

func sameSnapshot(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
