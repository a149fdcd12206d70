package addon

import (
	"errors"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/google/uuid"
)

// fakeRuntime only implements private data; every other method panics through the nil embedded interface.
type fakeRuntime struct {
	Runtime
	data map[uuid.UUID]any
}

func (r *fakeRuntime) PrivateData(key uuid.UUID) any { return r.data[key] }

// lineUI records Begin/End/Text calls as lines.
type lineUI struct {
	lines []string
}

func (u *lineUI) Begin(title string)                { u.lines = append(u.lines, "begin "+title) }
func (u *lineUI) End()                              { u.lines = append(u.lines, "end") }
func (u *lineUI) Text(text string)                  { u.lines = append(u.lines, text) }
func (u *lineUI) Button(string) bool                { return false }
func (u *lineUI) Selectable(string, bool) bool      { return false }
func (u *lineUI) SetScrollHere()                    {}
func (u *lineUI) ReadOnlyField(_, _, _ string) bool { return false }

func TestRegisterRejectsDuplicatesAndUnnamed(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewAddon("a")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(NewAddon("a")); !errors.Is(err, ErrAddonExists) {
		t.Errorf("duplicate Register = %v, want ErrAddonExists", err)
	}
	if err := r.Register(NewAddon("")); err == nil {
		t.Error("unnamed add-on registered")
	}
	if err := r.Register(nil); err == nil {
		t.Error("nil add-on registered")
	}
	if !r.Unregister("a") {
		t.Error("Unregister(a) = false")
	}
	if r.Unregister("a") {
		t.Error("second Unregister(a) = true")
	}
	if err := r.Register(NewAddon("a")); err != nil {
		t.Errorf("Register after Unregister: %v", err)
	}
}

func TestLifecycleOrder(t *testing.T) {
	var calls []string
	named := func(name string) *Addon {
		return NewAddon(name,
			WithInitRuntime(func(Runtime) { calls = append(calls, "init "+name) }),
			WithDestroyRuntime(func(Runtime) { calls = append(calls, "destroy "+name) }),
			WithSetCurrentPresetPath(func(_ Runtime, path string) { calls = append(calls, "preset "+name+" "+path) }),
		)
	}
	r := NewRegistry()
	for _, name := range []string{"first", "second"} {
		if err := r.Register(named(name)); err != nil {
			t.Fatal(err)
		}
	}

	r.InitRuntime(nil)
	r.SetCurrentPresetPath(nil, "A.toml")
	r.DestroyRuntime(nil)

	want := []string{
		"init first", "init second",
		"preset first A.toml", "preset second A.toml",
		"destroy second", "destroy first",
	}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %q, want %q", calls, want)
	}
}

func TestBlockingStopsDispatch(t *testing.T) {
	var seen []string
	r := NewRegistry()
	_ = r.Register(NewAddon("observer",
		WithSetUniformValue(func(Runtime, common.VariableHandle, []byte) bool {
			seen = append(seen, "observer uniform")
			return false
		}),
		WithSetTechniqueState(func(Runtime, common.TechniqueHandle, bool) bool {
			seen = append(seen, "observer technique")
			return false
		}),
	))
	_ = r.Register(NewAddon("blocker",
		WithSetUniformValue(func(Runtime, common.VariableHandle, []byte) bool {
			seen = append(seen, "blocker uniform")
			return true
		}),
	))
	_ = r.Register(NewAddon("late",
		WithSetUniformValue(func(Runtime, common.VariableHandle, []byte) bool {
			seen = append(seen, "late uniform")
			return false
		}),
	))

	if !r.SetUniformValue(nil, 1, []byte{0, 0, 0, 0}) {
		t.Error("SetUniformValue not blocked")
	}
	if r.SetTechniqueState(nil, 1, true) {
		t.Error("SetTechniqueState blocked without a blocking handler")
	}
	want := []string{"observer uniform", "blocker uniform", "observer technique"}
	if !slices.Equal(seen, want) {
		t.Errorf("handlers = %q, want %q", seen, want)
	}
}

func TestDrawOverlaysAndSettings(t *testing.T) {
	r := NewRegistry()
	a := NewAddon("History Window",
		WithOverlay("OSD", func(_ Runtime, ui OverlayUI) { ui.Text("osd") }),
		WithOverlay("Extra", func(_ Runtime, ui OverlayUI) { ui.Text("extra") }),
		WithSettings(func(_ Runtime, ui OverlayUI) { ui.Text("settings") }),
	)
	if err := r.Register(a); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(NewAddon("Quiet")); err != nil {
		t.Fatal(err)
	}
	if got := a.OverlayTitles(); !slices.Equal(got, []string{"OSD", "Extra"}) {
		t.Errorf("OverlayTitles() = %q", got)
	}
	if !a.HasSettings() {
		t.Error("HasSettings() = false")
	}

	ui := &lineUI{}
	r.DrawOverlays(nil, ui)
	r.DrawSettings(nil, ui)
	want := []string{
		"begin OSD", "osd", "end",
		"begin Extra", "extra", "end",
		"begin History Window", "settings", "end",
	}
	if !slices.Equal(ui.lines, want) {
		t.Errorf("lines = %q, want %q", ui.lines, want)
	}
}

func TestHandlersMayUnregisterDuringDispatch(t *testing.T) {
	r := NewRegistry()
	inits := 0
	_ = r.Register(NewAddon("self-removing", WithInitRuntime(func(Runtime) {
		inits++
		r.Unregister("self-removing")
	})))
	r.InitRuntime(nil)
	r.InitRuntime(nil)
	if inits != 1 {
		t.Errorf("inits = %d, want 1", inits)
	}
}

func TestPrivateDataOf(t *testing.T) {
	key := uuid.New()
	rt := &fakeRuntime{data: map[uuid.UUID]any{key: 42}}

	if v, ok := PrivateDataOf[int](rt, key); !ok || v != 42 {
		t.Errorf("PrivateDataOf[int] = %v, %v", v, ok)
	}
	if _, ok := PrivateDataOf[string](rt, key); ok {
		t.Error("PrivateDataOf[string] matched an int")
	}
	if _, ok := PrivateDataOf[int](rt, uuid.New()); ok {
		t.Error("PrivateDataOf found a missing key")
	}
}
