package host

import (
	"errors"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/Carmen-Shannon/oxy-addons/engine/addon"
	"github.com/Carmen-Shannon/oxy-addons/engine/overlay"
)

const testEffect = `struct Params {
//@oxy:annotation ui_type slider
    strength: f32,
}

@group(0) @binding(0) var<uniform> params: Params;

//@oxy:technique Vignette
`

// fakeWindow runs a scripted message loop: before the update callback of iteration i, script[i] runs.
// The loop stops by itself after limit iterations.
type fakeWindow struct {
	running    bool
	iterations int
	limit      int
	closes     int
	script     map[int]func(w *fakeWindow)

	onUpdate  func()
	onKeyDown func(uint32)
	onKeyUp   func(uint32)
}

func newFakeWindow(limit int) *fakeWindow {
	return &fakeWindow{running: true, limit: limit, script: make(map[int]func(*fakeWindow))}
}

func (w *fakeWindow) SetUpdateCallback(cb func())                { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(func(width, height int))  {}
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32)) { w.onKeyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(keyCode uint32))   { w.onKeyUp = cb }
func (w *fakeWindow) IsRunning() bool                            { return w.running }

func (w *fakeWindow) Close() error {
	if !w.running {
		return errors.New("already closed")
	}
	w.running = false
	w.closes++
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for w.running {
		w.iterations++
		if step := w.script[w.iterations]; step != nil {
			step(w)
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		if w.iterations >= w.limit {
			w.running = false
		}
	}
}

// probe is an add-on recording what its overlay observes each frame.
type probe struct {
	frames   int
	destroys int
	down     []bool
	released []bool
	settings int
}

func (p *probe) addon() *addon.Addon {
	return addon.NewAddon("Probe",
		addon.WithDestroyRuntime(func(addon.Runtime) { p.destroys++ }),
		addon.WithOverlay("Probe", func(rt addon.Runtime, ui addon.OverlayUI) {
			p.frames++
			p.down = append(p.down, rt.IsKeyDown(common.KeyH))
			p.released = append(p.released, rt.IsKeyReleased(common.KeyH))
			ui.Text("frame")
		}),
		addon.WithSettings(func(addon.Runtime, addon.OverlayUI) { p.settings++ }),
	)
}

func newTestHost(t *testing.T, w *fakeWindow, options ...HostBuilderOption) (Host, *probe, *overlay.TextUI) {
	t.Helper()
	p := &probe{}
	registry := addon.NewRegistry()
	if err := registry.Register(p.addon()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ui := overlay.NewTextUI()
	options = append([]HostBuilderOption{
		WithRegistry(registry),
		WithEffectSource(testEffect),
		WithUI(ui),
	}, options...)
	if w != nil {
		options = append(options, WithWindow(w))
	}
	h, err := NewHost(options...)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	return h, p, ui
}

func TestRunDrawsOverlaysEachFrame(t *testing.T) {
	w := newFakeWindow(3)
	h, p, ui := newTestHost(t, w)

	if err := h.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.frames != 3 {
		t.Errorf("overlay drawn %d times, want 3", p.frames)
	}
	if ui.Frames() != 3 {
		t.Errorf("UI completed %d frames, want 3", ui.Frames())
	}
	if want := []string{"Probe", "  frame"}; !slices.Equal(ui.Frame(), want) {
		t.Errorf("last frame = %q, want %q", ui.Frame(), want)
	}
	if p.destroys != 1 {
		t.Errorf("runtime destroyed %d times, want 1", p.destroys)
	}
	if p.settings != 0 {
		t.Errorf("settings drawn %d times while hidden", p.settings)
	}
}

func TestRunRoutesKeysToRuntime(t *testing.T) {
	w := newFakeWindow(3)
	w.script[1] = func(w *fakeWindow) { w.onKeyDown(common.KeyH) }
	w.script[2] = func(w *fakeWindow) { w.onKeyUp(common.KeyH) }
	h, p, _ := newTestHost(t, w)

	if err := h.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := []bool{true, false, false}; !slices.Equal(p.down, want) {
		t.Errorf("key down per frame = %v, want %v", p.down, want)
	}
	if want := []bool{false, true, false}; !slices.Equal(p.released, want) {
		t.Errorf("key released per frame = %v, want %v", p.released, want)
	}
}

func TestQuitStopsAfterCurrentFrame(t *testing.T) {
	w := newFakeWindow(100)
	h, p, _ := newTestHost(t, w)
	frames := 0
	h.SetFrameCallback(func(float32) {
		frames++
		if frames == 2 {
			h.Quit()
			h.Quit()
		}
	})

	if err := h.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.frames != 2 {
		t.Errorf("overlay drawn %d times, want 2", p.frames)
	}
	if w.iterations != 3 {
		t.Errorf("message loop ran %d iterations, want 3", w.iterations)
	}
	if w.closes != 1 {
		t.Errorf("window closed %d times, want 1", w.closes)
	}
}

func TestPanicInFrameStopsLoop(t *testing.T) {
	w := newFakeWindow(100)
	h, p, _ := newTestHost(t, w)
	h.SetFrameCallback(func(float32) { panic("boom") })

	if err := h.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w.iterations != 2 {
		t.Errorf("message loop ran %d iterations, want 2", w.iterations)
	}
	if p.destroys != 1 {
		t.Errorf("runtime destroyed %d times, want 1", p.destroys)
	}
}

func TestHeadlessHost(t *testing.T) {
	h, p, ui := newTestHost(t, nil, WithSettingsVisible(true))

	if err := h.Run(); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("Run() = %v, want ErrNoWindow", err)
	}
	h.Frame()
	h.Frame()
	if p.frames != 2 || p.settings != 2 {
		t.Errorf("frames = %d, settings = %d, want 2 and 2", p.frames, p.settings)
	}
	if want := []string{"Probe", "  frame", "Probe"}; !slices.Equal(ui.Frame(), want) {
		t.Errorf("frame = %q, want %q", ui.Frame(), want)
	}

	h.SetSettingsVisible(false)
	h.Frame()
	if p.settings != 2 {
		t.Errorf("settings drawn while hidden")
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if p.destroys != 1 {
		t.Errorf("runtime destroyed %d times, want 1", p.destroys)
	}
}

func TestHostCreatesRuntimeFromSource(t *testing.T) {
	h, _, _ := newTestHost(t, nil, WithPresetPath("Default.toml"), WithProfiling(true), WithFrameLimit(0))
	defer h.Close()

	rt := h.Runtime()
	if _, err := rt.FindUniformVariable("strength"); err != nil {
		t.Errorf("FindUniformVariable: %v", err)
	}
	if _, err := rt.FindTechnique("Vignette"); err != nil {
		t.Errorf("FindTechnique: %v", err)
	}
	if got := rt.CurrentPresetPath(); got != "Default.toml" {
		t.Errorf("CurrentPresetPath() = %q", got)
	}
	h.Frame()
}

func TestFrameDuration(t *testing.T) {
	if got := frameDuration(0); got != 0 {
		t.Errorf("frameDuration(0) = %v", got)
	}
	if got := frameDuration(-5); got != 0 {
		t.Errorf("frameDuration(-5) = %v", got)
	}
	if got := frameDuration(4).Milliseconds(); got != 250 {
		t.Errorf("frameDuration(4) = %dms, want 250ms", got)
	}
}
