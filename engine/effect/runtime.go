package effect

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/Carmen-Shannon/oxy-addons/engine/addon"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

var (
	// ErrUnknownVariable is returned when a variable name does not exist in the loaded effect.
	ErrUnknownVariable = errors.New("unknown uniform variable")

	// ErrUnknownTechnique is returned when a technique name does not exist in the loaded effect.
	ErrUnknownTechnique = errors.New("unknown technique")
)

// variable is the live state of one uniform variable.
type variable struct {
	variableDesc
	handle common.VariableHandle
	value  [common.MaxComponents]uint32
}

// technique is the live state of one technique.
type technique struct {
	techniqueDesc
	handle  common.TechniqueHandle
	enabled bool
}

// runtime is the implementation of the Runtime interface.
type runtime struct {
	registry addon.Registry
	logger   *slog.Logger

	source string
	blocks []blockDesc

	variables  map[common.VariableHandle]*variable
	varOrder   []common.VariableHandle
	techniques map[common.TechniqueHandle]*technique
	techOrder  []common.TechniqueHandle

	// nextHandle issues handles for both variables and techniques; handles are never reused so
	// handles from a previously loaded effect never alias new objects.
	nextHandle uint64

	privateData map[uuid.UUID]any
	keys        keyState
	presetPath  string

	gpu       *uniformBuffers
	destroyed bool
}

// Runtime is an in-memory effect runtime. It implements the add-on capability contract and the
// host-side controls that drive it: loading effects, changing values and techniques the way the
// host UI would (firing add-on events first), switching presets, feeding input and drawing overlays.
// A Runtime is not safe for concurrent use; the host calls it from a single thread.
type Runtime interface {
	addon.Runtime

	// LoadEffect replaces the loaded effect. Previously issued handles become stale.
	//
	// Parameters:
	//   - source: WGSL effect source with @oxy: directives
	//
	// Returns:
	//   - error: error if the source fails to parse or GPU buffers cannot be created
	LoadEffect(source string) error

	// FindUniformVariable looks up a variable handle by name.
	//
	// Parameters:
	//   - name: the variable name
	//
	// Returns:
	//   - common.VariableHandle: the handle
	//   - error: ErrUnknownVariable if no variable has that name
	FindUniformVariable(name string) (common.VariableHandle, error)

	// FindTechnique looks up a technique handle by name.
	//
	// Parameters:
	//   - name: the technique name
	//
	// Returns:
	//   - common.TechniqueHandle: the handle
	//   - error: ErrUnknownTechnique if no technique has that name
	FindTechnique(name string) (common.TechniqueHandle, error)

	// UniformVariables returns every variable handle in declaration order.
	UniformVariables() []common.VariableHandle

	// Techniques returns every technique handle in declaration order.
	Techniques() []common.TechniqueHandle

	// UniformValueBytes returns the raw little-endian component bytes of a variable.
	UniformValueBytes(v common.VariableHandle) []byte

	// UniformBuffer returns the GPU buffer mirroring the named var<uniform> block, or nil when
	// no device was configured or the block is not mirrored.
	UniformBuffer(block string) *wgpu.Buffer

	// CurrentPresetPath returns the path of the active preset.
	CurrentPresetPath() string

	// SetCurrentPresetPath switches the active preset and notifies add-ons.
	SetCurrentPresetPath(path string)

	// KeyDown records a key press for the current frame.
	KeyDown(keyCode uint32)

	// KeyUp records a key release for the current frame.
	KeyUp(keyCode uint32)

	// EndFrame clears per-frame input state. Call once after overlays were drawn.
	EndFrame()

	// DrawOverlays draws every add-on overlay into ui.
	DrawOverlays(ui addon.OverlayUI)

	// DrawSettings draws every add-on settings section into ui.
	DrawSettings(ui addon.OverlayUI)

	// Destroy notifies add-ons and releases GPU resources. Safe to call multiple times.
	Destroy()
}

var _ Runtime = &runtime{}

// NewRuntime creates a runtime, loads the configured effect and notifies the registry's add-ons
// that the runtime was created.
//
// Parameters:
//   - options: functional options (registry, effect source, logger, GPU device)
//
// Returns:
//   - Runtime: the initialized runtime
//   - error: error if the effect source fails to load
func NewRuntime(options ...RuntimeBuilderOption) (Runtime, error) {
	rt := &runtime{
		variables:   make(map[common.VariableHandle]*variable),
		techniques:  make(map[common.TechniqueHandle]*technique),
		privateData: make(map[uuid.UUID]any),
		keys:        newKeyState(),
	}
	for _, opt := range options {
		opt(rt)
	}
	if rt.registry == nil {
		rt.registry = addon.NewRegistry()
	}
	if rt.logger == nil {
		rt.logger = common.Logger()
	}

	if rt.source != "" {
		if err := rt.LoadEffect(rt.source); err != nil {
			return nil, err
		}
	}

	rt.registry.InitRuntime(rt)
	rt.logger.Info("effect runtime created", "variables", len(rt.varOrder), "techniques", len(rt.techOrder))
	return rt, nil
}

func (rt *runtime) LoadEffect(source string) error {
	desc, err := parseEffect(source)
	if err != nil {
		return err
	}

	if rt.gpu != nil {
		// The current effect and its buffers stay live until the new buffers exist.
		next := rt.gpu.next()
		if err := next.create(desc.blocks); err != nil {
			return err
		}
		rt.gpu.release()
		rt.gpu = next
	}

	rt.source = source
	rt.blocks = desc.blocks
	clear(rt.variables)
	clear(rt.techniques)
	rt.varOrder = rt.varOrder[:0]
	rt.techOrder = rt.techOrder[:0]

	for _, vd := range desc.variables {
		rt.nextHandle++
		v := &variable{variableDesc: vd, handle: common.VariableHandle(rt.nextHandle), value: vd.initial}
		rt.variables[v.handle] = v
		rt.varOrder = append(rt.varOrder, v.handle)
		if rt.gpu != nil {
			rt.gpu.write(v)
		}
	}
	for _, td := range desc.techniques {
		rt.nextHandle++
		t := &technique{techniqueDesc: td, handle: common.TechniqueHandle(rt.nextHandle)}
		if values, ok := parseNumbers(td.annotations["enabled"], parseInt32); ok {
			t.enabled = values[0] != 0
		}
		rt.techniques[t.handle] = t
		rt.techOrder = append(rt.techOrder, t.handle)
	}

	rt.logger.Info("effect loaded", "variables", len(rt.varOrder), "techniques", len(rt.techOrder), "blocks", len(rt.blocks))
	return nil
}

func (rt *runtime) FindUniformVariable(name string) (common.VariableHandle, error) {
	for _, h := range rt.varOrder {
		if rt.variables[h].name == name {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
}

func (rt *runtime) FindTechnique(name string) (common.TechniqueHandle, error) {
	for _, h := range rt.techOrder {
		if rt.techniques[h].name == name {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTechnique, name)
}

func (rt *runtime) UniformVariables() []common.VariableHandle {
	return slices.Clone(rt.varOrder)
}

func (rt *runtime) Techniques() []common.TechniqueHandle {
	return slices.Clone(rt.techOrder)
}

func (rt *runtime) UniformVariableType(v common.VariableHandle) (common.BaseType, int) {
	vr, ok := rt.variables[v]
	if !ok {
		return common.BaseTypeUnknown, 0
	}
	return vr.typ.base, vr.typ.components()
}

func (rt *runtime) UniformVariableName(v common.VariableHandle) string {
	if vr, ok := rt.variables[v]; ok {
		return vr.name
	}
	return ""
}

func (rt *runtime) UniformAnnotationString(v common.VariableHandle, name string) (string, bool) {
	vr, ok := rt.variables[v]
	if !ok {
		return "", false
	}
	value, ok := vr.annotations[name]
	return value, ok
}

func (rt *runtime) UniformAnnotationFloat(v common.VariableHandle, name string) ([]float32, bool) {
	value, ok := rt.UniformAnnotationString(v, name)
	if !ok {
		return nil, false
	}
	return parseNumbers(value, parseFloat32)
}

func (rt *runtime) UniformAnnotationInt(v common.VariableHandle, name string) ([]int32, bool) {
	value, ok := rt.UniformAnnotationString(v, name)
	if !ok {
		return nil, false
	}
	return parseNumbers(value, parseInt32)
}

// components returns the live components of v, or nil for stale handles.
func (rt *runtime) components(v common.VariableHandle) (*variable, []uint32) {
	vr, ok := rt.variables[v]
	if !ok {
		return nil, nil
	}
	return vr, vr.value[:vr.typ.components()]
}

func (rt *runtime) UniformValueBool(v common.VariableHandle) []bool {
	vr, comps := rt.components(v)
	out := make([]bool, len(comps))
	for i, c := range comps {
		out[i] = toBool(vr.typ.base, c)
	}
	return out
}

func (rt *runtime) UniformValueFloat(v common.VariableHandle) []float32 {
	vr, comps := rt.components(v)
	out := make([]float32, len(comps))
	for i, c := range comps {
		out[i] = toFloat(vr.typ.base, c)
	}
	return out
}

func (rt *runtime) UniformValueInt(v common.VariableHandle) []int32 {
	vr, comps := rt.components(v)
	out := make([]int32, len(comps))
	for i, c := range comps {
		out[i] = toInt(vr.typ.base, c)
	}
	return out
}

func (rt *runtime) UniformValueUint(v common.VariableHandle) []uint32 {
	vr, comps := rt.components(v)
	out := make([]uint32, len(comps))
	for i, c := range comps {
		out[i] = toUint(vr.typ.base, c)
	}
	return out
}

func (rt *runtime) UniformValueBytes(v common.VariableHandle) []byte {
	_, comps := rt.components(v)
	return encodeComponents(comps)
}

func (rt *runtime) SetUniformValueBool(v common.VariableHandle, values ...bool) {
	setUniform(rt, v, values, func(base common.BaseType, b bool) uint32 { return fromUint(base, boolBits(b)) })
}

func (rt *runtime) SetUniformValueFloat(v common.VariableHandle, values ...float32) {
	setUniform(rt, v, values, fromFloat)
}

func (rt *runtime) SetUniformValueInt(v common.VariableHandle, values ...int32) {
	setUniform(rt, v, values, fromInt)
}

func (rt *runtime) SetUniformValueUint(v common.VariableHandle, values ...uint32) {
	setUniform(rt, v, values, fromUint)
}

// setUniform converts values into the variable's storage type, lets add-ons observe or block the
// write, then applies it. Components beyond len(values) keep their current value. Add-ons receive
// every component of the resulting value in storage representation.
func setUniform[T any](rt *runtime, v common.VariableHandle, values []T, convert func(common.BaseType, T) uint32) {
	vr, ok := rt.variables[v]
	if !ok {
		rt.logger.Debug("ignoring write to stale uniform handle", "handle", uint64(v))
		return
	}

	next := vr.value
	n := min(len(values), vr.typ.components())
	for i := range n {
		next[i] = convert(vr.typ.base, values[i])
	}

	if rt.registry.SetUniformValue(rt, v, encodeComponents(next[:vr.typ.components()])) {
		rt.logger.Debug("uniform write blocked by add-on", "variable", vr.name)
		return
	}

	vr.value = next
	if rt.gpu != nil {
		rt.gpu.write(vr)
	}
}

func (rt *runtime) TechniqueName(t common.TechniqueHandle) string {
	if tq, ok := rt.techniques[t]; ok {
		return tq.name
	}
	return ""
}

func (rt *runtime) TechniqueAnnotationInt(t common.TechniqueHandle, name string) ([]int32, bool) {
	tq, ok := rt.techniques[t]
	if !ok {
		return nil, false
	}
	value, ok := tq.annotations[name]
	if !ok {
		return nil, false
	}
	return parseNumbers(value, parseInt32)
}

func (rt *runtime) TechniqueState(t common.TechniqueHandle) bool {
	tq, ok := rt.techniques[t]
	return ok && tq.enabled
}

func (rt *runtime) SetTechniqueState(t common.TechniqueHandle, enabled bool) {
	tq, ok := rt.techniques[t]
	if !ok {
		rt.logger.Debug("ignoring state change of stale technique handle", "handle", uint64(t))
		return
	}
	if rt.registry.SetTechniqueState(rt, t, enabled) {
		rt.logger.Debug("technique state change blocked by add-on", "technique", tq.name)
		return
	}
	tq.enabled = enabled
}

func (rt *runtime) CreatePrivateData(key uuid.UUID, data any) {
	rt.privateData[key] = data
}

func (rt *runtime) PrivateData(key uuid.UUID) any {
	return rt.privateData[key]
}

func (rt *runtime) DestroyPrivateData(key uuid.UUID) {
	delete(rt.privateData, key)
}

func (rt *runtime) IsKeyReleased(keyCode uint32) bool {
	return rt.keys.released[keyCode]
}

func (rt *runtime) IsKeyDown(keyCode uint32) bool {
	return rt.keys.down[keyCode]
}

func (rt *runtime) LastKeyPressed() uint32 {
	return rt.keys.lastPressed
}

func (rt *runtime) KeyDown(keyCode uint32) {
	rt.keys.keyDown(keyCode)
}

func (rt *runtime) KeyUp(keyCode uint32) {
	rt.keys.keyUp(keyCode)
}

func (rt *runtime) EndFrame() {
	rt.keys.endFrame()
}

func (rt *runtime) UniformBuffer(block string) *wgpu.Buffer {
	if rt.gpu == nil {
		return nil
	}
	return rt.gpu.buffer(slices.IndexFunc(rt.blocks, func(b blockDesc) bool { return b.name == block }))
}

func (rt *runtime) CurrentPresetPath() string {
	return rt.presetPath
}

func (rt *runtime) SetCurrentPresetPath(path string) {
	rt.presetPath = path
	rt.registry.SetCurrentPresetPath(rt, path)
	rt.logger.Info("preset changed", "path", path)
}

func (rt *runtime) DrawOverlays(ui addon.OverlayUI) {
	rt.registry.DrawOverlays(rt, ui)
}

func (rt *runtime) DrawSettings(ui addon.OverlayUI) {
	rt.registry.DrawSettings(rt, ui)
}

func (rt *runtime) Destroy() {
	if rt.destroyed {
		return
	}
	rt.destroyed = true
	rt.registry.DestroyRuntime(rt)
	if rt.gpu != nil {
		rt.gpu.release()
	}
	if len(rt.privateData) > 0 {
		rt.logger.Warn("runtime destroyed with attached private data", "keys", strings.Join(privateDataKeys(rt.privateData), ","))
	}
	rt.logger.Info("effect runtime destroyed")
}

func privateDataKeys(m map[uuid.UUID]any) []string {
	keys := make([]string, 0, len(m))
	for _, k := range slices.SortedFunc(maps.Keys(m), func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) }) {
		keys = append(keys, k.String())
	}
	return keys
}
