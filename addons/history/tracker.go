package history

import (
	"encoding/binary"
	"log/slog"
	"math"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/Carmen-Shannon/oxy-addons/engine/addon"
)

// excludedTechniqueAnnotations mark techniques whose state is driven by something other than the
// user (always-on, screenshot-only or timed techniques). Their toggles are not recorded.
var excludedTechniqueAnnotations = []string{"enabled", "enabled_in_screenshot", "timeout"}

// tracker is the implementation of the Tracker interface.
type tracker struct {
	rt     addon.Runtime
	log    *Log
	logger *slog.Logger
	limit  int

	// position is the cursor: 0 is the newest state, log.Len() is the state before every recorded entry.
	position   int
	wasUpdated bool

	// seeking is set while Seek writes to the runtime so the resulting notifications are not recorded.
	seeking bool
}

// Tracker records uniform value and technique state changes of one runtime instance and moves
// the runtime back and forth through them. A Tracker is not safe for concurrent use; every method
// is called on the runtime's thread.
type Tracker interface {
	// OnSetUniformValue records that v is about to change to value (raw little-endian components).
	// Variables without a ui_type annotation and writes that do not change the value are ignored.
	// Consecutive changes to the same variable are merged into one entry.
	//
	// Parameters:
	//   - v: the variable handle
	//   - value: the new raw value
	//
	// Returns:
	//   - bool: always false, the change is never blocked
	OnSetUniformValue(v common.VariableHandle, value []byte) bool

	// OnSetTechniqueState records that t is about to be enabled or disabled. A toggle that matches
	// the entry at the cursor or the next redo entry moves the cursor instead of recording.
	//
	// Parameters:
	//   - t: the technique handle
	//   - enabled: the new state
	//
	// Returns:
	//   - bool: always false, the change is never blocked
	OnSetTechniqueState(t common.TechniqueHandle, enabled bool) bool

	// Seek moves the cursor to target, clamped to [0, Len()], replaying every entry in between.
	Seek(target int)

	// Undo moves the cursor one entry toward the oldest state.
	//
	// Returns:
	//   - bool: true if the cursor moved
	Undo() bool

	// Redo moves the cursor one entry toward the newest state.
	//
	// Returns:
	//   - bool: true if the cursor moved
	Redo() bool

	// Reset drops every entry and resets the cursor.
	Reset()

	// Entries returns a newest-first copy of the recorded entries.
	Entries() []Entry

	// Position returns the cursor.
	Position() int

	// Len returns the number of recorded entries.
	Len() int

	// ConsumeUpdated reports whether the cursor moved because of a recorded change since the last call.
	ConsumeUpdated() bool
}

var _ Tracker = &tracker{}

// NewTracker creates an empty tracker for rt.
//
// Parameters:
//   - rt: the runtime the tracker reads from and replays into
//   - options: functional options (limit, logger)
//
// Returns:
//   - Tracker: the new tracker
func NewTracker(rt addon.Runtime, options ...TrackerBuilderOption) Tracker {
	t := &tracker{
		rt:    rt,
		limit: DefaultLimit,
	}
	for _, opt := range options {
		opt(t)
	}
	if t.logger == nil {
		t.logger = common.Logger()
	}
	t.log = NewLog(t.limit)
	return t
}

func (t *tracker) OnSetUniformValue(v common.VariableHandle, value []byte) bool {
	if t.seeking {
		return false
	}
	if _, ok := t.rt.UniformAnnotationString(v, "ui_type"); !ok {
		return false
	}
	base, components := t.rt.UniformVariableType(v)
	if base == common.BaseTypeUnknown || components < 1 {
		return false
	}
	components = min(components, common.MaxComponents)

	before := t.readValue(v, base, components)

	var raw [4 * common.MaxComponents]byte
	copy(raw[:], value)
	var after UniformValue
	for i := range after {
		after[i] = binary.LittleEndian.Uint32(raw[4*i:])
	}

	if before == after {
		return false
	}

	change := UniformValueChange{
		Variable:   v,
		BaseType:   base,
		Components: components,
		Before:     before,
		After:      after,
	}

	t.truncateForward()
	if head, ok := t.log.At(0).(UniformValueChange); ok && head.Variable == v {
		change.Before = head.Before
		t.log.ReplaceFront(change)
		t.logger.Debug("history entry merged", "variable", t.rt.UniformVariableName(v))
	} else {
		if t.log.PushFront(change) {
			t.logger.Debug("history limit reached, oldest entry evicted", "limit", t.log.Limit())
		}
		t.logger.Debug("history entry recorded", "variable", t.rt.UniformVariableName(v), "entries", t.log.Len())
	}
	t.position = 0
	t.wasUpdated = true
	return false
}

// readValue reads the current components of v through the accessor matching its base type.
func (t *tracker) readValue(v common.VariableHandle, base common.BaseType, components int) UniformValue {
	var u UniformValue
	switch base {
	case common.BaseTypeBool:
		for i, b := range t.rt.UniformValueBool(v) {
			if i < components && b {
				u[i] = 1
			}
		}
	case common.BaseTypeFloat:
		for i, f := range t.rt.UniformValueFloat(v) {
			if i < components {
				u[i] = math.Float32bits(f)
			}
		}
	case common.BaseTypeInt:
		for i, n := range t.rt.UniformValueInt(v) {
			if i < components {
				u[i] = uint32(n)
			}
		}
	case common.BaseTypeUint:
		for i, n := range t.rt.UniformValueUint(v) {
			if i < components {
				u[i] = n
			}
		}
	}
	return u
}

func (t *tracker) OnSetTechniqueState(tech common.TechniqueHandle, enabled bool) bool {
	if t.seeking {
		return false
	}
	for _, name := range excludedTechniqueAnnotations {
		if _, ok := t.rt.TechniqueAnnotationInt(tech, name); ok {
			return false
		}
	}
	name := t.rt.TechniqueName(tech)

	if e, ok := t.log.At(t.position).(TechniqueStateChange); ok && e.Name == name && e.Enabled != enabled {
		// Toggling back what the entry at the cursor did undoes it.
		t.position++
		t.logger.Debug("technique toggle replayed as undo", "technique", name, "position", t.position)
	} else if e, ok := t.log.At(t.position - 1).(TechniqueStateChange); ok && e.Name == name && e.Enabled == enabled {
		// Repeating the next redo entry redoes it.
		t.position--
		t.logger.Debug("technique toggle replayed as redo", "technique", name, "position", t.position)
	} else {
		t.truncateForward()
		if t.log.PushFront(TechniqueStateChange{Technique: tech, Name: name, Enabled: enabled}) {
			t.logger.Debug("history limit reached, oldest entry evicted", "limit", t.log.Limit())
		}
		t.position = 0
		t.logger.Debug("history entry recorded", "technique", name, "enabled", enabled, "entries", t.log.Len())
	}
	t.wasUpdated = true
	return false
}

// truncateForward discards every entry newer than the cursor.
func (t *tracker) truncateForward() {
	if t.position > 0 {
		t.log.TruncateFront(t.position)
		t.position = 0
	}
}

func (t *tracker) Seek(target int) {
	target = common.Clamp(target, 0, t.log.Len())
	distance := target - t.position
	if distance == 0 {
		return
	}

	t.seeking = true
	defer func() { t.seeking = false }()

	if distance > 0 {
		for i := t.position; i < target; i++ {
			t.undo(t.log.At(i))
		}
	} else {
		for i := t.position - 1; i >= target; i-- {
			t.redo(t.log.At(i))
		}
	}
	t.logger.Debug("history seek", "from", t.position, "to", target)
	t.position = target
}

func (t *tracker) undo(e Entry) {
	switch e := e.(type) {
	case UniformValueChange:
		t.writeValue(e, e.Before)
	case TechniqueStateChange:
		t.rt.SetTechniqueState(e.Technique, !e.Enabled)
	}
}

func (t *tracker) redo(e Entry) {
	switch e := e.(type) {
	case UniformValueChange:
		t.writeValue(e, e.After)
	case TechniqueStateChange:
		t.rt.SetTechniqueState(e.Technique, e.Enabled)
	}
}

// writeValue writes value through the setter matching the base type recorded with the entry.
func (t *tracker) writeValue(e UniformValueChange, value UniformValue) {
	switch e.BaseType {
	case common.BaseTypeBool:
		t.rt.SetUniformValueBool(e.Variable, value.Bools(e.Components)...)
	case common.BaseTypeFloat:
		t.rt.SetUniformValueFloat(e.Variable, value.Floats(e.Components)...)
	case common.BaseTypeInt:
		t.rt.SetUniformValueInt(e.Variable, value.Ints(e.Components)...)
	case common.BaseTypeUint:
		t.rt.SetUniformValueUint(e.Variable, value.Uints(e.Components)...)
	}
}

func (t *tracker) Undo() bool {
	before := t.position
	t.Seek(t.position + 1)
	return t.position != before
}

func (t *tracker) Redo() bool {
	before := t.position
	t.Seek(t.position - 1)
	return t.position != before
}

func (t *tracker) Reset() {
	t.log.Clear()
	t.position = 0
	t.wasUpdated = false
}

func (t *tracker) Entries() []Entry {
	return t.log.Entries()
}

func (t *tracker) Position() int {
	return t.position
}

func (t *tracker) Len() int {
	return t.log.Len()
}

func (t *tracker) ConsumeUpdated() bool {
	updated := t.wasUpdated
	t.wasUpdated = false
	return updated
}
