package history

import (
	"fmt"
	"strconv"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/Carmen-Shannon/oxy-addons/engine/addon"
)

// EndOfUndo labels the timeline row that stands for the state before every recorded entry.
const EndOfUndo = "End of Undo"

// keyHint is shown in an empty shortcut field.
const keyHint = "Click to set keyboard shortcut"

// UIState is the per-runtime presentation state of the history window.
type UIState struct {
	// DrawWindow shows the history as its own overlay window instead of inside the settings section.
	DrawWindow bool

	// ToggleKey is the shortcut that toggles DrawWindow: key code, then ctrl, shift and alt flags.
	ToggleKey [4]uint32
}

// DrawHistory draws the timeline of tr: an EndOfUndo row followed by every entry, oldest first.
// The row at the cursor is selected. Clicking a row seeks to it.
//
// Parameters:
//   - rt: the runtime used to label entries
//   - ui: the overlay UI for the current frame
//   - tr: the tracker to draw
func DrawHistory(rt addon.Runtime, ui addon.OverlayUI, tr Tracker) {
	position := tr.Position()
	selected := -1

	n := tr.Len()
	if ui.Selectable(EndOfUndo, position == n) {
		selected = n
	}

	entries := tr.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		if ui.Selectable(Label(rt, entries[i])+"##"+strconv.Itoa(i), i == position) {
			selected = i
		}
		if i == position && tr.ConsumeUpdated() {
			ui.SetScrollHere()
		}
	}

	if selected >= 0 && selected != position {
		tr.Seek(selected)
	}
}

// drawOSD draws the always-on overlay: it handles the toggle shortcut and, when enabled, the
// history window.
func drawOSD(rt addon.Runtime, ui addon.OverlayUI, tr Tracker, state *UIState) {
	ui.Text("Also drawing to OSD")
	if state.ToggleKey[0] != 0 && rt.IsKeyReleased(state.ToggleKey[0]) {
		state.DrawWindow = !state.DrawWindow
	}
	if state.DrawWindow {
		ui.Begin("History")
		DrawHistory(rt, ui, tr)
		ui.End()
	}
}

// drawSettings draws the settings section: the attach button, the shortcut field and, while the
// window is attached to the settings, the timeline itself.
//
// Returns:
//   - bool: true if the toggle key changed
func drawSettings(rt addon.Runtime, ui addon.OverlayUI, tr Tracker, state *UIState) bool {
	label := "Detach Panel"
	if state.DrawWindow {
		label = "Attach Panel"
	}
	if ui.Button(label) {
		state.DrawWindow = !state.DrawWindow
	}

	changed := keyInputBox(rt, ui, "##toggle_key", &state.ToggleKey)

	if !state.DrawWindow {
		DrawHistory(rt, ui, tr)
	}
	return changed
}

// keyInputBox draws a read-only shortcut field. While the field is active, the last key pressed
// becomes the shortcut; backspace clears it and modifier keys are ignored.
//
// Returns:
//   - bool: true if key changed this frame
func keyInputBox(rt addon.Runtime, ui addon.OverlayUI, id string, key *[4]uint32) bool {
	text := ""
	if *key != ([4]uint32{}) {
		text = KeyName(*key)
	}
	if !ui.ReadOnlyField(id, keyHint, text) {
		return false
	}

	last := rt.LastKeyPressed()
	switch {
	case last == 0:
		return false
	case last == common.KeyBackspace:
		*key = [4]uint32{}
	case !common.IsModifierKey(last):
		key[0] = last
	}
	return true
}

// KeyName formats a shortcut as "Ctrl + Shift + Alt + <key>", omitting unset modifiers.
func KeyName(key [4]uint32) string {
	name := ""
	if key[1] != 0 {
		name += "Ctrl + "
	}
	if key[2] != 0 {
		name += "Shift + "
	}
	if key[3] != 0 {
		name += "Alt + "
	}
	return name + keyLabel(key[0])
}

func keyLabel(code uint32) string {
	switch {
	case code == 0:
		return ""
	case code == common.KeySpace:
		return "Space"
	case code > common.KeySpace && code < 127:
		return string(rune(code))
	case code >= common.KeyF1 && code <= common.KeyF12:
		return fmt.Sprintf("F%d", code-common.KeyF1+1)
	default:
		return fmt.Sprintf("Key %d", code)
	}
}
