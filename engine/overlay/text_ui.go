package overlay

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/Carmen-Shannon/oxy-addons/engine/addon"
)

// UI is an overlay UI driven frame by frame by a host loop.
type UI interface {
	addon.OverlayUI

	// EndFrame completes the current frame. Interaction queued for the frame that was not
	// consumed by a widget is dropped.
	EndFrame()
}

// TextUI is a headless immediate-mode UI. Each frame is recorded as indented text lines, and
// clicks, focus and key input are scripted instead of coming from a pointer device.
//
// Rendering rules:
//   - Begin: "<title>" and indents following widgets
//   - Text: the text
//   - Button: "[label]"
//   - Selectable: "> label" when selected, "  label" otherwise, without any "##id" suffix
//   - ReadOnlyField: "<id without ##>: text", or "(hint)" when text is empty
type TextUI struct {
	lines  []string
	frame  []string
	depth  int
	logger *slog.Logger

	clicks      []string
	focused     string
	scrolled    string
	lastScroll  string
	frameNumber uint64
}

var _ UI = &TextUI{}

// NewTextUI creates an empty headless UI.
func NewTextUI() *TextUI {
	return &TextUI{logger: common.Logger()}
}

// displayLabel strips an ImGui style "##id" suffix.
func displayLabel(label string) string {
	display, _, _ := strings.Cut(label, "##")
	return display
}

func (u *TextUI) add(line string) {
	u.lines = append(u.lines, strings.Repeat("  ", u.depth)+line)
}

// consumeClick reports whether a queued click targets label, matched either by the full label or
// its displayed part, and removes it.
func (u *TextUI) consumeClick(label string) bool {
	display := displayLabel(label)
	i := slices.IndexFunc(u.clicks, func(c string) bool { return c == label || (c == display && display != "") })
	if i < 0 {
		return false
	}
	u.clicks = slices.Delete(u.clicks, i, i+1)
	return true
}

func (u *TextUI) Begin(title string) {
	u.add(title)
	u.depth++
}

func (u *TextUI) End() {
	if u.depth > 0 {
		u.depth--
	}
}

func (u *TextUI) Text(text string) {
	u.add(text)
}

func (u *TextUI) Button(label string) bool {
	u.add("[" + displayLabel(label) + "]")
	return u.consumeClick(label)
}

func (u *TextUI) Selectable(label string, selected bool) bool {
	prefix := "  "
	if selected {
		prefix = "> "
	}
	u.add(prefix + displayLabel(label))
	return u.consumeClick(label)
}

func (u *TextUI) SetScrollHere() {
	if len(u.lines) == 0 {
		return
	}
	u.scrolled = strings.TrimSpace(u.lines[len(u.lines)-1])
}

func (u *TextUI) ReadOnlyField(id, hint, text string) bool {
	shown := text
	if shown == "" {
		shown = "(" + hint + ")"
	}
	name := strings.TrimPrefix(id, "##")
	u.add(name + ": " + shown)
	return u.focused != "" && u.focused == id
}

// EndFrame completes the frame: the recorded lines become Frame and queued clicks are dropped.
func (u *TextUI) EndFrame() {
	if len(u.clicks) > 0 {
		u.logger.Debug("dropping unmatched clicks", "clicks", strings.Join(u.clicks, ", "), "frame", u.frameNumber)
	}
	u.frame = u.lines
	u.lines = nil
	u.depth = 0
	u.clicks = nil
	u.lastScroll = u.scrolled
	u.scrolled = ""
	u.frameNumber++
}

// Click queues a click on the widget with the given label for the next frame.
// The label may be the displayed text or the full label including its "##id" suffix.
func (u *TextUI) Click(label string) {
	u.clicks = append(u.clicks, label)
}

// Focus makes the field with the given id active until Blur is called.
func (u *TextUI) Focus(id string) {
	u.focused = id
}

// Blur deactivates the focused field.
func (u *TextUI) Blur() {
	u.focused = ""
}

// Frame returns the lines of the last completed frame.
func (u *TextUI) Frame() []string {
	return slices.Clone(u.frame)
}

// ScrolledTo returns the trimmed line the last completed frame requested to scroll to, or an
// empty string.
func (u *TextUI) ScrolledTo() string {
	return u.lastScroll
}

// Frames returns the number of completed frames.
func (u *TextUI) Frames() uint64 {
	return u.frameNumber
}

// String returns the last completed frame as a single string.
func (u *TextUI) String() string {
	return strings.Join(u.frame, "\n")
}
