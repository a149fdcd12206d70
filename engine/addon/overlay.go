package addon

// OverlayUI is the immediate-mode UI surface the host hands to overlay callbacks for the
// duration of a single frame. Widgets report interaction for the current frame only.
type OverlayUI interface {
	// Begin opens a named window; widgets until the matching End are drawn inside it.
	Begin(title string)

	// End closes the window opened by the last Begin.
	End()

	// Text draws a line of static text.
	Text(text string)

	// Button draws a button.
	//
	// Returns:
	//   - bool: true if the button was pressed this frame
	Button(label string) bool

	// Selectable draws a selectable row. Labels may carry a "##id" suffix that is used for
	// identity but not displayed.
	//
	// Returns:
	//   - bool: true if the row was clicked this frame
	Selectable(label string, selected bool) bool

	// SetScrollHere scrolls the current window so the last drawn widget is visible.
	SetScrollHere()

	// ReadOnlyField draws a read-only text field showing text, or hint when text is empty.
	//
	// Returns:
	//   - bool: true while the field is focused (active) this frame
	ReadOnlyField(id, hint, text string) bool
}
