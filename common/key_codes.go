package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32 // Spacebar (ASCII)

	KeyA = 65 // A key (ASCII)
	KeyD = 68 // D key (ASCII)
	KeyH = 72 // H key (ASCII)
	KeyS = 83 // S key (ASCII)
	KeyT = 84 // T key (ASCII)
	KeyW = 87 // W key (ASCII)
	KeyY = 89 // Y key (ASCII)
	KeyZ = 90 // Z key (ASCII)

	Key0 = 48 // 0 key (ASCII)
	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)

// Navigation and editing keys (GLFW).
const (
	KeyEsc       = 256
	KeyEnter     = 257
	KeyTab       = 258
	KeyBackspace = 259
	KeyInsert    = 260
	KeyDelete    = 261
	KeyRight     = 262
	KeyLeft      = 263
	KeyDown      = 264
	KeyUp        = 265
	KeyPageUp    = 266
	KeyPageDown  = 267
	KeyHome      = 268
	KeyEnd       = 269

	KeyF1  = 290
	KeyF12 = 301
)

// Modifier keys (GLFW). These are never accepted as a shortcut's primary key.
const (
	KeyLeftShift    = 340
	KeyLeftControl  = 341
	KeyLeftAlt      = 342
	KeyRightShift   = 344
	KeyRightControl = 345
	KeyRightAlt     = 346
)

// KeyLast is the highest GLFW key code.
const KeyLast = 348

// IsValidKey reports whether keyCode is a GLFW key code that can be pressed.
func IsValidKey(keyCode int) bool {
	return keyCode >= KeySpace && keyCode <= KeyLast
}

// IsModifierKey reports whether keyCode is a shift, control or alt key.
//
// Parameters:
//   - keyCode: the GLFW key code
//
// Returns:
//   - bool: true for modifier keys
func IsModifierKey(keyCode uint32) bool {
	switch keyCode {
	case KeyLeftShift, KeyRightShift, KeyLeftControl, KeyRightControl, KeyLeftAlt, KeyRightAlt:
		return true
	}
	return false
}
