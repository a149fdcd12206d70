package effect

// keyState tracks keyboard state for one frame of the host loop.
// Key-up events are only observable until the next EndFrame.
type keyState struct {
	down        map[uint32]bool
	released    map[uint32]bool
	lastPressed uint32
}

func newKeyState() keyState {
	return keyState{
		down:     make(map[uint32]bool),
		released: make(map[uint32]bool),
	}
}

func (k *keyState) keyDown(keyCode uint32) {
	if !k.down[keyCode] {
		k.lastPressed = keyCode
	}
	k.down[keyCode] = true
}

func (k *keyState) keyUp(keyCode uint32) {
	delete(k.down, keyCode)
	k.released[keyCode] = true
}

func (k *keyState) endFrame() {
	clear(k.released)
	k.lastPressed = 0
}
