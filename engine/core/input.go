package core

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type KeyCode uint16

const (
	KEY_ENTER     KeyCode = 0x0D
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_P         KeyCode = 0x50
	KEY_S         KeyCode = 0x53
	KEYS_MAX_KEYS KeyCode = 0xFF
)

// Mouse state structure
type MouseState struct {
	X       uint16
	Y       uint16
	Buttons [BUTTON_MAX_BUTTONS]bool // button states (pressed/released)
}

// Keyboard state structure
type KeyboardState struct {
	Keys [256]bool
}

// Input holds current and previous states for keyboard and mouse and turns
// state changes into events on the bus.
type Input struct {
	bus *EventBus

	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
	MouseCurrent     MouseState
	MousePrevious    MouseState
}

func NewInput(bus *EventBus) *Input {
	LogDebug("Input subsystem initialized.")
	return &Input{bus: bus}
}

// Update copies current states to previous states. Call it last in a frame.
func (in *Input) Update(deltaTime float64) {
	in.KeyboardPrevious = in.KeyboardCurrent
	in.MousePrevious = in.MouseCurrent
}

// keyboard input
func (in *Input) IsKeyDown(key KeyCode) bool {
	return in.KeyboardCurrent.Keys[key]
}

func (in *Input) WasKeyDown(key KeyCode) bool {
	return in.KeyboardPrevious.Keys[key]
}

func (in *Input) ProcessKey(key KeyCode, pressed bool) {
	// Only handle this if the state actually changed.
	if in.KeyboardCurrent.Keys[key] == pressed {
		return
	}
	in.KeyboardCurrent.Keys[key] = pressed

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	in.bus.Fire(EventContext{
		Type: code,
		Data: &KeyEvent{KeyCode: key},
	})
}

// mouse input
func (in *Input) IsButtonDown(button Button) bool {
	return in.MouseCurrent.Buttons[button]
}

func (in *Input) WasButtonDown(button Button) bool {
	return in.MousePrevious.Buttons[button]
}

func (in *Input) MousePosition() (int32, int32) {
	return int32(in.MouseCurrent.X), int32(in.MouseCurrent.Y)
}

// ProcessButton fires a button event on change. A left press is also a touch
// at the current mouse position.
func (in *Input) ProcessButton(button Button, pressed bool) {
	if in.MouseCurrent.Buttons[button] == pressed {
		return
	}
	in.MouseCurrent.Buttons[button] = pressed

	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
	}
	in.bus.Fire(EventContext{
		Type: code,
		Data: &MouseEvent{
			Button: button,
			PosX:   in.MouseCurrent.X,
			PosY:   in.MouseCurrent.Y,
		},
	})

	if button == BUTTON_LEFT && pressed {
		in.ProcessTouch(float32(in.MouseCurrent.X), float32(in.MouseCurrent.Y))
	}
}

func (in *Input) ProcessMouseMove(x uint16, y uint16) {
	// Only process if actually different
	if in.MouseCurrent.X == x && in.MouseCurrent.Y == y {
		return
	}
	in.MouseCurrent.X = x
	in.MouseCurrent.Y = y

	in.bus.Fire(EventContext{
		Type: EVENT_CODE_MOUSE_MOVED,
		Data: &MouseEvent{
			PosX: x,
			PosY: y,
		},
	})
}

func (in *Input) ProcessTouch(x, y float32) {
	LogDebug("touch began at %.1f, %.1f", x, y)
	in.bus.Fire(EventContext{
		Type: EVENT_CODE_TOUCH_BEGAN,
		Data: &TouchEvent{X: x, Y: y},
	})
}
