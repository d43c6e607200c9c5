package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01

	// Keyboard key pressed.
	/* Context usage:
	 * ke := data.(*KeyEvent)
	 */
	EVENT_CODE_KEY_PRESSED EventCode = 0x02

	// Keyboard key released.
	EVENT_CODE_KEY_RELEASED EventCode = 0x03

	// Mouse button pressed.
	/* Context usage:
	 * me := data.(*MouseEvent)
	 */
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04

	// Mouse button released.
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05

	// Mouse moved.
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06

	// A touch (or primary click) began on the viewport.
	/* Context usage:
	 * te := data.(*TouchEvent)
	 */
	EVENT_CODE_TOUCH_BEGAN EventCode = 0x07

	// Resized/resolution changed from the OS.
	/* Context usage:
	 * se := data.(*SystemEvent)
	 */
	EVENT_CODE_RESIZED EventCode = 0x08

	MAX_EVENT_CODE EventCode = 0xFF
)

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   uint16
	PosY   uint16
}

// TouchEvent carries a viewport point in pixels, origin top-left.
type TouchEvent struct {
	X float32
	Y float32
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type EventContext struct {
	Type EventCode
	Data interface{}
}

// FnOnEvent should return true if the event was handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	id       uint64
	callback FnOnEvent
}

// EventBus dispatches EventContexts to the handlers registered for their code.
// Handlers run on the goroutine calling Fire.
type EventBus struct {
	mu         sync.RWMutex
	registered map[EventCode][]*registeredEvent
	nextID     uint64
}

// Registration identifies a handler so that it can be unregistered later.
type Registration struct {
	Code EventCode
	id   uint64
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[EventCode][]*registeredEvent),
	}
}

/**
 * Register to listen for when events are sent with the provided code.
 * @param code The event code to listen for.
 * @param onEvent The callback to be invoked when the event code is fired.
 * @returns A registration handle to pass to Unregister.
 */
func (b *EventBus) Register(code EventCode, onEvent FnOnEvent) Registration {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	event := &registeredEvent{
		id:       b.nextID,
		callback: onEvent,
	}
	b.registered[code] = append(b.registered[code], event)
	return Registration{Code: code, id: event.id}
}

/**
 * Unregister from listening for when events are sent with the provided code.
 * @returns true if the registration was found and removed; otherwise false.
 */
func (b *EventBus) Unregister(reg Registration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := b.registered[reg.Code]
	for i, e := range events {
		if e.id == reg.id {
			b.registered[reg.Code] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func (b *EventBus) Fire(context EventContext) bool {
	b.mu.RLock()
	events := make([]*registeredEvent, len(b.registered[context.Type]))
	copy(events, b.registered[context.Type])
	b.mu.RUnlock()

	for _, e := range events {
		if e.callback(context) {
			return true
		}
	}
	return false
}

// Shutdown drops every registration.
func (b *EventBus) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registered = make(map[EventCode][]*registeredEvent)
	return nil
}
