package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_FireStopsAtFirstHandler(t *testing.T) {
	bus := NewEventBus()

	var calls []string
	bus.Register(EVENT_CODE_KEY_PRESSED, func(EventContext) bool {
		calls = append(calls, "first")
		return true
	})
	bus.Register(EVENT_CODE_KEY_PRESSED, func(EventContext) bool {
		calls = append(calls, "second")
		return false
	})

	handled := bus.Fire(EventContext{Type: EVENT_CODE_KEY_PRESSED})
	assert.True(t, handled)
	assert.Equal(t, []string{"first"}, calls)
}

func TestEventBus_Unregister(t *testing.T) {
	bus := NewEventBus()

	count := 0
	reg := bus.Register(EVENT_CODE_TOUCH_BEGAN, func(EventContext) bool {
		count++
		return false
	})

	bus.Fire(EventContext{Type: EVENT_CODE_TOUCH_BEGAN})
	require.True(t, bus.Unregister(reg))
	bus.Fire(EventContext{Type: EVENT_CODE_TOUCH_BEGAN})

	assert.Equal(t, 1, count)
	assert.False(t, bus.Unregister(reg), "second unregister must report not found")
}

func TestEventBus_UnknownCode(t *testing.T) {
	bus := NewEventBus()
	assert.False(t, bus.Fire(EventContext{Type: EVENT_CODE_RESIZED}))
}

func TestInput_LeftPressFiresTouch(t *testing.T) {
	bus := NewEventBus()
	in := NewInput(bus)

	var touches []TouchEvent
	bus.Register(EVENT_CODE_TOUCH_BEGAN, func(ctx EventContext) bool {
		touches = append(touches, *ctx.Data.(*TouchEvent))
		return true
	})

	in.ProcessMouseMove(120, 45)
	in.ProcessButton(BUTTON_LEFT, true)
	// repeated state is not an edge
	in.ProcessButton(BUTTON_LEFT, true)
	in.ProcessButton(BUTTON_LEFT, false)
	in.ProcessButton(BUTTON_RIGHT, true)

	require.Len(t, touches, 1)
	assert.Equal(t, TouchEvent{X: 120, Y: 45}, touches[0])
}

func TestInput_UpdateCopiesState(t *testing.T) {
	in := NewInput(NewEventBus())
	in.ProcessKey(KEY_ESCAPE, true)

	assert.True(t, in.IsKeyDown(KEY_ESCAPE))
	assert.False(t, in.WasKeyDown(KEY_ESCAPE))

	in.Update(0)
	assert.True(t, in.WasKeyDown(KEY_ESCAPE))
}
