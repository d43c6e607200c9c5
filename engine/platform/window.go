package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/planar/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

var keyMap = map[glfw.Key]core.KeyCode{
	glfw.KeyEnter:  core.KEY_ENTER,
	glfw.KeyEscape: core.KEY_ESCAPE,
	glfw.KeySpace:  core.KEY_SPACE,
	glfw.KeyP:      core.KEY_P,
	glfw.KeyS:      core.KEY_S,
}

var buttonMap = map[glfw.MouseButton]core.Button{
	glfw.MouseButtonLeft:   core.BUTTON_LEFT,
	glfw.MouseButtonRight:  core.BUTTON_RIGHT,
	glfw.MouseButtonMiddle: core.BUTTON_MIDDLE,
}

// WindowPlatform opens a window and turns mouse clicks into touches.
type WindowPlatform struct {
	Window *glfw.Window

	input *core.Input
	bus   *core.EventBus
}

func NewWindowPlatform(input *core.Input, bus *core.EventBus) *WindowPlatform {
	return &WindowPlatform{input: input, bus: bus}
}

func (p *WindowPlatform) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	p.Window = window

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetMouseButtonCallback(p.mouseButtonCallback)
	p.Window.SetCursorPosCallback(p.cursorPosCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	return nil
}

func (p *WindowPlatform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

func (p *WindowPlatform) PumpMessages() bool {
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

func (p *WindowPlatform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	code, ok := keyMap[key]
	if !ok || action == glfw.Repeat {
		return
	}
	p.input.ProcessKey(code, action == glfw.Press)
}

func (p *WindowPlatform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b, ok := buttonMap[button]
	if !ok {
		return
	}
	p.input.ProcessButton(b, action == glfw.Press)
}

func (p *WindowPlatform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	if xpos < 0 || ypos < 0 {
		return
	}
	p.input.ProcessMouseMove(uint16(xpos), uint16(ypos))
}

func (p *WindowPlatform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.bus.Fire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{WindowWidth: uint32(width), WindowHeight: uint32(height)},
	})
}
