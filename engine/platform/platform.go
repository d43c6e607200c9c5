// Package platform delivers user input to the engine: either a GLFW window
// or a headless driver that replays recorded touches.
package platform

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/planar/engine/core"
)

type Kind string

const (
	KindWindow   Kind = "window"
	KindHeadless Kind = "headless"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindHeadless:
		return KindHeadless, nil
	case KindWindow:
		return KindWindow, nil
	default:
		return "", fmt.Errorf("unknown platform %q: %w", s, core.ErrInvalidConfig)
	}
}

type Platform interface {
	Startup(applicationName string, x, y, width, height uint32) error
	// PumpMessages processes pending input. It returns false once the
	// platform wants the application to stop.
	PumpMessages() bool
	Shutdown() error
}
