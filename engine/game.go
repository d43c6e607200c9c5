package engine

import (
	"github.com/spaghettifunk/planar/engine/systems"
)

// Game is the application plugged into the engine. SystemManager is set by
// engine.New before any callback runs. Nil callbacks are skipped.
type Game struct {
	ApplicationConfig   *ApplicationConfig
	SystemManager       *systems.SystemManager
	State               interface{}
	FnInitialize        Initialize
	FnViewWillAppear    ViewWillAppear
	FnViewWillDisappear ViewWillDisappear
	FnUpdate            Update
	FnOnResize          OnResize
	FnShutdown          Shutdown
}

type Initialize func() error
type ViewWillAppear func()
type ViewWillDisappear func()
type Update func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
