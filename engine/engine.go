package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/platform"
	"github.com/spaghettifunk/planar/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has released every subsystem
	EngineStageShutdown
)

// statistics are logged this often when enabled
const statisticsInterval = 5 * time.Second

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	isSuspended   bool
	platform      platform.Platform
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
	registrations []core.Registration
}

func New(g *Game) (*Engine, error) {
	config := g.ApplicationConfig
	if config == nil {
		return nil, fmt.Errorf("game has no configuration: %w", core.ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	level, _ := config.LogLevel()
	core.SetLogLevel(level)

	e := &Engine{
		currentStage: EngineStageBooting,
		gameInstance: g,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		width:        config.Application.StartWidth,
		height:       config.Application.StartHeight,
	}

	snapshotWidth, snapshotHeight := config.Snapshot.Width, config.Snapshot.Height
	if config.Snapshot.Path == "" {
		snapshotWidth, snapshotHeight = 0, 0
	}
	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		AssetsDir:      config.Assets.Dir,
		Recording:      config.Session.Recording,
		Width:          e.width,
		Height:         e.height,
		SnapshotWidth:  snapshotWidth,
		SnapshotHeight: snapshotHeight,
		PixelsPerMeter: config.Snapshot.PixelsPerMeter,
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	e.systemManager = sm
	g.SystemManager = sm

	kind, _ := config.PlatformKind()
	switch kind {
	case platform.KindWindow:
		e.platform = platform.NewWindowPlatform(sm.Input, sm.EventBus)
	default:
		e.platform = platform.NewHeadlessPlatform(sm.Input, sm.Session, sm.Recording().Taps())
	}

	return e, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageBooting {
		return fmt.Errorf("engine cannot initialize from stage %d", e.currentStage)
	}
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig.Application

	// register some events
	bus := e.systemManager.EventBus
	e.registrations = []core.Registration{
		bus.Register(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent),
		bus.Register(core.EVENT_CODE_KEY_PRESSED, e.onKey),
		bus.Register(core.EVENT_CODE_RESIZED, e.onResized),
	}

	if err := e.platform.Startup(config.Name, config.StartPosX, config.StartPosY, config.StartWidth, config.StartHeight); err != nil {
		return err
	}
	if err := e.systemManager.Initialize(); err != nil {
		return err
	}
	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			core.LogError("Game failed to initialize: %s", err)
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run drives the frame loop until the platform stops, the application quits
// or ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine cannot run from stage %d", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning = true

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var targetFrameSeconds float64
	if fps := e.gameInstance.ApplicationConfig.Application.TargetFPS; fps > 0 {
		targetFrameSeconds = 1.0 / float64(fps)
	}
	showStatistics := e.gameInstance.ApplicationConfig.Application.ShowStatistics
	lastStatistics := time.Now()

	if e.gameInstance.FnViewWillAppear != nil {
		e.gameInstance.FnViewWillAppear()
	}

	var runErr error
	for e.isRunning {
		select {
		case <-ctx.Done():
			core.LogInfo("context cancelled, shutting down.")
			e.isRunning = false
			continue
		default:
		}

		if !e.platform.PumpMessages() {
			e.isRunning = false
		}

		if e.isSuspended {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStart := time.Now()

		// anchor callbacks fire here, on the frame thread
		e.systemManager.Session.Update()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down: %s", err)
				runErr = err
				e.isRunning = false
				break
			}
		}

		frameElapsed := time.Since(frameStart).Seconds()
		if remaining := targetFrameSeconds - frameElapsed; remaining > 0 {
			// If there is time left, give it back to the OS.
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}
		e.metrics.Update(time.Since(frameStart).Seconds())

		if showStatistics && time.Since(lastStatistics) >= statisticsInterval {
			fps, avg := e.metrics.Frame()
			core.LogInfo("%.0f fps, %.2f ms/frame, %d anchors, %d nodes",
				fps, avg, len(e.systemManager.Session.Anchors()), e.sceneNodeCount())
			lastStatistics = time.Now()
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		e.systemManager.Input.Update(delta)

		e.lastTime = currentTime
	}

	if e.gameInstance.FnViewWillDisappear != nil {
		e.gameInstance.FnViewWillDisappear()
	}
	e.currentStage = EngineStageInitialized
	return runErr
}

func (e *Engine) sceneNodeCount() int {
	if s := e.systemManager.View.Scene(); s != nil {
		return s.NodeCount()
	}
	return 0
}

// Shutdown writes the snapshot, if configured, and releases everything.
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown || e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("Game shutdown failed: %s", err)
		}
	}
	if path := e.gameInstance.ApplicationConfig.Snapshot.Path; path != "" {
		if err := e.systemManager.WriteSnapshot(path, nil); err != nil {
			core.LogError("could not write snapshot: %s", err)
		}
	}
	for _, reg := range e.registrations {
		e.systemManager.EventBus.Unregister(reg)
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageShutdown
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) bool {
	if context.Type == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	switch ke.KeyCode {
	case core.KEY_ESCAPE:
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.systemManager.EventBus.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		// Block anything else from processing this.
		return true
	case core.KEY_P:
		session := e.systemManager.Session
		if session.Running() {
			core.LogInfo("pausing tracking")
			session.Pause()
		} else {
			core.LogInfo("resuming tracking")
			session.Run(session.Configuration())
		}
		return true
	case core.KEY_S:
		path := e.gameInstance.ApplicationConfig.Snapshot.Path
		if path == "" {
			return false
		}
		if err := e.systemManager.WriteSnapshot(path, nil); err != nil {
			core.LogError("could not write snapshot: %s", err)
		}
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	e.systemManager.OnResize(width, height)
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	return true
}
