// Package systems owns the engine subsystems and their start/stop order.
package systems

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spaghettifunk/planar/engine/assets"
	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/renderer"
	"github.com/spaghettifunk/planar/engine/tracking"
	"github.com/spaghettifunk/planar/engine/view"
)

type SystemManagerConfig struct {
	AssetsDir string
	// Recording replayed by the tracking provider.
	Recording     string
	Width, Height uint32

	SnapshotWidth, SnapshotHeight uint32
	PixelsPerMeter                float32
}

type SystemManager struct {
	EventBus     *core.EventBus
	Input        *core.Input
	AssetManager *assets.AssetManager
	Session      *tracking.Session
	View         *view.ARView
	Renderer     *renderer.Renderer

	recording *tracking.Recording
	software  *renderer.SoftwareBackend
	jobSystem *JobSystem
	config    SystemManagerConfig
}

func NewSystemManager(config SystemManagerConfig) (*SystemManager, error) {
	rec, err := tracking.LoadRecording(config.Recording)
	if err != nil {
		return nil, err
	}
	provider, err := tracking.NewReplayProvider(rec)
	if err != nil {
		return nil, err
	}
	am, err := assets.NewAssetManager()
	if err != nil {
		return nil, err
	}
	js, err := NewJobSystem(1, 4)
	if err != nil {
		return nil, err
	}

	bus := core.NewEventBus()
	session := tracking.NewSession(provider)
	software := renderer.NewSoftwareBackend()
	software.PixelsPerMeter = config.PixelsPerMeter

	return &SystemManager{
		EventBus:     bus,
		Input:        core.NewInput(bus),
		AssetManager: am,
		Session:      session,
		View:         view.NewARView(session, config.Width, config.Height),
		Renderer:     renderer.New(software),
		recording:    rec,
		software:     software,
		jobSystem:    js,
		config:       config,
	}, nil
}

func (sm *SystemManager) Initialize() error {
	if err := sm.AssetManager.Initialize(sm.config.AssetsDir); err != nil {
		return err
	}
	if sm.config.SnapshotWidth > 0 && sm.config.SnapshotHeight > 0 {
		if err := sm.Renderer.Initialize(sm.config.SnapshotWidth, sm.config.SnapshotHeight); err != nil {
			return err
		}
	}
	return nil
}

// Recording is the session recording, taps included.
func (sm *SystemManager) Recording() *tracking.Recording {
	return sm.recording
}

func (sm *SystemManager) OnResize(width, height uint32) {
	sm.View.Resize(width, height)
}

// RenderSnapshot draws the presented scene from above, centered on the camera.
func (sm *SystemManager) RenderSnapshot(deltaTime float64) error {
	if sm.software.Image() == nil {
		return fmt.Errorf("snapshots are disabled")
	}
	camera := sm.Session.Camera().Position
	sm.software.Center = math.NewVec3(camera.X, 0, camera.Z)
	return sm.Renderer.DrawFrame(renderer.BuildPacket(sm.View.Scene(), deltaTime))
}

// WriteSnapshot renders on the calling goroutine and encodes the PNG on a
// worker. done, if set, runs on the worker with the write result.
func (sm *SystemManager) WriteSnapshot(path string, done func(error)) error {
	if err := sm.RenderSnapshot(0); err != nil {
		return err
	}
	frame := sm.software.Image()
	img := *frame
	img.Pix = append([]uint8(nil), frame.Pix...)

	return sm.jobSystem.Submit(JobTask{
		Name: "snapshot",
		OnStart: func() error {
			file, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := png.Encode(file, &img); err != nil {
				file.Close()
				return err
			}
			return file.Close()
		},
		OnComplete: func() {
			core.LogInfo("snapshot written to %s", path)
			if done != nil {
				done(nil)
			}
		},
		OnFailure: func(err error) {
			if done != nil {
				done(err)
			}
		},
	})
}

// Shutdown stops subsystems in reverse start order. Pending snapshot writes
// are finished first.
func (sm *SystemManager) Shutdown() error {
	sm.Session.Pause()
	sm.View.Close()
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.Renderer.Shutdown(); err != nil {
		return err
	}
	if err := sm.AssetManager.Close(); err != nil {
		return err
	}
	return sm.EventBus.Shutdown()
}
