// Package demo is the plane placement application: it shows an empty scene,
// highlights every horizontal plane the session detects, and places the
// configured model wherever the user taps on one of them.
package demo

import (
	"github.com/spaghettifunk/planar/engine"
	"github.com/spaghettifunk/planar/engine/ar"
	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/scene"
	"github.com/spaghettifunk/planar/engine/tracking"
)

type PlacementDemo struct {
	*engine.Game
}

type demoState struct {
	scene     *scene.Scene
	overlays  *ar.PlaneOverlaySynchronizer
	placement *ar.PlacementHitTester
	placed    []*scene.Node
}

func NewPlacementDemo(config *engine.ApplicationConfig) *PlacementDemo {
	d := &PlacementDemo{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &demoState{},
		},
	}
	d.FnInitialize = d.Initialize
	d.FnViewWillAppear = d.ViewWillAppear
	d.FnViewWillDisappear = d.ViewWillDisappear
	d.FnShutdown = d.Shutdown
	return d
}

func (d *PlacementDemo) state() *demoState {
	return d.State.(*demoState)
}

// Initialize presents an empty scene and wires both behaviours.
func (d *PlacementDemo) Initialize() error {
	state := d.state()
	sm := d.SystemManager

	colour, err := d.ApplicationConfig.OverlayColour()
	if err != nil {
		return err
	}

	state.scene = scene.New()
	sm.View.SetScene(state.scene)

	state.overlays = ar.NewPlaneOverlaySynchronizer()
	state.overlays.Colour = colour
	state.overlays.Attach(sm.View)

	state.placement = ar.NewPlacementHitTester(sm.View, sm.AssetManager, func() *scene.Node {
		if s := sm.View.Scene(); s != nil {
			return s.RootNode
		}
		return nil
	}, d.ApplicationConfig.Assets.Model)
	state.placement.OnPlaced(func(n *scene.Node) {
		state.placed = append(state.placed, n)
	})
	state.placement.Attach(sm.EventBus)
	return nil
}

// ViewWillAppear starts world tracking with the configured plane detection.
func (d *PlacementDemo) ViewWillAppear() {
	detection, err := d.ApplicationConfig.PlaneDetection()
	if err != nil {
		// validated with the configuration
		detection = tracking.PlaneDetectionHorizontal
	}
	config := tracking.NewWorldTrackingConfiguration()
	config.PlaneDetection = detection
	d.SystemManager.Session.Run(config)
}

// ViewWillDisappear pauses the session.
func (d *PlacementDemo) ViewWillDisappear() {
	d.SystemManager.Session.Pause()
}

func (d *PlacementDemo) Shutdown() error {
	state := d.state()
	if state.placement == nil {
		return nil
	}
	state.placement.Detach()
	state.overlays.Detach()
	core.LogInfo("%d planes tracked, %d models placed", len(d.SystemManager.Session.Anchors()), len(state.placed))
	return nil
}

// Scene is the presented scene.
func (d *PlacementDemo) Scene() *scene.Scene {
	return d.state().scene
}

// Placed lists the placed models in tap order.
func (d *PlacementDemo) Placed() []*scene.Node {
	return d.state().placed
}
