package ar

import (
	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/scene"
	"github.com/spaghettifunk/planar/engine/view"
)

// HitTester answers screen space hit tests, see view.ARView.
type HitTester interface {
	HitTest(point math.Vec2, types view.HitTestType) []view.HitTestResult
}

// SceneLoader loads a model and returns its root node.
type SceneLoader interface {
	LoadScene(path string) (*scene.Node, error)
}

// PlacementHitTester places a fresh copy of a model wherever a tap lands on
// a detected plane.
type PlacementHitTester struct {
	ModelPath string

	hitTester HitTester
	loader    SceneLoader
	root      func() *scene.Node

	bus          *core.EventBus
	registration core.Registration
	placed       core.Signal[*scene.Node]
}

// NewPlacementHitTester places models under the node returned by root,
// looked up on every tap so the presented scene can change.
func NewPlacementHitTester(hitTester HitTester, loader SceneLoader, root func() *scene.Node, modelPath string) *PlacementHitTester {
	return &PlacementHitTester{
		ModelPath: modelPath,
		hitTester: hitTester,
		loader:    loader,
		root:      root,
	}
}

// OnPlaced is called with every model placed.
func (p *PlacementHitTester) OnPlaced(fn func(*scene.Node)) core.Subscription {
	return p.placed.Subscribe(fn)
}

// Attach listens for touches on the bus.
func (p *PlacementHitTester) Attach(bus *core.EventBus) {
	p.Detach()
	p.bus = bus
	p.registration = bus.Register(core.EVENT_CODE_TOUCH_BEGAN, p.onTouch)
}

func (p *PlacementHitTester) Detach() {
	if p.bus == nil {
		return
	}
	p.bus.Unregister(p.registration)
	p.bus = nil
}

func (p *PlacementHitTester) onTouch(context core.EventContext) bool {
	te, ok := context.Data.(*core.TouchEvent)
	if !ok {
		return false
	}
	p.OnTap(math.NewVec2(te.X, te.Y))
	// other listeners may want the touch too
	return false
}

// OnTap places the model at the nearest plane hit under point. It returns
// the placed node, or nil when nothing was placed.
func (p *PlacementHitTester) OnTap(point math.Vec2) *scene.Node {
	results := p.hitTester.HitTest(point, view.HitTestExistingPlaneUsingExtent)
	if len(results) == 0 {
		core.LogDebug("tap at %.1f, %.1f hit no plane", point.X, point.Y)
		return nil
	}
	position := results[0].WorldTransform.Translation()

	root := p.root()
	if root == nil {
		return nil
	}
	model, err := p.loader.LoadScene(p.ModelPath)
	if err != nil {
		core.LogDebug("could not load %s: %s", p.ModelPath, err)
		return nil
	}
	model.SetPosition(position)
	root.AddChild(model)
	core.LogInfo("placed %s at %.2f, %.2f, %.2f", p.ModelPath, position.X, position.Y, position.Z)
	p.placed.Emit(model)
	return model
}
