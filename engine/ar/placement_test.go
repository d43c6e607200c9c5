package ar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/scene"
	"github.com/spaghettifunk/planar/engine/view"
)

// stubHitTester returns the next queued result set on every call.
type stubHitTester struct {
	results [][]view.HitTestResult
	types   []view.HitTestType
}

func (s *stubHitTester) HitTest(point math.Vec2, types view.HitTestType) []view.HitTestResult {
	s.types = append(s.types, types)
	if len(s.results) == 0 {
		return nil
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r
}

func hitAt(position math.Vec3) []view.HitTestResult {
	return []view.HitTestResult{{
		Type:           view.HitTestExistingPlaneUsingExtent,
		WorldTransform: math.NewMat4EulerY(0.3).WithTranslation(position),
	}}
}

type stubLoader struct {
	err   error
	paths []string
}

func (l *stubLoader) LoadScene(path string) (*scene.Node, error) {
	l.paths = append(l.paths, path)
	if l.err != nil {
		return nil, l.err
	}
	model := scene.NewNode("model")
	model.AddChild(scene.NewNode("mesh"))
	return model, nil
}

func newPlacement(hits *stubHitTester, loader *stubLoader) (*PlacementHitTester, *scene.Scene) {
	s := scene.New()
	return NewPlacementHitTester(hits, loader, func() *scene.Node { return s.RootNode }, "models/ballpark.scn"), s
}

func TestPlacement_EmptyHitPlacesNothing(t *testing.T) {
	hits := &stubHitTester{}
	loader := &stubLoader{}
	p, s := newPlacement(hits, loader)

	assert.Nil(t, p.OnTap(math.NewVec2(10, 10)))
	assert.Zero(t, s.RootNode.ChildCount())
	assert.Empty(t, loader.paths)
	assert.Equal(t, []view.HitTestType{view.HitTestExistingPlaneUsingExtent}, hits.types)
}

func TestPlacement_HitPlacesModelAtTranslation(t *testing.T) {
	hits := &stubHitTester{results: [][]view.HitTestResult{hitAt(math.NewVec3(1, 0, -2))}}
	loader := &stubLoader{}
	p, s := newPlacement(hits, loader)

	node := p.OnTap(math.NewVec2(50, 50))
	require.NotNil(t, node)
	assert.Equal(t, 1, s.RootNode.ChildCount())
	assert.Same(t, node, s.RootNode.FirstChild())
	assert.Equal(t, math.NewVec3(1, 0, -2), node.Position())
	// only the translation is taken from the hit
	assert.Equal(t, math.NewQuatIdentity(), node.Rotation())
	assert.Equal(t, math.NewVec3One(), node.Scale())
	assert.Equal(t, []string{"models/ballpark.scn"}, loader.paths)
}

func TestPlacement_TwoTapsTwoInstances(t *testing.T) {
	hits := &stubHitTester{results: [][]view.HitTestResult{
		hitAt(math.NewVec3(1, 0, -2)),
		hitAt(math.NewVec3(-0.5, 0, -1)),
	}}
	p, s := newPlacement(hits, &stubLoader{})
	var placed []*scene.Node
	p.OnPlaced(func(n *scene.Node) { placed = append(placed, n) })

	first := p.OnTap(math.NewVec2(50, 50))
	second := p.OnTap(math.NewVec2(20, 70))
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.Equal(t, []*scene.Node{first, second}, placed)

	children := s.RootNode.ChildNodes()
	require.Len(t, children, 2)
	assert.Equal(t, math.NewVec3(1, 0, -2), children[0].Position())
	assert.Equal(t, math.NewVec3(-0.5, 0, -1), children[1].Position())
}

func TestPlacement_LoadFailureIsIgnored(t *testing.T) {
	hits := &stubHitTester{results: [][]view.HitTestResult{hitAt(math.NewVec3(1, 0, -2))}}
	p, s := newPlacement(hits, &stubLoader{err: errors.New("missing")})

	assert.Nil(t, p.OnTap(math.NewVec2(50, 50)))
	assert.Zero(t, s.RootNode.ChildCount())
}

func TestPlacement_UsesFirstResult(t *testing.T) {
	results := append(hitAt(math.NewVec3(0, 0.7, -1)), hitAt(math.NewVec3(0, 0, -3))...)
	hits := &stubHitTester{results: [][]view.HitTestResult{results}}
	p, _ := newPlacement(hits, &stubLoader{})

	node := p.OnTap(math.NewVec2(50, 50))
	require.NotNil(t, node)
	assert.Equal(t, math.NewVec3(0, 0.7, -1), node.Position())
}

func TestPlacement_TouchEventsFromBus(t *testing.T) {
	hits := &stubHitTester{results: [][]view.HitTestResult{hitAt(math.NewVec3(1, 0, -2))}}
	p, s := newPlacement(hits, &stubLoader{})
	bus := core.NewEventBus()
	p.Attach(bus)

	handled := bus.Fire(core.EventContext{Type: core.EVENT_CODE_TOUCH_BEGAN, Data: &core.TouchEvent{X: 50, Y: 50}})
	assert.False(t, handled)
	assert.Equal(t, 1, s.RootNode.ChildCount())

	p.Detach()
	bus.Fire(core.EventContext{Type: core.EVENT_CODE_TOUCH_BEGAN, Data: &core.TouchEvent{X: 50, Y: 50}})
	assert.Len(t, hits.types, 1)
}
