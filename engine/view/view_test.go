package view

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/scene"
	"github.com/spaghettifunk/planar/engine/tracking"
)

const tolerance = 1e-4

// lookingDown places the camera at position, pointing straight at the floor.
func lookingDown(position math.Vec3) tracking.CameraPose {
	return tracking.CameraPose{
		Position:      position,
		EulerRotation: math.NewVec3(-math.K_HALF_PI, 0, 0),
	}
}

func floorAt(name string, position, extent math.Vec3) tracking.Anchor {
	return tracking.NewPlaneAnchor(tracking.AnchorIDFromName(name), math.NewMat4Translation(position), tracking.PlaneData{
		Alignment: tracking.PlaneAlignmentHorizontal,
		Extent:    extent,
	})
}

func replay(t *testing.T, frames ...*tracking.Frame) (*tracking.Session, *ARView) {
	t.Helper()
	session := tracking.NewSession(tracking.NewFrameProvider(frames...))
	v := NewARView(session, 100, 100)
	v.SetScene(scene.New())

	session.Run(tracking.Configuration{PlaneDetection: tracking.PlaneDetectionHorizontal})
	deadline := time.Now().Add(time.Second)
	for !session.Exhausted() {
		require.True(t, time.Now().Before(deadline), "provider did not finish")
		session.Update()
		time.Sleep(time.Millisecond)
	}
	session.Update()
	return session, v
}

func TestARView_BindsAnchorLifecycle(t *testing.T) {
	floor := floorAt("floor", math.NewVec3(0, 0, -2), math.NewVec3(1, 0, 1))
	table := floorAt("table", math.NewVec3(2, 0.7, 0), math.NewVec3(1, 0, 1))
	moved := floorAt("floor", math.NewVec3(0, 0, -3), math.NewVec3(1, 0, 1))

	session := tracking.NewSession(tracking.NewFrameProvider(
		&tracking.Frame{Index: 1, Added: []tracking.Anchor{floor, table}},
		&tracking.Frame{Index: 2, Updated: []tracking.Anchor{moved}},
		&tracking.Frame{Index: 3, Removed: []uuid.UUID{table.ID}},
	))
	v := NewARView(session, 100, 100)
	s := scene.New()
	v.SetScene(s)

	var added, updated, removed []NodeEvent
	v.OnNodeAdded(func(e NodeEvent) {
		// the node is already in the scene when handlers run
		assert.Equal(t, s.RootNode, e.Node.Parent())
		added = append(added, e)
	})
	v.OnNodeUpdated(func(e NodeEvent) { updated = append(updated, e) })
	v.OnNodeRemoved(func(e NodeEvent) { removed = append(removed, e) })

	session.Run(tracking.Configuration{PlaneDetection: tracking.PlaneDetectionHorizontal})
	deadline := time.Now().Add(time.Second)
	for !session.Exhausted() {
		require.True(t, time.Now().Before(deadline))
		session.Update()
		time.Sleep(time.Millisecond)
	}
	session.Update()

	require.Len(t, added, 2)
	require.Len(t, updated, 1)
	require.Len(t, removed, 1)

	assert.Equal(t, 1, s.RootNode.ChildCount())
	node, ok := v.Node(floor.ID)
	require.True(t, ok)
	assert.Same(t, added[0].Node, node)
	assert.True(t, node.WorldPosition().Compare(math.NewVec3(0, 0, -3), tolerance))

	assert.Nil(t, removed[0].Node.Parent())
	_, ok = v.Node(table.ID)
	assert.False(t, ok)
}

func TestARView_CloseStopsBinding(t *testing.T) {
	session := tracking.NewSession(tracking.NewFrameProvider(
		&tracking.Frame{Index: 1, Added: []tracking.Anchor{floorAt("floor", math.NewVec3Zero(), math.NewVec3One())}},
	))
	v := NewARView(session, 100, 100)
	s := scene.New()
	v.SetScene(s)
	v.Close()

	session.Run(tracking.Configuration{PlaneDetection: tracking.PlaneDetectionHorizontal})
	deadline := time.Now().Add(time.Second)
	for !session.Exhausted() {
		require.True(t, time.Now().Before(deadline))
		session.Update()
		time.Sleep(time.Millisecond)
	}
	session.Update()

	assert.Len(t, session.Anchors(), 1)
	assert.Zero(t, s.RootNode.ChildCount())
}

func TestARView_HitTestCenterOfView(t *testing.T) {
	_, v := replay(t, &tracking.Frame{
		Index:  1,
		Camera: lookingDown(math.NewVec3(1, 1.5, -2)),
		Added:  []tracking.Anchor{floorAt("floor", math.NewVec3(0, 0, -2), math.NewVec3(4, 0, 4))},
	})

	results := v.HitTest(math.NewVec2(50, 50), HitTestExistingPlaneUsingExtent)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.5, results[0].Distance, tolerance)
	assert.True(t, results[0].WorldTransform.Translation().Compare(math.NewVec3(1, 0, -2), tolerance))
	assert.Equal(t, tracking.AnchorIDFromName("floor"), results[0].Anchor.ID)
}

func TestARView_HitTestRespectsExtent(t *testing.T) {
	// the floor is 1m wide around x = 0 and the camera looks down at x = 3
	_, v := replay(t, &tracking.Frame{
		Index:  1,
		Camera: lookingDown(math.NewVec3(3, 1, 0)),
		Added:  []tracking.Anchor{floorAt("floor", math.NewVec3Zero(), math.NewVec3(1, 0, 1))},
	})

	assert.Empty(t, v.HitTest(math.NewVec2(50, 50), HitTestExistingPlaneUsingExtent))

	infinite := v.HitTest(math.NewVec2(50, 50), HitTestExistingPlane)
	require.Len(t, infinite, 1)
	assert.Equal(t, HitTestExistingPlane, infinite[0].Type)
	assert.True(t, infinite[0].WorldTransform.Translation().Compare(math.NewVec3(3, 0, 0), tolerance))
}

func TestARView_HitTestOrdersByDistance(t *testing.T) {
	_, v := replay(t, &tracking.Frame{
		Index:  1,
		Camera: lookingDown(math.NewVec3(0, 2, 0)),
		Added: []tracking.Anchor{
			floorAt("floor", math.NewVec3Zero(), math.NewVec3(4, 0, 4)),
			floorAt("table", math.NewVec3(0, 0.75, 0), math.NewVec3(1, 0, 1)),
		},
	})

	results := v.HitTest(math.NewVec2(50, 50), HitTestExistingPlaneUsingExtent)
	require.Len(t, results, 2)
	assert.Equal(t, tracking.AnchorIDFromName("table"), results[0].Anchor.ID)
	assert.Equal(t, tracking.AnchorIDFromName("floor"), results[1].Anchor.ID)
	assert.Less(t, results[0].Distance, results[1].Distance)
}

func TestARView_HitTestMissesWhenLookingAway(t *testing.T) {
	_, v := replay(t, &tracking.Frame{
		Index:  1,
		Camera: tracking.CameraPose{Position: math.NewVec3(0, 1, 0), EulerRotation: math.NewVec3(math.K_HALF_PI, 0, 0)},
		Added:  []tracking.Anchor{floorAt("floor", math.NewVec3Zero(), math.NewVec3(10, 0, 10))},
	})

	assert.Empty(t, v.HitTest(math.NewVec2(50, 50), HitTestExistingPlane|HitTestExistingPlaneUsingExtent))
}

func TestCamera_ScreenRay(t *testing.T) {
	c := NewCamera(200, 100)
	ray := c.ScreenRay(math.NewVec2(100, 50))
	assert.True(t, ray.Direction.Compare(math.NewVec3Forward(), tolerance))

	// the right edge leans towards +x, the top edge towards +y
	right := c.ScreenRay(math.NewVec2(200, 50))
	assert.Greater(t, right.Direction.X, float32(0))
	top := c.ScreenRay(math.NewVec2(100, 0))
	assert.Greater(t, top.Direction.Y, float32(0))

	// out of viewport points clamp to the edge
	assert.Equal(t, right, c.ScreenRay(math.NewVec2(500, 50)))
}

func TestCamera_PitchIsClamped(t *testing.T) {
	c := NewCamera(1, 1)
	c.Pitch(10)
	assert.InDelta(t, 1.55334306, c.EulerRotation.X, 1e-6)
	c.Pitch(-20)
	assert.InDelta(t, -1.55334306, c.EulerRotation.X, 1e-6)
}
