// Package ar holds the two behaviours of the placement application: a
// translucent overlay that tracks every detected plane, and tap to place a
// model on a plane.
package ar

import (
	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
	"github.com/spaghettifunk/planar/engine/scene"
	"github.com/spaghettifunk/planar/engine/tracking"
	"github.com/spaghettifunk/planar/engine/view"
)

const overlayMaterialName = "plane-overlay"

// DefaultOverlayColour is white at 40% opacity.
var DefaultOverlayColour = math.NewVec4(1, 1, 1, 0.4)

// NodeEventSource is the part of the AR view the synchronizer listens to.
type NodeEventSource interface {
	OnNodeAdded(fn func(view.NodeEvent)) core.Subscription
	OnNodeUpdated(fn func(view.NodeEvent)) core.Subscription
	Unsubscribe(sub core.Subscription) bool
}

// PlaneOverlaySynchronizer keeps one overlay plane under the container node
// of every plane anchor, sized and positioned like the anchor's last report.
type PlaneOverlaySynchronizer struct {
	Colour math.Vec4

	source NodeEventSource
	subs   []core.Subscription
}

func NewPlaneOverlaySynchronizer() *PlaneOverlaySynchronizer {
	return &PlaneOverlaySynchronizer{Colour: DefaultOverlayColour}
}

// Attach subscribes to node events. Attaching again moves the subscription.
func (s *PlaneOverlaySynchronizer) Attach(source NodeEventSource) {
	s.Detach()
	s.source = source
	s.subs = []core.Subscription{
		source.OnNodeAdded(func(e view.NodeEvent) { s.OnAnchorAdded(e.Node, e.Anchor) }),
		source.OnNodeUpdated(func(e view.NodeEvent) { s.OnAnchorUpdated(e.Node, e.Anchor) }),
	}
}

func (s *PlaneOverlaySynchronizer) Detach() {
	if s.source == nil {
		return
	}
	for _, sub := range s.subs {
		s.source.Unsubscribe(sub)
	}
	s.subs = nil
	s.source = nil
}

// OnAnchorAdded adds the overlay for a newly detected plane as the only
// child of node. Other anchor kinds are ignored.
func (s *PlaneOverlaySynchronizer) OnAnchorAdded(node *scene.Node, anchor tracking.Anchor) {
	plane, ok := anchor.AsPlane()
	if !ok {
		core.LogDebug("anchor %s is a %s, no overlay", anchor.ID, anchor.Kind)
		return
	}

	geometry := scene.NewPlaneGeometry(overlayMaterialName, plane.Extent.X, plane.Extent.Z)
	geometry.SetMaterial(&scene.Material{
		Name:          overlayMaterialName,
		DiffuseColour: s.Colour,
		DoubleSided:   true,
	})

	overlay := scene.NewNodeWithGeometry("plane-overlay", geometry)
	overlay.SetPosition(plane.Center)
	// the plane geometry faces +z, the anchor's surface normal is +y
	overlay.SetEulerAngles(math.NewVec3(-math.K_HALF_PI, 0, 0))
	node.AddChild(overlay)
}

// OnAnchorUpdated resizes and recenters the overlay in place.
func (s *PlaneOverlaySynchronizer) OnAnchorUpdated(node *scene.Node, anchor tracking.Anchor) {
	plane, ok := anchor.AsPlane()
	if !ok {
		return
	}
	overlay := node.FirstChild()
	if overlay == nil {
		core.LogDebug("anchor %s updated before its overlay existed", anchor.ID)
		return
	}
	geometry, ok := overlay.Geometry.(*scene.PlaneGeometry)
	if !ok {
		return
	}
	geometry.SetSize(plane.Extent.X, plane.Extent.Z)
	overlay.SetPosition(plane.Center)
}
