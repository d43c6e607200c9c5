// Package view binds the tracking session to the scene graph: every live
// anchor owns a container node under the scene root, kept in sync with the
// anchor, and the view answers screen space hit tests against those anchors.
package view

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/scene"
	"github.com/spaghettifunk/planar/engine/tracking"
)

// NodeEvent pairs an anchor with the container node the view created for it.
type NodeEvent struct {
	Node   *scene.Node
	Anchor tracking.Anchor
}

type ARView struct {
	session *tracking.Session
	scene   *scene.Scene
	camera  *Camera

	nodes map[uuid.UUID]*scene.Node
	subs  []core.Subscription

	nodeAdded   core.Signal[NodeEvent]
	nodeUpdated core.Signal[NodeEvent]
	nodeRemoved core.Signal[NodeEvent]
}

// NewARView subscribes to the session. Call Close to release it.
func NewARView(session *tracking.Session, width, height uint32) *ARView {
	v := &ARView{
		session: session,
		camera:  NewCamera(width, height),
		nodes:   make(map[uuid.UUID]*scene.Node),
	}
	v.subs = []core.Subscription{
		session.OnFrameUpdated(v.camera.SetPose),
		session.OnAnchorsAdded(v.onAnchorsAdded),
		session.OnAnchorsUpdated(v.onAnchorsUpdated),
		session.OnAnchorsRemoved(v.onAnchorsRemoved),
	}
	return v
}

func (v *ARView) Session() *tracking.Session {
	return v.session
}

func (v *ARView) Camera() *Camera {
	return v.camera
}

func (v *ARView) Scene() *scene.Scene {
	return v.scene
}

// SetScene presents s. Container nodes of live anchors move to the new root.
func (v *ARView) SetScene(s *scene.Scene) {
	v.scene = s
	if s == nil {
		return
	}
	for _, a := range v.session.Anchors() {
		if node, ok := v.nodes[a.ID]; ok {
			s.RootNode.AddChild(node)
		}
	}
}

func (v *ARView) Resize(width, height uint32) {
	v.camera.SetViewport(width, height)
}

// Node returns the container node bound to an anchor.
func (v *ARView) Node(anchorID uuid.UUID) (*scene.Node, bool) {
	n, ok := v.nodes[anchorID]
	return n, ok
}

func (v *ARView) OnNodeAdded(fn func(NodeEvent)) core.Subscription {
	return v.nodeAdded.Subscribe(fn)
}

func (v *ARView) OnNodeUpdated(fn func(NodeEvent)) core.Subscription {
	return v.nodeUpdated.Subscribe(fn)
}

func (v *ARView) OnNodeRemoved(fn func(NodeEvent)) core.Subscription {
	return v.nodeRemoved.Subscribe(fn)
}

func (v *ARView) Unsubscribe(sub core.Subscription) bool {
	return v.nodeAdded.Unsubscribe(sub) ||
		v.nodeUpdated.Unsubscribe(sub) ||
		v.nodeRemoved.Unsubscribe(sub)
}

// Close detaches the view from the session. Nodes stay in the scene.
func (v *ARView) Close() {
	for _, sub := range v.subs {
		v.session.Unsubscribe(sub)
	}
	v.subs = nil
}

func (v *ARView) onAnchorsAdded(anchors []tracking.Anchor) {
	for _, a := range anchors {
		node := scene.NewNode(fmt.Sprintf("anchor-%s", a.ID))
		node.SetTransform(a.Transform)
		v.nodes[a.ID] = node
		if v.scene != nil {
			v.scene.RootNode.AddChild(node)
		}
		v.nodeAdded.Emit(NodeEvent{Node: node, Anchor: a})
	}
}

func (v *ARView) onAnchorsUpdated(anchors []tracking.Anchor) {
	for _, a := range anchors {
		node, ok := v.nodes[a.ID]
		if !ok {
			core.LogDebug("no node bound to anchor %s", a.ID)
			continue
		}
		node.SetTransform(a.Transform)
		v.nodeUpdated.Emit(NodeEvent{Node: node, Anchor: a})
	}
}

func (v *ARView) onAnchorsRemoved(anchors []tracking.Anchor) {
	for _, a := range anchors {
		node, ok := v.nodes[a.ID]
		if !ok {
			continue
		}
		delete(v.nodes, a.ID)
		node.RemoveFromParent()
		v.nodeRemoved.Emit(NodeEvent{Node: node, Anchor: a})
	}
}
