package scene

import (
	"github.com/spaghettifunk/planar/engine/core"
	"github.com/spaghettifunk/planar/engine/math"
)

// Node is an element of the scene graph: a transform relative to its parent,
// an optional geometry and any number of children.
type Node struct {
	ID       uint32
	Name     string
	Geometry Geometry

	transform *math.Transform
	parent    *Node
	children  []*Node
}

func NewNode(name string) *Node {
	return &Node{
		ID:        core.IdentifierAquireNewID(),
		Name:      name,
		transform: math.TransformCreate(),
	}
}

func NewNodeWithGeometry(name string, geometry Geometry) *Node {
	n := NewNode(name)
	n.Geometry = geometry
	return n
}

func (n *Node) Position() math.Vec3 {
	return n.transform.Position
}

func (n *Node) SetPosition(position math.Vec3) {
	n.transform.SetPosition(position)
}

func (n *Node) Rotation() math.Quaternion {
	return n.transform.Rotation
}

func (n *Node) SetRotation(rotation math.Quaternion) {
	n.transform.SetRotation(rotation)
}

// SetEulerAngles sets the rotation from pitch (x), yaw (y) and roll (z) in
// radians, applied in x, y, z order.
func (n *Node) SetEulerAngles(euler math.Vec3) {
	n.transform.SetRotation(math.NewQuatFromEuler(euler))
}

func (n *Node) Scale() math.Vec3 {
	return n.transform.Scale
}

func (n *Node) SetScale(scale math.Vec3) {
	n.transform.SetScale(scale)
}

// SetTransform replaces position and rotation from a rigid matrix.
func (n *Node) SetTransform(mt math.Mat4) {
	t := math.TransformFromMat4(mt)
	n.transform.SetPositionRotationScale(t.Position, t.Rotation, n.transform.Scale)
}

func (n *Node) LocalTransform() math.Mat4 {
	return n.transform.GetLocal()
}

func (n *Node) WorldTransform() math.Mat4 {
	return n.transform.GetWorld()
}

func (n *Node) WorldPosition() math.Vec3 {
	return n.WorldTransform().Translation()
}

func (n *Node) Parent() *Node {
	return n.parent
}

// AddChild reparents child under n.
func (n *Node) AddChild(child *Node) {
	if child == nil || child == n {
		return
	}
	child.RemoveFromParent()
	child.parent = n
	child.transform.Parent = n.transform
	n.children = append(n.children, child)
}

func (n *Node) RemoveFromParent() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
	n.transform.Parent = nil
}

// ChildNodes returns a copy of the direct children, in insertion order.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func (n *Node) ChildCount() int {
	return len(n.children)
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}
