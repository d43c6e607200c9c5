// Package scene holds the node tree that is rendered every frame.
package scene

type Scene struct {
	RootNode *Node
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{RootNode: NewNode("root")}
}

// NodeCount counts every node below the root.
func (s *Scene) NodeCount() int {
	count := -1
	s.RootNode.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}
