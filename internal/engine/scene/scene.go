package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meadow/internal/engine/lighting"
)

// Scene is the root of the scene graph plus global lighting.
type Scene struct {
	Root       *Node
	Background mgl32.Vec3
	Ambient    lighting.Ambient
	Light      *lighting.Directional
}

// New creates an empty scene with a black background and no lights.
func New() *Scene {
	return &Scene{
		Root: NewNode("scene"),
	}
}

// Add attaches nodes to the scene root.
func (s *Scene) Add(nodes ...*Node) {
	s.Root.Add(nodes...)
}

// Remove detaches a node from the scene root.
func (s *Scene) Remove(n *Node) {
	s.Root.Remove(n)
}

// Contains reports whether n is attached somewhere under the root.
func (s *Scene) Contains(n *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == s.Root {
			return true
		}
	}
	return false
}
