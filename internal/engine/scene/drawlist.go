package scene

import "github.com/go-gl/mathgl/mgl32"

// Draw is one visible mesh instance with its accumulated world matrix.
type Draw struct {
	Node  *Node
	World mgl32.Mat4
}

// Skinned reports whether the draw goes through the joint palette. Its
// world matrix is then ignored.
func (d Draw) Skinned() bool {
	return d.Node.Skin != nil && d.Node.Mesh.Geometry.Skinned()
}

// DrawList appends every visible mesh node under the root to dst in
// depth-first order.
func (s *Scene) DrawList(dst []Draw) []Draw {
	dst = dst[:0]
	s.Root.Walk(func(n *Node, world mgl32.Mat4) {
		if n.Mesh == nil || n.Mesh.Geometry == nil || len(n.Mesh.Geometry.Indices) == 0 {
			return
		}
		dst = append(dst, Draw{Node: n, World: world})
	})
	return dst
}
