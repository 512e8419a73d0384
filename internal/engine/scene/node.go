// Package scene provides the scene graph: positioned nodes carrying meshes,
// grouped under a single root that owns lighting and background settings.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meadow/internal/engine/geometry"
)

// Mesh pairs vertex data with a surface material. Meshes are shared between
// cloned nodes.
type Mesh struct {
	Geometry *geometry.Geometry
	Material *Material
}

// Node is a transform in the scene graph. The local transform is
// Translate(Position) * Quaternion * Euler(Rotation, XYZ order) * Scale(Scale).
// Loaded models drive Quaternion; hand-built objects use Rotation so single
// axes can be tweened.
type Node struct {
	Name string

	Position   mgl32.Vec3
	Rotation   mgl32.Vec3
	Quaternion mgl32.Quat
	Scale      mgl32.Vec3

	Visible       bool
	CastShadow    bool
	ReceiveShadow bool

	Mesh *Mesh
	Skin *Skin

	parent   *Node
	children []*Node
}

// NewNode creates an empty group node with identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:       name,
		Quaternion: mgl32.QuatIdent(),
		Scale:      mgl32.Vec3{1, 1, 1},
		Visible:    true,
	}
}

// NewMesh creates a node that draws g with m.
func NewMesh(name string, g *geometry.Geometry, m *Material) *Node {
	n := NewNode(name)
	n.Mesh = &Mesh{Geometry: g, Material: m}
	return n
}

// Add attaches children, detaching each from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches child if it is a direct child of n.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// SetPosition sets the local position.
func (n *Node) SetPosition(x, y, z float32) {
	n.Position = mgl32.Vec3{x, y, z}
}

// SetScale sets the local scale.
func (n *Node) SetScale(x, y, z float32) {
	n.Scale = mgl32.Vec3{x, y, z}
}

// LocalMatrix returns the node transform relative to its parent.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	m := mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	m = m.Mul4(n.Quaternion.Mat4())
	if n.Rotation != (mgl32.Vec3{}) {
		m = m.Mul4(mgl32.HomogRotate3DX(n.Rotation[0]))
		m = m.Mul4(mgl32.HomogRotate3DY(n.Rotation[1]))
		m = m.Mul4(mgl32.HomogRotate3DZ(n.Rotation[2]))
	}
	return m.Mul4(mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
}

// WorldMatrix returns the node transform in scene space.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	if n.parent == nil {
		return n.LocalMatrix()
	}
	return n.parent.WorldMatrix().Mul4(n.LocalMatrix())
}

// WorldPosition returns the node origin in scene space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// Traverse calls fn for n and every descendant, depth first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Walk visits visible nodes depth first with their world matrices already
// accumulated. Invisible nodes and their subtrees are skipped.
func (n *Node) Walk(fn func(node *Node, world mgl32.Mat4)) {
	n.walk(mgl32.Ident4(), fn)
}

func (n *Node) walk(parentWorld mgl32.Mat4, fn func(*Node, mgl32.Mat4)) {
	if !n.Visible {
		return
	}
	world := parentWorld.Mul4(n.LocalMatrix())
	fn(n, world)
	for _, c := range n.children {
		c.walk(world, fn)
	}
}

// FindByName returns the first node in the subtree with the given name.
func (n *Node) FindByName(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// Clone deep-copies the subtree. Meshes are shared; skins are not rebound
// to the cloned joints.
func (n *Node) Clone() *Node {
	c := *n
	c.parent = nil
	c.children = nil
	for _, child := range n.children {
		c.Add(child.Clone())
	}
	return &c
}
