// Package picking provides ray casting and object picking utilities.
package picking

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meadow/internal/engine/scene"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform maps the ray by m. The direction is re-normalized, so distances
// returned by later intersections are in the transformed space.
func (r Ray) Transform(m mgl32.Mat4) Ray {
	o := m.Mul4x1(r.Origin.Vec4(1))
	if o.W() != 0 && o.W() != 1 {
		o = o.Mul(1 / o.W())
	}
	d := m.Mul4x1(r.Direction.Vec4(0)).Vec3()
	if d.Len() > 0 {
		d = d.Normalize()
	}
	return Ray{Origin: o.Vec3(), Direction: d}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB builds a box from two corners in any order.
func NewAABB(a, b mgl32.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	for i := 0; i < 3; i++ {
		if box.Min[i] > box.Max[i] {
			box.Min[i], box.Max[i] = box.Max[i], box.Min[i]
		}
	}
	return box
}

// NDC converts pixel coordinates to normalized device coordinates with Y up.
func NDC(px, py, width, height float32) mgl32.Vec2 {
	return mgl32.Vec2{
		px/width*2 - 1,
		-(py/height)*2 + 1,
	}
}

// FromCamera unprojects an NDC point on the near and far planes through
// invViewProj and returns the ray between them.
func FromCamera(ndc mgl32.Vec2, invViewProj mgl32.Mat4) Ray {
	near := unproject(mgl32.Vec4{ndc.X(), ndc.Y(), -1, 1}, invViewProj)
	far := unproject(mgl32.Vec4{ndc.X(), ndc.Y(), 1, 1}, invViewProj)

	dir := far.Sub(near)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near, Direction: dir}
}

// ScreenToRay is NDC followed by FromCamera.
func ScreenToRay(px, py, width, height float32, invViewProj mgl32.Mat4) Ray {
	return FromCamera(NDC(px, py, width, height), invViewProj)
}

func unproject(p mgl32.Vec4, inv mgl32.Mat4) mgl32.Vec3 {
	w := inv.Mul4x1(p)
	if w.W() != 0 {
		return w.Vec3().Mul(1 / w.W())
	}
	return w.Vec3()
}

// IntersectAABB runs the slab test. It returns the entry distance, or the
// exit distance when the ray starts inside the box.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for i := 0; i < 3; i++ {
		if r.Direction[i] == 0 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[i] - r.Origin[i]) / r.Direction[i]
		t2 := (box.Max[i] - r.Origin[i]) / r.Direction[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Hit describes a ray hitting a node.
type Hit struct {
	Node     *scene.Node
	Distance float32 // World-space distance from the ray origin
	Point    mgl32.Vec3
}

// IntersectNode tests the ray against the local bounds of n's geometry.
// The ray is moved into the node's local space, so rotated or scaled nodes
// are tested against their true oriented box. Nodes without a mesh never hit.
func IntersectNode(r Ray, n *scene.Node) (Hit, bool) {
	if n == nil || n.Mesh == nil || n.Mesh.Geometry == nil || !n.Visible {
		return Hit{}, false
	}
	world := n.WorldMatrix()
	if world.Det() == 0 {
		return Hit{}, false
	}

	local := r.Transform(world.Inv())
	lo, hi := n.Mesh.Geometry.Bounds()
	t, ok := local.IntersectAABB(NewAABB(lo, hi))
	if !ok {
		return Hit{}, false
	}

	point := world.Mul4x1(local.At(t).Vec4(1)).Vec3()
	return Hit{
		Node:     n,
		Distance: point.Sub(r.Origin).Len(),
		Point:    point,
	}, true
}

// IntersectNodes returns the closest hit among nodes.
func IntersectNodes(r Ray, nodes ...*scene.Node) (Hit, bool) {
	var best Hit
	found := false
	for _, n := range nodes {
		h, ok := IntersectNode(r, n)
		if ok && (!found || h.Distance < best.Distance) {
			best, found = h, true
		}
	}
	return best, found
}
