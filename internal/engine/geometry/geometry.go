// Package geometry builds indexed triangle meshes for primitive shapes and
// holds vertex data decoded from model files.
package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is an indexed triangle list. UVs, Joints and Weights are
// optional and, when set, have one entry per position.
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
	Joints    [][4]uint16
	Weights   []mgl32.Vec4
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// Skinned reports whether the geometry carries joint influences.
func (g *Geometry) Skinned() bool {
	return len(g.Joints) == len(g.Positions) && len(g.Weights) == len(g.Positions) && len(g.Positions) > 0
}

// Textured reports whether the geometry carries texture coordinates.
func (g *Geometry) Textured() bool {
	return len(g.UVs) == len(g.Positions) && len(g.Positions) > 0
}

// Translate offsets every vertex in place and returns g for chaining.
func (g *Geometry) Translate(x, y, z float32) *Geometry {
	offset := mgl32.Vec3{x, y, z}
	for i := range g.Positions {
		g.Positions[i] = g.Positions[i].Add(offset)
	}
	return g
}

// Bounds returns the axis-aligned bounds of all vertices.
// An empty geometry returns zero vectors.
func (g *Geometry) Bounds() (min, max mgl32.Vec3) {
	if len(g.Positions) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	min, max = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		for a := 0; a < 3; a++ {
			if p[a] < min[a] {
				min[a] = p[a]
			}
			if p[a] > max[a] {
				max[a] = p[a]
			}
		}
	}
	return min, max
}

// ComputeNormals replaces normals with area-weighted face normals.
// Used for model meshes shipped without a NORMAL attribute.
func (g *Geometry) ComputeNormals() {
	g.Normals = make([]mgl32.Vec3, len(g.Positions))
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a, b, c := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		n := g.Positions[b].Sub(g.Positions[a]).Cross(g.Positions[c].Sub(g.Positions[a]))
		g.Normals[a] = g.Normals[a].Add(n)
		g.Normals[b] = g.Normals[b].Add(n)
		g.Normals[c] = g.Normals[c].Add(n)
	}
	for i, n := range g.Normals {
		if n.Len() > 1e-8 {
			g.Normals[i] = n.Normalize()
		} else {
			g.Normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
}
