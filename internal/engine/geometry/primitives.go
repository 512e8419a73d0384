package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// boxFaces lists each face's outward normal and its in-plane axes, ordered so
// that u × v = normal and the quad winds counter-clockwise from outside.
var boxFaces = [6][3]mgl32.Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// Box builds a box centred on the origin with flat per-face normals.
func Box(width, height, depth float32) *Geometry {
	half := mgl32.Vec3{width / 2, height / 2, depth / 2}
	extent := func(axis mgl32.Vec3) float32 {
		return math32.Abs(axis[0])*half[0] + math32.Abs(axis[1])*half[1] + math32.Abs(axis[2])*half[2]
	}

	g := &Geometry{
		Positions: make([]mgl32.Vec3, 0, 24),
		Normals:   make([]mgl32.Vec3, 0, 24),
		Indices:   make([]uint32, 0, 36),
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	for _, face := range boxFaces {
		n, u, v := face[0], face[1], face[2]
		center := n.Mul(extent(n))
		hu, hv := extent(u), extent(v)

		base := uint32(len(g.Positions))
		for _, c := range corners {
			p := center.Add(u.Mul(c[0] * hu)).Add(v.Mul(c[1] * hv))
			g.Positions = append(g.Positions, p)
			g.Normals = append(g.Normals, n)
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}

// Plane builds a width x height quad in the XY plane facing +Z.
func Plane(width, height float32) *Geometry {
	hw, hh := width/2, height/2
	n := mgl32.Vec3{0, 0, 1}
	return &Geometry{
		Positions: []mgl32.Vec3{{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0}},
		Normals:   []mgl32.Vec3{n, n, n, n},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Sphere builds a UV sphere. Pole rows are kept so the vertex grid stays
// regular; their degenerate triangles are skipped.
func Sphere(radius float32, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	g := &Geometry{}
	grid := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			sinV := math32.Sin(v * math32.Pi)
			p := mgl32.Vec3{
				-radius * math32.Cos(u*2*math32.Pi) * sinV,
				radius * math32.Cos(v*math32.Pi),
				radius * math32.Sin(u*2*math32.Pi) * sinV,
			}
			row[ix] = uint32(len(g.Positions))
			g.Positions = append(g.Positions, p)
			g.Normals = append(g.Normals, safeNormalize(p, mgl32.Vec3{0, 1, 0}))
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// Cylinder builds a closed cylinder (or frustum) along Y centred on the
// origin. A zero radius collapses that end into a point and drops its cap.
func Cylinder(radiusTop, radiusBottom, height float32, radialSegments int) *Geometry {
	if radialSegments < 3 {
		radialSegments = 3
	}

	g := &Geometry{}
	halfHeight := height / 2
	slope := (radiusBottom - radiusTop) / height

	// Torso: row 0 is the top ring, row 1 the bottom ring.
	var rows [2][]uint32
	for y := 0; y < 2; y++ {
		radius := float32(y)*(radiusBottom-radiusTop) + radiusTop
		rows[y] = make([]uint32, radialSegments+1)
		for x := 0; x <= radialSegments; x++ {
			theta := float32(x) / float32(radialSegments) * 2 * math32.Pi
			sin, cos := math32.Sin(theta), math32.Cos(theta)
			rows[y][x] = uint32(len(g.Positions))
			g.Positions = append(g.Positions, mgl32.Vec3{radius * sin, -float32(y)*height + halfHeight, radius * cos})
			g.Normals = append(g.Normals, mgl32.Vec3{sin, slope, cos}.Normalize())
		}
	}
	for x := 0; x < radialSegments; x++ {
		a, b, c, d := rows[0][x], rows[1][x], rows[1][x+1], rows[0][x+1]
		if radiusTop > 0 {
			g.Indices = append(g.Indices, a, b, d)
		}
		if radiusBottom > 0 {
			g.Indices = append(g.Indices, b, c, d)
		}
	}

	if radiusTop > 0 {
		g.addCap(radiusTop, halfHeight, radialSegments, true)
	}
	if radiusBottom > 0 {
		g.addCap(radiusBottom, halfHeight, radialSegments, false)
	}
	return g
}

// Cone builds a cone with its apex at +height/2.
func Cone(radius, height float32, radialSegments int) *Geometry {
	return Cylinder(0, radius, height, radialSegments)
}

func (g *Geometry) addCap(radius, halfHeight float32, segments int, top bool) {
	sign := float32(-1)
	if top {
		sign = 1
	}
	n := mgl32.Vec3{0, sign, 0}

	centerStart := uint32(len(g.Positions))
	for x := 0; x < segments; x++ {
		g.Positions = append(g.Positions, mgl32.Vec3{0, halfHeight * sign, 0})
		g.Normals = append(g.Normals, n)
	}

	ringStart := uint32(len(g.Positions))
	for x := 0; x <= segments; x++ {
		theta := float32(x) / float32(segments) * 2 * math32.Pi
		g.Positions = append(g.Positions, mgl32.Vec3{radius * math32.Sin(theta), halfHeight * sign, radius * math32.Cos(theta)})
		g.Normals = append(g.Normals, n)
	}

	for x := uint32(0); x < uint32(segments); x++ {
		c, i := centerStart+x, ringStart+x
		if top {
			g.Indices = append(g.Indices, i, i+1, c)
		} else {
			g.Indices = append(g.Indices, i+1, i, c)
		}
	}
}

func safeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < 1e-6 {
		return fallback
	}
	return v.Normalize()
}
