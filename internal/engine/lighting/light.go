package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Ambient is a uniform light that reaches every surface equally.
type Ambient struct {
	Color     mgl32.Vec3
	Intensity float32
}

// Radiance returns the colour scaled by intensity.
func (a Ambient) Radiance() mgl32.Vec3 {
	return a.Color.Mul(a.Intensity)
}

// ShadowCamera describes the orthographic volume a directional light renders
// its depth map from.
type ShadowCamera struct {
	MapSize                  int32
	Left, Right, Bottom, Top float32
	Near, Far                float32
	Bias                     float32
}

// DefaultShadowCamera returns a 2048² map covering ±10 units from 0.5 to 50.
func DefaultShadowCamera() ShadowCamera {
	return ShadowCamera{
		MapSize: 2048,
		Left:    -10, Right: 10,
		Bottom: -10, Top: 10,
		Near: 0.5, Far: 50,
		Bias: 0.0015,
	}
}

// Directional is a light shining from Position towards Target with parallel
// rays, like sunlight.
type Directional struct {
	Color      mgl32.Vec3
	Intensity  float32
	Position   mgl32.Vec3
	Target     mgl32.Vec3
	CastShadow bool
	Shadow     ShadowCamera
}

// NewDirectional creates a white shadow-casting light aimed at the origin.
func NewDirectional(color mgl32.Vec3, intensity float32) *Directional {
	return &Directional{
		Color:      color,
		Intensity:  intensity,
		Position:   mgl32.Vec3{0, 1, 0},
		CastShadow: true,
		Shadow:     DefaultShadowCamera(),
	}
}

// Direction returns the normalized vector pointing from the surface towards
// the light. A light sitting on its target points straight down.
func (d *Directional) Direction() mgl32.Vec3 {
	dir := d.Position.Sub(d.Target)
	if dir.Len() < 1e-6 {
		return mgl32.Vec3{0, 1, 0}
	}
	return dir.Normalize()
}

// Radiance returns the colour scaled by intensity.
func (d *Directional) Radiance() mgl32.Vec3 {
	return d.Color.Mul(d.Intensity)
}

// View returns the light's look-at matrix.
func (d *Directional) View() mgl32.Mat4 {
	up := mgl32.Vec3{0, 1, 0}
	// Straight overhead the Y axis is parallel to the view direction.
	if math32.Abs(d.Direction().Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	eye, center := d.Position, d.Target
	if eye.Sub(center).Len() < 1e-6 {
		eye = center.Add(mgl32.Vec3{0, 1, 0})
	}
	return mgl32.LookAtV(eye, center, up)
}

// Projection returns the orthographic shadow projection.
func (d *Directional) Projection() mgl32.Mat4 {
	s := d.Shadow
	return mgl32.Ortho(s.Left, s.Right, s.Bottom, s.Top, s.Near, s.Far)
}

// ViewProjection maps world positions into the light's clip space for the
// shadow depth pass.
func (d *Directional) ViewProjection() mgl32.Mat4 {
	return d.Projection().Mul4(d.View())
}
