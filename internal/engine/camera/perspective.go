// Package camera provides the perspective camera and orbit controls.
package camera

import "github.com/go-gl/mathgl/mgl32"

// Perspective is a pinhole camera looking from Position at Target.
type Perspective struct {
	FOV    float32 // Vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	projection mgl32.Mat4
}

// NewPerspective creates a camera at the origin looking down -Z.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	c := &Perspective{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: mgl32.Vec3{0, 0, -1},
		Up:     mgl32.Vec3{0, 1, 0},
	}
	c.UpdateProjection()
	return c
}

// SetAspect changes the aspect ratio. Call UpdateProjection afterwards.
func (c *Perspective) SetAspect(aspect float32) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// UpdateProjection recomputes the cached projection matrix.
func (c *Perspective) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// LookAt points the camera at target.
func (c *Perspective) LookAt(target mgl32.Vec3) {
	c.Target = target
}

// View returns the world-to-camera matrix.
func (c *Perspective) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the cached projection matrix.
func (c *Perspective) Projection() mgl32.Mat4 {
	return c.projection
}

// ViewProjection returns Projection * View.
func (c *Perspective) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.View())
}
