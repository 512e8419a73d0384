package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitControls rotates, zooms and pans a Perspective camera around its
// target using spherical coordinates.
type OrbitControls struct {
	Camera *Perspective

	// Spherical coordinates relative to Camera.Target
	Distance float32
	Pitch    float32 // Elevation above the XZ plane, radians
	Yaw      float32 // Rotation around Y, radians; 0 looks down -Z

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	RotateSpeed float32
	ZoomSpeed   float32
	PanSpeed    float32

	// Damping eases pending motion out over several Update calls.
	EnableDamping bool
	DampingFactor float32

	deltaYaw   float32
	deltaPitch float32
	zoomScale  float32
	panOffset  mgl32.Vec3
}

const (
	dragRadiansPerPixel = 0.005
	zoomStep            = 0.1
	panUnitsPerPixel    = 0.0015
)

// NewOrbitControls derives the spherical state from the camera's current
// position and target.
func NewOrbitControls(cam *Perspective) *OrbitControls {
	c := &OrbitControls{
		Camera:        cam,
		MinDistance:   0,
		MaxDistance:   math32.Inf(1),
		MinPitch:      -math32.Pi/2 + 0.01,
		MaxPitch:      math32.Pi/2 - 0.01,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		DampingFactor: 0.05,
		zoomScale:     1,
	}
	c.Sync()
	return c
}

// Sync re-reads the spherical state from the camera.
func (c *OrbitControls) Sync() {
	offset := c.Camera.Position.Sub(c.Camera.Target)
	c.Distance = offset.Len()
	if c.Distance == 0 {
		c.Pitch, c.Yaw = 0, 0
		return
	}
	c.Pitch = math32.Asin(mgl32.Clamp(offset.Y()/c.Distance, -1, 1))
	c.Yaw = math32.Atan2(offset.X(), offset.Z())
}

// HandleDrag queues a rotation for a pointer drag of dx, dy pixels.
func (c *OrbitControls) HandleDrag(dx, dy float32) {
	c.deltaYaw -= dx * dragRadiansPerPixel * c.RotateSpeed
	c.deltaPitch += dy * dragRadiansPerPixel * c.RotateSpeed
}

// HandleZoom queues a dolly for wheel delta; positive zooms in.
func (c *OrbitControls) HandleZoom(delta float32) {
	c.zoomScale *= 1 - delta*zoomStep*c.ZoomSpeed
	if c.zoomScale < 0.01 {
		c.zoomScale = 0.01
	}
}

// Pan queues a translation of the target in the camera's screen plane.
func (c *OrbitControls) Pan(dx, dy float32) {
	yaw := c.Yaw
	right := mgl32.Vec3{math32.Cos(yaw), 0, -math32.Sin(yaw)}
	up := c.Camera.Up
	scale := c.Distance * panUnitsPerPixel * c.PanSpeed
	c.panOffset = c.panOffset.
		Add(right.Mul(-dx * scale)).
		Add(up.Mul(dy * scale))
}

// Update applies queued motion and repositions the camera. With damping
// enabled only a fraction of the pending motion is applied per call.
func (c *OrbitControls) Update() {
	f := float32(1)
	if c.EnableDamping {
		f = c.DampingFactor
	}

	c.Yaw += c.deltaYaw * f
	c.Pitch = mgl32.Clamp(c.Pitch+c.deltaPitch*f, c.MinPitch, c.MaxPitch)
	c.Distance *= 1 + (c.zoomScale-1)*f
	c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
	c.Camera.Target = c.Camera.Target.Add(c.panOffset.Mul(f))

	if c.EnableDamping {
		c.deltaYaw *= 1 - f
		c.deltaPitch *= 1 - f
		c.panOffset = c.panOffset.Mul(1 - f)
		c.zoomScale = 1 + (c.zoomScale-1)*(1-f)
	} else {
		c.deltaYaw, c.deltaPitch = 0, 0
		c.panOffset = mgl32.Vec3{}
		c.zoomScale = 1
	}

	c.Camera.Position = c.Camera.Target.Add(c.offset())
}

func (c *OrbitControls) offset() mgl32.Vec3 {
	cp := math32.Cos(c.Pitch)
	return mgl32.Vec3{
		c.Distance * cp * math32.Sin(c.Yaw),
		c.Distance * math32.Sin(c.Pitch),
		c.Distance * cp * math32.Cos(c.Yaw),
	}
}
