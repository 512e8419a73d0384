// Package lighting provides light descriptions and the sun's orbital motion.
package lighting

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SunOrbit moves a body on a horizontal circle around the scene origin.
type SunOrbit struct {
	Radius float32 // Circle radius on the XZ plane
	Height float32 // Constant Y
	Speed  float32 // Radians per second
}

// Phase returns the orbit angle after elapsed seconds, wrapped to [0, 2π).
// The wrap happens in float64 before narrowing, so a long-running session
// keeps full float32 precision in the trig calls.
func (o SunOrbit) Phase(elapsed float64) float32 {
	phase := math.Mod(elapsed*float64(o.Speed), 2*math.Pi)
	if phase < 0 {
		phase += 2 * math.Pi
	}
	return float32(phase)
}

// Position returns the orbiting body's position after elapsed seconds.
func (o SunOrbit) Position(elapsed float64) mgl32.Vec3 {
	phi := o.Phase(elapsed)
	return mgl32.Vec3{
		math32.Cos(phi) * o.Radius,
		o.Height,
		math32.Sin(phi) * o.Radius,
	}
}
