// Package animation samples keyframed clips onto scene nodes.
package animation

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meadow/internal/engine/scene"
)

// Interpolation selects how values between two keys are computed.
type Interpolation int

const (
	Linear Interpolation = iota
	Step
	CubicSpline
)

// String implements fmt.Stringer.
func (i Interpolation) String() string {
	switch i {
	case Step:
		return "STEP"
	case CubicSpline:
		return "CUBICSPLINE"
	default:
		return "LINEAR"
	}
}

// Path is the node property a channel drives.
type Path int

const (
	Translation Path = iota
	Rotation
	Scale
)

// Components returns the number of floats per value for the path.
func (p Path) Components() int {
	if p == Rotation {
		return 4
	}
	return 3
}

// Channel animates one property of one node. Values holds Components()
// floats per key, or three times that for CubicSpline (in-tangent, value,
// out-tangent).
type Channel struct {
	Node          *scene.Node
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Values        []float32
}

// Clip is a named set of channels played together.
type Clip struct {
	Name     string
	Duration float32
	Channels []Channel
}

// NewClip creates a clip whose duration is the last key time of any channel.
func NewClip(name string, channels []Channel) *Clip {
	c := &Clip{Name: name, Channels: channels}
	for _, ch := range channels {
		if n := len(ch.Times); n > 0 && ch.Times[n-1] > c.Duration {
			c.Duration = ch.Times[n-1]
		}
	}
	return c
}

// Apply samples every channel at time t and writes the result to its node.
func (c *Clip) Apply(t float32) {
	for i := range c.Channels {
		c.Channels[i].Apply(t)
	}
}

// Apply samples the channel at time t and writes the result to the node.
func (ch *Channel) Apply(t float32) {
	if ch.Node == nil || len(ch.Times) == 0 {
		return
	}
	v := ch.Sample(t)
	switch ch.Path {
	case Translation:
		ch.Node.Position = mgl32.Vec3{v[0], v[1], v[2]}
	case Rotation:
		ch.Node.Quaternion = mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}.Normalize()
	case Scale:
		ch.Node.Scale = mgl32.Vec3{v[0], v[1], v[2]}
	}
}

// Sample returns the interpolated value at time t. Times before the first
// key return the first value and times after the last key return the last.
func (ch *Channel) Sample(t float32) [4]float32 {
	n := ch.Path.Components()
	keys := len(ch.Times)

	if keys == 1 || t <= ch.Times[0] {
		return ch.value(0, n)
	}
	if t >= ch.Times[keys-1] {
		return ch.value(keys-1, n)
	}

	// First key strictly after t
	next := sort.Search(keys, func(i int) bool { return ch.Times[i] > t })
	prev := next - 1

	t0, t1 := ch.Times[prev], ch.Times[next]
	span := t1 - t0
	u := float32(0)
	if span > 0 {
		u = (t - t0) / span
	}

	switch ch.Interpolation {
	case Step:
		return ch.value(prev, n)
	case CubicSpline:
		return ch.cubic(prev, next, u, span, n)
	}

	a, b := ch.value(prev, n), ch.value(next, n)
	if ch.Path == Rotation {
		return slerp(a, b, u)
	}
	var out [4]float32
	for i := 0; i < n; i++ {
		out[i] = a[i] + (b[i]-a[i])*u
	}
	return out
}

// value returns key k's value, skipping tangents for cubic splines.
func (ch *Channel) value(k, n int) [4]float32 {
	var out [4]float32
	stride, offset := n, 0
	if ch.Interpolation == CubicSpline {
		stride, offset = 3*n, n
	}
	base := k*stride + offset
	if base+n > len(ch.Values) {
		return out
	}
	copy(out[:n], ch.Values[base:base+n])
	return out
}

// tangent returns the in (which=0) or out (which=2) tangent of key k.
func (ch *Channel) tangent(k, which, n int) [4]float32 {
	var out [4]float32
	base := k*3*n + which*n
	if base+n > len(ch.Values) {
		return out
	}
	copy(out[:n], ch.Values[base:base+n])
	return out
}

// cubic evaluates the Hermite spline between keys prev and next.
func (ch *Channel) cubic(prev, next int, u, span float32, n int) [4]float32 {
	v0 := ch.value(prev, n)
	b0 := ch.tangent(prev, 2, n)
	v1 := ch.value(next, n)
	a1 := ch.tangent(next, 0, n)

	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	var out [4]float32
	for i := 0; i < n; i++ {
		out[i] = h00*v0[i] + h10*span*b0[i] + h01*v1[i] + h11*span*a1[i]
	}
	if ch.Path == Rotation {
		q := toQuat(out).Normalize()
		out = fromQuat(q)
	}
	return out
}

func slerp(a, b [4]float32, u float32) [4]float32 {
	qa, qb := toQuat(a), toQuat(b)
	// Take the short way round.
	if qa.Dot(qb) < 0 {
		qb = qb.Scale(-1)
	}
	return fromQuat(mgl32.QuatSlerp(qa, qb, u))
}

func toQuat(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

func fromQuat(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}
