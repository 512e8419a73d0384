package animation

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meadow/internal/engine/scene"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func translationChannel(n *scene.Node, interp Interpolation) Channel {
	return Channel{
		Node:          n,
		Path:          Translation,
		Interpolation: interp,
		Times:         []float32{0, 1, 2},
		Values: []float32{
			0, 0, 0,
			2, 0, 0,
			2, 4, 0,
		},
	}
}

func TestSampleLinear(t *testing.T) {
	ch := translationChannel(nil, Linear)

	tests := []struct {
		name string
		t    float32
		want [3]float32
	}{
		{"before first key", -1, [3]float32{0, 0, 0}},
		{"first key", 0, [3]float32{0, 0, 0}},
		{"halfway", 0.5, [3]float32{1, 0, 0}},
		{"second key", 1, [3]float32{2, 0, 0}},
		{"second segment", 1.25, [3]float32{2, 1, 0}},
		{"after last key", 9, [3]float32{2, 4, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ch.Sample(tt.t)
			for i := 0; i < 3; i++ {
				if !approx(got[i], tt.want[i]) {
					t.Fatalf("Sample(%v) = %v, want %v", tt.t, got[:3], tt.want)
				}
			}
		})
	}
}

func TestSampleStep(t *testing.T) {
	ch := translationChannel(nil, Step)

	if got := ch.Sample(0.99); got[0] != 0 {
		t.Errorf("step before key = %v, want 0", got[0])
	}
	if got := ch.Sample(1); got[0] != 2 {
		t.Errorf("step at key = %v, want 2", got[0])
	}
	if got := ch.Sample(1.5); got[1] != 0 {
		t.Errorf("step mid segment y = %v, want 0", got[1])
	}
}

func TestSampleCubicSpline(t *testing.T) {
	// Zero tangents make the spline a smoothstep between values.
	ch := Channel{
		Path:          Translation,
		Interpolation: CubicSpline,
		Times:         []float32{0, 2},
		Values: []float32{
			0, 0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 4, 0, 0, 0, 0, 0,
		},
	}

	if got := ch.Sample(1); !approx(got[0], 2) {
		t.Errorf("midpoint = %v, want 2", got[0])
	}
	if got := ch.Sample(0.5); !approx(got[0], 4*(3*0.0625-2*0.015625)) {
		t.Errorf("quarter = %v", got[0])
	}
	if got := ch.Sample(2); got[0] != 4 {
		t.Errorf("end = %v, want 4", got[0])
	}

	// A constant out-tangent with no value change still bends the curve.
	ch.Values[6] = 1
	if got := ch.Sample(1); approx(got[0], 2) {
		t.Error("tangent had no effect")
	}
}

func TestSampleRotationSlerp(t *testing.T) {
	q0 := mgl32.QuatIdent()
	q1 := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0})
	ch := Channel{
		Path:  Rotation,
		Times: []float32{0, 1},
		Values: []float32{
			q0.V[0], q0.V[1], q0.V[2], q0.W,
			q1.V[0], q1.V[1], q1.V[2], q1.W,
		},
	}

	got := toQuat(ch.Sample(0.5))
	want := mgl32.QuatRotate(math.Pi/4, mgl32.Vec3{0, 1, 0})
	if !approx(got.Dot(want), 1) {
		t.Errorf("slerp midpoint = %v, want %v", got, want)
	}

	// Same rotation with the sign flipped must not spin the long way.
	neg := q1.Scale(-1)
	copy(ch.Values[4:], []float32{neg.V[0], neg.V[1], neg.V[2], neg.W})
	got = toQuat(ch.Sample(0.5))
	if d := got.Dot(want); !approx(float32(math.Abs(float64(d))), 1) {
		t.Errorf("slerp across hemispheres = %v, want ±%v", got, want)
	}
}

func TestClipApplyWritesNode(t *testing.T) {
	hip := scene.NewNode("hip")
	clip := NewClip("walk", []Channel{
		translationChannel(hip, Linear),
		{
			Node:  hip,
			Path:  Scale,
			Times: []float32{0, 3},
			Values: []float32{
				1, 1, 1,
				2, 2, 2,
			},
		},
	})

	if clip.Duration != 3 {
		t.Errorf("duration = %v, want 3", clip.Duration)
	}

	clip.Apply(1.5)
	if !approx(hip.Position.Y(), 2) {
		t.Errorf("position = %v", hip.Position)
	}
	if !approx(hip.Scale.X(), 1.5) {
		t.Errorf("scale = %v", hip.Scale)
	}
}

func TestMixerLoopRepeat(t *testing.T) {
	hip := scene.NewNode("hip")
	clip := NewClip("walk", []Channel{translationChannel(hip, Linear)})
	m := NewMixer()

	a := m.ClipAction(clip)
	if m.ClipAction(clip) != a {
		t.Fatal("ClipAction should return the same action for a clip")
	}
	a.Reset().Play()

	m.Update(2.5)
	if !approx(a.Time(), 0.5) {
		t.Errorf("looped time = %v, want 0.5", a.Time())
	}
	if !approx(hip.Position.X(), 1) {
		t.Errorf("position after wrap = %v", hip.Position)
	}
}

func TestMixerLoopOnceHoldsLastPose(t *testing.T) {
	hip := scene.NewNode("hip")
	clip := NewClip("attack", []Channel{translationChannel(hip, Linear)})
	m := NewMixer()

	a := m.ClipAction(clip)
	a.Loop = LoopOnce
	a.Play()

	m.Update(5)
	if a.Time() != 2 {
		t.Errorf("time = %v, want clamped to 2", a.Time())
	}
	if a.IsRunning() {
		t.Error("finished once-action still running")
	}
	if !approx(hip.Position.Y(), 4) {
		t.Errorf("position = %v, want last key", hip.Position)
	}

	a.Reset()
	if !a.IsRunning() || a.Time() != 0 {
		t.Error("Reset should rewind and resume")
	}
}

func TestMixerSkipsStoppedActions(t *testing.T) {
	hip := scene.NewNode("hip")
	idle := NewClip("idle", []Channel{translationChannel(hip, Linear)})
	m := NewMixer()

	a := m.ClipAction(idle).Play()
	m.Update(0.5)
	a.Stop()
	hip.Position = mgl32.Vec3{9, 9, 9}
	m.Update(0.5)

	if hip.Position != (mgl32.Vec3{9, 9, 9}) {
		t.Errorf("stopped action still posing: %v", hip.Position)
	}
	if a.Time() != 0 {
		t.Errorf("stopped time = %v, want 0", a.Time())
	}
	if !approx(m.Time(), 1) {
		t.Errorf("mixer time = %v, want 1", m.Time())
	}
}

func TestInterpolationString(t *testing.T) {
	for interp, want := range map[Interpolation]string{
		Linear:      "LINEAR",
		Step:        "STEP",
		CubicSpline: "CUBICSPLINE",
	} {
		if got := interp.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", interp, got, want)
		}
	}
}
