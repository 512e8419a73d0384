package picking

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meadow/internal/engine/geometry"
	"github.com/Faultbox/meadow/internal/engine/scene"
)

const (
	viewW = 1280
	viewH = 720
)

func viewProj() mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(75), viewW/float32(viewH), 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{6, 5, 8}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

// toScreen projects a world point to pixel coordinates.
func toScreen(vp mgl32.Mat4, p mgl32.Vec3) (float32, float32) {
	clip := vp.Mul4x1(p.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	return (ndc.X() + 1) / 2 * viewW, (1 - ndc.Y()) / 2 * viewH
}

func newDoor() (house, door *scene.Node) {
	house = scene.NewNode("house")
	house.SetPosition(0, 0, -3)
	door = scene.NewMesh("door", geometry.Box(0.6, 1, 0.1).Translate(0.3, 0, 0), scene.NewMaterial(0x553311))
	door.SetPosition(-0.3, 0.5, 1.01)
	house.Add(door)
	return house, door
}

func TestNDC(t *testing.T) {
	tests := []struct {
		name   string
		px, py float32
		want   mgl32.Vec2
	}{
		{"top left", 0, 0, mgl32.Vec2{-1, 1}},
		{"centre", 640, 360, mgl32.Vec2{0, 0}},
		{"bottom right", 1280, 720, mgl32.Vec2{1, -1}},
		{"quarter", 320, 540, mgl32.Vec2{-0.5, -0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NDC(tt.px, tt.py, viewW, viewH)
			if !near(got.Vec3(0), tt.want.Vec3(0), 1e-6) {
				t.Errorf("NDC(%v, %v) = %v, want %v", tt.px, tt.py, got, tt.want)
			}
		})
	}
}

func TestFromCameraCentreRay(t *testing.T) {
	vp := viewProj()
	r := FromCamera(mgl32.Vec2{0, 0}, vp.Inv())

	want := mgl32.Vec3{-6, -5, -8}.Normalize()
	if !near(r.Direction, want, 1e-3) {
		t.Errorf("centre ray direction = %v, want %v", r.Direction, want)
	}
	if math.Abs(float64(r.Direction.Len())-1) > 1e-5 {
		t.Errorf("direction not normalized: %v", r.Direction.Len())
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{-1, -1, -1})

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"front", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}}, true, 4},
		{"inside", Ray{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}}, true, 1},
		{"behind", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}}, false, 0},
		{"parallel outside", Ray{mgl32.Vec3{0, 2, 5}, mgl32.Vec3{0, 0, -1}}, false, 0},
		{"miss", Ray{mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(box)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && math.Abs(float64(got-tt.wantT)) > 1e-5 {
				t.Errorf("t = %v, want %v", got, tt.wantT)
			}
		})
	}
}

func TestIntersectNodeClosedDoor(t *testing.T) {
	_, door := newDoor()
	vp := viewProj()

	px, py := toScreen(vp, mgl32.Vec3{0, 0.5, -1.99})
	hit, ok := IntersectNode(ScreenToRay(px, py, viewW, viewH, vp.Inv()), door)
	if !ok {
		t.Fatal("click on door centre missed")
	}
	if hit.Node != door {
		t.Error("hit reports the wrong node")
	}
	if !near(hit.Point, mgl32.Vec3{0, 0.5, -1.94}, 0.05) {
		t.Errorf("hit point = %v, want near the door's front face", hit.Point)
	}

	// Open sky above the house
	px, py = toScreen(vp, mgl32.Vec3{0, 4, -3})
	if _, ok := IntersectNode(ScreenToRay(px, py, viewW, viewH, vp.Inv()), door); ok {
		t.Error("click above the house hit the door")
	}
}

func TestIntersectNodeOpenDoor(t *testing.T) {
	_, door := newDoor()
	door.Rotation[1] = -math.Pi / 2
	vp := viewProj()

	// The open door swings out along +Z from its hinge.
	px, py := toScreen(vp, mgl32.Vec3{-0.3, 0.5, -1.69})
	if _, ok := IntersectNode(ScreenToRay(px, py, viewW, viewH, vp.Inv()), door); !ok {
		t.Error("click on the open door missed")
	}

	px, py = toScreen(vp, mgl32.Vec3{0.25, 0.5, -1.99})
	if _, ok := IntersectNode(ScreenToRay(px, py, viewW, viewH, vp.Inv()), door); ok {
		t.Error("click where the closed door used to be hit the open door")
	}
}

func TestIntersectNodeIgnoresGroups(t *testing.T) {
	house, _ := newDoor()
	r := Ray{Origin: mgl32.Vec3{0, 0.5, 10}, Direction: mgl32.Vec3{0, 0, -1}}
	if _, ok := IntersectNode(r, house); ok {
		t.Error("group node without a mesh should never hit")
	}
	if _, ok := IntersectNode(r, nil); ok {
		t.Error("nil node should never hit")
	}
}

func TestIntersectNodesClosest(t *testing.T) {
	near := scene.NewMesh("near", geometry.Box(1, 1, 1), scene.NewMaterial(0xffffff))
	near.SetPosition(0, 0, 2)
	far := scene.NewMesh("far", geometry.Box(1, 1, 1), scene.NewMaterial(0xffffff))

	r := Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}}
	hit, ok := IntersectNodes(r, far, near)
	if !ok || hit.Node != near {
		t.Fatalf("closest hit = %v, want near", hit.Node)
	}
	if math.Abs(float64(hit.Distance-7.5)) > 1e-4 {
		t.Errorf("distance = %v, want 7.5", hit.Distance)
	}
}

// near reports whether a and b differ by at most tol on every axis.
func near(a, b mgl32.Vec3, tol float32) bool {
	for i := range a {
		if d := a[i] - b[i]; d > tol || d < -tol {
			return false
		}
	}
	return true
}
