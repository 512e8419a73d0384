package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meadow/internal/engine/geometry"
)

func TestNodeHierarchyWorldMatrix(t *testing.T) {
	house := NewNode("house")
	house.SetPosition(0, 0, -3)

	door := NewMesh("door", geometry.Box(0.6, 1, 0.1), NewMaterial(0x553311))
	door.SetPosition(-0.3, 0.5, 1.01)
	house.Add(door)

	got := door.WorldPosition()
	want := mgl32.Vec3{-0.3, 0.5, -1.99}
	if !near(got, want, 1e-5) {
		t.Errorf("door world position = %v, want %v", got, want)
	}
	if door.Parent() != house {
		t.Error("door parent should be house")
	}
}

func TestEulerRotationY(t *testing.T) {
	n := NewNode("door")
	n.Rotation[1] = -math.Pi / 2

	// Local +X swings to +Z when rotating -90° about Y
	p := n.LocalMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	if !near(p, mgl32.Vec3{0, 0, 1}, 1e-5) {
		t.Errorf("rotated point = %v, want (0,0,1)", p)
	}
}

func TestScaleAppliesLast(t *testing.T) {
	n := NewNode("knight")
	n.SetScale(0.4, 0.4, 0.4)
	n.SetPosition(1, 0, 0)

	p := n.LocalMatrix().Mul4x1(mgl32.Vec4{1, 1, 1, 1}).Vec3()
	if !near(p, mgl32.Vec3{1.4, 0.4, 0.4}, 1e-5) {
		t.Errorf("scaled point = %v", p)
	}
}

func TestAddReparents(t *testing.T) {
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	a.Add(c)
	b.Add(c)

	if len(a.Children()) != 0 {
		t.Errorf("a should have lost its child, has %d", len(a.Children()))
	}
	if c.Parent() != b {
		t.Error("c should now belong to b")
	}

	a.Add(a, nil)
	if len(a.Children()) != 0 {
		t.Error("self and nil children must be ignored")
	}
}

func TestCloneSharesMeshes(t *testing.T) {
	tree := NewNode("tree")
	trunk := NewMesh("trunk", geometry.Cylinder(0.2, 0.2, 1.5, 8), NewMaterial(0x8b4513))
	foliage := NewMesh("foliage", geometry.Sphere(1, 16, 16), NewMaterial(0x228833))
	tree.Add(trunk, foliage)
	tree.SetPosition(3, 0, 2)

	clone := tree.Clone()
	clone.SetPosition(-3, 0, 2)

	if tree.Position[0] != 3 {
		t.Error("moving the clone must not move the original")
	}
	if len(clone.Children()) != 2 {
		t.Fatalf("clone children = %d, want 2", len(clone.Children()))
	}
	if clone.Children()[0] == trunk {
		t.Error("clone children must be new nodes")
	}
	if clone.Children()[0].Mesh != trunk.Mesh {
		t.Error("clone should share mesh data")
	}
	if clone.Children()[0].Parent() != clone {
		t.Error("cloned child parent should be the clone")
	}
}

func TestWalkSkipsInvisible(t *testing.T) {
	s := New()
	visible := NewNode("visible")
	hidden := NewNode("hidden")
	hidden.Visible = false
	hidden.Add(NewNode("under-hidden"))
	s.Add(visible, hidden)

	var names []string
	s.Root.Walk(func(n *Node, _ mgl32.Mat4) {
		names = append(names, n.Name)
	})

	want := []string{"scene", "visible"}
	if len(names) != len(want) {
		t.Fatalf("walked %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("walk[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestSceneContains(t *testing.T) {
	s := New()
	group := NewNode("group")
	child := NewNode("child")
	group.Add(child)

	if s.Contains(child) {
		t.Error("detached node reported as contained")
	}
	s.Add(group)
	if !s.Contains(child) {
		t.Error("nested node should be contained")
	}
	s.Remove(group)
	if s.Contains(child) {
		t.Error("removed subtree still contained")
	}
}

func TestFindByName(t *testing.T) {
	root := NewNode("root")
	arm := NewNode("arm")
	hand := NewNode("hand")
	arm.Add(hand)
	root.Add(arm)

	if root.FindByName("hand") != hand {
		t.Error("expected to find hand")
	}
	if root.FindByName("leg") != nil {
		t.Error("expected nil for missing node")
	}
}

func TestSkinJointMatrices(t *testing.T) {
	joint := NewNode("hip")
	joint.SetPosition(0, 2, 0)

	skin := &Skin{
		Joints:      []*Node{joint},
		InverseBind: []mgl32.Mat4{mgl32.Translate3D(0, -1, 0)},
	}

	mats := skin.JointMatrices(nil)
	if len(mats) != 1 {
		t.Fatalf("got %d joint matrices", len(mats))
	}
	p := mats[0].Mul4x1(mgl32.Vec4{0, 1, 0, 1}).Vec3()
	if !near(p, mgl32.Vec3{0, 2, 0}, 1e-5) {
		t.Errorf("bind-pose vertex moved to %v, want (0,2,0)", p)
	}
}

func TestHex(t *testing.T) {
	c := Hex(0x87ceeb)
	want := mgl32.Vec3{0x87 / 255.0, 0xce / 255.0, 0xeb / 255.0}
	if !near(c, want, 1e-6) {
		t.Errorf("Hex(0x87ceeb) = %v, want %v", c, want)
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

func TestDrawList(t *testing.T) {
	s := New()
	house := NewNode("house")
	house.SetPosition(0, 0, -3)
	walls := NewMesh("walls", geometry.Box(2, 1.5, 2), NewMaterial(0xbb7744))
	hidden := NewMesh("hidden", geometry.Box(1, 1, 1), NewMaterial(0xffffff))
	hidden.Visible = false
	empty := NewMesh("empty", &geometry.Geometry{}, NewMaterial(0xffffff))
	house.Add(walls, hidden, empty)
	s.Add(house)

	skinnedGeo := geometry.Box(1, 1, 1)
	skinnedGeo.Joints = make([][4]uint16, skinnedGeo.VertexCount())
	skinnedGeo.Weights = make([]mgl32.Vec4, skinnedGeo.VertexCount())
	body := NewMesh("body", skinnedGeo, NewMaterial(0xffffff))
	body.Skin = &Skin{Joints: []*Node{house}}
	s.Add(body)

	draws := s.DrawList(nil)
	if len(draws) != 2 {
		t.Fatalf("draw list has %d entries, want 2", len(draws))
	}
	if draws[0].Node != walls || draws[1].Node != body {
		t.Errorf("draw order = %s, %s", draws[0].Node.Name, draws[1].Node.Name)
	}
	if got := draws[0].World.Col(3).Vec3(); !near(got, mgl32.Vec3{0, 0, -3}, 1e-6) {
		t.Errorf("walls world origin = %v", got)
	}
	if draws[0].Skinned() || !draws[1].Skinned() {
		t.Error("skinned flags wrong")
	}

	// The destination slice is reused.
	again := s.DrawList(draws)
	if len(again) != 2 || &again[0] != &draws[0] {
		t.Error("DrawList should reuse dst")
	}
}
