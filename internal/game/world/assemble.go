package world

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meadow/internal/engine/geometry"
	"github.com/Faultbox/meadow/internal/engine/lighting"
	"github.com/Faultbox/meadow/internal/engine/scene"
)

// Scene colours.
const (
	skyColor     = 0x87ceeb
	grassColor   = 0x88cc88
	wallColor    = 0xbb7744
	roofColor    = 0x884422
	doorColor    = 0x553311
	trunkColor   = 0x8b4513
	foliageColor = 0x228833
	sunColor     = 0xffdd33
	cloudColor   = 0xffffff
)

// Cloud drift bounds along X.
const (
	cloudStartX = -8
	cloudEndX   = 8
)

// Props holds the nodes the frame loop and interaction layer touch after
// assembly.
type Props struct {
	Ground      *scene.Node
	House       *scene.Node
	Door        *scene.Node
	Trees       [2]*scene.Node
	Sun         *scene.Node
	Cloud       *scene.Node
	LightHelper *scene.Node
}

// Assemble builds the static meadow: lights, ground, house, trees, sun and
// cloud. shadowMapSize <= 0 keeps the default map size.
func Assemble(shadowMapSize int32) (*scene.Scene, *Props) {
	s := scene.New()
	s.Background = scene.Hex(skyColor)
	s.Ambient = lighting.Ambient{Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.4}

	light := lighting.NewDirectional(mgl32.Vec3{1, 1, 1}, 1)
	if shadowMapSize > 0 {
		light.Shadow.MapSize = shadowMapSize
	}
	s.Light = light

	p := &Props{}

	p.Ground = scene.NewMesh("ground", geometry.Plane(20, 20), scene.NewMaterial(grassColor))
	p.Ground.Rotation[0] = -math32.Pi / 2
	p.Ground.ReceiveShadow = true
	s.Add(p.Ground)

	p.House, p.Door = buildHouse()
	s.Add(p.House)

	p.Trees[0] = buildTree()
	p.Trees[0].SetPosition(3, 0, 2)
	p.Trees[1] = p.Trees[0].Clone()
	p.Trees[1].Name = "tree2"
	p.Trees[1].SetPosition(-3, 0, 2)
	s.Add(p.Trees[0], p.Trees[1])

	p.Sun = scene.NewMesh("sun", geometry.Sphere(0.5, 32, 32), scene.NewEmissiveMaterial(sunColor))
	p.Sun.SetPosition(5, 5, 0)
	s.Add(p.Sun)
	light.Position = p.Sun.Position

	p.Cloud = scene.NewMesh("cloud", geometry.Box(2, 0.5, 1), scene.NewMaterial(cloudColor))
	p.Cloud.SetPosition(cloudStartX, 3, 0)
	p.Cloud.CastShadow = true
	s.Add(p.Cloud)

	p.LightHelper = buildLightHelper()
	p.LightHelper.Position = light.Position
	s.Add(p.LightHelper)

	return s, p
}

// buildHouse returns the house group and its door. The door geometry is
// shifted so the node origin sits on the hinge edge.
func buildHouse() (house, door *scene.Node) {
	house = scene.NewNode("house")

	body := scene.NewMesh("walls", geometry.Box(2, 1.5, 2), scene.NewMaterial(wallColor))
	body.SetPosition(0, 0.75, 0)
	body.CastShadow = true
	body.ReceiveShadow = true

	roof := scene.NewMesh("roof", geometry.Cone(1.6, 1, 4), scene.NewMaterial(roofColor))
	roof.SetPosition(0, 2, 0)
	roof.Rotation[1] = math32.Pi / 4
	roof.CastShadow = true

	door = scene.NewMesh("door", geometry.Box(0.6, 1, 0.1).Translate(0.3, 0, 0), scene.NewMaterial(doorColor))
	door.SetPosition(-0.3, 0.5, 1.01)
	door.CastShadow = true

	house.Add(body, roof, door)
	house.SetPosition(0, 0, -3)
	return house, door
}

func buildTree() *scene.Node {
	trunk := scene.NewMesh("trunk", geometry.Cylinder(0.2, 0.2, 1.5, 8), scene.NewMaterial(trunkColor))
	trunk.SetPosition(0, 0.75, 0)
	trunk.CastShadow = true

	foliage := scene.NewMesh("foliage", geometry.Sphere(1, 16, 16), scene.NewMaterial(foliageColor))
	foliage.SetPosition(0, 2, 0)
	foliage.CastShadow = true

	tree := scene.NewNode("tree")
	tree.Add(trunk, foliage)
	return tree
}

// buildLightHelper returns a small unlit marker drawn where the sun light is.
func buildLightHelper() *scene.Node {
	mat := scene.NewMaterial(0xffffff)
	mat.Unlit = true
	helper := scene.NewMesh("light-helper", geometry.Box(0.25, 0.25, 0.25), mat)
	helper.Rotation = mgl32.Vec3{math32.Pi / 4, math32.Pi / 4, 0}
	return helper
}
