package loader

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/meadow/internal/engine/animation"
	"github.com/Faultbox/meadow/internal/engine/geometry"
	"github.com/Faultbox/meadow/internal/engine/scene"
	"github.com/Faultbox/meadow/internal/logger"
)

var (
	// ErrNoScene is returned for documents without any node to show.
	ErrNoScene = errors.New("gltf: document has no scene")
	// ErrUnsupportedAccessor is returned when an accessor has an
	// unexpected element type.
	ErrUnsupportedAccessor = errors.New("gltf: unsupported accessor")
)

// Model is a converted glTF scene ready to be added to the scene graph.
type Model struct {
	Root  *scene.Node
	Nodes []*scene.Node // By glTF node index
	Clips []*animation.Clip
}

// ClipNames returns the clip names in document order.
func (m *Model) ClipNames() []string {
	names := make([]string, len(m.Clips))
	for i, c := range m.Clips {
		names[i] = c.Name
	}
	return names
}

// converter carries per-document state while building a Model.
type converter struct {
	doc       *gltf.Document
	fetch     FetchFunc
	nodes     []*scene.Node
	materials []*scene.Material
	skins     []*scene.Skin
	images    map[int]*image.NRGBA
	log       *zap.Logger
}

// Convert builds a Model from a parsed document. The document's default
// scene is used, falling back to the first scene, then to all parentless
// nodes. Images referenced by external URI are skipped.
func Convert(doc *gltf.Document, name string) (*Model, error) {
	return ConvertWith(doc, name, nil)
}

// ConvertWith is Convert with fetch resolving external image URIs.
func ConvertWith(doc *gltf.Document, name string, fetch FetchFunc) (*Model, error) {
	if doc == nil || len(doc.Nodes) == 0 {
		return nil, ErrNoScene
	}

	c := &converter{
		doc:    doc,
		fetch:  fetch,
		images: make(map[int]*image.NRGBA),
		log:    logger.Named("loader"),
	}
	c.buildMaterials()

	c.nodes = make([]*scene.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		c.nodes[i] = newNode(n, i)
	}
	for i, n := range doc.Nodes {
		for _, child := range n.Children {
			if child < 0 || child >= len(c.nodes) || child == i {
				return nil, fmt.Errorf("node %d: invalid child %d", i, child)
			}
			c.nodes[i].Add(c.nodes[child])
		}
	}

	if err := c.buildSkins(); err != nil {
		return nil, err
	}
	for i, n := range doc.Nodes {
		if n.Mesh == nil {
			continue
		}
		if err := c.attachMesh(c.nodes[i], n); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}

	root := scene.NewNode(name)
	roots, err := c.sceneRoots()
	if err != nil {
		return nil, err
	}
	for _, r := range roots {
		root.Add(c.nodes[r])
	}

	clips, err := c.buildClips()
	if err != nil {
		return nil, err
	}

	return &Model{Root: root, Nodes: c.nodes, Clips: clips}, nil
}

func (c *converter) sceneRoots() ([]int, error) {
	doc := c.doc
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil {
			idx = *doc.Scene
		}
		if idx < 0 || idx >= len(doc.Scenes) {
			return nil, fmt.Errorf("scene %d: %w", idx, ErrNoScene)
		}
		if len(doc.Scenes[idx].Nodes) == 0 {
			return nil, ErrNoScene
		}
		for _, n := range doc.Scenes[idx].Nodes {
			if n < 0 || n >= len(c.nodes) {
				return nil, fmt.Errorf("scene %d: invalid node %d", idx, n)
			}
		}
		return doc.Scenes[idx].Nodes, nil
	}

	var roots []int
	for i, n := range c.nodes {
		if n.Parent() == nil {
			roots = append(roots, i)
		}
	}
	if len(roots) == 0 {
		return nil, ErrNoScene
	}
	return roots, nil
}

func newNode(n *gltf.Node, index int) *scene.Node {
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", index)
	}
	node := scene.NewNode(name)

	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var mat mgl32.Mat4
		for i := range m {
			mat[i] = float32(m[i])
		}
		node.Position, node.Quaternion, node.Scale = decompose(mat)
		return node
	}

	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	node.Position = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
	node.Quaternion = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}.Normalize()
	node.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
	return node
}

// decompose splits an affine matrix without shear into TRS.
func decompose(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	pos := m.Col(3).Vec3()
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Mat3().Det() < 0 {
		sx = -sx
	}
	if sx == 0 || sy == 0 || sz == 0 {
		return pos, mgl32.QuatIdent(), mgl32.Vec3{sx, sy, sz}
	}
	rot := mgl32.Mat4FromCols(
		m.Col(0).Mul(1/sx),
		m.Col(1).Mul(1/sy),
		m.Col(2).Mul(1/sz),
		mgl32.Vec4{0, 0, 0, 1},
	)
	return pos, mgl32.Mat4ToQuat(rot).Normalize(), mgl32.Vec3{sx, sy, sz}
}

func (c *converter) buildMaterials() {
	c.materials = make([]*scene.Material, len(c.doc.Materials))
	for i, m := range c.doc.Materials {
		mat := &scene.Material{Color: mgl32.Vec3{1, 1, 1}}
		if pbr := m.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
			f := pbr.BaseColorFactor
			mat.Color = mgl32.Vec3{float32(f[0]), float32(f[1]), float32(f[2])}
		}
		e := m.EmissiveFactor
		mat.Emissive = mgl32.Vec3{float32(e[0]), float32(e[1]), float32(e[2])}

		// A broken texture costs the texture, not the model.
		img, err := c.baseColorMap(m)
		if err != nil {
			c.log.Warn("base colour texture skipped",
				zap.Int("material", i),
				zap.String("name", m.Name),
				zap.Error(err))
		}
		mat.BaseColorMap = img
		c.materials[i] = mat
	}
}

func (c *converter) buildSkins() error {
	c.skins = make([]*scene.Skin, len(c.doc.Skins))
	for i, s := range c.doc.Skins {
		skin := &scene.Skin{Joints: make([]*scene.Node, len(s.Joints))}
		for j, idx := range s.Joints {
			if idx < 0 || idx >= len(c.nodes) {
				return fmt.Errorf("skin %d: invalid joint %d", i, idx)
			}
			skin.Joints[j] = c.nodes[idx]
		}
		if s.InverseBindMatrices != nil {
			floats, err := c.readFloats(*s.InverseBindMatrices)
			if err != nil {
				return fmt.Errorf("skin %d inverse bind matrices: %w", i, err)
			}
			for j := 0; j+16 <= len(floats); j += 16 {
				var m mgl32.Mat4
				copy(m[:], floats[j:j+16])
				skin.InverseBind = append(skin.InverseBind, m)
			}
		}
		if len(skin.Joints) > scene.MaxJoints {
			return fmt.Errorf("skin %d: %d joints exceeds %d", i, len(skin.Joints), scene.MaxJoints)
		}
		c.skins[i] = skin
	}
	return nil
}

// attachMesh converts each primitive of the node's mesh. A single primitive
// is put on the node itself; several become child nodes.
func (c *converter) attachMesh(node *scene.Node, n *gltf.Node) error {
	if *n.Mesh < 0 || *n.Mesh >= len(c.doc.Meshes) {
		return fmt.Errorf("invalid mesh %d", *n.Mesh)
	}
	var skin *scene.Skin
	if n.Skin != nil {
		if *n.Skin < 0 || *n.Skin >= len(c.skins) {
			return fmt.Errorf("invalid skin %d", *n.Skin)
		}
		skin = c.skins[*n.Skin]
	}

	gm := c.doc.Meshes[*n.Mesh]
	for pi, p := range gm.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		g, err := c.readPrimitive(p)
		if err != nil {
			return fmt.Errorf("mesh %q primitive %d: %w", gm.Name, pi, err)
		}
		mat := &scene.Material{Color: mgl32.Vec3{1, 1, 1}}
		if p.Material != nil && *p.Material >= 0 && *p.Material < len(c.materials) {
			mat = c.materials[*p.Material]
		}

		target := node
		if len(gm.Primitives) > 1 {
			target = scene.NewNode(fmt.Sprintf("%s_%d", node.Name, pi))
			node.Add(target)
		}
		target.Mesh = &scene.Mesh{Geometry: g, Material: mat}
		target.Skin = skin
		target.CastShadow = true
		target.ReceiveShadow = true
	}
	return nil
}

func (c *converter) readPrimitive(p *gltf.Primitive) (*geometry.Geometry, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("missing POSITION: %w", ErrUnsupportedAccessor)
	}
	acr, err := c.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(c.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	g := &geometry.Geometry{Positions: make([]mgl32.Vec3, len(positions))}
	for i, v := range positions {
		g.Positions[i] = mgl32.Vec3(v)
	}

	if p.Indices != nil {
		acr, err := c.accessor(*p.Indices)
		if err != nil {
			return nil, err
		}
		g.Indices, err = modeler.ReadIndices(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		g.Indices = make([]uint32, len(positions))
		for i := range g.Indices {
			g.Indices[i] = uint32(i)
		}
	}

	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		acr, err := c.accessor(idx)
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		g.Normals = make([]mgl32.Vec3, len(normals))
		for i, v := range normals {
			g.Normals[i] = mgl32.Vec3(v)
		}
	} else {
		g.ComputeNormals()
	}

	if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := c.accessor(idx)
		if err != nil {
			return nil, err
		}
		uvs, err := modeler.ReadTextureCoord(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading texture coordinates: %w", err)
		}
		g.UVs = make([]mgl32.Vec2, len(uvs))
		for i, v := range uvs {
			g.UVs[i] = mgl32.Vec2(v)
		}
	}

	jIdx, hasJoints := p.Attributes[gltf.JOINTS_0]
	wIdx, hasWeights := p.Attributes[gltf.WEIGHTS_0]
	if hasJoints && hasWeights {
		jAcr, err := c.accessor(jIdx)
		if err != nil {
			return nil, err
		}
		wAcr, err := c.accessor(wIdx)
		if err != nil {
			return nil, err
		}
		g.Joints, err = modeler.ReadJoints(c.doc, jAcr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading joints: %w", err)
		}
		weights, err := modeler.ReadWeights(c.doc, wAcr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading weights: %w", err)
		}
		g.Weights = make([]mgl32.Vec4, len(weights))
		for i, w := range weights {
			g.Weights[i] = mgl32.Vec4(w)
		}
	}

	return g, nil
}

func (c *converter) buildClips() ([]*animation.Clip, error) {
	clips := make([]*animation.Clip, 0, len(c.doc.Animations))
	for ai, a := range c.doc.Animations {
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("animation_%d", ai)
		}

		var channels []animation.Channel
		for ci, ch := range a.Channels {
			if ch.Target.Node == nil || ch.Target.Path == gltf.TRSWeights {
				continue
			}
			if ch.Sampler < 0 || ch.Sampler >= len(a.Samplers) {
				return nil, fmt.Errorf("animation %q channel %d: invalid sampler", name, ci)
			}
			node := *ch.Target.Node
			if node < 0 || node >= len(c.nodes) {
				return nil, fmt.Errorf("animation %q channel %d: invalid node %d", name, ci, node)
			}
			s := a.Samplers[ch.Sampler]

			times, err := c.readFloats(s.Input)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d input: %w", name, ci, err)
			}
			values, err := c.readFloats(s.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d output: %w", name, ci, err)
			}

			channels = append(channels, animation.Channel{
				Node:          c.nodes[node],
				Path:          convertPath(ch.Target.Path),
				Interpolation: convertInterpolation(s.Interpolation),
				Times:         times,
				Values:        values,
			})
		}
		clips = append(clips, animation.NewClip(name, channels))
	}
	return clips, nil
}

func convertPath(p gltf.TRSProperty) animation.Path {
	switch p {
	case gltf.TRSRotation:
		return animation.Rotation
	case gltf.TRSScale:
		return animation.Scale
	default:
		return animation.Translation
	}
}

func convertInterpolation(i gltf.Interpolation) animation.Interpolation {
	switch i {
	case gltf.InterpolationStep:
		return animation.Step
	case gltf.InterpolationCubicSpline:
		return animation.CubicSpline
	default:
		return animation.Linear
	}
}

// readFloats reads a float accessor of any element type as a flat slice.
func (c *converter) readFloats(index int) ([]float32, error) {
	acr, err := c.accessor(index)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(c.doc, acr, nil)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []float32:
		return v, nil
	case [][3]float32:
		out := make([]float32, 0, len(v)*3)
		for _, e := range v {
			out = append(out, e[:]...)
		}
		return out, nil
	case [][4]float32:
		out := make([]float32, 0, len(v)*4)
		for _, e := range v {
			out = append(out, e[:]...)
		}
		return out, nil
	case [][4][4]float32:
		out := make([]float32, 0, len(v)*16)
		for _, m := range v {
			for col := 0; col < 4; col++ {
				out = append(out, m[col][:]...)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("accessor %d (%T): %w", index, data, ErrUnsupportedAccessor)
}

func (c *converter) accessor(index int) (*gltf.Accessor, error) {
	if index < 0 || index >= len(c.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", index, ErrUnsupportedAccessor)
	}
	return c.doc.Accessors[index], nil
}
