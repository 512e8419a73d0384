package loader

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// checkerPNG encodes a 2x2 image with red on the top row and blue below.
func checkerPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, red)
	img.SetNRGBA(1, 0, red)
	img.SetNRGBA(0, 1, blue)
	img.SetNRGBA(1, 1, blue)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// texturedDocument builds a textured quad whose material samples image.
func texturedDocument(t *testing.T, img *gltf.Image, data []byte) *gltf.Document {
	t.Helper()
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})

	if img == nil {
		if _, err := modeler.WriteImage(doc, "checker", "image/png", bytes.NewReader(data)); err != nil {
			t.Fatalf("WriteImage: %v", err)
		}
	} else {
		doc.Images = append(doc.Images, img)
	}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}}
	doc.Materials = []*gltf.Material{{
		Name: "cloth",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float64{1, 0.5, 1, 1},
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:  gltf.Index(idx),
			Material: gltf.Index(0),
			Attributes: map[string]int{
				gltf.POSITION:   pos,
				gltf.TEXCOORD_0: uv,
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "Quad", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []int{0}
	return doc
}

func quadMesh(t *testing.T, m *Model) (*image.NRGBA, int) {
	t.Helper()
	mesh := m.Nodes[0].Mesh
	if mesh == nil {
		t.Fatal("quad has no mesh")
	}
	return mesh.Material.BaseColorMap, len(mesh.Geometry.UVs)
}

func TestConvertEmbeddedTexture(t *testing.T) {
	m, err := Convert(texturedDocument(t, nil, checkerPNG(t)), "quad")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	tex, uvs := quadMesh(t, m)
	if uvs != 4 {
		t.Errorf("uvs = %d, want 4", uvs)
	}
	if got := m.Nodes[0].Mesh.Geometry.UVs[0]; got != (mgl32.Vec2{0, 1}) {
		t.Errorf("first uv = %v", got)
	}
	if tex == nil {
		t.Fatal("base colour texture not decoded")
	}
	if tex.Rect.Dx() != 2 || tex.Rect.Dy() != 2 {
		t.Errorf("texture size = %v", tex.Rect)
	}
	if tex.NRGBAAt(0, 0) != red || tex.NRGBAAt(1, 1) != blue {
		t.Errorf("texels = %v %v", tex.NRGBAAt(0, 0), tex.NRGBAAt(1, 1))
	}
	if c := m.Nodes[0].Mesh.Material.Color; c != (mgl32.Vec3{1, 0.5, 1}) {
		t.Errorf("colour factor = %v, want kept beside the texture", c)
	}
}

func TestConvertTextureSources(t *testing.T) {
	data := checkerPNG(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "checker.png"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	fetch := func(uri string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, uri))
	}

	tests := []struct {
		name   string
		image  *gltf.Image
		fetch  FetchFunc
		loaded bool
	}{
		{"external uri", &gltf.Image{URI: "checker.png"}, fetch, true},
		{"external uri without fetch", &gltf.Image{URI: "checker.png"}, nil, false},
		{"missing file", &gltf.Image{URI: "absent.png"}, fetch, false},
		{"no data", &gltf.Image{}, fetch, false},
		{"invalid buffer view", &gltf.Image{BufferView: gltf.Index(42)}, fetch, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ConvertWith(texturedDocument(t, tt.image, nil), "quad", tt.fetch)
			if err != nil {
				t.Fatalf("ConvertWith: %v", err)
			}
			tex, uvs := quadMesh(t, m)
			if (tex != nil) != tt.loaded {
				t.Errorf("texture loaded = %v, want %v", tex != nil, tt.loaded)
			}
			if uvs != 4 {
				t.Errorf("uvs = %d, want 4 even without a texture", uvs)
			}
		})
	}
}

func TestConvertCorruptTexture(t *testing.T) {
	m, err := Convert(texturedDocument(t, nil, []byte("not an image")), "quad")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if tex, _ := quadMesh(t, m); tex != nil {
		t.Error("corrupt image should leave the material untextured")
	}
}

func TestConvertSharedImageDecodedOnce(t *testing.T) {
	doc := texturedDocument(t, nil, checkerPNG(t))
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(0)})
	doc.Materials = append(doc.Materials, &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorTexture: &gltf.TextureInfo{Index: 1}},
	})

	c := &converter{doc: doc, images: make(map[int]*image.NRGBA), log: zap.NewNop()}
	c.buildMaterials()
	if c.materials[0].BaseColorMap == nil || c.materials[0].BaseColorMap != c.materials[1].BaseColorMap {
		t.Error("materials sharing an image should share the decoded texture")
	}
}

func TestFitTexture(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		limit        int
		wantW, wantH int
	}{
		{"fits", 8, 4, 16, 8, 4},
		{"wide", 64, 16, 16, 16, 4},
		{"tall", 8, 64, 16, 2, 16},
		{"sliver", 1000, 1, 10, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(3, 5, 3+tt.w, 5+tt.h))
			for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
				for x := src.Rect.Min.X; x < src.Rect.Max.X; x++ {
					src.SetNRGBA(x, y, red)
				}
			}

			got := fitTexture(src, tt.limit)
			if got.Rect != image.Rect(0, 0, tt.wantW, tt.wantH) {
				t.Fatalf("rect = %v, want %dx%d at origin", got.Rect, tt.wantW, tt.wantH)
			}
			if c := got.NRGBAAt(0, 0); c != red {
				t.Errorf("texel = %v, want %v", c, red)
			}
		})
	}
}

func TestLoadTexturedModel(t *testing.T) {
	dir := t.TempDir()
	data := checkerPNG(t)
	if err := os.MkdirAll(filepath.Join(dir, "textures"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "textures", "checker.png"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		doc  *gltf.Document
	}{
		{"embedded", texturedDocument(t, nil, data)},
		{"beside the model", texturedDocument(t, &gltf.Image{URI: "textures/checker.png"}, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "quad.glb")
			if err := gltf.SaveBinary(tt.doc, path); err != nil {
				t.Fatalf("SaveBinary: %v", err)
			}
			m, err := New(nil).Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if tex, _ := quadMesh(t, m); tex == nil || tex.NRGBAAt(0, 1) != blue {
				t.Error("texture not loaded from the model file")
			}
		})
	}
}
