// Package renderer draws a scene graph with OpenGL: a shadow depth pass from
// the directional light, a lit pass and an optional screen-space overlay.
package renderer

import (
	"fmt"
	"image"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meadow/internal/engine/camera"
	"github.com/Faultbox/meadow/internal/engine/geometry"
	"github.com/Faultbox/meadow/internal/engine/renderer/shaders"
	"github.com/Faultbox/meadow/internal/engine/scene"
	"github.com/Faultbox/meadow/internal/engine/shader"
	"github.com/Faultbox/meadow/internal/engine/shader/glsl"
	"github.com/Faultbox/meadow/internal/engine/shadow"
	"github.com/Faultbox/meadow/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width   int
	Height  int
	Shadows bool
	// ShadowMapSize overrides the light's own map size when positive.
	ShadowMapSize int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	width, height int
	shadows       bool

	lit          *shader.Program
	litSkinned   *shader.Program
	depth        *shader.Program
	depthSkinned *shader.Program

	overlayProgram *shader.Program
	overlay        *overlayQuad

	shadowMap *shadow.Map

	meshes   map[*geometry.Geometry]*gpuMesh
	textures map[*image.NRGBA]*gpuTexture
	frame    uint64

	draws  []scene.Draw
	joints []mgl32.Mat4

	log *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		width:   cfg.Width,
		height:  cfg.Height,
		shadows: cfg.Shadows,
		meshes:   make(map[*geometry.Geometry]*gpuMesh),
		textures: make(map[*image.NRGBA]*gpuTexture),
		log:     logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	if err := r.compilePrograms(); err != nil {
		r.Close()
		return nil, err
	}

	if r.shadows {
		sm, err := shadow.New(cfg.ShadowMapSize)
		if err != nil {
			r.log.Warn("shadows disabled", zap.Error(err))
			r.shadows = false
		} else {
			r.shadowMap = sm
		}
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.FRAMEBUFFER_SRGB)
	gl.Enable(gl.MULTISAMPLE)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

func (r *Renderer) compilePrograms() error {
	skinned := []string{"SKINNED", "MAX_JOINTS " + strconv.Itoa(scene.MaxJoints)}

	var err error
	build := func(name, vert, frag string, defines ...string) *shader.Program {
		if err != nil {
			return nil
		}
		var p *shader.Program
		p, err = shader.New(glsl.WithDefines(vert, defines...), frag)
		if err != nil {
			err = fmt.Errorf("%s program: %w", name, err)
		}
		return p
	}

	r.lit = build("lit", shaders.LitVertexShader, shaders.LitFragmentShader)
	r.litSkinned = build("lit skinned", shaders.LitVertexShader, shaders.LitFragmentShader, skinned...)
	r.depth = build("depth", shaders.DepthVertexShader, shaders.DepthFragmentShader)
	r.depthSkinned = build("depth skinned", shaders.DepthVertexShader, shaders.DepthFragmentShader, skinned...)
	r.overlayProgram = build("overlay", shaders.OverlayVertexShader, shaders.OverlayFragmentShader)
	return err
}

// SetSize changes the viewport.
func (r *Renderer) SetSize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Render draws one frame of s seen through cam.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Perspective) {
	r.frame++
	r.draws = s.DrawList(r.draws)

	castShadows := r.shadows && s.Light != nil && s.Light.CastShadow && r.shadowMap.IsValid()
	var lightVP mgl32.Mat4
	if castShadows {
		lightVP = s.Light.ViewProjection()
		r.shadowPass(lightVP)
	}

	bg := linear(s.Background)
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	r.litPass(s, cam.ViewProjection(), lightVP, castShadows)
	r.drawOverlay()

	if r.frame%evictAfter == 0 {
		r.evictMeshes()
	}
}

func (r *Renderer) shadowPass(lightVP mgl32.Mat4) {
	r.shadowMap.Bind()
	for _, p := range []*shader.Program{r.depth, r.depthSkinned} {
		p.Use()
		p.SetMat4("uLightViewProj", lightVP)
	}

	for _, d := range r.draws {
		if !d.Node.CastShadow {
			continue
		}
		p := r.depth
		if d.Skinned() {
			p = r.depthSkinned
		}
		p.Use()
		r.setTransform(p, d)
		r.meshFor(d.Node.Mesh.Geometry).draw()
	}

	gl.BindVertexArray(0)
	r.shadowMap.Unbind()
}

func (r *Renderer) litPass(s *scene.Scene, viewProj, lightVP mgl32.Mat4, castShadows bool) {
	lightDir := mgl32.Vec3{0, 1, 0}
	var radiance mgl32.Vec3
	var bias float32
	if s.Light != nil {
		lightDir = s.Light.Direction()
		radiance = s.Light.Radiance()
		bias = s.Light.Shadow.Bias
	}

	for _, p := range []*shader.Program{r.lit, r.litSkinned} {
		p.Use()
		p.SetMat4("uViewProj", viewProj)
		p.SetMat4("uLightViewProj", lightVP)
		p.SetVec3("uAmbient", s.Ambient.Radiance())
		p.SetVec3("uLightDir", lightDir)
		p.SetVec3("uLightRadiance", radiance)
		p.SetBool("uShadowsEnabled", castShadows)
		p.SetFloat("uShadowBias", bias)
		p.SetInt("uShadowMap", 1)
		p.SetInt("uBaseColorMap", 0)
	}
	if castShadows {
		r.shadowMap.BindTexture(gl.TEXTURE1)
	}

	for _, d := range r.draws {
		p := r.lit
		if d.Skinned() {
			p = r.litSkinned
		}
		p.Use()
		r.setTransform(p, d)

		m := d.Node.Mesh.Material
		if m == nil {
			m = defaultMaterial
		}
		p.SetVec3("uColor", m.Color)
		p.SetVec3("uEmissive", m.Emissive)
		p.SetBool("uUnlit", m.Unlit)
		p.SetBool("uReceiveShadow", d.Node.ReceiveShadow)

		g := d.Node.Mesh.Geometry
		textured := m.BaseColorMap != nil && g.Textured()
		p.SetBool("uHasBaseColorMap", textured)
		if textured {
			r.textureFor(m.BaseColorMap).bind(gl.TEXTURE0)
		}

		r.meshFor(g).draw()
	}

	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

var defaultMaterial = scene.NewMaterial(0xffffff)

// setTransform uploads the model matrix or, for skinned draws, the joint
// palette.
func (r *Renderer) setTransform(p *shader.Program, d scene.Draw) {
	if d.Skinned() {
		r.joints = d.Node.Skin.JointMatrices(r.joints)
		if len(r.joints) > scene.MaxJoints {
			r.joints = r.joints[:scene.MaxJoints]
		}
		p.SetMat4Array("uJoints", r.joints)
		return
	}
	p.SetMat4("uModel", d.World)
	p.SetMat3("uNormalMatrix", d.World.Mat3().Inv().Transpose())
}

// linear converts an sRGB colour to linear light for the sRGB framebuffer.
func linear(c mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{math32.Pow(c[0], 2.2), math32.Pow(c[1], 2.2), math32.Pow(c[2], 2.2)}
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for g, m := range r.meshes {
		m.destroy()
		delete(r.meshes, g)
	}
	for img, t := range r.textures {
		t.destroy()
		delete(r.textures, img)
	}
	r.overlay.destroy()
	r.overlay = nil
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
	for _, p := range []*shader.Program{r.lit, r.litSkinned, r.depth, r.depthSkinned, r.overlayProgram} {
		if p != nil {
			p.Delete()
		}
	}
}
