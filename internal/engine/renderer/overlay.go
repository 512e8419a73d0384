package renderer

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meadow/internal/engine/overlay"
)

// overlayQuad is a screen-space textured panel.
type overlayQuad struct {
	texture uint32
	vao     uint32
	vbo     uint32
	size    image.Rectangle
	top     int
}

// SetOverlay uploads a premultiplied panel image drawn top-centre, top
// pixels below the edge. A nil image removes the panel.
func (r *Renderer) SetOverlay(img *image.RGBA, top int) {
	if img == nil {
		r.overlay.destroy()
		r.overlay = nil
		return
	}
	if r.overlay == nil {
		r.overlay = newOverlayQuad()
	}
	o := r.overlay
	o.size = img.Bounds()
	o.top = top

	gl.BindTexture(gl.TEXTURE_2D, o.texture)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(o.size.Dx()), int32(o.size.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func newOverlayQuad() *overlayQuad {
	o := &overlayQuad{}

	gl.GenTextures(1, &o.texture)
	gl.BindTexture(gl.TEXTURE_2D, o.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	// pos2 + uv2
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	return o
}

// drawOverlay draws the panel over the finished scene, saving and restoring
// the GL state it touches.
func (r *Renderer) drawOverlay() {
	o := r.overlay
	if o == nil {
		return
	}

	rect := overlay.Placement(r.width, r.height, o.size, o.top)
	x0, y0 := float32(rect.Min.X), float32(rect.Min.Y)
	x1, y1 := float32(rect.Max.X), float32(rect.Max.Y)
	vertices := [24]float32{
		x0, y0, 0, 0,
		x1, y0, 1, 0,
		x1, y1, 1, 1,
		x0, y0, 0, 0,
		x1, y1, 1, 1,
		x0, y1, 0, 1,
	}

	prevBlend := gl.IsEnabled(gl.BLEND)
	prevDepth := gl.IsEnabled(gl.DEPTH_TEST)
	prevCull := gl.IsEnabled(gl.CULL_FACE)
	prevSRGB := gl.IsEnabled(gl.FRAMEBUFFER_SRGB)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	// The panel colours are already display-encoded.
	gl.Disable(gl.FRAMEBUFFER_SRGB)

	r.overlayProgram.Use()
	r.overlayProgram.SetMat4("uProjection", mgl32.Ortho(0, float32(r.width), float32(r.height), 0, -1, 1))
	r.overlayProgram.SetInt("uTexture", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, o.texture)
	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(&vertices[0]))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	restore(gl.BLEND, prevBlend)
	restore(gl.DEPTH_TEST, prevDepth)
	restore(gl.CULL_FACE, prevCull)
	restore(gl.FRAMEBUFFER_SRGB, prevSRGB)
}

func restore(capability uint32, enabled bool) {
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func (o *overlayQuad) destroy() {
	if o == nil {
		return
	}
	if o.texture != 0 {
		gl.DeleteTextures(1, &o.texture)
	}
	if o.vbo != 0 {
		gl.DeleteBuffers(1, &o.vbo)
	}
	if o.vao != 0 {
		gl.DeleteVertexArrays(1, &o.vao)
	}
}
