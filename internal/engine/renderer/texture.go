package renderer

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// gpuTexture is a material image uploaded as an sRGB texture, so sampling
// returns linear colour.
type gpuTexture struct {
	id        uint32
	lastFrame uint64
}

// textureFor returns the uploaded form of img, uploading it on first use.
func (r *Renderer) textureFor(img *image.NRGBA) *gpuTexture {
	t, ok := r.textures[img]
	if !ok {
		t = uploadTexture(img)
		r.textures[img] = t
	}
	t.lastFrame = r.frame
	return t
}

func uploadTexture(img *image.NRGBA) *gpuTexture {
	t := &gpuTexture{}
	w, h := int32(img.Rect.Dx()), int32(img.Rect.Dy())

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)

	// Odd widths leave rows unaligned.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.SRGB8_ALPHA8, w, h, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

func (t *gpuTexture) bind(unit uint32) {
	gl.ActiveTexture(unit)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

func (t *gpuTexture) destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
