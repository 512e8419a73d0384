package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // glTF core image formats
	_ "image/png"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // EXT_texture_webp
)

// maxTextureSize bounds the longest texture side; larger images are scaled
// down on load.
const maxTextureSize = 2048

// ErrNoImageData is returned for images with neither a buffer view nor a
// readable URI.
var ErrNoImageData = errors.New("gltf: image has no data")

// FetchFunc reads a resource referenced by a relative URI.
type FetchFunc func(uri string) ([]byte, error)

// baseColorMap returns the decoded base colour texture of m, or nil when m
// has none.
func (c *converter) baseColorMap(m *gltf.Material) (*image.NRGBA, error) {
	pbr := m.PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorTexture == nil {
		return nil, nil
	}
	info := pbr.BaseColorTexture
	if info.TexCoord != 0 {
		return nil, fmt.Errorf("texture %d: TEXCOORD_%d unsupported", info.Index, info.TexCoord)
	}
	if info.Index < 0 || info.Index >= len(c.doc.Textures) {
		return nil, fmt.Errorf("invalid texture %d", info.Index)
	}
	tex := c.doc.Textures[info.Index]
	if tex.Source == nil {
		return nil, fmt.Errorf("texture %d: %w", info.Index, ErrNoImageData)
	}
	return c.image(*tex.Source)
}

// image decodes a document image once, whichever materials share it.
func (c *converter) image(index int) (*image.NRGBA, error) {
	if img, ok := c.images[index]; ok {
		return img, nil
	}
	if index < 0 || index >= len(c.doc.Images) {
		return nil, fmt.Errorf("invalid image %d", index)
	}

	data, err := c.imageData(c.doc.Images[index])
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", index, err)
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", index, err)
	}

	img := fitTexture(src, maxTextureSize)
	c.images[index] = img
	c.log.Debug("texture decoded",
		zap.Int("image", index),
		zap.String("format", format),
		zap.Int("width", img.Rect.Dx()),
		zap.Int("height", img.Rect.Dy()))
	return img, nil
}

func (c *converter) imageData(im *gltf.Image) ([]byte, error) {
	switch {
	case im.BufferView != nil:
		if *im.BufferView < 0 || *im.BufferView >= len(c.doc.BufferViews) {
			return nil, fmt.Errorf("invalid buffer view %d", *im.BufferView)
		}
		return modeler.ReadBufferView(c.doc, c.doc.BufferViews[*im.BufferView])
	case im.IsEmbeddedResource():
		return im.MarshalData()
	case im.URI != "" && c.fetch != nil:
		return c.fetch(im.URI)
	}
	return nil, ErrNoImageData
}

// fitTexture copies src into a tightly packed NRGBA image, scaling it down
// so that neither side exceeds limit.
func fitTexture(src image.Image, limit int) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > limit || h > limit {
		if w >= h {
			h = max(1, h*limit/w)
			w = limit
		} else {
			w = max(1, w*limit/h)
			h = limit
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		xdraw.Draw(dst, dst.Rect, src, b.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Rect, src, b, xdraw.Src, nil)
	}
	return dst
}
