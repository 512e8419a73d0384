package scene

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Material is a lit surface description. Colours are sRGB in 0..1; the
// renderer linearises them.
type Material struct {
	Color    mgl32.Vec3
	Emissive mgl32.Vec3
	// BaseColorMap holds sRGB texels multiplied with Color. Only drawn on
	// geometry with UVs.
	BaseColorMap *image.NRGBA
	// Unlit materials ignore scene lights and draw Color as-is.
	Unlit bool
}

// NewMaterial returns a lit material with the given base colour.
func NewMaterial(color uint32) *Material {
	return &Material{Color: Hex(color)}
}

// NewEmissiveMaterial returns a white material glowing with the given colour.
func NewEmissiveMaterial(emissive uint32) *Material {
	return &Material{Color: Hex(0xffffff), Emissive: Hex(emissive)}
}

// Hex converts a 0xRRGGBB value to an RGB vector in 0..1.
func Hex(c uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((c>>16)&0xff) / 255,
		float32((c>>8)&0xff) / 255,
		float32(c&0xff) / 255,
	}
}
