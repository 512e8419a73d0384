// Package overlay rasterises the on-screen instruction panel into an image
// and computes where it sits on screen.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Style controls the look of the panel.
type Style struct {
	Padding    int
	LineGap    int
	Radius     int
	Scale      int // Integer pixel scale applied after rasterising
	Top        int // Distance from the top of the viewport
	Background color.RGBA
	Foreground color.RGBA
}

// DefaultStyle is white text on a half-transparent black rounded panel,
// 20 px from the top.
func DefaultStyle() Style {
	return Style{
		Padding:    10,
		LineGap:    4,
		Radius:     8,
		Scale:      1,
		Top:        20,
		Background: color.RGBA{0, 0, 0, 128},
		Foreground: color.RGBA{255, 255, 255, 255},
	}
}

// Compose draws lines onto a new panel image. The image is premultiplied
// RGBA, as image.RGBA always is. Empty input yields nil.
func Compose(lines []string, style Style) *image.RGBA {
	if len(lines) == 0 {
		return nil
	}
	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineH := metrics.Height.Ceil()

	textW := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > textW {
			textW = w
		}
	}
	w := textW + 2*style.Padding
	h := len(lines)*lineH + (len(lines)-1)*style.LineGap + 2*style.Padding

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(style.Background), image.Point{}, draw.Src)
	roundCorners(img, style.Radius)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(style.Foreground),
		Face: face,
	}
	for i, l := range lines {
		lw := font.MeasureString(face, l).Ceil()
		x := (w - lw) / 2
		y := style.Padding + i*(lineH+style.LineGap) + metrics.Ascent.Ceil()
		d.Dot = fixed.P(x, y)
		d.DrawString(l)
	}

	if style.Scale > 1 {
		scaled := image.NewRGBA(image.Rect(0, 0, w*style.Scale, h*style.Scale))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
		return scaled
	}
	return img
}

// roundCorners clears the pixels outside a quarter circle in each corner.
func roundCorners(img *image.RGBA, r int) {
	b := img.Bounds()
	if r <= 0 {
		return
	}
	if limit := min(b.Dx(), b.Dy()) / 2; r > limit {
		r = limit
	}
	rr := float64(r) * float64(r)
	for y := 0; y < r; y++ {
		for x := 0; x < r; x++ {
			// Distance from the pixel centre to the corner circle's centre
			dx := float64(r) - (float64(x) + 0.5)
			dy := float64(r) - (float64(y) + 0.5)
			if dx*dx+dy*dy <= rr {
				continue
			}
			img.SetRGBA(b.Min.X+x, b.Min.Y+y, color.RGBA{})
			img.SetRGBA(b.Max.X-1-x, b.Min.Y+y, color.RGBA{})
			img.SetRGBA(b.Min.X+x, b.Max.Y-1-y, color.RGBA{})
			img.SetRGBA(b.Max.X-1-x, b.Max.Y-1-y, color.RGBA{})
		}
	}
}

// Placement returns the panel rectangle in viewport pixels (origin top
// left): centred horizontally, top pixels from the top edge.
func Placement(viewW, viewH int, panel image.Rectangle, top int) image.Rectangle {
	w, h := panel.Dx(), panel.Dy()
	x := (viewW - w) / 2
	return image.Rect(x, top, x+w, top+h)
}
