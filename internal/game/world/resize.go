package world

import (
	"go.uber.org/zap"
)

// Resize updates the camera aspect and the render surface size.
// A zero or negative height (minimised window) is ignored.
func (w *World) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w.width, w.height = width, height

	w.Camera.SetAspect(float32(width) / float32(height))
	w.Camera.UpdateProjection()
	if w.renderer != nil {
		w.renderer.SetSize(width, height)
	}

	w.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the viewport size last passed to Resize.
func (w *World) Size() (int, int) {
	return w.width, w.height
}
