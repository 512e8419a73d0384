package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meadow/internal/engine/input"
	"github.com/Faultbox/meadow/internal/engine/picking"
)

// HandleClick casts a ray through the pointer position and toggles the door
// when the ray hits it. Only the door is tested. Reports whether it was hit.
func (w *World) HandleClick(x, y int) bool {
	if w.width <= 0 || w.height <= 0 {
		return false
	}

	inv := w.Camera.ViewProjection().Inv()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w.width), float32(w.height), inv)

	hit, ok := picking.IntersectNode(ray, w.Door.Node())
	if !ok {
		return false
	}

	w.Door.Toggle()
	w.log.Debug("door toggled",
		zap.Bool("open", w.Door.IsOpen()),
		zap.Float32("distance", hit.Distance))
	return true
}

// HandleKey maps the arrow keys to animation clip navigation.
func (w *World) HandleKey(k input.Key) {
	switch k {
	case input.KeyRight:
		w.Character.Next()
	case input.KeyLeft:
		w.Character.Prev()
	}
}

// Bind registers the world's input handlers. Left drag orbits, right drag
// pans, the wheel zooms and a left click without drag tests the door.
// Motion inside the click slop moves nothing.
func (w *World) Bind(d *input.Dispatcher) {
	d.On(input.EventMouseDown, func(e input.Event) {
		w.pointer.Press(e.MouseX, e.MouseY, e.Button)
	})

	d.On(input.EventMouseMove, func(e input.Event) {
		w.pointer.Move(e.MouseX, e.MouseY)
		if !w.pointer.Dragging() {
			return
		}
		switch {
		case e.Held(input.ButtonLeft):
			w.Controls.HandleDrag(float32(e.RelX), float32(e.RelY))
		case e.Held(input.ButtonRight), e.Held(input.ButtonMiddle):
			w.Controls.Pan(float32(e.RelX), float32(e.RelY))
		}
	})

	d.On(input.EventMouseUp, func(e input.Event) {
		if w.pointer.Release(e.MouseX, e.MouseY, e.Button) && e.Button == input.ButtonLeft {
			w.HandleClick(e.MouseX, e.MouseY)
		}
	})

	d.On(input.EventMouseWheel, func(e input.Event) {
		w.Controls.HandleZoom(e.WheelY)
	})

	d.On(input.EventKeyDown, func(e input.Event) {
		w.HandleKey(e.Key)
	})

	d.On(input.EventWindowResize, func(e input.Event) {
		w.Resize(e.Width, e.Height)
	})
}
