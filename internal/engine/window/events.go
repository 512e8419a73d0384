package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/meadow/internal/engine/input"
)

var keymap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_LEFT:  input.KeyLeft,
	sdl.SCANCODE_RIGHT: input.KeyRight,
	sdl.SCANCODE_UP:    input.KeyUp,
	sdl.SCANCODE_DOWN:  input.KeyDown,
}

// PollEvents drains the SDL queue and appends the translated events to dst.
func (w *Window) PollEvents(dst []input.Event) []input.Event {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			dst = append(dst, input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				dst = append(dst, input.Event{
					Type:   input.EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			t := input.EventKeyDown
			if e.Type == sdl.KEYUP {
				t = input.EventKeyUp
			}
			dst = append(dst, input.Event{
				Type:   t,
				Key:    keymap[e.Keysym.Scancode],
				Repeat: e.Repeat != 0,
			})

		case *sdl.MouseMotionEvent:
			dst = append(dst, input.Event{
				Type:    input.EventMouseMove,
				MouseX:  int(e.X),
				MouseY:  int(e.Y),
				RelX:    int(e.XRel),
				RelY:    int(e.YRel),
				Buttons: e.State,
			})

		case *sdl.MouseButtonEvent:
			t := input.EventMouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				t = input.EventMouseUp
			}
			dst = append(dst, input.Event{
				Type:   t,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})

		case *sdl.MouseWheelEvent:
			y := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				y = -y
			}
			dst = append(dst, input.Event{Type: input.EventMouseWheel, WheelY: y})
		}
	}
	return dst
}
