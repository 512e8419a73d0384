package input

import "github.com/chewxy/math32"

// Pointer tells clicks apart from drags. A press followed by a release of
// the same button counts as a click only when the pointer travelled at most
// Slop pixels in between. A zero Slop still accepts a stationary click.
type Pointer struct {
	Slop float32

	down   bool
	button uint8
	startX int
	startY int
	travel float32
}

// Press records a button press.
func (p *Pointer) Press(x, y int, button uint8) {
	p.down = true
	p.button = button
	p.startX, p.startY = x, y
	p.travel = 0
}

// Move accumulates the furthest distance from the press position.
func (p *Pointer) Move(x, y int) {
	if !p.down {
		return
	}
	dx := float32(x - p.startX)
	dy := float32(y - p.startY)
	if d := dx*dx + dy*dy; d > p.travel*p.travel {
		p.travel = math32.Sqrt(d)
	}
}

// Release ends the press and reports whether it was a click.
func (p *Pointer) Release(x, y int, button uint8) bool {
	if !p.down || button != p.button {
		return false
	}
	p.Move(x, y)
	p.down = false
	return p.travel <= p.Slop
}

// Dragging reports whether a press is active and has left the slop radius.
func (p *Pointer) Dragging() bool {
	return p.down && p.travel > p.Slop
}
