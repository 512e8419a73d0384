package world

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meadow/internal/engine/scene"
	"github.com/Faultbox/meadow/internal/engine/tween"
)

// Door hinge angles around Y, radians.
const (
	DoorClosedAngle float32 = 0
	DoorOpenAngle   float32 = -math32.Pi / 2
)

// Door is the house door: closed or open, swinging between the two over a
// fixed duration.
type Door struct {
	node     *scene.Node
	tweens   *tween.Manager
	duration float32
	open     bool

	// OnToggle is called after each toggle with the new state.
	OnToggle func(open bool)
}

// NewDoor wraps a door node. It starts closed.
func NewDoor(node *scene.Node, tweens *tween.Manager, duration float32) *Door {
	return &Door{node: node, tweens: tweens, duration: duration}
}

// Node returns the door's scene node.
func (d *Door) Node() *scene.Node {
	return d.node
}

// IsOpen reports the logical state. It flips immediately on toggle while
// the swing is still running.
func (d *Door) IsOpen() bool {
	return d.open
}

// Angle returns the current hinge rotation.
func (d *Door) Angle() float32 {
	return d.node.Rotation[1]
}

// Toggle flips the state and swings towards the new target from wherever
// the door currently is.
func (d *Door) Toggle() {
	d.open = !d.open
	target := DoorClosedAngle
	if d.open {
		target = DoorOpenAngle
	}
	d.tweens.To(&d.node.Rotation[1], target, d.duration, tween.EaseOut)

	if d.OnToggle != nil {
		d.OnToggle(d.open)
	}
}
