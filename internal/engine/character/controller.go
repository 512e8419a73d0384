// Package character drives the loaded character's animation clips.
package character

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meadow/internal/engine/animation"
	"github.com/Faultbox/meadow/internal/engine/scene"
	"github.com/Faultbox/meadow/internal/loader"
	"github.com/Faultbox/meadow/internal/logger"
)

// Controller owns the clip set and playback state of one character.
// Before a model is attached every operation is a no-op.
type Controller struct {
	root    *scene.Node
	clips   []*animation.Clip
	mixer   *animation.Mixer
	current int
	action  *animation.Action
	log     *zap.Logger
}

// NewController creates a controller with no model.
func NewController() *Controller {
	return &Controller{log: logger.Named("character")}
}

// Attach installs a loaded model's clips and plays the first one.
// Attaching again replaces the previous clip set.
func (c *Controller) Attach(m *loader.Model) {
	if m == nil {
		return
	}
	if c.mixer != nil {
		c.mixer.StopAll()
	}

	c.root = m.Root
	c.clips = m.Clips
	c.mixer = animation.NewMixer()
	c.current = 0
	c.action = nil

	c.log.Info("character attached",
		zap.String("model", m.Root.Name),
		zap.Int("clips", len(c.clips)),
		zap.Strings("names", m.ClipNames()))

	if len(c.clips) > 0 {
		c.SelectClip(0)
	}
}

// Loaded reports whether a model has been attached.
func (c *Controller) Loaded() bool {
	return c.root != nil
}

// Root returns the attached model's root node, or nil.
func (c *Controller) Root() *scene.Node {
	return c.root
}

// ClipCount returns the number of clips.
func (c *Controller) ClipCount() int {
	return len(c.clips)
}

// Current returns the index of the playing clip. It is 0 when there are no
// clips.
func (c *Controller) Current() int {
	return c.current
}

// CurrentName returns the name of the playing clip, or "" without clips.
func (c *Controller) CurrentName() string {
	if len(c.clips) == 0 {
		return ""
	}
	return c.clips[c.current].Name
}

// Action returns the playing action, or nil.
func (c *Controller) Action() *animation.Action {
	return c.action
}

// SelectClip stops the current clip and plays clip requested from the start.
// Out-of-range and negative indices wrap around. Without clips nothing
// happens.
func (c *Controller) SelectClip(requested int) {
	n := len(c.clips)
	if n == 0 {
		return
	}
	if c.action != nil {
		c.action.Stop()
	}

	c.current = wrap(requested, n)
	c.action = c.mixer.ClipAction(c.clips[c.current]).Reset().Play()

	c.log.Info("playing clip",
		zap.Int("index", c.current),
		zap.String("name", c.clips[c.current].Name))
}

// Next plays the following clip.
func (c *Controller) Next() {
	c.SelectClip(c.current + 1)
}

// Prev plays the preceding clip.
func (c *Controller) Prev() {
	c.SelectClip(c.current - 1)
}

// Update advances the mixer by dt seconds.
func (c *Controller) Update(dt float32) {
	if c.mixer == nil {
		return
	}
	c.mixer.Update(dt)
}

// wrap reduces i into [0, n) for n > 0.
func wrap(i, n int) int {
	return ((i % n) + n) % n
}
