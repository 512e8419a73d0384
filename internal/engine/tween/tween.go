// Package tween animates float32 properties over time.
package tween

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Default eases, named after the curves they implement.
var (
	EaseOut   ease.TweenFunc = ease.OutQuad
	EaseInOut ease.TweenFunc = ease.InOutSine
	Linear    ease.TweenFunc = ease.Linear
)

// Tween drives one float32 from its value at start to a target.
type Tween struct {
	target *float32
	from   float32
	to     float32
	dur    float32
	easing ease.TweenFunc
	yoyo   bool

	elapsed float32
	tw      *gween.Tween
	done    bool
}

func newTween(target *float32, to, duration float32, easing ease.TweenFunc, yoyo bool) *Tween {
	if easing == nil {
		easing = EaseOut
	}
	t := &Tween{
		target: target,
		from:   *target,
		to:     to,
		dur:    duration,
		easing: easing,
		yoyo:   yoyo,
	}
	t.tw = gween.New(t.from, t.to, duration, easing)
	return t
}

// Done reports whether a one-shot tween reached its target. Yoyo tweens
// never finish.
func (t *Tween) Done() bool {
	return t.done
}

// update advances the tween and writes the eased value to the target.
func (t *Tween) update(dt float32) {
	if t.done {
		return
	}
	if t.dur <= 0 {
		*t.target = t.to
		t.done = !t.yoyo
		return
	}

	for dt > 0 {
		step := dt
		if remaining := t.dur - t.elapsed; step >= remaining {
			step = remaining
			t.elapsed = t.dur
		} else {
			t.elapsed += step
		}
		dt -= step

		value, finished := t.tw.Update(step)
		*t.target = value
		if !finished && t.elapsed < t.dur {
			continue
		}

		*t.target = t.to
		if !t.yoyo {
			t.done = true
			return
		}
		// Swap ends and run the next leg with the leftover time.
		t.from, t.to = t.to, t.from
		t.elapsed = 0
		t.tw = gween.New(t.from, t.to, t.dur, t.easing)
	}
}

// Manager owns the running tweens. Each target has at most one tween; a new
// tween on the same target replaces the running one and starts from the
// target's current value.
type Manager struct {
	tweens []*Tween
}

// NewManager creates an empty tween manager.
func NewManager() *Manager {
	return &Manager{}
}

// To animates *target to the given value over duration seconds.
func (m *Manager) To(target *float32, to, duration float32, easing ease.TweenFunc) *Tween {
	return m.add(newTween(target, to, duration, easing, false))
}

// Yoyo animates *target back and forth between its current value and to,
// forever.
func (m *Manager) Yoyo(target *float32, to, duration float32, easing ease.TweenFunc) *Tween {
	return m.add(newTween(target, to, duration, easing, true))
}

func (m *Manager) add(t *Tween) *Tween {
	m.Stop(t.target)
	m.tweens = append(m.tweens, t)
	return t
}

// Stop cancels the tween driving target, leaving its value where it is.
func (m *Manager) Stop(target *float32) {
	for i, t := range m.tweens {
		if t.target == target {
			m.tweens = append(m.tweens[:i], m.tweens[i+1:]...)
			return
		}
	}
}

// Active reports whether a tween is driving target.
func (m *Manager) Active(target *float32) bool {
	for _, t := range m.tweens {
		if t.target == target {
			return true
		}
	}
	return false
}

// Len returns the number of running tweens.
func (m *Manager) Len() int {
	return len(m.tweens)
}

// Update advances every tween by dt seconds and drops finished ones.
func (m *Manager) Update(dt float32) {
	if dt <= 0 {
		return
	}
	live := m.tweens[:0]
	for _, t := range m.tweens {
		t.update(dt)
		if !t.done {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.tweens); i++ {
		m.tweens[i] = nil
	}
	m.tweens = live
}
