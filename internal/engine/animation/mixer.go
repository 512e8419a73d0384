package animation

import "github.com/chewxy/math32"

// LoopMode controls what happens when an action reaches the clip end.
type LoopMode int

const (
	LoopRepeat LoopMode = iota
	LoopOnce
)

// Action is the playback state of one clip on a mixer.
type Action struct {
	clip    *Clip
	time    float32
	running bool
	paused  bool

	Loop      LoopMode
	TimeScale float32
}

// Clip returns the clip this action plays.
func (a *Action) Clip() *Clip {
	return a.clip
}

// Time returns the local playback time in seconds.
func (a *Action) Time() float32 {
	return a.time
}

// Reset rewinds to the start and clears any pause.
func (a *Action) Reset() *Action {
	a.time = 0
	a.paused = false
	return a
}

// Play schedules the action on its mixer.
func (a *Action) Play() *Action {
	a.running = true
	return a
}

// Stop halts the action and rewinds it.
func (a *Action) Stop() *Action {
	a.running = false
	a.time = 0
	return a
}

// IsRunning reports whether the action is playing and not finished.
func (a *Action) IsRunning() bool {
	return a.running && !a.paused
}

// advance moves local time forward by dt according to the loop mode.
func (a *Action) advance(dt float32) {
	a.time += dt * a.TimeScale
	d := a.clip.Duration
	if d <= 0 {
		a.time = 0
		return
	}
	switch a.Loop {
	case LoopOnce:
		if a.time >= d {
			a.time = d
			a.paused = true
		}
	default:
		a.time = math32.Mod(a.time, d)
		if a.time < 0 {
			a.time += d
		}
	}
}

// Mixer plays actions for the nodes of one model.
type Mixer struct {
	actions []*Action
	time    float32
}

// NewMixer creates an empty mixer.
func NewMixer() *Mixer {
	return &Mixer{}
}

// ClipAction returns the action for clip, creating it on first use.
func (m *Mixer) ClipAction(clip *Clip) *Action {
	for _, a := range m.actions {
		if a.clip == clip {
			return a
		}
	}
	a := &Action{clip: clip, TimeScale: 1}
	m.actions = append(m.actions, a)
	return a
}

// StopAll stops every action.
func (m *Mixer) StopAll() {
	for _, a := range m.actions {
		a.Stop()
	}
}

// Time returns the total time the mixer has been advanced.
func (m *Mixer) Time() float32 {
	return m.time
}

// Update advances running actions by dt seconds and poses their nodes.
// A finished LoopOnce action keeps holding its last pose.
func (m *Mixer) Update(dt float32) {
	m.time += dt
	for _, a := range m.actions {
		if !a.running {
			continue
		}
		if !a.paused {
			a.advance(dt)
		}
		a.clip.Apply(a.time)
	}
}
