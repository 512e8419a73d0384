// Package audio plays short sound effects.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

var (
	// ErrNotInitialized is returned by playback before Init.
	ErrNotInitialized = errors.New("audio not initialized")
	// ErrUnknownSound is returned when playing a sound that was never loaded.
	ErrUnknownSound = errors.New("unknown sound")
)

// Manager holds decoded sound effects and mixes them onto the speaker.
type Manager struct {
	mu sync.RWMutex

	// State
	initialized bool
	sampleRate  beep.SampleRate

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	sfxVolLevel  float64

	// Decoded effects by name
	sounds map[string]*beep.Buffer

	// SFX mixer for concurrent sound effects
	sfxMixer *beep.Mixer
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		masterVolume: 1.0,
		sfxVolLevel:  1.0,
		sampleRate:   DefaultSampleRate,
		sounds:       make(map[string]*beep.Buffer),
		sfxMixer:     &beep.Mixer{},
	}
}

// Init opens the speaker. Calling it again is a no-op.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	// Start SFX mixer
	speaker.Play(m.sfxMixer)

	m.initialized = true
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		speaker.Clear()
		speaker.Close()
	}
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
}

// SetSFXVolume sets the SFX volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetSFXVolume returns the SFX volume.
func (m *Manager) GetSFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolLevel
}

// LoadSFX decodes a WAV stream into memory under name, replacing any
// earlier sound with that name. The reader is closed.
func (m *Manager) LoadSFX(name string, r io.ReadCloser) error {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		_ = r.Close()
		return fmt.Errorf("decode wav %s: %w", name, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return fmt.Errorf("read wav %s: %w", name, err)
	}

	m.mu.Lock()
	m.sounds[name] = buf
	m.mu.Unlock()
	return nil
}

// Duration returns the length of a loaded sound.
func (m *Manager) Duration(name string) (time.Duration, error) {
	m.mu.RLock()
	buf, ok := m.sounds[name]
	m.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrUnknownSound)
	}
	return buf.Format().SampleRate.D(buf.Len()), nil
}

// PlaySFX starts a loaded sound. Several sounds may overlap.
func (m *Manager) PlaySFX(name string) error {
	m.mu.RLock()
	initialized := m.initialized
	sfxVol := m.masterVolume * m.sfxVolLevel
	buf, ok := m.sounds[name]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownSound)
	}
	if !initialized {
		return ErrNotInitialized
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if sr := buf.Format().SampleRate; sr != m.sampleRate {
		s = beep.Resample(4, sr, m.sampleRate, s)
	}

	vol := &effects.Volume{
		Streamer: s,
		Base:     10,
		Volume:   volumeToDb(sfxVol) / 20,
		Silent:   sfxVol <= 0,
	}

	// The mixer is read by the speaker goroutine.
	speaker.Lock()
	m.sfxMixer.Add(vol)
	speaker.Unlock()

	return nil
}

// volumeToDb converts a 0-1 volume to decibels: 1 -> 0 dB, 0.5 -> -6 dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	return 20 * math.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
