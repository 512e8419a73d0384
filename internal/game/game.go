// Package game hosts the meadow: window, renderer, input and the frame loop.
package game

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meadow/internal/assets"
	"github.com/Faultbox/meadow/internal/config"
	"github.com/Faultbox/meadow/internal/engine/audio"
	"github.com/Faultbox/meadow/internal/engine/input"
	"github.com/Faultbox/meadow/internal/engine/overlay"
	"github.com/Faultbox/meadow/internal/engine/renderer"
	"github.com/Faultbox/meadow/internal/engine/window"
	"github.com/Faultbox/meadow/internal/game/world"
	"github.com/Faultbox/meadow/internal/loader"
	"github.com/Faultbox/meadow/internal/logger"
)

const doorSound = "door"

// Game is the main program instance.
type Game struct {
	cfg     *config.Config
	running bool

	window     *window.Window
	renderer   *renderer.Renderer
	dispatcher *input.Dispatcher
	world      *world.World

	assets  *assets.Manager
	loader  *loader.Loader
	watcher *loader.Watcher
	audio   *audio.Manager

	events []input.Event
	log    *zap.Logger
}

// New creates the window and GL context, builds the scene and starts
// loading the character.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:        cfg,
		dispatcher: input.NewDispatcher(),
		assets:     assets.NewManager(),
		log:        logger.Named("game"),
	}

	g.log.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("fullscreen", cfg.Graphics.Fullscreen),
	)

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:       "Meadow",
		Width:       cfg.Graphics.Width,
		Height:      cfg.Graphics.Height,
		Fullscreen:  cfg.Graphics.Fullscreen,
		VSync:       cfg.Graphics.VSync,
		MSAASamples: cfg.Graphics.MSAASamples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Fullscreen windows take the desktop size.
	width, height := g.window.Size()
	cfg.Graphics.Width, cfg.Graphics.Height = width, height

	// Create renderer (AFTER window, since OpenGL context must exist)
	g.renderer, err = renderer.New(renderer.Config{
		Width:         width,
		Height:        height,
		Shadows:       cfg.Graphics.Shadows,
		ShadowMapSize: int32(cfg.Graphics.ShadowMapSize),
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.world = world.New(cfg, g.renderer)
	g.world.Bind(g.dispatcher)
	g.dispatcher.On(input.EventQuit, func(input.Event) {
		g.running = false
	})

	if cfg.Overlay.Enabled {
		style := overlay.DefaultStyle()
		g.renderer.SetOverlay(overlay.Compose(cfg.Overlay.Lines, style), style.Top)
	}

	g.addAssetRoots()
	g.loader = loader.New(g.assets)
	g.world.AwaitCharacter(g.loader.LoadAsync(cfg.Assets.Character))
	if cfg.Assets.Watch {
		g.startWatcher()
	}

	if cfg.Audio.Enabled {
		g.startAudio()
	}

	g.log.Info("initialized")
	return g, nil
}

// addAssetRoots lets relative asset paths resolve next to the executable as
// well as in the working directory.
func (g *Game) addAssetRoots() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	dir := filepath.Dir(exe)
	if err := g.assets.AddRoot(dir); err != nil {
		g.log.Debug("asset root skipped", zap.String("dir", dir), zap.Error(err))
	}
}

func (g *Game) startWatcher() {
	w, err := g.loader.Watch(g.cfg.Assets.Character)
	if err != nil {
		g.log.Warn("asset watching disabled", zap.Error(err))
		return
	}
	g.watcher = w
	g.world.WatchCharacter(w)
}

// startAudio loads the door sound. Failures only cost the sound.
func (g *Game) startAudio() {
	a := audio.New()
	a.SetSFXVolume(g.cfg.Audio.Volume)
	if err := a.Init(); err != nil {
		g.log.Warn("audio disabled", zap.Error(err))
		return
	}

	f, err := g.assets.Open(g.cfg.Audio.DoorSound)
	if err != nil {
		g.log.Warn("door sound unavailable", zap.Error(err))
		a.Close()
		return
	}
	if err := a.LoadSFX(doorSound, f); err != nil {
		g.log.Warn("door sound unavailable", zap.Error(err))
		a.Close()
		return
	}

	if d, err := a.Duration(doorSound); err == nil {
		g.log.Debug("door sound loaded",
			zap.String("file", g.cfg.Audio.DoorSound),
			zap.Duration("length", d))
	}

	g.audio = a
	g.world.Door.OnToggle = func(bool) {
		if err := a.PlaySFX(doorSound); err != nil {
			g.log.Debug("door sound failed", zap.Error(err))
		}
	}
}

// Run drives the frame loop until the window is closed.
func (g *Game) Run() error {
	g.running = true

	start := time.Now()
	lastTime := start
	frameCount := 0
	fpsTimer := start

	g.log.Info("starting frame loop")

	for g.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		g.events = g.window.PollEvents(g.events[:0])
		g.dispatcher.DispatchAll(g.events)
		if !g.running {
			break
		}

		// 2. Update and render
		g.world.Tick(float32(dt), now.Sub(start).Seconds())

		// 3. Present (swap buffers)
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close releases everything New acquired.
func (g *Game) Close() {
	g.log.Info("closing")

	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.log.Warn("closing watcher", zap.Error(err))
		}
	}
	if g.audio != nil {
		g.audio.Close()
	}
	g.assets.Close()
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
