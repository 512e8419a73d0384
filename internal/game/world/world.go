// Package world owns the meadow scene and everything that changes in it
// from frame to frame.
package world

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meadow/internal/config"
	"github.com/Faultbox/meadow/internal/engine/camera"
	"github.com/Faultbox/meadow/internal/engine/character"
	"github.com/Faultbox/meadow/internal/engine/input"
	"github.com/Faultbox/meadow/internal/engine/lighting"
	"github.com/Faultbox/meadow/internal/engine/scene"
	"github.com/Faultbox/meadow/internal/engine/tween"
	"github.com/Faultbox/meadow/internal/loader"
	"github.com/Faultbox/meadow/internal/logger"
)

// Renderer draws the scene and is resized along with the window.
type Renderer interface {
	SetSize(width, height int)
	Render(s *scene.Scene, cam *camera.Perspective)
}

// Pending is a model load in flight.
type Pending interface {
	Poll() (loader.Result, bool)
}

// Reloader hands out reloads of a watched model file.
type Reloader interface {
	Poll() (*loader.Future, bool)
}

// World is the meadow scene plus its interactive state.
type World struct {
	Scene     *scene.Scene
	Props     *Props
	Camera    *camera.Perspective
	Controls  *camera.OrbitControls
	Character *character.Controller
	Door      *Door

	tweens   *tween.Manager
	sun      lighting.SunOrbit
	pointer  input.Pointer
	renderer Renderer

	width, height int

	charScale float32
	charNode  *scene.Node
	pending   Pending
	reloads   Reloader

	log *zap.Logger
}

// New assembles the scene and sets up camera, controls and tweens.
// r may be nil when nothing needs to be drawn.
func New(cfg *config.Config, r Renderer) *World {
	s, props := Assemble(int32(cfg.Graphics.ShadowMapSize))

	w := &World{
		Scene:     s,
		Props:     props,
		Character: character.NewController(),
		tweens:    tween.NewManager(),
		renderer:  r,
		charScale: cfg.Assets.CharacterScale,
		sun: lighting.SunOrbit{
			Radius: cfg.Scene.SunRadius,
			Height: cfg.Scene.SunHeight,
			Speed:  cfg.Scene.SunSpeed,
		},
		pointer: input.Pointer{Slop: float32(cfg.Input.ClickSlop)},
		log:     logger.Named("world"),
	}
	if !cfg.Graphics.Shadows {
		s.Light.CastShadow = false
	}
	props.LightHelper.Visible = cfg.Scene.LightHelper

	w.setupCamera(cfg.Camera, cfg.Graphics.Width, cfg.Graphics.Height)
	w.Door = NewDoor(props.Door, w.tweens, cfg.Scene.DoorTweenPeriod)
	w.tweens.Yoyo(&props.Cloud.Position[0], cloudEndX, cfg.Scene.CloudPeriod, tween.EaseInOut)

	w.Resize(cfg.Graphics.Width, cfg.Graphics.Height)

	w.log.Info("scene assembled",
		zap.Int("width", w.width),
		zap.Int("height", w.height),
		zap.Bool("shadows", s.Light.CastShadow))
	return w
}

func (w *World) setupCamera(cc config.CameraConfig, width, height int) {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	w.Camera = camera.NewPerspective(cc.FOV, aspect, cc.Near, cc.Far)
	w.Camera.Position = mgl32.Vec3(cc.Position)
	w.Camera.LookAt(mgl32.Vec3(cc.Target))

	w.Controls = camera.NewOrbitControls(w.Camera)
	w.Controls.EnableDamping = cc.EnableDamping
	w.Controls.DampingFactor = cc.DampingFactor
	w.Controls.RotateSpeed = cc.RotateSpeed
	w.Controls.ZoomSpeed = cc.ZoomSpeed
	w.Controls.PanSpeed = cc.PanSpeed
	w.Controls.MinDistance = cc.MinDistance
	w.Controls.MaxDistance = cc.MaxDistance
}

// Tweens returns the tween manager driving the door and cloud.
func (w *World) Tweens() *tween.Manager {
	return w.tweens
}

// AwaitCharacter registers a model load. The frame loop picks the result up
// once it resolves.
func (w *World) AwaitCharacter(p Pending) {
	w.pending = p
}

// WatchCharacter installs a source of model reloads.
func (w *World) WatchCharacter(r Reloader) {
	w.reloads = r
}

// Tick advances the world by dt seconds and draws it. elapsed is the time
// since start and drives the sun.
func (w *World) Tick(dt float32, elapsed float64) {
	w.pollCharacter()

	w.Character.Update(dt)
	w.tweens.Update(dt)
	w.updateSun(elapsed)
	w.Controls.Update()

	if w.renderer != nil {
		w.renderer.Render(w.Scene, w.Camera)
	}
}

// updateSun moves the sun along its orbit and re-aims the light at the
// scene origin from there.
func (w *World) updateSun(elapsed float64) {
	pos := w.sun.Position(elapsed)
	w.Props.Sun.Position = pos
	w.Scene.Light.Position = pos
	w.Props.LightHelper.Position = pos
}

func (w *World) pollCharacter() {
	if w.reloads != nil {
		if f, ok := w.reloads.Poll(); ok {
			w.pending = f
		}
	}
	if w.pending == nil {
		return
	}

	res, ok := w.pending.Poll()
	if !ok {
		return
	}
	w.pending = nil

	if res.Err != nil {
		w.log.Error("character load failed", zap.Error(res.Err))
		return
	}
	w.attachCharacter(res.Model)
}

// attachCharacter places a loaded model at the origin, replacing any
// previous one.
func (w *World) attachCharacter(m *loader.Model) {
	if m == nil || m.Root == nil {
		return
	}
	if w.charNode != nil {
		w.Scene.Remove(w.charNode)
	}

	root := m.Root
	root.SetPosition(0, 0, 0)
	if w.charScale > 0 {
		root.SetScale(w.charScale, w.charScale, w.charScale)
	}
	w.Scene.Add(root)
	w.charNode = root

	w.Character.Attach(m)
}
