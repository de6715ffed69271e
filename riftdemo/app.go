// Package riftdemo wires the headset session, the stereo pipeline, the
// controller bridge and the minigame into one frame loop.
package riftdemo

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/go-vr/demos/config"
	"github.com/go-vr/demos/display"
	"github.com/go-vr/demos/hmd"
	"github.com/go-vr/demos/hmdsim"
	"github.com/go-vr/demos/input"
	"github.com/go-vr/demos/log"
	"github.com/go-vr/demos/scene"
	"github.com/go-vr/demos/stereo"
)

var logger = log.New("riftdemo")

// Renderer draws the scene for one eye at a time.
type Renderer interface {
	Begin(view stereo.EyeView)
	scene.Drawer
}

// Backend is everything that needs a live GL context.
type Backend struct {
	Device    stereo.Device
	Allocator hmdsim.TextureAllocator
	Presenter stereo.Presenter
	Renderer  Renderer
}

type App struct {
	opts config.Options
	dt   time.Duration

	sim     *hmdsim.Sim
	session *hmd.Session
	layout  stereo.Layout

	target   *stereo.Target
	pipeline *stereo.Pipeline
	bridge   *input.Bridge
	haptics  *input.Haptics
	game     *scene.Game
	renderer Renderer

	cleanup Unwind

	keyTrigger   [hmd.HandCount]bool
	mouseTrigger bool
	looking      bool
}

// NewApp opens the headset session and sizes the eye textures. Nothing
// touches the GPU until Start.
func NewApp(opts config.Options, seed int64) (*App, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	a := &App{
		opts: opts,
		dt:   opts.FrameInterval,
		sim:  hmdsim.New(opts.DeviceConfig(), nil),
		game: scene.NewGame(opts.SceneConfig(), rand.New(rand.NewSource(seed))),
	}
	session, err := hmd.Open(a.sim, opts.ClipRange())
	if err != nil {
		return nil, err
	}
	a.session = session
	a.cleanup.Add(session.Close)

	a.layout, err = stereo.LayoutForSession(session, opts.PixelDensity)
	if err != nil {
		a.cleanup.Unwind()
		return nil, errors.Wrap(err, "eye layout")
	}
	desc, _ := session.Describe()
	logger.Infof("%s by %s, eye texture %dx%d", desc.ProductName, desc.Manufacturer,
		a.layout.Size.W, a.layout.Size.H)
	return a, nil
}

// MirrorSize is the desktop window size.
func (a *App) MirrorSize() hmd.Sizei {
	return a.layout.MirrorSize(a.opts.MirrorDivisor)
}

func (a *App) Sim() *hmdsim.Sim {
	return a.sim
}

func (a *App) Game() *scene.Game {
	return a.game
}

func (a *App) Pipeline() *stereo.Pipeline {
	return a.pipeline
}

// Start allocates the render target and mirror and recenters tracking.
// On error everything Start created is released again.
func (a *App) Start(b Backend) error {
	if b.Allocator != nil {
		a.sim.SetAllocator(b.Allocator)
	}
	var undo Unwind

	target, err := stereo.NewTarget(a.session, b.Device, a.layout)
	if err != nil {
		return err
	}
	undo.Add(target.Destroy)
	if err := target.CreateMirror(a.MirrorSize()); err != nil {
		undo.Unwind()
		return err
	}
	if err := a.session.Recenter(); err != nil {
		undo.Unwind()
		return err
	}

	bridge, err := input.NewBridge(a.session, a.opts.TriggerThreshold)
	if err != nil {
		undo.Unwind()
		return err
	}

	a.target = target
	a.cleanup = append(a.cleanup, undo...)
	a.pipeline = stereo.NewPipeline(a.session, target, b.Presenter)
	a.bridge = bridge
	a.haptics = input.NewHaptics(a.opts.HapticsConfig(), a.bridge)
	a.renderer = b.Renderer
	return nil
}

// Tick runs one fixed simulation step and renders one stereo frame. A
// dropped frame is not an error for the loop.
func (a *App) Tick() error {
	if a.pipeline == nil {
		hmd.Misuse("App.Tick", "not started")
	}
	snap, err := a.bridge.Sample(a.pipeline.PredictedDisplayTime())
	if err != nil {
		logger.Warningf("input: %v", err)
	}

	converted := a.game.Advance(scene.Input{
		Hands:   snap.Hands,
		Pressed: snap.Pressed,
		Buttons: snap.Buttons,
	}, a.dt)
	if err := a.haptics.Update(a.dt, converted > 0, snap.BothPressed()); err != nil {
		logger.Warningf("haptics: %v", err)
	}

	a.pipeline.SetClearColor(a.game.ClearColor())
	err = a.pipeline.Frame(a.renderEye)
	if errors.Is(err, hmd.ErrSubmissionFailed) {
		return nil
	}
	return err
}

func (a *App) renderEye(view stereo.EyeView) {
	if a.renderer == nil {
		return
	}
	a.renderer.Begin(view)
	a.game.Render(a.renderer)
}

func (a *App) Stats() stereo.Stats {
	if a.pipeline == nil {
		return stereo.Stats{}
	}
	return a.pipeline.Stats()
}

// Destroy releases the target and closes the session. It is safe to call
// more than once.
func (a *App) Destroy() {
	if a.pipeline != nil {
		stats := a.pipeline.Stats()
		logger.Debugf("%d frames, %d dropped, %v average", stats.Frames, stats.SubmitFailures, stats.AverageFrameTime())
		a.pipeline = nil
	}
	a.cleanup.Unwind()
}

func (a *App) updateTriggers() {
	for h := hmd.HandLeft; h < hmd.HandCount; h++ {
		var value float32
		if a.keyTrigger[h] || a.mouseTrigger {
			value = 1
		}
		a.sim.SetTrigger(h, value)
	}
}

// Key implements display.InputHandler.
func (a *App) Key(key display.Key, down bool) {
	switch key {
	case display.KeyR:
		if down {
			if err := a.session.Recenter(); err != nil {
				logger.Warningf("recenter: %v", err)
			}
		}
	case display.KeyQ:
		a.keyTrigger[hmd.HandLeft] = down
		a.updateTriggers()
	case display.KeyE:
		a.keyTrigger[hmd.HandRight] = down
		a.updateTriggers()
	case display.KeySpace:
		a.sim.SetButton(hmd.ButtonA, down)
	}
}

// MouseButton implements display.InputHandler. The left button squeezes
// both triggers, the right one turns the head while held.
func (a *App) MouseButton(button display.MouseButton, down bool) {
	switch button {
	case display.MouseLeft:
		a.mouseTrigger = down
		a.updateTriggers()
	case display.MouseRight:
		a.looking = down
	}
}

func (a *App) CursorMoved(dx, dy float64) {
	if a.looking {
		a.sim.Look(dx, dy)
	}
}
