package riftdemo

import (
	"github.com/xlab/closer"

	"github.com/go-vr/demos/config"
	"github.com/go-vr/demos/display"
	"github.com/go-vr/demos/glrender"
)

// OpenFunc creates a window with a current GL context.
type OpenFunc func(cfg display.WindowConfig) (display.Surface, error)

// Run opens the session, a mirror window from open and the GL resources,
// then drives frames until the window closes or the process is asked to
// exit. It must be called on the main thread.
func Run(opts config.Options, seed int64, title string, open OpenFunc) (err error) {
	defer checkErrStack(&err)

	demo, err := NewApp(opts, seed)
	if err != nil {
		return err
	}
	var undo Unwind
	undo.Add(demo.Destroy)

	size := demo.MirrorSize()
	surface, err := open(display.WindowConfig{
		Title:  title,
		Width:  size.W,
		Height: size.H,
	})
	if err != nil {
		undo.Unwind()
		return err
	}
	undo.Add(surface.Destroy)

	if err := glrender.Init(); err != nil {
		undo.Unwind()
		return err
	}
	device := glrender.NewDevice()
	undo.Add(device.Release)
	renderer, err := glrender.NewSceneRenderer()
	if err != nil {
		undo.Unwind()
		return err
	}
	undo.Add(renderer.Delete)

	if err := demo.Start(Backend{
		Device:    device,
		Allocator: device,
		Presenter: surface,
		Renderer:  renderer,
	}); err != nil {
		undo.Unwind()
		return err
	}
	surface.SetInputHandler(demo)
	undo.Discard()

	loop := display.NewLoop(surface, opts.FrameInterval, demo.Tick)
	loop.Cleanup = func() {
		demo.Destroy()
		renderer.Delete()
		device.Release()
	}
	closer.Bind(loop.Stop)
	logger.Noticef("running at %v per frame, mirror %dx%d", opts.FrameInterval, size.W, size.H)
	return loop.Run()
}
