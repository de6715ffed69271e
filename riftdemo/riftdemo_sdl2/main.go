package main

import (
	"os"
	"runtime"

	"github.com/xlab/catcher"
	"github.com/xlab/closer"

	"github.com/go-vr/demos/config"
	"github.com/go-vr/demos/display"
	"github.com/go-vr/demos/riftdemo"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	defer closer.Close()
	defer catcher.Catch(
		catcher.RecvLog(true),
		catcher.RecvDie(-1),
	)

	app := riftdemo.NewCLI("riftdemo-sdl2", func(opts config.Options, seed int64) error {
		return riftdemo.Run(opts, seed, opts.Title+" (SDL2)", func(cfg display.WindowConfig) (display.Surface, error) {
			return display.NewSDL(cfg)
		})
	})
	orPanic(app.Run(os.Args))
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}
