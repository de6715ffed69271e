package riftdemo

import (
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/go-vr/demos/config"
	"github.com/go-vr/demos/log"
)

// RunFunc starts the demo with resolved options.
type RunFunc func(opts config.Options, seed int64) error

// NewCLI builds the command line shared by every backend main.
func NewCLI(name string, run RunFunc) *cli.App {
	app := cli.NewApp()
	app.Name = name
	app.Usage = "convert CO2 into O2 by crossing both controller lasers"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "YAML file overriding the built-in options",
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "particle RNG seed, 0 picks one from the clock",
		},
	}
	app.Action = func(ctx *cli.Context) error {
		setupLogging(ctx)
		opts, err := config.Load(ctx.String("config"))
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		seed := ctx.Int64("seed")
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		logger.Debugf("seed %d", seed)
		return run(opts, seed)
	}
	return app
}

func setupLogging(ctx *cli.Context) {
	log.SetSink(os.Stderr)
	log.SetLevel(log.FromFlags(ctx.Bool("v"), ctx.Bool("vv")))
}
