package main

import (
	"fmt"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli"
	vk "github.com/vulkan-go/vulkan"

	"github.com/go-vr/demos/config"
	"github.com/go-vr/demos/riftinfo"
)

func main() {
	app := cli.NewApp()
	app.Name = "riftinfo"
	app.Usage = "print headset properties, render target sizes and GPUs"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "YAML file overriding the built-in options",
		},
		cli.BoolFlag{
			Name:  "no-gpu",
			Usage: "skip the Vulkan device list",
		},
	}
	app.Action = func(ctx *cli.Context) error {
		opts, err := config.Load(ctx.String("config"))
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		report, err := riftinfo.Collect(opts)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Println("\n\n" + report.Table())

		if ctx.Bool("no-gpu") {
			return nil
		}
		orPanic(glfw.Init())
		defer glfw.Terminate()
		vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
		orPanic(vk.Init())
		gpus, err := riftinfo.ListGPUs()
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Println(riftinfo.GPUTable(gpus))
		return nil
	}
	orPanic(app.Run(os.Args))
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}
