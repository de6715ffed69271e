// Package riftinfo prints what the headset runtime reports and the render
// target sizes the demo would allocate for it.
package riftinfo

import (
	"fmt"
	"strings"

	"github.com/xlab/tablewriter"

	"github.com/go-vr/demos/config"
	"github.com/go-vr/demos/hmd"
	"github.com/go-vr/demos/hmdsim"
	"github.com/go-vr/demos/stereo"
)

type Report struct {
	Desc     hmd.Desc
	Eyes     [hmd.EyeCount]hmd.EyeDescriptor
	EyeSizes [hmd.EyeCount]hmd.Sizei
	Layout   stereo.Layout
	Mirror   hmd.Sizei
	Clip     hmd.ClipRange
	Density  float32
}

// Collect opens a short lived session with the configured runtime and
// records its descriptors. No textures are allocated.
func Collect(opts config.Options) (*Report, error) {
	return CollectFrom(hmdsim.New(opts.DeviceConfig(), nil), opts)
}

func CollectFrom(rt hmd.Runtime, opts config.Options) (*Report, error) {
	session, err := hmd.Open(rt, opts.ClipRange())
	if err != nil {
		return nil, err
	}
	defer session.Close()

	desc, err := session.Describe()
	if err != nil {
		return nil, err
	}
	layout, err := stereo.LayoutForSession(session, opts.PixelDensity)
	if err != nil {
		return nil, err
	}
	r := &Report{
		Desc:    desc,
		Eyes:    session.Eyes(),
		Layout:  layout,
		Mirror:  layout.MirrorSize(opts.MirrorDivisor),
		Clip:    session.ClipRange(),
		Density: opts.PixelDensity,
	}
	hmd.ForEachEye(func(eye hmd.EyeType) {
		r.EyeSizes[eye] = layout.Viewport(eye).Size
	})
	return r, nil
}

func sizeString(s hmd.Sizei) string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

func fovString(f hmd.FovPort) string {
	return fmt.Sprintf("up %.2f down %.2f left %.2f right %.2f", f.UpTan, f.DownTan, f.LeftTan, f.RightTan)
}

func (r *Report) Table() string {
	table := tablewriter.CreateTable()
	table.UTF8Box()
	table.AddTitle("HMD PROPERTIES AND RENDER TARGETS")
	table.AddRow("Product", r.Desc.ProductName)
	table.AddRow("Manufacturer", r.Desc.Manufacturer)
	table.AddRow("Resolution", sizeString(r.Desc.Resolution))
	table.AddRow("Refresh rate", fmt.Sprintf("%.1f Hz", r.Desc.DisplayRefreshRate))
	table.AddRow("Clip planes", fmt.Sprintf("%g - %g", r.Clip.Near, r.Clip.Far))

	for _, eye := range r.Eyes {
		table.AddSeparator()
		table.AddRow(strings.ToUpper(eye.Eye.String())+" EYE", "")
		table.AddRow("Field of view", fovString(eye.Fov))
		p := eye.HmdToEye.Position
		table.AddRow("Offset from head", fmt.Sprintf("%.4f %.4f %.4f", p[0], p[1], p[2]))
		table.AddRow("Texture size", sizeString(r.EyeSizes[eye.Eye]))
	}

	table.AddSeparator()
	table.AddRow("Pixel density", fmt.Sprintf("%.2f", r.Density))
	table.AddRow("Shared texture", sizeString(r.Layout.Size))
	for eye, vp := range r.Layout.Viewports() {
		table.AddRow(fmt.Sprintf("Viewport (%s)", hmd.EyeType(eye)),
			fmt.Sprintf("%d,%d %s", vp.Pos.X, vp.Pos.Y, sizeString(vp.Size)))
	}
	table.AddRow("Mirror window", sizeString(r.Mirror))
	return table.Render()
}
