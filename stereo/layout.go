// Package stereo renders both eyes into one shared swap chain texture and
// drives the per-frame hand-off to the compositor.
package stereo

import (
	"github.com/pkg/errors"

	"github.com/go-vr/demos/hmd"
)

// Layout packs the two eye viewports side by side, left eye first.
type Layout struct {
	Size      hmd.Sizei
	viewports [hmd.EyeCount]hmd.Recti
}

// NewLayout computes the shared texture size from the recommended per-eye
// sizes: widths add up and the height is the larger of the two. Both
// viewports span the full texture height so they tile it exactly.
func NewLayout(sizes [hmd.EyeCount]hmd.Sizei) (Layout, error) {
	var l Layout
	for eye, size := range sizes {
		if size.W <= 0 || size.H <= 0 {
			return Layout{}, errors.Errorf("stereo: invalid %s eye size %dx%d", hmd.EyeType(eye), size.W, size.H)
		}
		if size.H > l.Size.H {
			l.Size.H = size.H
		}
	}
	hmd.ForEachEye(func(eye hmd.EyeType) {
		l.viewports[eye] = hmd.Recti{
			Pos:  hmd.Vector2i{X: l.Size.W},
			Size: hmd.Sizei{W: sizes[eye].W, H: l.Size.H},
		}
		l.Size.W += sizes[eye].W
	})
	return l, nil
}

// LayoutForSession asks the runtime for the recommended eye texture sizes at
// the given pixel density.
func LayoutForSession(s *hmd.Session, pixelDensity float32) (Layout, error) {
	rt, err := s.Runtime()
	if err != nil {
		return Layout{}, errors.Wrap(err, "eye layout")
	}
	var sizes [hmd.EyeCount]hmd.Sizei
	for _, eye := range s.Eyes() {
		sizes[eye.Eye] = rt.FovTextureSize(eye.Eye, eye.Fov, pixelDensity)
	}
	return NewLayout(sizes)
}

func (l Layout) Viewport(eye hmd.EyeType) hmd.Recti {
	return l.viewports[eye]
}

func (l Layout) Viewports() [hmd.EyeCount]hmd.Recti {
	return l.viewports
}

// MirrorSize is the layout size scaled down by divisor, never below 1x1.
func (l Layout) MirrorSize(divisor int) hmd.Sizei {
	if divisor < 1 {
		divisor = 1
	}
	size := hmd.Sizei{W: l.Size.W / divisor, H: l.Size.H / divisor}
	if size.W < 1 {
		size.W = 1
	}
	if size.H < 1 {
		size.H = 1
	}
	return size
}
