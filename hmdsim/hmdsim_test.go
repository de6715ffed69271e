package hmdsim

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-vr/demos/hmd"
)

type copyCall struct {
	src, dst         uint32
	srcRect, dstRect hmd.Recti
	flipY            bool
}

type recordingAllocator struct {
	nameAllocator
	deleted []uint32
	copies  []copyCall
}

func (a *recordingAllocator) DeleteTexture(tex uint32) {
	a.deleted = append(a.deleted, tex)
}

func (a *recordingAllocator) CopyTexture(src uint32, srcRect hmd.Recti, dst uint32, dstRect hmd.Recti, flipY bool) {
	a.copies = append(a.copies, copyCall{src: src, dst: dst, srcRect: srcRect, dstRect: dstRect, flipY: flipY})
}

func newCreated(t *testing.T, alloc TextureAllocator) *Sim {
	sim := New(DefaultConfig(), alloc)
	_, err := sim.Create()
	require.NoError(t, err)
	return sim
}

func TestCreateDescriptor(t *testing.T) {
	sim := New(DefaultConfig(), nil)
	desc, err := sim.Create()
	require.NoError(t, err)

	assert.Equal(t, float32(90), desc.DisplayRefreshRate)
	left, right := desc.DefaultEyeFov[hmd.EyeLeft], desc.DefaultEyeFov[hmd.EyeRight]
	assert.Equal(t, left.LeftTan, right.RightTan)
	assert.Equal(t, left.RightTan, right.LeftTan)

	_, err = sim.Create()
	assert.Error(t, err)
}

func TestCreateFault(t *testing.T) {
	sim := New(DefaultConfig(), nil)
	sim.Faults.Create = errors.New("unplugged")
	_, err := hmd.Open(sim, hmd.DefaultClipRange)
	assert.True(t, errors.Is(err, hmd.ErrDeviceUnavailable))
}

func TestRenderDescEyeOffsets(t *testing.T) {
	sim := New(DefaultConfig(), nil)
	l := sim.RenderDesc(hmd.EyeLeft, hmd.FovPort{})
	r := sim.RenderDesc(hmd.EyeRight, hmd.FovPort{})
	assert.InDelta(t, 0.064, r.HmdToEyePose.Position.X()-l.HmdToEyePose.Position.X(), 1e-6)
}

func TestFovTextureSize(t *testing.T) {
	sim := New(DefaultConfig(), nil)
	fov := hmd.FovPort{UpTan: 1, DownTan: 1, LeftTan: 0.5, RightTan: 0.5}
	assert.Equal(t, hmd.Sizei{W: 600, H: 1200}, sim.FovTextureSize(hmd.EyeLeft, fov, 1))
	assert.Equal(t, hmd.Sizei{W: 300, H: 600}, sim.FovTextureSize(hmd.EyeLeft, fov, 0.5))
}

func TestPredictedDisplayTime(t *testing.T) {
	now := time.Unix(100, 0)
	sim := New(DefaultConfig(), nil)
	sim.SetClock(func() time.Time { return now })
	_, err := sim.Create()
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	assert.InDelta(t, 2+1.0/90, sim.PredictedDisplayTime(0), 1e-9)
}

func TestSwapChainRing(t *testing.T) {
	alloc := &recordingAllocator{}
	sim := newCreated(t, alloc)

	chain, err := sim.CreateSwapChain(hmd.SwapChainDesc{Width: 64, Height: 32, Format: hmd.FormatR8G8B8A8UnormSRGB})
	require.NoError(t, err)
	require.Equal(t, 3, chain.Length())

	seen := map[int]bool{}
	for i := 0; i < 3; i++ {
		seen[chain.CurrentIndex()] = true
		require.NoError(t, chain.Commit())
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, 0, chain.CurrentIndex())

	chain.Destroy()
	chain.Destroy()
	assert.Len(t, alloc.deleted, 3)
	assert.Error(t, chain.Commit())
}

func TestSwapChainRejectsBadDesc(t *testing.T) {
	sim := newCreated(t, nil)
	_, err := sim.CreateSwapChain(hmd.SwapChainDesc{Width: 0, Height: 32, Format: hmd.FormatR8G8B8A8UnormSRGB})
	assert.Error(t, err)
	_, err = sim.CreateSwapChain(hmd.SwapChainDesc{Width: 32, Height: 32})
	assert.Error(t, err)
}

func TestSubmitComposesMirror(t *testing.T) {
	alloc := &recordingAllocator{}
	sim := newCreated(t, alloc)

	chain, err := sim.CreateSwapChain(hmd.SwapChainDesc{Width: 400, Height: 200, Format: hmd.FormatR8G8B8A8UnormSRGB})
	require.NoError(t, err)
	mirror, err := sim.CreateMirrorTexture(hmd.MirrorDesc{Width: 100, Height: 50, Format: hmd.FormatR8G8B8A8UnormSRGB})
	require.NoError(t, err)

	layer := &hmd.LayerEyeFov{
		ColorTexture: chain,
		Viewport: [hmd.EyeCount]hmd.Recti{
			{Size: hmd.Sizei{W: 200, H: 200}},
			{Pos: hmd.Vector2i{X: 200}, Size: hmd.Sizei{W: 200, H: 200}},
		},
		TextureOriginAtBottomLeft: true,
	}

	assert.Error(t, sim.SubmitFrame(0, nil, layer), "nothing committed yet")

	slot := chain.CurrentIndex()
	require.NoError(t, chain.Commit())
	require.NoError(t, sim.SubmitFrame(0, nil, layer))

	require.Len(t, alloc.copies, 2)
	assert.Equal(t, chain.Buffer(slot), alloc.copies[0].src)
	assert.Equal(t, mirror.Buffer(), alloc.copies[0].dst)
	assert.Equal(t, hmd.Recti{Size: hmd.Sizei{W: 50, H: 50}}, alloc.copies[0].dstRect)
	assert.Equal(t, hmd.Recti{Pos: hmd.Vector2i{X: 50}, Size: hmd.Sizei{W: 50, H: 50}}, alloc.copies[1].dstRect)
	assert.True(t, alloc.copies[1].flipY)

	assert.Equal(t, int64(1), sim.Submitted())
	last, ok := sim.LastLayer()
	require.True(t, ok)
	assert.Equal(t, layer.Viewport, last.Viewport)

	assert.Error(t, sim.SubmitFrame(1, nil, layer), "commit is consumed by the previous submit")
}

func TestSubmitFault(t *testing.T) {
	sim := newCreated(t, nil)
	chain, err := sim.CreateSwapChain(hmd.SwapChainDesc{Width: 4, Height: 4, Format: hmd.FormatR8G8B8A8Unorm})
	require.NoError(t, err)

	boom := errors.New("compositor lost")
	sim.Faults.Submit = func(frameIndex int64) error {
		if frameIndex == 1 {
			return boom
		}
		return nil
	}
	layer := &hmd.LayerEyeFov{ColorTexture: chain}
	for frame := int64(0); frame < 3; frame++ {
		require.NoError(t, chain.Commit())
		err := sim.SubmitFrame(frame, nil, layer)
		if frame == 1 {
			assert.Equal(t, boom, err)
		} else {
			assert.NoError(t, err)
		}
	}
	assert.Equal(t, int64(2), sim.Submitted())
}

func TestLookAndRecenter(t *testing.T) {
	sim := newCreated(t, nil)
	forward := mgl32.Vec3{0, 0, -1}

	sim.Look(-100, 0)
	head := sim.TrackingState(0).HeadPose
	gaze := head.Orientation.Rotate(forward)
	assert.InDelta(t, -math.Sin(0.5), float64(gaze.X()), 1e-5)

	require.NoError(t, sim.RecenterTrackingOrigin())
	head = sim.TrackingState(0).HeadPose
	gaze = head.Orientation.Rotate(forward)
	assert.InDeltaSlice(t, forward[:], gaze[:], 1e-5)
}

func TestPitchIsClamped(t *testing.T) {
	sim := newCreated(t, nil)
	sim.Look(0, -10000)
	assert.Equal(t, float32(1.4), sim.pitch)
}

func TestHandsAimAtFocus(t *testing.T) {
	sim := newCreated(t, nil)
	ts := sim.TrackingState(0)
	focus := mgl32.Vec3{0, 0, -15}
	for h := hmd.Hand(0); h < hmd.HandCount; h++ {
		pose := ts.HandPoses[h]
		dir := pose.Orientation.Rotate(mgl32.Vec3{0, 0, -1})
		want := focus.Sub(pose.Position).Normalize()
		assert.True(t, dir.ApproxEqualThreshold(want, 1e-4), "hand %s", h)
		assert.True(t, ts.HandTracked[h])
	}
}

func TestInputAndVibration(t *testing.T) {
	sim := newCreated(t, nil)
	sim.SetTrigger(hmd.HandLeft, 1.5)
	sim.SetTrigger(hmd.HandRight, 0.25)
	sim.SetButton(hmd.ButtonA, true)

	in, err := sim.InputState(hmd.ControllerTouch)
	require.NoError(t, err)
	assert.Equal(t, [hmd.HandCount]float32{1, 0.25}, in.IndexTrigger)
	assert.Equal(t, hmd.ButtonA, in.Buttons)

	in, err = sim.InputState(hmd.ControllerRTouch)
	require.NoError(t, err)
	assert.Equal(t, [hmd.HandCount]float32{0, 0.25}, in.IndexTrigger)

	sim.SetButton(hmd.ButtonA, false)
	in, _ = sim.InputState(hmd.ControllerTouch)
	assert.Zero(t, in.Buttons)

	require.NoError(t, sim.SetControllerVibration(hmd.ControllerLTouch, 0, 1))
	_, amp := sim.Vibration(hmd.HandLeft)
	assert.Equal(t, float32(1), amp)
	_, amp = sim.Vibration(hmd.HandRight)
	assert.Zero(t, amp)

	sim.Destroy()
	_, err = sim.InputState(hmd.ControllerTouch)
	assert.True(t, errors.Is(err, hmd.ErrDeviceUnavailable))
}

func TestSetAllocatorBeforeTextures(t *testing.T) {
	sim := newCreated(t, nil)
	alloc := &recordingAllocator{}
	sim.SetAllocator(alloc)

	chain, err := sim.CreateSwapChain(hmd.SwapChainDesc{
		Width:  64,
		Height: 32,
		Format: hmd.FormatR8G8B8A8UnormSRGB,
	})
	require.NoError(t, err)
	chain.Destroy()
	assert.Len(t, alloc.deleted, chain.Length())

	assert.Panics(t, func() { sim.SetAllocator(nil) })
}
