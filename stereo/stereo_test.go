package stereo

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-vr/demos/hmd"
	"github.com/go-vr/demos/hmdsim"
)

type recordingDevice struct {
	next      uint32
	calls     []string
	viewports []hmd.Recti
	deleted   []uint32
	statusErr error
}

func (d *recordingDevice) record(format string, args ...interface{}) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *recordingDevice) GenFramebuffer() uint32 {
	d.next++
	d.record("genfb %d", d.next)
	return d.next
}

func (d *recordingDevice) DeleteFramebuffer(fbo uint32) {
	d.deleted = append(d.deleted, fbo)
}

func (d *recordingDevice) GenDepthBuffer(size hmd.Sizei) uint32 {
	d.next++
	d.record("gendepth %d %dx%d", d.next, size.W, size.H)
	return d.next
}

func (d *recordingDevice) DeleteDepthBuffer(rbo uint32) {
	d.deleted = append(d.deleted, rbo)
}

func (d *recordingDevice) ConfigureTexture(tex uint32) {}

func (d *recordingDevice) BindFramebuffer(target FramebufferTarget, fbo uint32) {
	d.record("bind %d %d", target, fbo)
}

func (d *recordingDevice) AttachColor(target FramebufferTarget, tex uint32) {
	d.record("color %d %d", target, tex)
}

func (d *recordingDevice) AttachDepth(target FramebufferTarget, rbo uint32) {
	d.record("depth %d %d", target, rbo)
}

func (d *recordingDevice) FramebufferStatus(target FramebufferTarget) error {
	return d.statusErr
}

func (d *recordingDevice) Viewport(r hmd.Recti) {
	d.viewports = append(d.viewports, r)
}

func (d *recordingDevice) Clear(color mgl32.Vec4) {
	d.record("clear")
}

func (d *recordingDevice) BlitFramebuffer(src, dst hmd.Recti, flipY bool) {
	d.record("blit %dx%d -> %dx%d flip=%v", src.Size.W, src.Size.H, dst.Size.W, dst.Size.H, flipY)
}

type fakeWindow struct {
	size  hmd.Sizei
	swaps int
}

func (w *fakeWindow) FramebufferSize() hmd.Sizei { return w.size }
func (w *fakeWindow) SwapBuffers()               { w.swaps++ }

type fixture struct {
	sim     *hmdsim.Sim
	session *hmd.Session
	dev     *recordingDevice
	target  *Target
	window  *fakeWindow
}

func newFixture(t *testing.T) *fixture {
	sim := hmdsim.New(hmdsim.DefaultConfig(), nil)
	session, err := hmd.Open(sim, hmd.DefaultClipRange)
	require.NoError(t, err)

	layout, err := LayoutForSession(session, 0.25)
	require.NoError(t, err)

	dev := &recordingDevice{}
	target, err := NewTarget(session, dev, layout)
	require.NoError(t, err)
	require.NoError(t, target.CreateMirror(layout.MirrorSize(4)))

	f := &fixture{
		sim:     sim,
		session: session,
		dev:     dev,
		target:  target,
		window:  &fakeWindow{size: layout.MirrorSize(4)},
	}
	t.Cleanup(func() {
		target.Destroy()
		session.Close()
	})
	return f
}

func TestLayoutTilesTexture(t *testing.T) {
	tests := []struct {
		name  string
		sizes [hmd.EyeCount]hmd.Sizei
		want  hmd.Sizei
	}{
		{"symmetric", [2]hmd.Sizei{{W: 1344, H: 1600}, {W: 1344, H: 1600}}, hmd.Sizei{W: 2688, H: 1600}},
		{"asymmetric", [2]hmd.Sizei{{W: 1300, H: 1580}, {W: 1350, H: 1600}}, hmd.Sizei{W: 2650, H: 1600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLayout(tt.sizes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.Size)

			left, right := l.Viewport(hmd.EyeLeft), l.Viewport(hmd.EyeRight)
			assert.False(t, left.Overlaps(right))
			assert.Equal(t, l.Size.W*l.Size.H, left.Area()+right.Area())
			assert.Equal(t, 0, left.Pos.X)
			assert.Equal(t, left.Size.W, right.Pos.X)
			assert.Equal(t, l.Size.W, right.Pos.X+right.Size.W)
		})
	}
}

func TestLayoutRejectsEmptyEye(t *testing.T) {
	_, err := NewLayout([2]hmd.Sizei{{W: 10, H: 10}, {W: 0, H: 10}})
	assert.Error(t, err)
}

func TestMirrorSize(t *testing.T) {
	l, err := NewLayout([2]hmd.Sizei{{W: 1000, H: 800}, {W: 1000, H: 800}})
	require.NoError(t, err)
	assert.Equal(t, hmd.Sizei{W: 500, H: 200}, l.MirrorSize(4))
	assert.Equal(t, l.Size, l.MirrorSize(0))
}

func TestNewTargetAllocationFailures(t *testing.T) {
	sim := hmdsim.New(hmdsim.DefaultConfig(), nil)
	session, err := hmd.Open(sim, hmd.DefaultClipRange)
	require.NoError(t, err)
	defer session.Close()
	layout, err := LayoutForSession(session, 1)
	require.NoError(t, err)

	sim.Faults.SwapChain = errors.New("out of memory")
	_, err = NewTarget(session, &recordingDevice{}, layout)
	assert.True(t, errors.Is(err, hmd.ErrAllocationFailed))
	sim.Faults.SwapChain = nil

	dev := &recordingDevice{statusErr: errors.New("incomplete attachment")}
	_, err = NewTarget(session, dev, layout)
	assert.True(t, errors.Is(err, hmd.ErrAllocationFailed))
	assert.Len(t, dev.deleted, 2, "framebuffer and depth buffer released")

	target, err := NewTarget(session, &recordingDevice{}, layout)
	require.NoError(t, err)
	defer target.Destroy()
	sim.Faults.Mirror = errors.New("no mirror")
	assert.True(t, errors.Is(target.CreateMirror(layout.MirrorSize(4)), hmd.ErrAllocationFailed))
}

func TestClosedSessionIsUnavailable(t *testing.T) {
	sim := hmdsim.New(hmdsim.DefaultConfig(), nil)
	session, err := hmd.Open(sim, hmd.DefaultClipRange)
	require.NoError(t, err)
	layout, err := LayoutForSession(session, 0.25)
	require.NoError(t, err)
	session.Close()

	dev := &recordingDevice{}
	_, err = NewTarget(session, dev, layout)
	assert.True(t, errors.Is(err, hmd.ErrDeviceUnavailable))
	assert.Empty(t, dev.calls)

	_, err = LayoutForSession(session, 0.25)
	assert.True(t, errors.Is(err, hmd.ErrDeviceUnavailable))
}

func TestBindForDrawWithoutAcquirePanics(t *testing.T) {
	f := newFixture(t)

	assertMisuse(t, func() {
		f.target.BindForDraw(Slot{Index: 0, Texture: f.target.SwapChain().Buffer(0)})
	})

	slot := f.target.AcquireCurrentSlot()
	f.target.BindForDraw(slot)
	require.NoError(t, f.target.Commit())

	assertMisuse(t, func() {
		f.target.BindForDraw(slot)
	}, "slot from a previous frame")
}

func TestTargetMisuse(t *testing.T) {
	f := newFixture(t)

	assertMisuse(t, func() { f.target.SetViewport(hmd.EyeLeft) })
	assertMisuse(t, func() { _ = f.target.Commit() })

	slot := f.target.AcquireCurrentSlot()
	assertMisuse(t, func() { f.target.AcquireCurrentSlot() })
	assertMisuse(t, func() { f.target.BindForDraw(Slot{Index: slot.Index + 1}) })
	assertMisuse(t, func() { f.target.Clear(mgl32.Vec4{}) })
}

func TestAcquireFollowsRing(t *testing.T) {
	f := newFixture(t)
	chain := f.target.SwapChain()
	for i := 0; i < 2*chain.Length(); i++ {
		slot := f.target.AcquireCurrentSlot()
		assert.Equal(t, i%chain.Length(), slot.Index)
		assert.Equal(t, chain.Buffer(slot.Index), slot.Texture)
		require.NoError(t, f.target.Commit())
	}
}

func assertMisuse(t *testing.T, fn func(), msgAndArgs ...interface{}) {
	t.Helper()
	defer func() {
		v := recover()
		require.NotNil(t, v, msgAndArgs...)
		_, ok := v.(*hmd.ProgrammingError)
		assert.True(t, ok, "panic value %v is not a *hmd.ProgrammingError", v)
	}()
	fn()
}
