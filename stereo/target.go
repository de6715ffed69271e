package stereo

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/go-vr/demos/hmd"
	"github.com/go-vr/demos/log"
)

var logger = log.New("stereo")

type FramebufferTarget int

const (
	DrawFramebuffer FramebufferTarget = iota
	ReadFramebuffer
)

// Device is the slice of the graphics API the render target needs. Package
// glrender implements it on top of OpenGL.
type Device interface {
	GenFramebuffer() uint32
	DeleteFramebuffer(fbo uint32)
	// GenDepthBuffer allocates a depth renderbuffer of the given size.
	GenDepthBuffer(size hmd.Sizei) uint32
	DeleteDepthBuffer(rbo uint32)
	// ConfigureTexture sets linear filtering and edge clamping on tex.
	ConfigureTexture(tex uint32)

	BindFramebuffer(target FramebufferTarget, fbo uint32)
	// AttachColor attaches tex as color attachment 0; tex 0 detaches.
	AttachColor(target FramebufferTarget, tex uint32)
	AttachDepth(target FramebufferTarget, rbo uint32)
	FramebufferStatus(target FramebufferTarget) error

	Viewport(r hmd.Recti)
	// Clear clears color and depth of the bound draw framebuffer.
	Clear(color mgl32.Vec4)
	// BlitFramebuffer copies src of the read framebuffer into dst of the
	// default framebuffer.
	BlitFramebuffer(src, dst hmd.Recti, flipY bool)
}

// Slot is the swap chain texture borrowed for the current frame.
type Slot struct {
	Index   int
	Texture uint32
}

// Target owns the offscreen framebuffer with its shared depth buffer, the
// swap chain it draws into and the mirror preview.
type Target struct {
	rt     hmd.Runtime
	dev    Device
	layout Layout

	chain hmd.SwapChain
	fbo   uint32
	depth uint32

	mirror    hmd.MirrorTexture
	mirrorFbo uint32

	acquired  bool
	bound     bool
	slot      Slot
	destroyed bool
}

// NewTarget allocates a swap chain covering layout, a matching depth buffer
// and the framebuffer that ties them together.
func NewTarget(session *hmd.Session, dev Device, layout Layout) (*Target, error) {
	rt, err := session.Runtime()
	if err != nil {
		return nil, errors.Wrap(err, "render target")
	}
	chain, err := rt.CreateSwapChain(hmd.SwapChainDesc{
		Width:       layout.Size.W,
		Height:      layout.Size.H,
		Format:      hmd.FormatR8G8B8A8UnormSRGB,
		MipLevels:   1,
		SampleCount: 1,
		ArraySize:   1,
	})
	if err != nil {
		return nil, errors.Wrapf(hmd.ErrAllocationFailed, "swap chain %dx%d: %v", layout.Size.W, layout.Size.H, err)
	}
	if chain.Length() == 0 {
		chain.Destroy()
		return nil, errors.Wrap(hmd.ErrAllocationFailed, "swap chain has no textures")
	}
	for i := 0; i < chain.Length(); i++ {
		dev.ConfigureTexture(chain.Buffer(i))
	}

	t := &Target{
		rt:     rt,
		dev:    dev,
		layout: layout,
		chain:  chain,
	}
	t.fbo = dev.GenFramebuffer()
	t.depth = dev.GenDepthBuffer(layout.Size)
	dev.BindFramebuffer(DrawFramebuffer, t.fbo)
	dev.AttachDepth(DrawFramebuffer, t.depth)
	dev.AttachColor(DrawFramebuffer, chain.Buffer(0))
	err = dev.FramebufferStatus(DrawFramebuffer)
	dev.AttachColor(DrawFramebuffer, 0)
	dev.BindFramebuffer(DrawFramebuffer, 0)
	if err != nil {
		t.Destroy()
		return nil, errors.Wrapf(hmd.ErrAllocationFailed, "eye framebuffer: %v", err)
	}
	logger.Infof("render target %dx%d, %d swap textures", layout.Size.W, layout.Size.H, chain.Length())
	return t, nil
}

func (t *Target) Layout() Layout {
	return t.layout
}

func (t *Target) SwapChain() hmd.SwapChain {
	return t.chain
}

// AcquireCurrentSlot borrows the swap chain texture the runtime selected for
// this frame. The slot stays valid until Commit.
func (t *Target) AcquireCurrentSlot() Slot {
	if t.destroyed {
		hmd.Misuse("Target.AcquireCurrentSlot", "target is destroyed")
	}
	if t.acquired {
		hmd.Misuse("Target.AcquireCurrentSlot", "slot %d is still acquired", t.slot.Index)
	}
	idx := t.chain.CurrentIndex()
	t.slot = Slot{Index: idx, Texture: t.chain.Buffer(idx)}
	t.acquired = true
	return t.slot
}

// BindForDraw attaches slot and the depth buffer to the offscreen
// framebuffer. Calling it outside the acquire/commit window panics.
func (t *Target) BindForDraw(slot Slot) {
	if !t.acquired {
		hmd.Misuse("Target.BindForDraw", "no slot acquired in this frame")
	}
	if slot != t.slot {
		hmd.Misuse("Target.BindForDraw", "slot %d is not the acquired slot %d", slot.Index, t.slot.Index)
	}
	t.dev.BindFramebuffer(DrawFramebuffer, t.fbo)
	t.dev.AttachColor(DrawFramebuffer, slot.Texture)
	t.bound = true
}

// Clear clears the whole bound target, both eyes at once.
func (t *Target) Clear(color mgl32.Vec4) {
	t.mustBeBound("Target.Clear")
	t.dev.Clear(color)
}

// SetViewport restricts drawing to the viewport of eye.
func (t *Target) SetViewport(eye hmd.EyeType) hmd.Recti {
	t.mustBeBound("Target.SetViewport")
	vp := t.layout.Viewport(eye)
	t.dev.Viewport(vp)
	return vp
}

func (t *Target) mustBeBound(op string) {
	if !t.acquired || !t.bound {
		hmd.Misuse(op, "target is not bound for drawing")
	}
}

// Commit detaches the slot and hands it to the runtime, advancing the ring.
// The slot is released even when the runtime rejects the commit.
func (t *Target) Commit() error {
	if !t.acquired {
		hmd.Misuse("Target.Commit", "no slot acquired in this frame")
	}
	if t.bound {
		t.dev.AttachColor(DrawFramebuffer, 0)
		t.dev.BindFramebuffer(DrawFramebuffer, 0)
	}
	t.acquired = false
	t.bound = false
	if err := t.chain.Commit(); err != nil {
		return errors.Wrapf(hmd.ErrSubmissionFailed, "commit slot %d: %v", t.slot.Index, err)
	}
	return nil
}

// CreateMirror allocates the preview texture the compositor copies each
// frame into, plus the framebuffer used to read it back.
func (t *Target) CreateMirror(size hmd.Sizei) error {
	if t.mirror != nil {
		hmd.Misuse("Target.CreateMirror", "mirror already created")
	}
	mirror, err := t.rt.CreateMirrorTexture(hmd.MirrorDesc{
		Width:  size.W,
		Height: size.H,
		Format: hmd.FormatR8G8B8A8UnormSRGB,
	})
	if err != nil {
		return errors.Wrapf(hmd.ErrAllocationFailed, "mirror %dx%d: %v", size.W, size.H, err)
	}
	t.mirror = mirror
	t.mirrorFbo = t.dev.GenFramebuffer()
	logger.Infof("mirror texture %dx%d", size.W, size.H)
	return nil
}

func (t *Target) Mirror() hmd.MirrorTexture {
	return t.mirror
}

// BlitMirror copies the mirror texture into the window's framebuffer,
// flipping it since the mirror has a top-left origin.
func (t *Target) BlitMirror(window hmd.Sizei) {
	if t.mirror == nil {
		hmd.Misuse("Target.BlitMirror", "no mirror created")
	}
	size := t.mirror.Size()
	t.dev.BindFramebuffer(ReadFramebuffer, t.mirrorFbo)
	t.dev.AttachColor(ReadFramebuffer, t.mirror.Buffer())
	t.dev.BlitFramebuffer(hmd.Recti{Size: size}, hmd.Recti{Size: window}, true)
	t.dev.AttachColor(ReadFramebuffer, 0)
	t.dev.BindFramebuffer(ReadFramebuffer, 0)
}

// Destroy releases every GPU object and the runtime textures. It is safe to
// call more than once.
func (t *Target) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	if t.mirror != nil {
		t.dev.DeleteFramebuffer(t.mirrorFbo)
		t.mirror.Destroy()
	}
	t.dev.DeleteDepthBuffer(t.depth)
	t.dev.DeleteFramebuffer(t.fbo)
	t.chain.Destroy()
}
