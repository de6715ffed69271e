// Package glrender is the OpenGL side of the demo: the framebuffer device
// used by the stereo target, texture storage for the simulated compositor,
// and the shaded meshes the scene is drawn with.
package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/go-vr/demos/hmd"
	"github.com/go-vr/demos/log"
	"github.com/go-vr/demos/stereo"
)

var logger = log.New("glrender")

// Init loads the GL function pointers for the current context and sets the
// state shared by every pass. It must run on the thread owning the context.
func Init() error {
	if err := gl.Init(); err != nil {
		return errors.Wrapf(hmd.ErrAllocationFailed, "gl init: %v", err)
	}
	logger.Infof("OpenGL %s on %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.FRAMEBUFFER_SRGB)
	return nil
}

// Device implements stereo.Device and hmdsim.TextureAllocator.
type Device struct {
	copyRead uint32
	copyDraw uint32
}

func NewDevice() *Device {
	return &Device{}
}

func glTarget(target stereo.FramebufferTarget) uint32 {
	if target == stereo.ReadFramebuffer {
		return gl.READ_FRAMEBUFFER
	}
	return gl.DRAW_FRAMEBUFFER
}

func (d *Device) GenFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (d *Device) DeleteFramebuffer(fbo uint32) {
	gl.DeleteFramebuffers(1, &fbo)
}

func (d *Device) GenDepthBuffer(size hmd.Sizei) uint32 {
	var rbo uint32
	gl.GenRenderbuffers(1, &rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT16, int32(size.W), int32(size.H))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	return rbo
}

func (d *Device) DeleteDepthBuffer(rbo uint32) {
	gl.DeleteRenderbuffers(1, &rbo)
}

func (d *Device) ConfigureTexture(tex uint32) {
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (d *Device) BindFramebuffer(target stereo.FramebufferTarget, fbo uint32) {
	gl.BindFramebuffer(glTarget(target), fbo)
}

func (d *Device) AttachColor(target stereo.FramebufferTarget, tex uint32) {
	gl.FramebufferTexture2D(glTarget(target), gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
}

func (d *Device) AttachDepth(target stereo.FramebufferTarget, rbo uint32) {
	gl.FramebufferRenderbuffer(glTarget(target), gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rbo)
}

func (d *Device) FramebufferStatus(target stereo.FramebufferTarget) error {
	switch status := gl.CheckFramebufferStatus(glTarget(target)); status {
	case gl.FRAMEBUFFER_COMPLETE:
		return nil
	case gl.FRAMEBUFFER_UNDEFINED:
		return errors.New("framebuffer undefined")
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return errors.New("framebuffer incomplete attachment")
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return errors.New("framebuffer missing attachment")
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return errors.New("framebuffer format combination unsupported")
	default:
		return errors.Errorf("framebuffer status 0x%x", status)
	}
}

func (d *Device) Viewport(r hmd.Recti) {
	gl.Viewport(int32(r.Pos.X), int32(r.Pos.Y), int32(r.Size.W), int32(r.Size.H))
}

func (d *Device) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) BlitFramebuffer(src, dst hmd.Recti, flipY bool) {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	blit(src, dst, flipY, gl.NEAREST)
}

func blit(src, dst hmd.Recti, flipY bool, filter uint32) {
	y0, y1 := int32(dst.Pos.Y), int32(dst.Pos.Y+dst.Size.H)
	if flipY {
		y0, y1 = y1, y0
	}
	gl.BlitFramebuffer(
		int32(src.Pos.X), int32(src.Pos.Y), int32(src.Pos.X+src.Size.W), int32(src.Pos.Y+src.Size.H),
		int32(dst.Pos.X), y0, int32(dst.Pos.X+dst.Size.W), y1,
		gl.COLOR_BUFFER_BIT, filter)
}

func internalFormat(format hmd.TextureFormat) (int32, error) {
	switch format {
	case hmd.FormatR8G8B8A8UnormSRGB:
		return gl.SRGB8_ALPHA8, nil
	case hmd.FormatR8G8B8A8Unorm:
		return gl.RGBA8, nil
	default:
		return 0, errors.Errorf("unsupported texture format %d", format)
	}
}

func (d *Device) NewTexture(size hmd.Sizei, format hmd.TextureFormat) (uint32, error) {
	internal, err := internalFormat(format)
	if err != nil {
		return 0, err
	}
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(size.W), int32(size.H), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	d.ConfigureTexture(tex)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return 0, errors.Errorf("texture %dx%d: gl error 0x%x", size.W, size.H, code)
	}
	return tex, nil
}

func (d *Device) DeleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}

// CopyTexture blits between two textures through a pair of scratch
// framebuffers. Both framebuffer bindings are reset to 0 afterwards.
func (d *Device) CopyTexture(src uint32, srcRect hmd.Recti, dst uint32, dstRect hmd.Recti, flipY bool) {
	if d.copyRead == 0 {
		d.copyRead = d.GenFramebuffer()
		d.copyDraw = d.GenFramebuffer()
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.copyRead)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, src, 0)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, d.copyDraw)
	gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, dst, 0)

	blit(srcRect, dstRect, flipY, gl.LINEAR)

	gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, 0, 0)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, 0, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
}

// Release deletes the scratch framebuffers.
func (d *Device) Release() {
	if d.copyRead != 0 {
		d.DeleteFramebuffer(d.copyRead)
		d.DeleteFramebuffer(d.copyDraw)
		d.copyRead, d.copyDraw = 0, 0
	}
}
