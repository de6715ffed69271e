// Package hmdsim is a desktop stand-in for a headset runtime. Head pose comes
// from mouse look, the hands float below the head aiming at the gaze point,
// and the compositor copies each submitted layer into the mirror texture.
package hmdsim

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/go-vr/demos/hmd"
	"github.com/go-vr/demos/log"
)

var logger = log.New("hmdsim")

type Config struct {
	ProductName  string
	Manufacturer string
	Resolution   hmd.Sizei
	RefreshRate  float32
	// IPD is the distance between the eye centres in metres.
	IPD float32
	// EyeFov is the left eye field of view, mirrored for the right eye.
	EyeFov       hmd.FovPort
	PixelsPerTan float32
	// SwapChainLength is the number of textures in every swap chain.
	SwapChainLength int
	// MouseSensitivity converts cursor pixels into radians.
	MouseSensitivity float32
	// FocusDistance is how far ahead of the head both hands aim.
	FocusDistance float32
}

func DefaultConfig() Config {
	return Config{
		ProductName:  "Simulated HMD",
		Manufacturer: "go-vr",
		Resolution:   hmd.Sizei{W: 2160, H: 1200},
		RefreshRate:  90,
		IPD:          0.064,
		EyeFov: hmd.FovPort{
			UpTan:    1.33,
			DownTan:  1.33,
			LeftTan:  1.06,
			RightTan: 1.09,
		},
		PixelsPerTan:     600,
		SwapChainLength:  3,
		MouseSensitivity: 0.005,
		FocusDistance:    15,
	}
}

// Faults makes individual runtime calls fail, for exercising error paths.
type Faults struct {
	Create    error
	SwapChain error
	Mirror    error
	Commit    error
	// Submit is consulted for every SubmitFrame call when set.
	Submit func(frameIndex int64) error
}

// TextureAllocator provides the GPU storage behind swap chains and the
// mirror. The GL implementation lives in package glrender.
type TextureAllocator interface {
	NewTexture(size hmd.Sizei, format hmd.TextureFormat) (uint32, error)
	DeleteTexture(tex uint32)
	// CopyTexture scales srcRect of src into dstRect of dst, optionally
	// flipping rows.
	CopyTexture(src uint32, srcRect hmd.Recti, dst uint32, dstRect hmd.Recti, flipY bool)
}

// handOffsets are the controller positions in head space.
var handOffsets = [hmd.HandCount]mgl32.Vec3{
	{-0.2, -0.3, -0.3},
	{0.2, -0.3, -0.3},
}

// Sim implements hmd.Runtime.
type Sim struct {
	Faults Faults

	cfg   Config
	alloc TextureAllocator
	clock func() time.Time
	start time.Time

	created bool

	yaw, pitch float32
	yawOrigin  float32
	triggers   [hmd.HandCount]float32
	buttons    uint32
	vibration  [hmd.HandCount][2]float32

	mirror    *mirrorTexture
	chains    []*swapChain
	submitted int64
	lastLayer *hmd.LayerEyeFov
}

// New creates a simulated runtime. A nil alloc hands out texture names
// without touching the GPU.
func New(cfg Config, alloc TextureAllocator) *Sim {
	if alloc == nil {
		alloc = &nameAllocator{}
	}
	return &Sim{
		cfg:   cfg,
		alloc: alloc,
		clock: time.Now,
	}
}

// SetAllocator swaps the texture storage. It must be called before the
// first swap chain or mirror is created.
func (s *Sim) SetAllocator(alloc TextureAllocator) {
	if len(s.chains) > 0 || s.mirror != nil {
		hmd.Misuse("Sim.SetAllocator", "textures already allocated")
	}
	s.alloc = alloc
}

// SetClock replaces the wall clock used for display time prediction.
func (s *Sim) SetClock(clock func() time.Time) {
	s.clock = clock
}

func (s *Sim) Create() (hmd.Desc, error) {
	if s.Faults.Create != nil {
		return hmd.Desc{}, s.Faults.Create
	}
	if s.created {
		return hmd.Desc{}, errors.New("hmdsim: session already created")
	}
	s.created = true
	s.start = s.clock()
	logger.Noticef("simulated %s at %.0fHz", s.cfg.ProductName, s.cfg.RefreshRate)
	return hmd.Desc{
		ProductName:        s.cfg.ProductName,
		Manufacturer:       s.cfg.Manufacturer,
		Resolution:         s.cfg.Resolution,
		DisplayRefreshRate: s.cfg.RefreshRate,
		DefaultEyeFov:      [hmd.EyeCount]hmd.FovPort{s.cfg.EyeFov, mirrorFov(s.cfg.EyeFov)},
	}, nil
}

func mirrorFov(fov hmd.FovPort) hmd.FovPort {
	fov.LeftTan, fov.RightTan = fov.RightTan, fov.LeftTan
	return fov
}

func (s *Sim) Destroy() {
	if !s.created {
		return
	}
	s.created = false
	for _, c := range s.chains {
		c.Destroy()
	}
	s.chains = nil
	if s.mirror != nil {
		s.mirror.Destroy()
	}
	logger.Infof("simulated session destroyed after %d frames", s.submitted)
}

func (s *Sim) RenderDesc(eye hmd.EyeType, fov hmd.FovPort) hmd.EyeRenderDesc {
	x := s.cfg.IPD / 2
	if eye == hmd.EyeLeft {
		x = -x
	}
	return hmd.EyeRenderDesc{
		Eye: eye,
		Fov: fov,
		HmdToEyePose: hmd.Pose{
			Orientation: mgl32.QuatIdent(),
			Position:    mgl32.Vec3{x, 0, 0},
		},
	}
}

func (s *Sim) FovTextureSize(eye hmd.EyeType, fov hmd.FovPort, pixelsPerDisplayPixel float32) hmd.Sizei {
	ppt := float64(s.cfg.PixelsPerTan * pixelsPerDisplayPixel)
	return hmd.Sizei{
		W: int(math.Ceil(float64(fov.LeftTan+fov.RightTan) * ppt)),
		H: int(math.Ceil(float64(fov.UpTan+fov.DownTan) * ppt)),
	}
}

// PredictedDisplayTime is one refresh interval past the current instant.
func (s *Sim) PredictedDisplayTime(frameIndex int64) float64 {
	return s.now() + 1/float64(s.cfg.RefreshRate)
}

func (s *Sim) now() float64 {
	return s.clock().Sub(s.start).Seconds()
}

// EyePoses composes the head pose at the predicted display time with both
// eye offsets. The simulated head only moves on input events, so the
// prediction equals the latest sample.
func (s *Sim) EyePoses(frameIndex int64, hmdToEye [hmd.EyeCount]hmd.Pose) ([hmd.EyeCount]hmd.Pose, float64) {
	ts := s.TrackingState(s.PredictedDisplayTime(frameIndex))
	var poses [hmd.EyeCount]hmd.Pose
	for eye := range poses {
		poses[eye] = ts.HeadPose.Compose(hmdToEye[eye])
	}
	return poses, s.now()
}

func (s *Sim) headPose() hmd.Pose {
	yaw := mgl32.QuatRotate(s.yaw-s.yawOrigin, mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(s.pitch, mgl32.Vec3{1, 0, 0})
	return hmd.Pose{
		Orientation: yaw.Mul(pitch).Normalize(),
	}
}

func (s *Sim) TrackingState(absTime float64) hmd.TrackingState {
	head := s.headPose()
	focus := head.Transform(mgl32.Vec3{0, 0, -s.cfg.FocusDistance})
	ts := hmd.TrackingState{HeadPose: head}
	for h := range handOffsets {
		pos := head.Transform(handOffsets[h])
		dir := focus.Sub(pos).Normalize()
		ts.HandPoses[h] = hmd.Pose{
			Orientation: mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, -1}, dir),
			Position:    pos,
		}
		ts.HandTracked[h] = true
	}
	return ts
}

func (s *Sim) InputState(ct hmd.ControllerType) (hmd.InputState, error) {
	if !s.created {
		return hmd.InputState{}, errors.Wrap(hmd.ErrDeviceUnavailable, "hmdsim: input state")
	}
	in := hmd.InputState{
		TimeInSeconds: s.now(),
		Buttons:       s.buttons,
	}
	for h := hmd.Hand(0); h < hmd.HandCount; h++ {
		if ct == hmd.ControllerTouch || ct == h.Controller() {
			in.IndexTrigger[h] = s.triggers[h]
		}
	}
	return in, nil
}

func (s *Sim) SetControllerVibration(ct hmd.ControllerType, frequency, amplitude float32) error {
	if !s.created {
		return errors.Wrap(hmd.ErrDeviceUnavailable, "hmdsim: vibration")
	}
	for h := hmd.Hand(0); h < hmd.HandCount; h++ {
		if ct != hmd.ControllerTouch && ct != h.Controller() {
			continue
		}
		prev := s.vibration[h]
		s.vibration[h] = [2]float32{frequency, amplitude}
		if prev[1] != amplitude {
			logger.Debugf("%s controller vibration: freq %.2f amp %.2f", h, frequency, amplitude)
		}
	}
	return nil
}

// Vibration returns the last frequency and amplitude requested for hand.
func (s *Sim) Vibration(hand hmd.Hand) (frequency, amplitude float32) {
	v := s.vibration[hand]
	return v[0], v[1]
}

func (s *Sim) RecenterTrackingOrigin() error {
	if !s.created {
		return errors.Wrap(hmd.ErrDeviceUnavailable, "hmdsim: recenter")
	}
	s.yawOrigin = s.yaw
	s.pitch = 0
	return nil
}

// Look turns the head by a cursor delta in pixels.
func (s *Sim) Look(dx, dy float64) {
	s.yaw -= float32(dx) * s.cfg.MouseSensitivity
	s.pitch -= float32(dy) * s.cfg.MouseSensitivity
	const maxPitch = 1.4
	if s.pitch > maxPitch {
		s.pitch = maxPitch
	} else if s.pitch < -maxPitch {
		s.pitch = -maxPitch
	}
}

// SetTrigger sets the analog index trigger of hand, clamped to [0,1].
func (s *Sim) SetTrigger(hand hmd.Hand, value float32) {
	s.triggers[hand] = mgl32.Clamp(value, 0, 1)
}

// SetButton sets or clears the buttons in mask.
func (s *Sim) SetButton(mask uint32, down bool) {
	if down {
		s.buttons |= mask
	} else {
		s.buttons &^= mask
	}
}

// Submitted returns how many frames the compositor accepted.
func (s *Sim) Submitted() int64 {
	return s.submitted
}

// LastLayer returns a copy of the most recently accepted layer.
func (s *Sim) LastLayer() (hmd.LayerEyeFov, bool) {
	if s.lastLayer == nil {
		return hmd.LayerEyeFov{}, false
	}
	return *s.lastLayer, true
}

func (s *Sim) SubmitFrame(frameIndex int64, viewScale *hmd.ViewScaleDesc, layers ...*hmd.LayerEyeFov) error {
	if !s.created {
		return errors.Wrap(hmd.ErrDeviceUnavailable, "hmdsim: submit")
	}
	if len(layers) == 0 || layers[0] == nil {
		return errors.New("hmdsim: no layers submitted")
	}
	layer := layers[0]
	chain, ok := layer.ColorTexture.(*swapChain)
	if !ok || chain.sim != s || chain.destroyed {
		return errors.New("hmdsim: layer texture is not a live swap chain of this session")
	}
	if chain.committed < 0 {
		return errors.Errorf("hmdsim: frame %d submitted without a committed texture", frameIndex)
	}
	if s.Faults.Submit != nil {
		if err := s.Faults.Submit(frameIndex); err != nil {
			chain.committed = -1
			return err
		}
	}
	if s.mirror != nil && !s.mirror.destroyed {
		s.compose(chain, layer)
	}
	chain.committed = -1
	copied := *layer
	s.lastLayer = &copied
	s.submitted++
	return nil
}

// compose scales each eye viewport into the matching part of the mirror.
// The mirror is stored with a top-left origin, so GL-origin layers are
// flipped on the way in.
func (s *Sim) compose(chain *swapChain, layer *hmd.LayerEyeFov) {
	tw, th := chain.desc.Width, chain.desc.Height
	mw, mh := s.mirror.size.W, s.mirror.size.H
	src := chain.textures[chain.committed]
	for eye := range layer.Viewport {
		vp := layer.Viewport[eye]
		dst := hmd.Recti{
			Pos:  hmd.Vector2i{X: vp.Pos.X * mw / tw, Y: vp.Pos.Y * mh / th},
			Size: hmd.Sizei{W: vp.Size.W * mw / tw, H: vp.Size.H * mh / th},
		}
		s.alloc.CopyTexture(src, vp, s.mirror.tex, dst, layer.TextureOriginAtBottomLeft)
	}
}

type nameAllocator struct {
	next uint32
}

func (a *nameAllocator) NewTexture(size hmd.Sizei, format hmd.TextureFormat) (uint32, error) {
	a.next++
	return a.next, nil
}

func (a *nameAllocator) DeleteTexture(tex uint32) {}

func (a *nameAllocator) CopyTexture(src uint32, srcRect hmd.Recti, dst uint32, dstRect hmd.Recti, flipY bool) {
}
