package hmd

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/go-vr/demos/log"
)

var logger = log.New("hmd")

// EyeDescriptor is fixed for the lifetime of a session.
type EyeDescriptor struct {
	Eye        EyeType
	Fov        FovPort
	HmdToEye   Pose
	Projection mgl32.Mat4
}

// Session owns the connection to a Runtime. It is not safe for concurrent
// use; everything runs on the render thread.
type Session struct {
	rt     Runtime
	desc   Desc
	clip   ClipRange
	eyes   [EyeCount]EyeDescriptor
	closed bool
}

// Open creates the runtime session. Any failure from the runtime is reported
// as ErrDeviceUnavailable.
func Open(rt Runtime, clip ClipRange) (*Session, error) {
	if rt == nil {
		return nil, errors.Wrap(ErrDeviceUnavailable, "no runtime")
	}
	desc, err := rt.Create()
	if err != nil {
		return nil, errors.Wrapf(ErrDeviceUnavailable, "create session: %v", err)
	}
	s := &Session{
		rt:   rt,
		desc: desc,
		clip: clip,
	}
	ForEachEye(func(eye EyeType) {
		rd := rt.RenderDesc(eye, desc.DefaultEyeFov[eye])
		s.eyes[eye] = EyeDescriptor{
			Eye:        eye,
			Fov:        rd.Fov,
			HmdToEye:   rd.HmdToEyePose,
			Projection: ProjectionFromFov(rd.Fov, clip),
		}
	})
	logger.Infof("session opened: %s (%s) %dx%d @ %.0fHz", desc.ProductName, desc.Manufacturer,
		desc.Resolution.W, desc.Resolution.H, desc.DisplayRefreshRate)
	return s, nil
}

// Close releases the runtime. Calling it twice is a no-op.
func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	s.rt.Destroy()
	logger.Info("session closed")
}

func (s *Session) Closed() bool {
	return s.closed
}

// Describe returns the device descriptor, or ErrDeviceUnavailable once closed.
func (s *Session) Describe() (Desc, error) {
	if s.closed {
		return Desc{}, errors.Wrap(ErrDeviceUnavailable, "describe")
	}
	return s.desc, nil
}

func (s *Session) Eyes() [EyeCount]EyeDescriptor {
	return s.eyes
}

func (s *Session) Eye(eye EyeType) EyeDescriptor {
	return s.eyes[eye]
}

func (s *Session) ClipRange() ClipRange {
	return s.clip
}

// HmdToEye returns both eye offsets, in eye order.
func (s *Session) HmdToEye() [EyeCount]Pose {
	return [EyeCount]Pose{s.eyes[EyeLeft].HmdToEye, s.eyes[EyeRight].HmdToEye}
}

// Runtime exposes the underlying runtime to the render target, the pipeline
// and the input bridge, or ErrDeviceUnavailable once closed.
func (s *Session) Runtime() (Runtime, error) {
	if s.closed {
		return nil, errors.Wrap(ErrDeviceUnavailable, "session is closed")
	}
	return s.rt, nil
}

// Recenter resets the tracking origin to the current head pose.
func (s *Session) Recenter() error {
	if s.closed {
		return errors.Wrap(ErrDeviceUnavailable, "recenter")
	}
	return errors.Wrap(s.rt.RecenterTrackingOrigin(), "recenter")
}
