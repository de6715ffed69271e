// Package hmd holds the session with the VR runtime and the types shared by
// the stereo pipeline, the input bridge and the runtime implementations.
package hmd

import "github.com/go-gl/mathgl/mgl32"

type EyeType int

const (
	EyeLeft EyeType = iota
	EyeRight

	EyeCount = 2
)

func (e EyeType) String() string {
	switch e {
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	default:
		return "unknown"
	}
}

// ForEachEye calls fn for the left eye and then the right eye.
func ForEachEye(fn func(eye EyeType)) {
	for eye := EyeLeft; eye < EyeCount; eye++ {
		fn(eye)
	}
}

type Hand int

const (
	HandLeft Hand = iota
	HandRight

	HandCount = 2
)

func (h Hand) String() string {
	switch h {
	case HandLeft:
		return "left"
	case HandRight:
		return "right"
	default:
		return "unknown"
	}
}

// ControllerType selects the controllers an input or vibration call targets.
type ControllerType int

const (
	ControllerLTouch ControllerType = iota + 1
	ControllerRTouch
	ControllerTouch
)

// Controller returns the touch controller held in hand h.
func (h Hand) Controller() ControllerType {
	if h == HandLeft {
		return ControllerLTouch
	}
	return ControllerRTouch
}

type Sizei struct {
	W, H int
}

type Vector2i struct {
	X, Y int
}

type Recti struct {
	Pos  Vector2i
	Size Sizei
}

// Area returns the number of pixels covered by r.
func (r Recti) Area() int {
	return r.Size.W * r.Size.H
}

// Overlaps reports whether r and o share at least one pixel.
func (r Recti) Overlaps(o Recti) bool {
	return r.Pos.X < o.Pos.X+o.Size.W && o.Pos.X < r.Pos.X+r.Size.W &&
		r.Pos.Y < o.Pos.Y+o.Size.H && o.Pos.Y < r.Pos.Y+r.Size.H
}

// FovPort describes a field of view as tangents of the half angles.
type FovPort struct {
	UpTan    float32
	DownTan  float32
	LeftTan  float32
	RightTan float32
}

// Desc is the static descriptor of the attached device.
type Desc struct {
	ProductName        string
	Manufacturer       string
	Resolution         Sizei
	DisplayRefreshRate float32
	DefaultEyeFov      [EyeCount]FovPort
}

// EyeRenderDesc is what the runtime reports for one eye given a FOV.
type EyeRenderDesc struct {
	Eye          EyeType
	Fov          FovPort
	HmdToEyePose Pose
}

type TrackingState struct {
	HeadPose    Pose
	HandPoses   [HandCount]Pose
	HandTracked [HandCount]bool
}

// InputState is the controller input snapshot. Trigger values are in [0,1].
type InputState struct {
	TimeInSeconds float64
	Buttons       uint32
	IndexTrigger  [HandCount]float32
	HandTrigger   [HandCount]float32
}

// Buttons reported in InputState.Buttons.
const (
	ButtonA uint32 = 1 << iota
	ButtonB
	ButtonX
	ButtonY
	ButtonEnter
)

type TextureFormat int

const (
	FormatR8G8B8A8UnormSRGB TextureFormat = iota + 1
	FormatR8G8B8A8Unorm
)

type SwapChainDesc struct {
	Width       int
	Height      int
	Format      TextureFormat
	MipLevels   int
	SampleCount int
	ArraySize   int
}

type MirrorDesc struct {
	Width  int
	Height int
	Format TextureFormat
}

// LayerEyeFov is the single layer type submitted by the pipeline.
type LayerEyeFov struct {
	ColorTexture              SwapChain
	Viewport                  [EyeCount]Recti
	Fov                       [EyeCount]FovPort
	RenderPose                [EyeCount]Pose
	SensorSampleTime          float64
	TextureOriginAtBottomLeft bool
}

type ViewScaleDesc struct {
	HmdToEyePose                 [EyeCount]Pose
	HmdSpaceToWorldScaleInMeters float32
}

// ClipRange holds the near and far planes used for eye projections.
type ClipRange struct {
	Near float32
	Far  float32
}

var DefaultClipRange = ClipRange{Near: 0.01, Far: 1000}

// ProjectionFromFov builds an OpenGL clip-range perspective matrix for fov.
func ProjectionFromFov(fov FovPort, clip ClipRange) mgl32.Mat4 {
	n := clip.Near
	return mgl32.Frustum(-fov.LeftTan*n, fov.RightTan*n, -fov.DownTan*n, fov.UpTan*n, n, clip.Far)
}
