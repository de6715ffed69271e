package hmd

// Runtime is the compositor/tracking service a Session talks to. The desktop
// simulator in package hmdsim implements it; a vendor runtime binding would
// too.
type Runtime interface {
	Create() (Desc, error)
	Destroy()

	RenderDesc(eye EyeType, fov FovPort) EyeRenderDesc
	FovTextureSize(eye EyeType, fov FovPort, pixelsPerDisplayPixel float32) Sizei

	CreateSwapChain(desc SwapChainDesc) (SwapChain, error)
	CreateMirrorTexture(desc MirrorDesc) (MirrorTexture, error)

	// PredictedDisplayTime returns the absolute time in seconds at which
	// frameIndex is expected to reach the display.
	PredictedDisplayTime(frameIndex int64) float64
	// EyePoses returns both eye poses for frameIndex and the time the
	// sensors were sampled.
	EyePoses(frameIndex int64, hmdToEye [EyeCount]Pose) ([EyeCount]Pose, float64)
	TrackingState(absTime float64) TrackingState
	InputState(ct ControllerType) (InputState, error)
	SetControllerVibration(ct ControllerType, frequency, amplitude float32) error

	SubmitFrame(frameIndex int64, viewScale *ViewScaleDesc, layers ...*LayerEyeFov) error
	RecenterTrackingOrigin() error
}

// SwapChain is a ring of color textures owned by the runtime.
type SwapChain interface {
	Length() int
	CurrentIndex() int
	// Buffer returns the GL texture name of slot i.
	Buffer(i int) uint32
	// Commit hands the current slot to the compositor and advances the ring.
	Commit() error
	Destroy()
}

// MirrorTexture receives the compositor's copy of each submitted frame.
type MirrorTexture interface {
	Size() Sizei
	Buffer() uint32
	Destroy()
}
