package stereo

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/go-vr/demos/hmd"
)

// State is a step of the per-frame sequence. Every frame walks all of them
// in order.
type State int

const (
	StateIdle State = iota
	StatePredictPose
	StateBindTarget
	StateRenderEyeLeft
	StateRenderEyeRight
	StateCommit
	StateSubmit
	StateMirrorBlit
	StateSwapPresent
)

var stateNames = [...]string{
	StateIdle:           "Idle",
	StatePredictPose:    "PredictPose",
	StateBindTarget:     "BindTarget",
	StateRenderEyeLeft:  "RenderEyeLeft",
	StateRenderEyeRight: "RenderEyeRight",
	StateCommit:         "Commit",
	StateSubmit:         "Submit",
	StateMirrorBlit:     "MirrorBlit",
	StateSwapPresent:    "SwapPresent",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

func renderState(eye hmd.EyeType) State {
	if eye == hmd.EyeLeft {
		return StateRenderEyeLeft
	}
	return StateRenderEyeRight
}

// EyeView is everything the scene needs to draw one eye.
type EyeView struct {
	Eye        hmd.EyeType
	Viewport   hmd.Recti
	Projection mgl32.Mat4
	// View is the inverse of Pose.
	View mgl32.Mat4
	Pose hmd.Pose
	// EyePosition is the midpoint between both eyes, fed to shading.
	EyePosition mgl32.Vec3
}

// RenderFunc draws the scene for one eye. It is called twice per frame,
// left eye first.
type RenderFunc func(view EyeView)

// Presenter is the visible window.
type Presenter interface {
	FramebufferSize() hmd.Sizei
	SwapBuffers()
}

type Stats struct {
	Frames         int64
	SubmitFailures int64
	Elapsed        time.Duration
}

// AverageFrameTime is the mean duration of Pipeline.Frame.
func (s Stats) AverageFrameTime() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Frames)
}

// Pipeline runs the frame sequence against one session and render target.
type Pipeline struct {
	// Observer, when set, sees every state transition.
	Observer func(State)

	session    *hmd.Session
	target     *Target
	presenter  Presenter
	viewScale  hmd.ViewScaleDesc
	clearColor mgl32.Vec4
	clock      func() time.Time

	frameIndex int64
	state      State
	stats      Stats
}

func NewPipeline(session *hmd.Session, target *Target, presenter Presenter) *Pipeline {
	return &Pipeline{
		session:   session,
		target:    target,
		presenter: presenter,
		viewScale: hmd.ViewScaleDesc{
			HmdToEyePose:                 session.HmdToEye(),
			HmdSpaceToWorldScaleInMeters: 1,
		},
		clearColor: mgl32.Vec4{0, 0, 0, 1},
		clock:      time.Now,
	}
}

func (p *Pipeline) SetClearColor(color mgl32.Vec3) {
	p.clearColor = color.Vec4(1)
}

func (p *Pipeline) FrameIndex() int64 {
	return p.frameIndex
}

func (p *Pipeline) State() State {
	return p.state
}

func (p *Pipeline) Stats() Stats {
	return p.stats
}

// PredictedDisplayTime is when the next frame is expected on the display.
func (p *Pipeline) PredictedDisplayTime() float64 {
	return p.target.rt.PredictedDisplayTime(p.frameIndex)
}

func (p *Pipeline) enter(next State) {
	want := p.state + 1
	if p.state == StateSwapPresent {
		want = StateIdle
	}
	if next != want {
		hmd.Misuse("Pipeline.Frame", "transition %s -> %s, expected %s", p.state, next, want)
	}
	p.state = next
	if p.Observer != nil {
		p.Observer(next)
	}
}

// Frame renders and submits one stereo frame. A rejected commit or
// submission is logged and returned wrapped in hmd.ErrSubmissionFailed;
// the mirror blit and buffer swap still happen and the next call starts a
// fresh frame. Once the session is closed Frame does nothing and returns
// hmd.ErrDeviceUnavailable.
func (p *Pipeline) Frame(render RenderFunc) error {
	rt, err := p.session.Runtime()
	if err != nil {
		return errors.Wrapf(err, "frame %d", p.frameIndex)
	}
	start := p.clock()
	eyes := p.session.Eyes()

	p.enter(StatePredictPose)
	poses, sampleTime := rt.EyePoses(p.frameIndex, p.viewScale.HmdToEyePose)
	eyePos := hmd.MidPoint(poses)
	layer := &hmd.LayerEyeFov{
		ColorTexture:              p.target.SwapChain(),
		Viewport:                  p.target.Layout().Viewports(),
		SensorSampleTime:          sampleTime,
		TextureOriginAtBottomLeft: true,
	}

	p.enter(StateBindTarget)
	slot := p.target.AcquireCurrentSlot()
	p.target.BindForDraw(slot)
	p.target.Clear(p.clearColor)

	hmd.ForEachEye(func(eye hmd.EyeType) {
		p.enter(renderState(eye))
		vp := p.target.SetViewport(eye)
		layer.Fov[eye] = eyes[eye].Fov
		layer.RenderPose[eye] = poses[eye]
		render(EyeView{
			Eye:         eye,
			Viewport:    vp,
			Projection:  eyes[eye].Projection,
			View:        poses[eye].ViewMatrix(),
			Pose:        poses[eye],
			EyePosition: eyePos,
		})
	})

	p.enter(StateCommit)
	frameErr := p.target.Commit()

	p.enter(StateSubmit)
	if frameErr == nil {
		if err := rt.SubmitFrame(p.frameIndex, &p.viewScale, layer); err != nil {
			frameErr = errors.Wrapf(hmd.ErrSubmissionFailed, "frame %d: %v", p.frameIndex, err)
		}
	}
	if frameErr != nil {
		p.stats.SubmitFailures++
		logger.Warningf("frame %d dropped: %v", p.frameIndex, frameErr)
	}

	p.enter(StateMirrorBlit)
	if p.target.Mirror() != nil {
		p.target.BlitMirror(p.presenter.FramebufferSize())
	}

	p.enter(StateSwapPresent)
	p.presenter.SwapBuffers()

	p.enter(StateIdle)
	p.frameIndex++
	p.stats.Frames++
	p.stats.Elapsed += p.clock().Sub(start)
	return frameErr
}
