// Package input samples tracked poses and controller state once per frame
// and sends haptic pulses back to the controllers.
package input

import (
	"github.com/pkg/errors"

	"github.com/go-vr/demos/hmd"
	"github.com/go-vr/demos/log"
)

var logger = log.New("input")

const DefaultTriggerThreshold = 0.5

// Snapshot is the per-frame view of the user. It is only valid for the
// frame it was sampled in.
type Snapshot struct {
	Head      hmd.Pose
	Hands     [hmd.HandCount]hmd.Pose
	Triggers  [hmd.HandCount]float32
	Pressed   [hmd.HandCount]bool
	Buttons   uint32
	Predicted float64
}

// BothPressed reports whether both index triggers are past the threshold.
func (s Snapshot) BothPressed() bool {
	return s.Pressed[hmd.HandLeft] && s.Pressed[hmd.HandRight]
}

// Bridge talks to the runtime's tracking and input APIs.
type Bridge struct {
	rt        hmd.Runtime
	threshold float32

	tracking hmd.TrackingState
	input    hmd.InputState
	pressed  [hmd.HandCount]bool
}

// NewBridge samples through session's runtime. A threshold outside (0, 1)
// falls back to DefaultTriggerThreshold.
func NewBridge(session *hmd.Session, threshold float32) (*Bridge, error) {
	rt, err := session.Runtime()
	if err != nil {
		return nil, errors.Wrap(err, "input bridge")
	}
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultTriggerThreshold
	}
	return &Bridge{
		rt:        rt,
		threshold: threshold,
	}, nil
}

// SamplePose reads head and hand poses predicted for predictedTime.
func (b *Bridge) SamplePose(predictedTime float64) hmd.TrackingState {
	b.tracking = b.rt.TrackingState(predictedTime)
	return b.tracking
}

// SampleTriggers reads the analog index triggers and recomputes the pressed
// latches. On error the previous values are kept.
func (b *Bridge) SampleTriggers() ([hmd.HandCount]float32, error) {
	in, err := b.rt.InputState(hmd.ControllerTouch)
	if err != nil {
		return b.input.IndexTrigger, errors.Wrap(err, "input state")
	}
	b.input = in
	for h := range b.pressed {
		b.pressed[h] = in.IndexTrigger[h] > b.threshold
	}
	return in.IndexTrigger, nil
}

func (b *Bridge) Pressed(hand hmd.Hand) bool {
	return b.pressed[hand]
}

func (b *Bridge) Buttons() uint32 {
	return b.input.Buttons
}

// Sample takes the pose and trigger readings for one frame.
func (b *Bridge) Sample(predictedTime float64) (Snapshot, error) {
	ts := b.SamplePose(predictedTime)
	triggers, err := b.SampleTriggers()
	return Snapshot{
		Head:      ts.HeadPose,
		Hands:     ts.HandPoses,
		Triggers:  triggers,
		Pressed:   b.pressed,
		Buttons:   b.input.Buttons,
		Predicted: predictedTime,
	}, err
}

// Pulse asks the controller in hand to vibrate. Amplitude 0 stops it.
func (b *Bridge) Pulse(hand hmd.Hand, frequency, amplitude float32) error {
	if err := b.rt.SetControllerVibration(hand.Controller(), frequency, amplitude); err != nil {
		return errors.Wrapf(err, "vibrate %s controller", hand)
	}
	return nil
}
