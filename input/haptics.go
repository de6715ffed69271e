package input

import (
	"time"

	"github.com/go-vr/demos/hmd"
)

// Pulser sends a vibration request to one controller.
type Pulser interface {
	Pulse(hand hmd.Hand, frequency, amplitude float32) error
}

type HapticsConfig struct {
	Cooldown  time.Duration
	Frequency float32
	Amplitude float32
}

func DefaultHapticsConfig() HapticsConfig {
	return HapticsConfig{
		Cooldown:  100 * time.Millisecond,
		Frequency: 0,
		Amplitude: 1,
	}
}

// Haptics buzzes both controllers after a hit. The pulse is sent again every
// frame while both triggers stay held inside the cooldown window; any other
// frame zeroes both controllers, so a lost stop request cannot leave them
// vibrating.
type Haptics struct {
	cfg    HapticsConfig
	pulser Pulser

	now     time.Duration
	lastHit time.Duration
	hit     bool
}

func NewHaptics(cfg HapticsConfig, pulser Pulser) *Haptics {
	return &Haptics{
		cfg:    cfg,
		pulser: pulser,
	}
}

// Active reports whether the last Update sent the hit pulse.
func (h *Haptics) Active() bool {
	return h.hit
}

// Update advances the haptics clock by dt. hit marks a conversion in this
// frame; bothPressed is the current trigger state.
func (h *Haptics) Update(dt time.Duration, hit, bothPressed bool) error {
	h.now += dt
	if hit {
		h.lastHit = h.now
		h.hit = true
	}
	if h.hit && bothPressed && h.now-h.lastHit < h.cfg.Cooldown {
		return h.pulseBoth(h.cfg.Frequency, h.cfg.Amplitude)
	}
	if h.hit {
		logger.Debugf("haptics stopped after %v", h.now-h.lastHit)
	}
	h.hit = false
	return h.pulseBoth(0, 0)
}

func (h *Haptics) pulseBoth(frequency, amplitude float32) error {
	var firstErr error
	for hand := hmd.HandLeft; hand < hmd.HandCount; hand++ {
		if err := h.pulser.Pulse(hand, frequency, amplitude); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
