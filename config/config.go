// Package config holds the demo's tunables. Every value has a built-in
// default; a YAML file only needs the keys it overrides.
package config

import (
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/go-vr/demos/hmd"
	"github.com/go-vr/demos/hmdsim"
	"github.com/go-vr/demos/input"
	"github.com/go-vr/demos/scene"
)

type GameOptions struct {
	BoundsMin        [3]float32    `yaml:"bounds_min"`
	BoundsMax        [3]float32    `yaml:"bounds_max"`
	HitRadius        float32       `yaml:"hit_radius"`
	Spin             float32       `yaml:"spin"`
	InitialParticles int           `yaml:"initial_particles"`
	LoseThreshold    int           `yaml:"lose_threshold"`
	FloodParticles   int           `yaml:"flood_particles"`
	SpawnInterval    time.Duration `yaml:"spawn_interval"`
	LaserLength      float32       `yaml:"laser_length"`
}

type HapticsOptions struct {
	Cooldown  time.Duration `yaml:"cooldown"`
	Frequency float32       `yaml:"frequency"`
	Amplitude float32       `yaml:"amplitude"`
}

// DeviceOptions describe the simulated headset.
type DeviceOptions struct {
	RefreshRate      float32    `yaml:"refresh_rate"`
	IPD              float32    `yaml:"ipd"`
	Fov              [4]float32 `yaml:"fov"` // up, down, left, right tangents
	PixelsPerTan     float32    `yaml:"pixels_per_tan"`
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
}

type Options struct {
	Title            string        `yaml:"title"`
	MirrorDivisor    int           `yaml:"mirror_divisor"`
	PixelDensity     float32       `yaml:"pixel_density"`
	ClipNear         float32       `yaml:"clip_near"`
	ClipFar          float32       `yaml:"clip_far"`
	FrameInterval    time.Duration `yaml:"frame_interval"`
	TriggerThreshold float32       `yaml:"trigger_threshold"`

	Game    GameOptions    `yaml:"game"`
	Haptics HapticsOptions `yaml:"haptics"`
	Device  DeviceOptions  `yaml:"device"`
}

func Default() Options {
	game := scene.DefaultConfig()
	haptics := input.DefaultHapticsConfig()
	device := hmdsim.DefaultConfig()
	return Options{
		Title:            "CO2 Scrubber",
		MirrorDivisor:    4,
		PixelDensity:     1,
		ClipNear:         hmd.DefaultClipRange.Near,
		ClipFar:          hmd.DefaultClipRange.Far,
		FrameInterval:    time.Second / 90,
		TriggerThreshold: input.DefaultTriggerThreshold,
		Game: GameOptions{
			BoundsMin:        game.Bounds.Min,
			BoundsMax:        game.Bounds.Max,
			HitRadius:        game.HitRadius,
			Spin:             game.Spin,
			InitialParticles: game.InitialParticles,
			LoseThreshold:    game.LoseThreshold,
			FloodParticles:   game.FloodParticles,
			SpawnInterval:    game.SpawnInterval,
			LaserLength:      game.LaserLength,
		},
		Haptics: HapticsOptions{
			Cooldown:  haptics.Cooldown,
			Frequency: haptics.Frequency,
			Amplitude: haptics.Amplitude,
		},
		Device: DeviceOptions{
			RefreshRate: device.RefreshRate,
			IPD:         device.IPD,
			Fov: [4]float32{
				device.EyeFov.UpTan, device.EyeFov.DownTan,
				device.EyeFov.LeftTan, device.EyeFov.RightTan,
			},
			PixelsPerTan:     device.PixelsPerTan,
			MouseSensitivity: device.MouseSensitivity,
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Options, error) {
	opts := Default()
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, errors.Wrapf(err, "parse config %s", path)
	}
	if err := opts.Validate(); err != nil {
		return opts, errors.Wrapf(err, "config %s", path)
	}
	return opts, nil
}

func (o *Options) Validate() error {
	switch {
	case o.MirrorDivisor <= 0:
		return errors.Errorf("mirror_divisor must be positive, got %d", o.MirrorDivisor)
	case o.PixelDensity <= 0:
		return errors.Errorf("pixel_density must be positive, got %v", o.PixelDensity)
	case o.ClipNear <= 0 || o.ClipFar <= o.ClipNear:
		return errors.Errorf("clip planes must satisfy 0 < near < far, got %v/%v", o.ClipNear, o.ClipFar)
	case o.FrameInterval <= 0:
		return errors.Errorf("frame_interval must be positive, got %v", o.FrameInterval)
	case o.TriggerThreshold <= 0 || o.TriggerThreshold >= 1:
		return errors.Errorf("trigger_threshold must be in (0, 1), got %v", o.TriggerThreshold)
	case o.Game.HitRadius <= 0:
		return errors.Errorf("game.hit_radius must be positive, got %v", o.Game.HitRadius)
	case o.Game.InitialParticles <= 0:
		return errors.Errorf("game.initial_particles must be positive, got %d", o.Game.InitialParticles)
	case o.Game.LoseThreshold < o.Game.InitialParticles:
		return errors.Errorf("game.lose_threshold %d is below initial_particles %d",
			o.Game.LoseThreshold, o.Game.InitialParticles)
	case o.Game.SpawnInterval <= 0:
		return errors.Errorf("game.spawn_interval must be positive, got %v", o.Game.SpawnInterval)
	case o.Haptics.Cooldown < 0:
		return errors.Errorf("haptics.cooldown must not be negative, got %v", o.Haptics.Cooldown)
	case o.Device.RefreshRate <= 0:
		return errors.Errorf("device.refresh_rate must be positive, got %v", o.Device.RefreshRate)
	case o.Device.PixelsPerTan <= 0:
		return errors.Errorf("device.pixels_per_tan must be positive, got %v", o.Device.PixelsPerTan)
	}
	for a := 0; a < 3; a++ {
		if o.Game.BoundsMin[a] >= o.Game.BoundsMax[a] {
			return errors.Errorf("game bounds are empty on axis %d", a)
		}
	}
	return nil
}

func (o *Options) ClipRange() hmd.ClipRange {
	return hmd.ClipRange{Near: o.ClipNear, Far: o.ClipFar}
}

func (o *Options) SceneConfig() scene.Config {
	cfg := scene.DefaultConfig()
	cfg.Bounds = scene.Bounds{
		Min: mgl32.Vec3(o.Game.BoundsMin),
		Max: mgl32.Vec3(o.Game.BoundsMax),
	}
	cfg.HitRadius = o.Game.HitRadius
	cfg.Spin = o.Game.Spin
	cfg.InitialParticles = o.Game.InitialParticles
	cfg.LoseThreshold = o.Game.LoseThreshold
	cfg.FloodParticles = o.Game.FloodParticles
	cfg.SpawnInterval = o.Game.SpawnInterval
	cfg.LaserLength = o.Game.LaserLength
	return cfg
}

func (o *Options) HapticsConfig() input.HapticsConfig {
	return input.HapticsConfig{
		Cooldown:  o.Haptics.Cooldown,
		Frequency: o.Haptics.Frequency,
		Amplitude: o.Haptics.Amplitude,
	}
}

func (o *Options) DeviceConfig() hmdsim.Config {
	cfg := hmdsim.DefaultConfig()
	cfg.RefreshRate = o.Device.RefreshRate
	cfg.IPD = o.Device.IPD
	cfg.EyeFov = hmd.FovPort{
		UpTan:    o.Device.Fov[0],
		DownTan:  o.Device.Fov[1],
		LeftTan:  o.Device.Fov[2],
		RightTan: o.Device.Fov[3],
	}
	cfg.PixelsPerTan = o.Device.PixelsPerTan
	cfg.MouseSensitivity = o.Device.MouseSensitivity
	return cfg
}
