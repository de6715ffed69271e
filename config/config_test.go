package config

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-vr/demos/hmd"
	"github.com/go-vr/demos/hmdsim"
	"github.com/go-vr/demos/input"
	"github.com/go-vr/demos/scene"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "riftdemo.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultsMatchComponents(t *testing.T) {
	opts, err := Load("")
	require.NoError(t, err)
	require.NoError(t, opts.Validate())

	assert.Equal(t, 4, opts.MirrorDivisor)
	assert.Equal(t, hmd.DefaultClipRange, opts.ClipRange())
	assert.Equal(t, scene.DefaultConfig(), opts.SceneConfig())
	assert.Equal(t, input.DefaultHapticsConfig(), opts.HapticsConfig())
	assert.Equal(t, hmdsim.DefaultConfig(), opts.DeviceConfig())
	assert.Equal(t, float32(0.5), opts.TriggerThreshold)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
mirror_divisor: 2
frame_interval: 20ms
game:
  hit_radius: 0.5
  spawn_interval: 250ms
  bounds_min: [-5, -5, -20]
haptics:
  amplitude: 0.25
device:
  ipd: 0.07
  fov: [1, 1, 1, 1]
`)
	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, opts.MirrorDivisor)
	assert.Equal(t, 20*time.Millisecond, opts.FrameInterval)
	assert.Equal(t, float32(1), opts.PixelDensity)

	game := opts.SceneConfig()
	assert.Equal(t, float32(0.5), game.HitRadius)
	assert.Equal(t, 250*time.Millisecond, game.SpawnInterval)
	assert.Equal(t, mgl32.Vec3{-5, -5, -20}, game.Bounds.Min)
	assert.Equal(t, scene.DefaultConfig().Bounds.Max, game.Bounds.Max)
	assert.Equal(t, 5, game.InitialParticles)

	assert.Equal(t, float32(0.25), opts.HapticsConfig().Amplitude)
	assert.Equal(t, 100*time.Millisecond, opts.HapticsConfig().Cooldown)

	device := opts.DeviceConfig()
	assert.Equal(t, float32(0.07), device.IPD)
	assert.Equal(t, hmd.FovPort{UpTan: 1, DownTan: 1, LeftTan: 1, RightTan: 1}, device.EyeFov)
	assert.Equal(t, 3, device.SwapChainLength)
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero divisor", "mirror_divisor: 0"},
		{"negative density", "pixel_density: -1"},
		{"inverted clip", "clip_near: 10\nclip_far: 1"},
		{"zero interval", "frame_interval: 0s"},
		{"trigger above one", "trigger_threshold: 1.5"},
		{"trigger at one", "trigger_threshold: 1"},
		{"threshold below initial", "game:\n  lose_threshold: 2"},
		{"empty bounds", "game:\n  bounds_min: [10, -10, -25]"},
		{"zero refresh", "device:\n  refresh_rate: 0"},
		{"not yaml", "mirror_divisor: [1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, c.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestDefaultFrameIntervalSpawnsOncePerSecond(t *testing.T) {
	opts := Default()
	frames := int(time.Second / opts.FrameInterval)
	require.Equal(t, 90, frames)

	game := scene.NewGame(opts.SceneConfig(), rand.New(rand.NewSource(1)))
	for i := 0; i < frames; i++ {
		game.Advance(scene.Input{}, opts.FrameInterval)
	}
	assert.Equal(t, opts.Game.InitialParticles+1, game.Count())
}
