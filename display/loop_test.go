package display

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-vr/demos/hmd"
)

type fakeSurface struct {
	closeAfter int
	polls      int
	swaps      int
	events     []string
}

func (s *fakeSurface) ShouldClose() bool {
	return s.closeAfter > 0 && s.polls >= s.closeAfter
}

func (s *fakeSurface) PollEvents() {
	s.polls++
}

func (s *fakeSurface) SwapBuffers() {
	s.swaps++
}

func (s *fakeSurface) FramebufferSize() hmd.Sizei {
	return hmd.Sizei{W: 640, H: 480}
}

func (s *fakeSurface) SetInputHandler(h InputHandler) {}

func (s *fakeSurface) Destroy() {
	s.events = append(s.events, "destroy")
}

func TestLoopRunsUntilClose(t *testing.T) {
	surface := &fakeSurface{closeAfter: 5}
	loop := NewLoop(surface, time.Millisecond, func() error {
		surface.SwapBuffers()
		return nil
	})
	loop.Cleanup = func() {
		surface.events = append(surface.events, "cleanup")
	}

	require.NoError(t, loop.Run())
	assert.Equal(t, 5, loop.Frames())
	assert.Equal(t, 5, surface.swaps)
	assert.Equal(t, []string{"cleanup", "destroy"}, surface.events)

	// a late Stop, like the closer hook at exit, must not block
	stopped := make(chan struct{})
	go func() {
		loop.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after Run returned")
	}
}

func TestLoopStopsOnFrameError(t *testing.T) {
	surface := &fakeSurface{}
	calls := 0
	loop := NewLoop(surface, time.Millisecond, func() error {
		calls++
		if calls == 3 {
			return hmd.ErrDeviceUnavailable
		}
		return nil
	})

	err := loop.Run()
	assert.True(t, errors.Is(err, hmd.ErrDeviceUnavailable))
	assert.Equal(t, 2, loop.Frames())
	assert.Equal(t, []string{"destroy"}, surface.events)
}

func TestLoopStopFromAnotherGoroutine(t *testing.T) {
	surface := &fakeSurface{}
	stopped := make(chan struct{})
	var loop *Loop
	loop = NewLoop(surface, time.Millisecond, func() error {
		if surface.polls == 3 {
			go func() {
				loop.Stop()
				close(stopped)
			}()
		}
		return nil
	})

	require.NoError(t, loop.Run())
	<-stopped
	assert.GreaterOrEqual(t, loop.Frames(), 3)
	assert.Equal(t, []string{"destroy"}, surface.events)
}

func TestKeyNames(t *testing.T) {
	assert.Equal(t, "escape", KeyEscape.String())
	assert.Equal(t, "space", KeySpace.String())
	assert.Equal(t, "unknown", Key(99).String())
}

func TestSurfaceErrorIsAllocationFailure(t *testing.T) {
	err := surfaceError("glfw window", errors.New("no display"))
	assert.True(t, errors.Is(err, hmd.ErrAllocationFailed))
	assert.False(t, errors.Is(err, hmd.ErrDeviceUnavailable))
	assert.Contains(t, err.Error(), "glfw window: no display")
}
