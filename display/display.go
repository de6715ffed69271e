// Package display owns the desktop mirror window and the frame loop that
// drives it.
package display

import (
	"github.com/pkg/errors"

	"github.com/go-vr/demos/hmd"
	"github.com/go-vr/demos/log"
)

var logger = log.New("display")

// surfaceError reports a failed window or context creation as
// hmd.ErrAllocationFailed.
func surfaceError(what string, err error) error {
	return errors.Wrapf(hmd.ErrAllocationFailed, "%s: %v", what, err)
}

type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyR
	KeyQ
	KeyE
	KeySpace
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "escape"
	case KeyR:
		return "r"
	case KeyQ:
		return "q"
	case KeyE:
		return "e"
	case KeySpace:
		return "space"
	default:
		return "unknown"
	}
}

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
)

// InputHandler receives window input during PollEvents.
type InputHandler interface {
	Key(key Key, down bool)
	MouseButton(button MouseButton, down bool)
	// CursorMoved reports relative motion in window pixels.
	CursorMoved(dx, dy float64)
}

// Surface is a window with a current GL context. Every method must be
// called from the thread that created it.
type Surface interface {
	ShouldClose() bool
	PollEvents()
	SwapBuffers()
	FramebufferSize() hmd.Sizei
	SetInputHandler(h InputHandler)
	Destroy()
}

// WindowConfig is shared by every backend.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
}
