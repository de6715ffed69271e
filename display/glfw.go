package display

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-vr/demos/hmd"
)

type GLFWSurface struct {
	window  *glfw.Window
	handler InputHandler

	cursorSeen bool
	lastX      float64
	lastY      float64
}

// NewGLFW opens a fixed size window with a 4.1 core context made current
// on the calling thread. Vsync is off so the headset paces the loop.
func NewGLFW(cfg WindowConfig) (*GLFWSurface, error) {
	if err := glfw.Init(); err != nil {
		return nil, surfaceError("glfw init", err)
	}
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, surfaceError("glfw window", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(0)

	s := &GLFWSurface{window: window}
	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	window.SetKeyCallback(s.onKey)
	window.SetMouseButtonCallback(s.onMouseButton)
	window.SetCursorPosCallback(s.onCursorPos)
	return s, nil
}

func glfwKey(key glfw.Key) Key {
	switch key {
	case glfw.KeyEscape:
		return KeyEscape
	case glfw.KeyR:
		return KeyR
	case glfw.KeyQ:
		return KeyQ
	case glfw.KeyE:
		return KeyE
	case glfw.KeySpace:
		return KeySpace
	default:
		return KeyUnknown
	}
}

func (s *GLFWSurface) onKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Repeat {
		return
	}
	k := glfwKey(key)
	if k == KeyEscape {
		w.SetShouldClose(true)
		return
	}
	if k != KeyUnknown && s.handler != nil {
		s.handler.Key(k, action == glfw.Press)
	}
}

func (s *GLFWSurface) onMouseButton(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	if s.handler == nil {
		return
	}
	switch button {
	case glfw.MouseButtonLeft:
		s.handler.MouseButton(MouseLeft, action == glfw.Press)
	case glfw.MouseButtonRight:
		s.handler.MouseButton(MouseRight, action == glfw.Press)
	}
}

func (s *GLFWSurface) onCursorPos(w *glfw.Window, xPos, yPos float64) {
	if !s.cursorSeen {
		s.lastX, s.lastY, s.cursorSeen = xPos, yPos, true
		return
	}
	dx, dy := xPos-s.lastX, yPos-s.lastY
	s.lastX, s.lastY = xPos, yPos
	if s.handler != nil {
		s.handler.CursorMoved(dx, dy)
	}
}

func (s *GLFWSurface) ShouldClose() bool {
	return s.window.ShouldClose()
}

func (s *GLFWSurface) PollEvents() {
	glfw.PollEvents()
}

func (s *GLFWSurface) SwapBuffers() {
	s.window.SwapBuffers()
}

func (s *GLFWSurface) FramebufferSize() hmd.Sizei {
	w, h := s.window.GetFramebufferSize()
	return hmd.Sizei{W: w, H: h}
}

func (s *GLFWSurface) SetInputHandler(h InputHandler) {
	s.handler = h
}

func (s *GLFWSurface) Destroy() {
	s.window.Destroy()
	glfw.Terminate()
}
