package display

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/go-vr/demos/hmd"
)

type SDLSurface struct {
	window  *sdl.Window
	context sdl.GLContext
	handler InputHandler
	quit    bool
}

// NewSDL is the SDL2 counterpart of NewGLFW.
func NewSDL(cfg WindowConfig) (*SDLSurface, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, surfaceError("sdl init", err)
	}
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width), int32(cfg.Height),
		sdl.WINDOW_OPENGL)
	if err != nil {
		sdl.Quit()
		return nil, surfaceError("sdl window", err)
	}
	context, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, surfaceError("sdl gl context", err)
	}
	if err := sdl.GLSetSwapInterval(0); err != nil {
		logger.Warningf("swap interval: %v", err)
	}
	return &SDLSurface{
		window:  window,
		context: context,
	}, nil
}

func sdlKey(sym sdl.Keycode) Key {
	switch sym {
	case sdl.K_ESCAPE:
		return KeyEscape
	case sdl.K_r:
		return KeyR
	case sdl.K_q:
		return KeyQ
	case sdl.K_e:
		return KeyE
	case sdl.K_SPACE:
		return KeySpace
	default:
		return KeyUnknown
	}
}

func (s *SDLSurface) ShouldClose() bool {
	return s.quit
}

func (s *SDLSurface) PollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			if t.Repeat != 0 {
				continue
			}
			k := sdlKey(t.Keysym.Sym)
			if k == KeyEscape {
				s.quit = true
				continue
			}
			if k != KeyUnknown && s.handler != nil {
				s.handler.Key(k, t.State == sdl.PRESSED)
			}
		case *sdl.MouseButtonEvent:
			if s.handler == nil {
				continue
			}
			switch t.Button {
			case sdl.BUTTON_LEFT:
				s.handler.MouseButton(MouseLeft, t.State == sdl.PRESSED)
			case sdl.BUTTON_RIGHT:
				s.handler.MouseButton(MouseRight, t.State == sdl.PRESSED)
			}
		case *sdl.MouseMotionEvent:
			if s.handler != nil {
				s.handler.CursorMoved(float64(t.XRel), float64(t.YRel))
			}
		case *sdl.QuitEvent:
			s.quit = true
		}
	}
}

func (s *SDLSurface) SwapBuffers() {
	s.window.GLSwap()
}

func (s *SDLSurface) FramebufferSize() hmd.Sizei {
	w, h := s.window.GLGetDrawableSize()
	return hmd.Sizei{W: int(w), H: int(h)}
}

func (s *SDLSurface) SetInputHandler(h InputHandler) {
	s.handler = h
}

func (s *SDLSurface) Destroy() {
	sdl.GLDeleteContext(s.context)
	s.window.Destroy()
	sdl.Quit()
}
