// Package window handles the transparent SDL2 overlay window and its OpenGL context.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/deskpet/internal/config"
	"github.com/Faultbox/deskpet/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Window wraps the SDL2 window and OpenGL context.
type Window struct {
	cfg       config.WindowConfig
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	log       *zap.Logger
}

// New creates a borderless, always-on-top window with an alpha-capable
// framebuffer and places it near the bottom-right corner of the primary display.
func New(cfg config.WindowConfig) (*Window, error) {
	w := &Window{cfg: cfg, log: logger.Named("window")}

	w.log.Info("initializing SDL2")
	sdl.SetHint(sdl.HINT_VIDEO_X11_NET_WM_BYPASS_COMPOSITOR, "0")
	sdl.SetHint(sdl.HINT_MOUSE_FOCUS_CLICKTHROUGH, "1")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 core with an alpha channel; no depth buffer needed for 2D.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_RED_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_GREEN_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_BLUE_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_ALPHA_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 0)

	x, y := int32(sdl.WINDOWPOS_CENTERED), int32(sdl.WINDOWPOS_CENTERED)
	if bounds, err := sdl.GetDisplayBounds(0); err == nil {
		x, y = cornerPosition(bounds, cfg)
	} else {
		w.log.Warn("display bounds unavailable, centering window", zap.Error(err))
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_BORDERLESS | sdl.WINDOW_ALWAYS_ON_TOP |
		sdl.WINDOW_SKIP_TASKBAR | sdl.WINDOW_SHOWN)

	var err error
	w.sdlWindow, err = sdl.CreateWindow(cfg.Title, x, y, int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if cfg.VSync {
		if err := sdl.GLSetSwapInterval(1); err != nil {
			w.log.Warn("failed to enable VSync", zap.Error(err))
		}
	} else {
		sdl.GLSetSwapInterval(0)
	}

	if alpha, err := sdl.GLGetAttribute(sdl.GL_ALPHA_SIZE); err != nil || alpha < 8 {
		w.log.Warn("framebuffer has no alpha channel, background will not be transparent",
			zap.Int("alpha_bits", alpha))
	}

	w.log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int32("x", x),
		zap.Int32("y", y),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

func cornerPosition(display sdl.Rect, cfg config.WindowConfig) (int32, int32) {
	x := display.X + display.W - int32(cfg.Width) - int32(cfg.MarginRight)
	y := display.Y + display.H - int32(cfg.Height) - int32(cfg.MarginBottom)
	return max(display.X, x), max(display.Y, y)
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	w.log.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the window size in screen coordinates.
func (w *Window) Size() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// DrawableSize returns the framebuffer size in pixels, which differs from
// Size on high-DPI displays.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// Position returns the window's top-left corner on the desktop.
func (w *Window) Position() (int, int) {
	x, y := w.sdlWindow.GetPosition()
	return int(x), int(y)
}

// SetPosition moves the window on the desktop.
func (w *Window) SetPosition(x, y int) {
	w.sdlWindow.SetPosition(int32(x), int32(y))
}
