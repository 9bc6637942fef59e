package app

import (
	"fmt"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"hairsim.com/hairsim/config"
)

//Time is the frame clock, all in seconds
type Time struct {
	Delta     float32
	LastDelta float32
	Running   float32
	last      float64
}

//Window owns the GLFW window and GL context and tracks per frame input state
type Window struct {
	*glfw.Window
	width  int
	height int

	time     Time
	previous map[glfw.Key]bool

	cursorX, cursorY float64
	cursorSeen       bool
}

//InitWindow initializes glfw and opens a window with a GL 4.3 core context,
//the first version with compute shaders
func InitWindow(cfg config.WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, cfg.Samples)

	gw, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	gw.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &Window{Window: gw, previous: make(map[glfw.Key]bool)}
	w.width, w.height = gw.GetFramebufferSize()
	gw.SetFramebufferSizeCallback(func(_ *glfw.Window, width int, height int) {
		w.width, w.height = width, height
		gl.Viewport(0, 0, int32(width), int32(height))
	})
	w.time.last = glfw.GetTime()
	return w, nil
}

//Tick advances the frame clock
func (w *Window) Tick() Time {
	now := glfw.GetTime()
	w.time.LastDelta = w.time.Delta
	w.time.Delta = float32(now - w.time.last)
	w.time.Running += w.time.Delta
	w.time.last = now
	return w.time
}

func (w *Window) Pressed(k glfw.Key) bool {
	return w.GetKey(k) == glfw.Press
}

//Tapped reports a key going down this frame, once per press
func (w *Window) Tapped(k glfw.Key) bool {
	down := w.Pressed(k)
	was := w.previous[k]
	w.previous[k] = down
	return down && !was
}

//Dragging reports the right mouse button held
func (w *Window) Dragging() bool {
	return w.GetMouseButton(glfw.MouseButtonRight) == glfw.Press
}

//CursorDelta is the cursor movement since the previous call
func (w *Window) CursorDelta() (float64, float64) {
	x, y := w.GetCursorPos()
	if !w.cursorSeen {
		w.cursorX, w.cursorY, w.cursorSeen = x, y, true
		return 0, 0
	}
	dx, dy := x-w.cursorX, y-w.cursorY
	w.cursorX, w.cursorY = x, y
	return dx, dy
}

func (w *Window) Aspect() float32 {
	if w.height == 0 {
		return 1
	}
	return float32(w.width) / float32(w.height)
}

func (w *Window) EndFrame() {
	w.SwapBuffers()
	glfw.PollEvents()
}

func (w *Window) Close() {
	w.Destroy()
	glfw.Terminate()
}
