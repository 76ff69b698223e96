package game

import (
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/charview/internal/assets"
	"github.com/Faultbox/charview/internal/engine/input"
	"github.com/Faultbox/charview/internal/engine/renderer"
	"github.com/Faultbox/charview/internal/engine/scene"
	"github.com/Faultbox/charview/internal/engine/texture"
	"github.com/Faultbox/charview/internal/logger"
)

// EventSource delivers input once per frame. *input.Pump satisfies it.
type EventSource interface {
	Update() bool
	Events() []input.Event
}

// Renderer draws frames. *renderer.Renderer satisfies it.
type Renderer interface {
	Resize(width, height int)
	SetScenery(back, floor *image.RGBA)
	DrawFrame(f renderer.Frame)
}

// Surface is the presentable window. *window.Window satisfies it.
type Surface interface {
	SwapBuffers()
	DrawableSize() (int, int)
}

// Screenshotter captures the frame just drawn.
type Screenshotter interface {
	Screenshot() (string, error)
}

// FileSource reads asset bytes. *assets.Manager satisfies it.
type FileSource interface {
	Load(path string) ([]byte, error)
}

// LoopConfig wires a Loop. Surface and Screenshots may be nil.
type LoopConfig struct {
	Events      EventSource
	Scene       *scene.Scene
	Renderer    Renderer
	Surface     Surface
	Files       FileSource
	Screenshots Screenshotter
	State       *input.State
	Width       int
	Height      int
	ShowFPS     bool
	FPSLimit    int // 0 = uncapped
}

// Loop advances the viewer one frame at a time. The host calls Step with
// the elapsed time; Run is the host for a real window.
type Loop struct {
	events   EventSource
	scene    *scene.Scene
	renderer Renderer
	surface  Surface
	files    FileSource
	shots    Screenshotter
	state    *input.State
	overlay  *input.Overlay
	log      *zap.Logger

	width, height int
	running       bool
	dragging      bool
	capture       bool

	showFPS  bool
	minFrame time.Duration
}

// NewLoop creates a loop and hooks the overlay and scenery callbacks.
func NewLoop(cfg LoopConfig) *Loop {
	state := cfg.State
	if state == nil {
		state = input.NewState()
	}

	l := &Loop{
		events:   cfg.Events,
		scene:    cfg.Scene,
		renderer: cfg.Renderer,
		surface:  cfg.Surface,
		files:    cfg.Files,
		shots:    cfg.Screenshots,
		state:    state,
		overlay:  input.NewOverlay(state, cfg.Width, cfg.Height),
		log:      logger.Named("game"),
		width:    cfg.Width,
		height:   cfg.Height,
		running:  true,
		showFPS:  cfg.ShowFPS,
	}
	if cfg.FPSLimit > 0 {
		l.minFrame = time.Second / time.Duration(cfg.FPSLimit)
	}

	l.overlay.OnPrevious = func() { l.scene.Cycle(false) }
	l.overlay.OnNext = func() { l.scene.Cycle(true) }
	l.overlay.OnExtra = func() { l.log.Info("X button clicked") }
	l.scene.OnTextures = l.applyScenery

	return l
}

// Running reports whether the loop should keep going.
func (l *Loop) Running() bool { return l.running }

// State returns the pressed-key table.
func (l *Loop) State() *input.State { return l.state }

// Overlay returns the on-screen buttons.
func (l *Loop) Overlay() *input.Overlay { return l.overlay }

// Stop ends Run after the current frame.
func (l *Loop) Stop() { l.running = false }

// Step runs one frame of dt seconds: input, scene update, draw, present.
// It returns false once the viewer should quit.
func (l *Loop) Step(dt float32) bool {
	if l.events.Update() {
		l.Stop()
		return false
	}
	for _, e := range l.events.Events() {
		l.handle(e)
	}
	if !l.running {
		return false
	}

	l.scene.Frame(dt, l.state)

	l.renderer.DrawFrame(l.frame())
	if l.capture {
		l.capture = false
		l.screenshot()
	}
	if l.surface != nil {
		l.surface.SwapBuffers()
	}
	return true
}

// Run steps until quit, measuring dt with the wall clock.
func (l *Loop) Run() error {
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := lastTime

	l.log.Info("starting render loop")

	for l.Running() {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if !l.Step(float32(dt)) {
			break
		}

		if l.minFrame > 0 {
			if spent := time.Since(now); spent < l.minFrame {
				time.Sleep(l.minFrame - spent)
			}
		}

		frameCount++
		if l.showFPS && time.Since(fpsTimer) >= time.Second {
			l.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	l.log.Info("render loop stopped")
	return nil
}

func (l *Loop) handle(e input.Event) {
	switch e.Type {
	case input.EventWindowResize:
		l.width, l.height = e.Width, e.Height
		l.overlay.Resize(e.Width, e.Height)
		if l.surface != nil {
			l.renderer.Resize(l.surface.DrawableSize())
		} else {
			l.renderer.Resize(e.Width, e.Height)
		}

	case input.EventKeyDown:
		l.keyDown(e)

	case input.EventKeyUp:
		if e.Key != "" {
			l.state.SetPressed(e.Key, false)
		}

	case input.EventMouseDown:
		if _, hit := l.overlay.Press(float32(e.MouseX), float32(e.MouseY)); hit {
			return
		}
		if e.Button == input.ButtonLeft {
			l.dragging = true
		}

	case input.EventMouseUp:
		l.overlay.Release()
		if e.Button == input.ButtonLeft {
			l.dragging = false
		}

	case input.EventMouseMove:
		if l.dragging {
			l.scene.Camera().HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
		}

	case input.EventMouseWheel:
		l.scene.Camera().HandleZoom(e.Wheel)
	}
}

func (l *Loop) keyDown(e input.Event) {
	switch e.Key {
	case "":
		return
	case input.KeyEscape:
		l.Stop()
		return
	case input.KeyScreenshot:
		l.capture = l.shots != nil
		return
	case input.KeyArrowRight:
		if !e.Repeat {
			l.scene.Cycle(true)
		}
	case input.KeyArrowLeft:
		if !e.Repeat {
			l.scene.Cycle(false)
		}
	}

	// Ctrl chords belong to the host while a model is shown.
	if e.Ctrl && l.scene.HasModel() {
		return
	}
	l.state.SetPressed(e.Key, true)
}

func (l *Loop) screenshot() {
	path, err := l.shots.Screenshot()
	if err != nil {
		l.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	l.log.Info("screenshot saved", zap.String("path", path))
}

func (l *Loop) frame() renderer.Frame {
	cam := l.scene.Camera()
	aspect := float32(1)
	if l.height > 0 {
		aspect = float32(l.width) / float32(l.height)
	}

	f := renderer.Frame{
		Width:      l.width,
		Height:     l.height,
		View:       cam.ViewMatrix(),
		Projection: cam.ProjectionMatrix(aspect),
		Buttons:    l.overlay.Buttons(),
		Held:       l.overlay.Held(),
	}
	if c := l.scene.Controller(); c != nil {
		t := c.Transform()
		f.HasModel = true
		f.Model = renderer.ModelMatrix(t.Position, t.Rotation)
		f.Clip = c.Current().String()
	}
	return f
}

// applyScenery decodes and hands new backdrop and floor images to the
// renderer. An image that fails to load keeps the previous one.
func (l *Loop) applyScenery(pair assets.TexturePair) {
	load := func(path string) *image.RGBA {
		if path == "" || l.files == nil {
			return nil
		}
		data, err := l.files.Load(path)
		if err != nil {
			l.log.Warn("texture not loaded", zap.String("path", path), zap.Error(err))
			return nil
		}
		img, err := texture.Decode(data, path, true)
		if err != nil {
			l.log.Warn("texture not decoded", zap.String("path", path), zap.Error(err))
			return nil
		}
		return img
	}

	l.renderer.SetScenery(load(pair.Back), load(pair.Floor))
}
