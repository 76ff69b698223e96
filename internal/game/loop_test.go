package game

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	gomath "math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/charview/internal/assets"
	"github.com/Faultbox/charview/internal/config"
	"github.com/Faultbox/charview/internal/engine/animation"
	"github.com/Faultbox/charview/internal/engine/camera"
	"github.com/Faultbox/charview/internal/engine/character"
	"github.com/Faultbox/charview/internal/engine/input"
	"github.com/Faultbox/charview/internal/engine/renderer"
	"github.com/Faultbox/charview/internal/engine/scene"
)

// scriptedEvents hands out one batch of events per Update.
type scriptedEvents struct {
	batches [][]input.Event
	current []input.Event
	quit    bool
}

func (s *scriptedEvents) push(events ...input.Event) {
	s.batches = append(s.batches, events)
}

func (s *scriptedEvents) Update() bool {
	s.current = nil
	if len(s.batches) > 0 {
		s.current = s.batches[0]
		s.batches = s.batches[1:]
	}
	return s.quit
}

func (s *scriptedEvents) Events() []input.Event { return s.current }

type recordingRenderer struct {
	frames  []renderer.Frame
	resizes [][2]int
	backs   []*image.RGBA
	floors  []*image.RGBA
}

func (r *recordingRenderer) Resize(w, h int) { r.resizes = append(r.resizes, [2]int{w, h}) }

func (r *recordingRenderer) SetScenery(back, floor *image.RGBA) {
	r.backs = append(r.backs, back)
	r.floors = append(r.floors, floor)
}

func (r *recordingRenderer) DrawFrame(f renderer.Frame) { r.frames = append(r.frames, f) }

func (r *recordingRenderer) last() renderer.Frame { return r.frames[len(r.frames)-1] }

type fakeSurface struct{ swaps int }

func (s *fakeSurface) SwapBuffers()             { s.swaps++ }
func (s *fakeSurface) DrawableSize() (int, int) { return 1600, 1200 }

type stubLoader struct{}

func (stubLoader) LoadModel(_ context.Context, path string) (*assets.Model, error) {
	return &assets.Model{Path: path, Clips: []animation.Clip{
		{Name: "Idle", Duration: 2},
		{Name: "Walk", Duration: 1},
	}}, nil
}

type harness struct {
	loop     *Loop
	events   *scriptedEvents
	renderer *recordingRenderer
	surface  *fakeSurface
	scene    *scene.Scene
}

func newHarness(t *testing.T, files FileSource) *harness {
	t.Helper()

	sc := scene.New(scene.Config{
		Catalog: assets.DefaultCatalog(),
		Loader:  stubLoader{},
		Camera:  camera.NewOrbitCamera(),
		Tuning:  character.DefaultTuning(),
	})
	t.Cleanup(sc.Close)

	h := &harness{
		events:   &scriptedEvents{},
		renderer: &recordingRenderer{},
		surface:  &fakeSurface{},
		scene:    sc,
	}
	h.loop = NewLoop(LoopConfig{
		Events:   h.events,
		Scene:    sc,
		Renderer: h.renderer,
		Surface:  h.surface,
		Files:    files,
		Width:    800,
		Height:   600,
	})
	return h
}

// load starts the scene and steps until the first model is applied.
func (h *harness) load(t *testing.T) {
	t.Helper()
	h.scene.Start("")
	h.scene.Wait()
	h.loop.Step(1.0 / 60)
	if !h.scene.HasModel() {
		t.Fatal("expected model after load")
	}
}

func key(kind input.EventType, k string) input.Event {
	return input.Event{Type: kind, Key: k}
}

func buttonCenter(t *testing.T, o *input.Overlay, k string) (int, int) {
	t.Helper()
	for _, b := range o.Buttons() {
		if b.Key == k {
			return int(b.X + b.W/2), int(b.Y + b.H/2)
		}
	}
	t.Fatalf("no button for %q", k)
	return 0, 0
}

func TestStepDrawsAndPresents(t *testing.T) {
	h := newHarness(t, nil)

	if !h.loop.Step(1.0 / 60) {
		t.Fatal("expected Step to continue")
	}
	if len(h.renderer.frames) != 1 {
		t.Errorf("expected 1 frame, got %d", len(h.renderer.frames))
	}
	if h.surface.swaps != 1 {
		t.Errorf("expected 1 swap, got %d", h.surface.swaps)
	}
	f := h.renderer.last()
	if f.HasModel {
		t.Error("expected no model before any load")
	}
	if len(f.Buttons) != 8 {
		t.Errorf("expected 8 overlay buttons, got %d", len(f.Buttons))
	}
}

func TestQuit(t *testing.T) {
	t.Run("window close", func(t *testing.T) {
		h := newHarness(t, nil)
		h.events.quit = true
		if h.loop.Step(0.016) {
			t.Error("expected Step to stop on quit")
		}
		if h.loop.Running() {
			t.Error("expected loop to stop running")
		}
		if len(h.renderer.frames) != 0 {
			t.Error("expected no frame drawn after quit")
		}
	})

	t.Run("escape", func(t *testing.T) {
		h := newHarness(t, nil)
		h.events.push(key(input.EventKeyDown, input.KeyEscape))
		if h.loop.Step(0.016) {
			t.Error("expected Step to stop on escape")
		}
	})
}

func TestKeyboardWritesState(t *testing.T) {
	h := newHarness(t, nil)

	h.events.push(key(input.EventKeyDown, input.KeyForward))
	h.loop.Step(0.016)
	if !h.loop.State().IsPressed(input.KeyForward) {
		t.Error("expected w pressed")
	}

	h.events.push(key(input.EventKeyUp, input.KeyForward))
	h.loop.Step(0.016)
	if h.loop.State().IsPressed(input.KeyForward) {
		t.Error("expected w released")
	}
}

func TestCtrlChordsIgnoredWhileModelShown(t *testing.T) {
	h := newHarness(t, nil)

	ctrlW := input.Event{Type: input.EventKeyDown, Key: input.KeyForward, Ctrl: true}
	h.events.push(ctrlW)
	h.loop.Step(0.016)
	if !h.loop.State().IsPressed(input.KeyForward) {
		t.Error("expected ctrl+w to register without a model")
	}
	h.events.push(key(input.EventKeyUp, input.KeyForward))
	h.loop.Step(0.016)

	h.load(t)

	h.events.push(ctrlW)
	h.loop.Step(0.016)
	if h.loop.State().IsPressed(input.KeyForward) {
		t.Error("expected ctrl+w to be ignored with a model shown")
	}
}

func TestArrowKeysCycleModels(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	h.events.push(key(input.EventKeyDown, input.KeyArrowRight))
	h.loop.Step(0.016)
	if h.scene.Index() != 1 {
		t.Errorf("expected index 1, got %d", h.scene.Index())
	}

	h.events.push(input.Event{Type: input.EventKeyDown, Key: input.KeyArrowRight, Repeat: true})
	h.loop.Step(0.016)
	if h.scene.Index() != 1 {
		t.Errorf("expected key repeat to be ignored, got %d", h.scene.Index())
	}

	h.events.push(key(input.EventKeyDown, input.KeyArrowLeft), key(input.EventKeyDown, input.KeyArrowLeft))
	h.loop.Step(0.016)
	if h.scene.Index() != 4 {
		t.Errorf("expected wrap to 4, got %d", h.scene.Index())
	}
}

func TestOverlayButtons(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	x, y := buttonCenter(t, h.loop.Overlay(), input.KeyNext)
	h.events.push(input.Event{Type: input.EventMouseDown, MouseX: x, MouseY: y, Button: input.ButtonLeft})
	h.loop.Step(0.016)

	if h.scene.Index() != 1 {
		t.Errorf("expected next button to select 1, got %d", h.scene.Index())
	}
	if !h.loop.State().IsPressed(input.KeyNext) {
		t.Error("expected > to be held")
	}
	if h.renderer.last().Held != input.KeyNext {
		t.Errorf("expected frame to show > held, got %q", h.renderer.last().Held)
	}

	h.events.push(input.Event{Type: input.EventMouseUp, Button: input.ButtonLeft})
	h.loop.Step(0.016)
	if h.loop.State().IsPressed(input.KeyNext) {
		t.Error("expected > released")
	}

	x, y = buttonCenter(t, h.loop.Overlay(), input.KeyForward)
	h.events.push(input.Event{Type: input.EventMouseDown, MouseX: x, MouseY: y, Button: input.ButtonLeft})
	for i := 0; i < 10; i++ {
		h.loop.Step(1.0 / 60)
	}
	if h.scene.Controller().Current() != character.ClipWalk {
		t.Errorf("expected on-screen w to walk, got %s", h.scene.Controller().Current())
	}
}

func TestDragOrbitsCamera(t *testing.T) {
	h := newHarness(t, nil)
	cam := h.scene.Camera()

	h.events.push(input.Event{Type: input.EventMouseMove, DeltaX: 80})
	h.loop.Step(0.016)
	if gomath.Abs(float64(cam.Position.X)) > 1e-5 {
		t.Errorf("expected no orbit without a drag, got x=%f", cam.Position.X)
	}

	h.events.push(
		input.Event{Type: input.EventMouseDown, MouseX: 1, MouseY: 1, Button: input.ButtonLeft},
		input.Event{Type: input.EventMouseMove, DeltaX: 80},
	)
	h.loop.Step(0.016)
	if cam.Position.X == 0 {
		t.Error("expected camera to orbit while dragging")
	}
}

func TestWheelZooms(t *testing.T) {
	h := newHarness(t, nil)

	h.events.push(input.Event{Type: input.EventMouseWheel, Wheel: -5})
	h.loop.Step(0.016)

	if d := h.scene.Camera().Distance(); gomath.Abs(float64(d-7.5)) > 1e-3 {
		t.Errorf("expected distance 7.5, got %f", d)
	}
}

func TestResize(t *testing.T) {
	h := newHarness(t, nil)

	h.events.push(input.Event{Type: input.EventWindowResize, Width: 800, Height: 400})
	h.loop.Step(0.016)

	if len(h.renderer.resizes) != 1 || h.renderer.resizes[0] != [2]int{1600, 1200} {
		t.Errorf("expected renderer resized to drawable size, got %v", h.renderer.resizes)
	}
	f := h.renderer.last()
	if f.Width != 800 || f.Height != 400 {
		t.Errorf("expected frame 800x400, got %dx%d", f.Width, f.Height)
	}
}

func TestFrameCarriesModel(t *testing.T) {
	h := newHarness(t, nil)
	h.load(t)

	f := h.renderer.last()
	if !f.HasModel {
		t.Fatal("expected model in frame")
	}
	if f.Clip != "Idle" {
		t.Errorf("expected Idle, got %s", f.Clip)
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 200, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSceneryFollowsModel(t *testing.T) {
	root := t.TempDir()
	// Image format is sniffed, so PNG bytes behind a .jpg name decode fine.
	writePNG(t, filepath.Join(root, "textures", "back", "robot_back.jpg"))

	h := newHarness(t, assets.NewManager(root))
	h.load(t)

	if len(h.renderer.backs) != 1 {
		t.Fatalf("expected one scenery update, got %d", len(h.renderer.backs))
	}
	if h.renderer.backs[0] == nil {
		t.Error("expected backdrop image")
	}
	if h.renderer.floors[0] != nil {
		t.Error("expected missing floor to keep the previous texture")
	}
}

func TestConfigMapping(t *testing.T) {
	cfg := config.Default()

	cat := CatalogFromConfig(cfg.Models)
	if cat.Len() != len(cfg.Models.Paths) {
		t.Errorf("expected %d models, got %d", len(cfg.Models.Paths), cat.Len())
	}
	if pair, ok := cat.Textures("models/worker.glb"); !ok || pair.Back != "./textures/back/worker_back.jpg" {
		t.Errorf("expected worker backdrop, got %+v %v", pair, ok)
	}

	tuning := TuningFromConfig(cfg.Controls)
	if tuning != character.DefaultTuning() {
		t.Errorf("expected default config to match default tuning, got %+v", tuning)
	}
}

type countingShots struct {
	calls int
	err   error
}

func (c *countingShots) Screenshot() (string, error) {
	c.calls++
	return "shot.png", c.err
}

func TestScreenshotKey(t *testing.T) {
	sc := scene.New(scene.Config{
		Catalog: assets.DefaultCatalog(),
		Loader:  stubLoader{},
		Camera:  camera.NewOrbitCamera(),
		Tuning:  character.DefaultTuning(),
	})
	defer sc.Close()

	events := &scriptedEvents{}
	shots := &countingShots{}
	loop := NewLoop(LoopConfig{
		Events:      events,
		Scene:       sc,
		Renderer:    &recordingRenderer{},
		Screenshots: shots,
		Width:       800,
		Height:      600,
	})

	events.push(key(input.EventKeyDown, input.KeyScreenshot))
	loop.Step(0.016)
	loop.Step(0.016)

	if shots.calls != 1 {
		t.Errorf("expected one capture, got %d", shots.calls)
	}
	if loop.State().IsPressed(input.KeyScreenshot) {
		t.Error("expected screenshot key to stay out of the key table")
	}
}
