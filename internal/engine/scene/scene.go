// Package scene owns the model on display: which catalog entry is selected,
// the asynchronous load of its asset, and the per-model animation rig and
// controller that replace each other when the selection changes.
package scene

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/charview/internal/assets"
	"github.com/Faultbox/charview/internal/engine/animation"
	"github.com/Faultbox/charview/internal/engine/camera"
	"github.com/Faultbox/charview/internal/engine/character"
	"github.com/Faultbox/charview/internal/logger"
)

// ModelLoader decodes a model asset. *assets.Loader satisfies it.
type ModelLoader interface {
	LoadModel(ctx context.Context, path string) (*assets.Model, error)
}

// Node is the live instance of a loaded model.
type Node struct {
	Model     *assets.Model
	Transform *character.Transform
	Mixer     *animation.Mixer
}

// Config contains scene dependencies. Session may be nil.
type Config struct {
	Catalog *assets.Catalog
	Loader  ModelLoader
	Camera  *camera.OrbitCamera
	Tuning  character.Tuning
	Session *SessionStore
}

type loadResult struct {
	generation uint64
	index      int
	model      *assets.Model
	err        error
}

// Scene tracks the selected model and swaps in finished loads on the frame
// goroutine. Only Poll and Frame touch the node and controller.
type Scene struct {
	catalog *assets.Catalog
	loader  ModelLoader
	camera  *camera.OrbitCamera
	tuning  character.Tuning
	session *SessionStore
	log     *zap.Logger

	index      int
	node       *Node
	controller *character.Controller
	textures   assets.TexturePair
	hasTexture bool

	// Only the newest request may be applied.
	generation uint64
	results    chan loadResult
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	// OnTextures is called on the frame goroutine when a load brings new
	// scenery.
	OnTextures func(assets.TexturePair)
}

// New creates an empty scene. Call Start to load the first model. A zero
// Tuning means the standard constants.
func New(cfg Config) *Scene {
	if cfg.Tuning == (character.Tuning{}) {
		cfg.Tuning = character.DefaultTuning()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scene{
		catalog: cfg.Catalog,
		loader:  cfg.Loader,
		camera:  cfg.Camera,
		tuning:  cfg.Tuning,
		session: cfg.Session,
		log:     logger.Named("scene"),
		results: make(chan loadResult, 16),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start selects the first model and requests its load. initial names a model
// by path or base name; when empty the saved session decides, then index 0.
func (s *Scene) Start(initial string) {
	if s.catalog.Len() == 0 {
		s.log.Warn("no models configured")
		return
	}

	s.index = s.initialIndex(initial)
	s.RequestLoad(s.index)
}

func (s *Scene) initialIndex(initial string) int {
	if initial != "" {
		if i, ok := s.catalog.Index(initial); ok {
			return i
		}
		s.log.Warn("unknown model requested, using default", zap.String("model", initial))
	}

	if s.session == nil {
		return 0
	}
	sess, ok, err := s.session.Load()
	if err != nil {
		s.log.Warn("session not restored", zap.Error(err))
		return 0
	}
	if !ok {
		return 0
	}
	if i, found := s.catalog.Index(sess.Model); found {
		return i
	}
	if sess.Index >= 0 && sess.Index < s.catalog.Len() {
		return sess.Index
	}
	return 0
}

// Cycle moves the selection one step forward or back, wrapping around the
// catalog, and requests the load.
func (s *Scene) Cycle(next bool) {
	n := s.catalog.Len()
	if n == 0 {
		return
	}

	step := -1
	if next {
		step = 1
	}
	s.index = (s.index + step + n) % n
	s.log.Debug("model selected", zap.Int("index", s.index), zap.String("path", s.catalog.Path(s.index)))
	s.RequestLoad(s.index)
}

// RequestLoad starts loading catalog entry i in the background. Any load
// still in flight becomes stale.
func (s *Scene) RequestLoad(i int) {
	s.generation++
	gen := s.generation
	path := s.catalog.Path(i)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		model, err := s.load(path)
		select {
		case s.results <- loadResult{generation: gen, index: i, model: model, err: err}:
		case <-s.ctx.Done():
		}
	}()
}

// load runs the loader, turning a panic into a load error so a broken
// asset cannot take the viewer down.
func (s *Scene) load(path string) (model *assets.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			model, err = nil, fmt.Errorf("loading %s: %v", path, r)
		}
	}()
	return s.loader.LoadModel(s.ctx, path)
}

// Poll applies finished loads. It must be called on the frame goroutine.
func (s *Scene) Poll() {
	for {
		select {
		case r := <-s.results:
			s.apply(r)
		default:
			return
		}
	}
}

func (s *Scene) apply(r loadResult) {
	path := s.catalog.Path(r.index)

	if r.generation != s.generation {
		s.log.Debug("discarding stale model load", zap.String("path", path))
		return
	}
	if r.err != nil {
		s.log.Warn("model load failed", zap.String("path", path), zap.Error(r.err))
		return
	}

	node := &Node{
		Model:     r.model,
		Transform: character.NewTransform(),
		Mixer:     animation.NewMixer(),
	}
	for _, clip := range r.model.Clips {
		if clip.Name == assets.RestPoseClip {
			continue
		}
		node.Mixer.ClipAction(clip)
	}

	clips := make(map[character.ClipName]character.ClipHandle, len(character.ClipNames()))
	for _, name := range character.ClipNames() {
		if action, ok := node.Mixer.Action(name.String()); ok {
			clips[name] = action
		}
	}

	s.node = node
	s.controller = character.NewController(node.Transform, node.Mixer, clips, s.camera, s.tuning)

	if pair, ok := s.catalog.Textures(path); ok {
		s.textures = pair
		s.hasTexture = true
		if s.OnTextures != nil {
			s.OnTextures(pair)
		}
	}

	s.log.Info("model loaded",
		zap.String("path", path),
		zap.Int("clips", len(clips)),
		zap.Int("animations", len(node.Mixer.Actions())),
	)

	if s.session != nil {
		if err := s.session.Save(Session{Model: path, Index: r.index}); err != nil {
			s.log.Warn("session not saved", zap.Error(err))
		}
	}
}

// Frame runs one frame: apply finished loads, drive the controller when a
// model is present, then settle the camera.
func (s *Scene) Frame(dt float32, keys character.Keys) {
	s.Poll()

	if s.controller != nil {
		s.controller.Update(dt, keys)
	}

	s.camera.Update()
}

// Index returns the selected catalog entry.
func (s *Scene) Index() int { return s.index }

// Node returns the model on display, or nil before the first load lands.
func (s *Scene) Node() *Node { return s.node }

// Controller returns the active controller, or nil.
func (s *Scene) Controller() *character.Controller { return s.controller }

// HasModel reports whether a model is on display.
func (s *Scene) HasModel() bool { return s.node != nil }

// Textures returns the current scenery. ok is false until a model with a
// texture entry has loaded.
func (s *Scene) Textures() (assets.TexturePair, bool) { return s.textures, s.hasTexture }

// Camera returns the orbit camera.
func (s *Scene) Camera() *camera.OrbitCamera { return s.camera }

// Catalog returns the model list.
func (s *Scene) Catalog() *assets.Catalog { return s.catalog }

// Wait blocks until every requested load has been delivered to Poll.
// More than 16 undelivered results will block until Poll drains them.
func (s *Scene) Wait() {
	s.wg.Wait()
}

// Close abandons loads in flight.
func (s *Scene) Close() {
	s.cancel()
	s.wg.Wait()
}
