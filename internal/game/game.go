// Package game wires the viewer together: window, renderer, input, assets
// and the model scene, driven by a frame loop.
package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/charview/internal/assets"
	"github.com/Faultbox/charview/internal/config"
	"github.com/Faultbox/charview/internal/engine/camera"
	"github.com/Faultbox/charview/internal/engine/character"
	"github.com/Faultbox/charview/internal/engine/debug"
	"github.com/Faultbox/charview/internal/engine/input"
	"github.com/Faultbox/charview/internal/engine/renderer"
	"github.com/Faultbox/charview/internal/engine/scene"
	"github.com/Faultbox/charview/internal/engine/window"
	"github.com/Faultbox/charview/internal/logger"
)

// Title is the window title.
const Title = "charview"

// Game is the running viewer.
type Game struct {
	window   *window.Window
	renderer *renderer.Renderer
	assets   *assets.Manager
	scene    *scene.Scene
	loop     *Loop
}

// New opens the window and prepares the first model load.
func New(cfg *config.Config) (*Game, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("models", len(cfg.Models.Paths)),
	)

	g := &Game{}

	var err error
	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context the window just made current.
	drawW, drawH := g.window.DrawableSize()
	g.renderer, err = renderer.New(renderer.Config{Width: drawW, Height: drawH})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.assets = assets.NewManager(cfg.Assets.Roots...)

	cam := camera.NewOrbitCamera()
	cam.MinDistance = cfg.Controls.CameraMinDistance
	cam.MaxDistance = cfg.Controls.CameraMaxDistance

	g.scene = scene.New(scene.Config{
		Catalog: CatalogFromConfig(cfg.Models),
		Loader:  assets.NewLoader(g.assets),
		Camera:  cam,
		Tuning:  TuningFromConfig(cfg.Controls),
		Session: openSession(cfg.Storage),
	})

	capture := &frameCapture{
		renderer: g.renderer,
		shots:    debug.NewScreenshots(cfg.Graphics.ScreenshotDir, Title),
	}

	width, height := g.window.Size()
	g.loop = NewLoop(LoopConfig{
		Events:      input.NewPump(),
		Scene:       g.scene,
		Renderer:    g.renderer,
		Surface:     g.window,
		Files:       g.assets,
		Screenshots: capture,
		Width:       width,
		Height:      height,
		ShowFPS:     cfg.Graphics.ShowFPS,
		FPSLimit:    cfg.Graphics.FPSLimit,
	})

	g.scene.Start(cfg.Models.Initial)

	logger.Info("viewer initialized")
	return g, nil
}

// Run blocks until the window is closed.
func (g *Game) Run() error {
	return g.loop.Run()
}

// Close releases everything New acquired.
func (g *Game) Close() {
	logger.Info("closing viewer")

	if g.scene != nil {
		g.scene.Close()
	}
	if g.assets != nil {
		hits, misses := g.assets.Cache().Stats()
		logger.Debug("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
		g.assets.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

// frameCapture saves the renderer's back buffer.
type frameCapture struct {
	renderer *renderer.Renderer
	shots    *debug.Screenshots
}

func (c *frameCapture) Screenshot() (string, error) {
	pixels, w, h := c.renderer.ReadPixels()
	return c.shots.Save(pixels, w, h)
}

// CatalogFromConfig builds the model catalog from configuration.
func CatalogFromConfig(m config.ModelsConfig) *assets.Catalog {
	textures := make(map[string]assets.TexturePair, len(m.Textures))
	for name, t := range m.Textures {
		textures[name] = assets.TexturePair{Back: t.Back, Floor: t.Floor}
	}
	return assets.NewCatalog(m.Paths, textures)
}

// TuningFromConfig maps control settings onto controller constants.
func TuningFromConfig(c config.ControlsConfig) character.Tuning {
	return character.Tuning{
		FadeDuration: c.FadeDuration,
		MoveSpeed:    c.MoveSpeed,
		TurnDamping:  c.TurnDamping,
		TargetHeight: c.TargetHeight,
	}
}

func openSession(cfg config.StorageConfig) *scene.SessionStore {
	if !cfg.Enabled {
		return scene.NewSessionStore(nil)
	}
	store, err := scene.OpenSessionStore(cfg.AppName)
	if err != nil {
		logger.Warn("session storage unavailable, keeping selection in memory", zap.Error(err))
		return scene.NewSessionStore(nil)
	}
	return store
}
