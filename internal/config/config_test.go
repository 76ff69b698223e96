package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Controls.FadeDuration != 0.2 {
		t.Errorf("expected fade duration 0.2, got %f", cfg.Controls.FadeDuration)
	}
	if cfg.Controls.MoveSpeed != 2 {
		t.Errorf("expected move speed 2, got %f", cfg.Controls.MoveSpeed)
	}
	if cfg.Controls.CameraMinDistance != 5 || cfg.Controls.CameraMaxDistance != 15 {
		t.Errorf("expected camera distance 5..15, got %f..%f",
			cfg.Controls.CameraMinDistance, cfg.Controls.CameraMaxDistance)
	}

	wantPaths := []string{
		"models/robot.glb",
		"models/knight.glb",
		"models/mutant.glb",
		"models/medic.glb",
		"models/worker.glb",
	}
	if len(cfg.Models.Paths) != len(wantPaths) {
		t.Fatalf("expected %d models, got %d", len(wantPaths), len(cfg.Models.Paths))
	}
	for i, p := range wantPaths {
		if cfg.Models.Paths[i] != p {
			t.Errorf("expected model %d to be %s, got %s", i, p, cfg.Models.Paths[i])
		}
	}

	knight, ok := cfg.Models.Textures["knight"]
	if !ok {
		t.Fatal("expected textures for knight")
	}
	if knight.Back != "./textures/back/knight_back.jpg" {
		t.Errorf("unexpected knight backdrop %s", knight.Back)
	}
	if knight.Floor != "./textures/floor/knight_floor.jpg" {
		t.Errorf("unexpected knight floor %s", knight.Floor)
	}

	if !cfg.Storage.Enabled || cfg.Storage.AppName != "charview" {
		t.Errorf("expected storage enabled for charview, got %+v", cfg.Storage)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

controls:
  move_speed: 3.5
  turn_damping: 0.5

models:
  paths:
    - "models/dragon.glb"
  textures:
    dragon:
      back: "bg/dragon.png"
      floor: "floor/dragon.png"

assets:
  roots: ["/opt/charview", "."]

storage:
  enabled: false

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}

	if cfg.Controls.MoveSpeed != 3.5 {
		t.Errorf("expected move speed 3.5, got %f", cfg.Controls.MoveSpeed)
	}
	// Untouched keys keep their defaults.
	if cfg.Controls.FadeDuration != 0.2 {
		t.Errorf("expected default fade duration 0.2, got %f", cfg.Controls.FadeDuration)
	}

	if len(cfg.Models.Paths) != 1 || cfg.Models.Paths[0] != "models/dragon.glb" {
		t.Errorf("expected model list to be replaced, got %v", cfg.Models.Paths)
	}
	if cfg.Models.Textures["dragon"].Floor != "floor/dragon.png" {
		t.Errorf("expected dragon floor texture, got %+v", cfg.Models.Textures["dragon"])
	}

	if len(cfg.Assets.Roots) != 2 || cfg.Assets.Roots[0] != "/opt/charview" {
		t.Errorf("unexpected asset roots %v", cfg.Assets.Roots)
	}
	if cfg.Storage.Enabled {
		t.Error("expected storage to be disabled")
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }},
		{"no models", func(c *Config) { c.Models.Paths = nil }},
		{"negative speed", func(c *Config) { c.Controls.MoveSpeed = -1 }},
		{"damping above one", func(c *Config) { c.Controls.TurnDamping = 1.5 }},
		{"inverted camera range", func(c *Config) {
			c.Controls.CameraMinDistance = 20
			c.Controls.CameraMaxDistance = 10
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Graphics.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "assets flag goes first",
			setup: func() { *flagAssets = "/srv/assets" },
			verify: func(t *testing.T, cfg *Config) {
				if len(cfg.Assets.Roots) != 2 || cfg.Assets.Roots[0] != "/srv/assets" {
					t.Errorf("expected /srv/assets first, got %v", cfg.Assets.Roots)
				}
			},
			teardown: func() { *flagAssets = "" },
		},
		{
			name:  "model flag",
			setup: func() { *flagModel = "medic" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Models.Initial != "medic" {
					t.Errorf("expected initial model medic, got %s", cfg.Models.Initial)
				}
			},
			teardown: func() { *flagModel = "" },
		},
		{
			name:  "no-session flag",
			setup: func() { *flagNoSession = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Storage.Enabled {
					t.Error("expected storage disabled with no-session flag")
				}
			},
			teardown: func() { *flagNoSession = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, height from file.
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Controls.MoveSpeed = 4
	cfg.Models.Initial = "worker"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Controls.MoveSpeed != 4 {
		t.Errorf("expected move speed 4, got %f", loaded.Controls.MoveSpeed)
	}
	if loaded.Models.Initial != "worker" {
		t.Errorf("expected initial model worker, got %s", loaded.Models.Initial)
	}
}
