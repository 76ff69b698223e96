// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Controls ControlsConfig `yaml:"controls"`
	Models   ModelsConfig   `yaml:"models"`
	Assets   AssetsConfig   `yaml:"assets"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	ShowFPS    bool `yaml:"show_fps"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// ControlsConfig tunes character response and the orbit camera.
type ControlsConfig struct {
	FadeDuration      float32 `yaml:"fade_duration"`      // seconds
	MoveSpeed         float32 `yaml:"move_speed"`         // units per second
	TurnDamping       float32 `yaml:"turn_damping"`       // slerp fraction per frame
	TargetHeight      float32 `yaml:"target_height"`      // camera target above the feet
	CameraMinDistance float32 `yaml:"camera_min_distance"`
	CameraMaxDistance float32 `yaml:"camera_max_distance"`
}

// TextureConfig names the backdrop and floor images for one model.
type TextureConfig struct {
	Back  string `yaml:"back"`
	Floor string `yaml:"floor"`
}

// ModelsConfig lists selectable models in cycling order.
// Textures is keyed by model base name without extension.
type ModelsConfig struct {
	Paths    []string                 `yaml:"paths"`
	Textures map[string]TextureConfig `yaml:"textures"`
	Initial  string                   `yaml:"initial"`
}

// AssetsConfig holds asset search roots, tried in order.
type AssetsConfig struct {
	Roots []string `yaml:"roots"`
}

// StorageConfig controls session persistence.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	AppName string `yaml:"app_name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

var defaultModels = []string{"robot", "knight", "mutant", "medic", "worker"}

// Default returns a Config with sensible default values.
func Default() *Config {
	models := ModelsConfig{Textures: make(map[string]TextureConfig, len(defaultModels))}
	for _, name := range defaultModels {
		models.Paths = append(models.Paths, "models/"+name+".glb")
		models.Textures[name] = TextureConfig{
			Back:  "./textures/back/" + name + "_back.jpg",
			Floor: "./textures/floor/" + name + "_floor.jpg",
		}
	}

	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			ScreenshotDir: "screenshots",
		},
		Controls: ControlsConfig{
			FadeDuration:      0.2,
			MoveSpeed:         2,
			TurnDamping:       0.2,
			TargetHeight:      1,
			CameraMinDistance: 5,
			CameraMaxDistance: 15,
		},
		Models: models,
		Assets: AssetsConfig{
			Roots: []string{"."},
		},
		Storage: StorageConfig{
			Enabled: true,
			AppName: "charview",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
