// Package config handles meadow configuration loading and management.
package config

// Config holds all program settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics" toml:"graphics"`
	Camera   CameraConfig   `yaml:"camera" toml:"camera"`
	Scene    SceneConfig    `yaml:"scene" toml:"scene"`
	Assets   AssetsConfig   `yaml:"assets" toml:"assets"`
	Audio    AudioConfig    `yaml:"audio" toml:"audio"`
	Input    InputConfig    `yaml:"input" toml:"input"`
	Overlay  OverlayConfig  `yaml:"overlay" toml:"overlay"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int  `yaml:"width" toml:"width"`
	Height        int  `yaml:"height" toml:"height"`
	Fullscreen    bool `yaml:"fullscreen" toml:"fullscreen"`
	VSync         bool `yaml:"vsync" toml:"vsync"`
	MSAASamples   int  `yaml:"msaa_samples" toml:"msaa_samples"`
	Shadows       bool `yaml:"shadows" toml:"shadows"`
	ShadowMapSize int  `yaml:"shadow_map_size" toml:"shadow_map_size"`
}

// CameraConfig holds the perspective camera and orbit control settings.
type CameraConfig struct {
	FOV           float32    `yaml:"fov" toml:"fov"` // Vertical field of view, degrees
	Near          float32    `yaml:"near" toml:"near"`
	Far           float32    `yaml:"far" toml:"far"`
	Position      [3]float32 `yaml:"position" toml:"position"`
	Target        [3]float32 `yaml:"target" toml:"target"`
	EnableDamping bool       `yaml:"enable_damping" toml:"enable_damping"`
	DampingFactor float32    `yaml:"damping_factor" toml:"damping_factor"`
	RotateSpeed   float32    `yaml:"rotate_speed" toml:"rotate_speed"`
	ZoomSpeed     float32    `yaml:"zoom_speed" toml:"zoom_speed"`
	PanSpeed      float32    `yaml:"pan_speed" toml:"pan_speed"`
	MinDistance   float32    `yaml:"min_distance" toml:"min_distance"`
	MaxDistance   float32    `yaml:"max_distance" toml:"max_distance"`
}

// SceneConfig holds tunable scene parameters.
type SceneConfig struct {
	SunRadius       float32 `yaml:"sun_radius" toml:"sun_radius"`
	SunHeight       float32 `yaml:"sun_height" toml:"sun_height"`
	SunSpeed        float32 `yaml:"sun_speed" toml:"sun_speed"` // Radians per second
	CloudPeriod     float32 `yaml:"cloud_period" toml:"cloud_period"`
	DoorTweenPeriod float32 `yaml:"door_tween_period" toml:"door_tween_period"`
	LightHelper     bool    `yaml:"light_helper" toml:"light_helper"`
}

// AssetsConfig holds external asset locations.
type AssetsConfig struct {
	Character      string  `yaml:"character" toml:"character"`
	CharacterScale float32 `yaml:"character_scale" toml:"character_scale"`
	Watch          bool    `yaml:"watch" toml:"watch"` // Reload the character when the file changes
}

// AudioConfig holds sound effect settings.
type AudioConfig struct {
	Enabled   bool    `yaml:"enabled" toml:"enabled"`
	Volume    float64 `yaml:"volume" toml:"volume"`
	DoorSound string  `yaml:"door_sound" toml:"door_sound"`
}

// InputConfig holds pointer handling settings.
type InputConfig struct {
	ClickSlop int `yaml:"click_slop" toml:"click_slop"` // Max pointer travel in px for a press/release to count as a click
}

// OverlayConfig holds the instruction panel settings.
type OverlayConfig struct {
	Enabled bool     `yaml:"enabled" toml:"enabled"`
	Lines   []string `yaml:"lines" toml:"lines"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with the scene's stock values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			MSAASamples:   4,
			Shadows:       true,
			ShadowMapSize: 2048,
		},
		Camera: CameraConfig{
			FOV:           75,
			Near:          0.1,
			Far:           100,
			Position:      [3]float32{6, 5, 8},
			Target:        [3]float32{0, 0, 0},
			EnableDamping: false,
			DampingFactor: 0.05,
			RotateSpeed:   1.0,
			ZoomSpeed:     1.0,
			PanSpeed:      1.0,
			MinDistance:   1,
			MaxDistance:   60,
		},
		Scene: SceneConfig{
			SunRadius:       6,
			SunHeight:       5,
			SunSpeed:        1,
			CloudPeriod:     8,
			DoorTweenPeriod: 1,
			LightHelper:     true,
		},
		Assets: AssetsConfig{
			Character:      "assets/Characters/gltf/knight.glb",
			CharacterScale: 0.4,
			Watch:          false,
		},
		Audio: AudioConfig{
			Enabled:   true,
			Volume:    0.8,
			DoorSound: "assets/sounds/door.wav",
		},
		Input: InputConfig{
			ClickSlop: 4,
		},
		Overlay: OverlayConfig{
			Enabled: true,
			Lines: []string{
				"Click the door to open or close it",
				"Use the left/right arrow keys to change animation",
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
