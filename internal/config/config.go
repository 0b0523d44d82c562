// Package config handles overlay configuration loading and management.
package config

import "time"

// Config holds all overlay settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Model     ModelConfig     `yaml:"model"`
	Animation AnimationConfig `yaml:"animation"`
	Bubble    BubbleConfig    `yaml:"bubble"`
	Poller    PollerConfig    `yaml:"poller"`
	Sound     SoundConfig     `yaml:"sound"`
	Capture   CaptureConfig   `yaml:"capture"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds overlay window settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`

	// Distance from the right and bottom edges of the primary display.
	MarginRight  int `yaml:"margin_right"`
	MarginBottom int `yaml:"margin_bottom"`
}

// ModelConfig points at the character model description.
// An empty Path selects the built-in placeholder character.
type ModelConfig struct {
	Path string `yaml:"path"`

	// Fraction of the smaller window dimension the canvas may occupy.
	Fill float32 `yaml:"fill"`
}

// AnimationConfig holds the procedural animation tunables.
type AnimationConfig struct {
	BreathSpeed     float64 `yaml:"breath_speed"`
	BreathAmplitude float64 `yaml:"breath_amplitude"`

	MaxHeadAngle  float64 `yaml:"max_head_angle"` // degrees
	HeadSmoothing float64 `yaml:"head_smoothing"` // low-pass factor per frame

	SwayAmplitudeX float64 `yaml:"sway_amplitude_x"` // degrees
	SwayAmplitudeY float64 `yaml:"sway_amplitude_y"`
	SwaySpeedX     float64 `yaml:"sway_speed_x"` // rad/s
	SwaySpeedY     float64 `yaml:"sway_speed_y"`

	BlinkDuration    time.Duration `yaml:"blink_duration"`
	BlinkMinInterval time.Duration `yaml:"blink_min_interval"`
	BlinkMaxInterval time.Duration `yaml:"blink_max_interval"`
}

// BubbleConfig holds speech bubble geometry, timing and font settings.
type BubbleConfig struct {
	X       float32 `yaml:"x"`
	Y       float32 `yaml:"y"`
	Width   float32 `yaml:"width"`
	Height  float32 `yaml:"height"`
	Padding float32 `yaml:"padding"`

	Background        [3]float32 `yaml:"background"`
	BackgroundOpacity float32    `yaml:"background_opacity"`

	FontPath     string  `yaml:"font_path"` // empty = Go Regular
	FontSize     float64 `yaml:"font_size"`
	MinTextWidth int     `yaml:"min_text_width"`

	Timeout  time.Duration `yaml:"timeout"`
	FadeStep float32       `yaml:"fade_step"` // alpha lost per frame once timed out
}

// PollerConfig holds message feed polling settings.
type PollerConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ServerConfig holds settings for the bundled message server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SoundConfig controls the chime played when a new message appears.
// An empty Chime disables audio entirely.
type SoundConfig struct {
	Chime  string  `yaml:"chime"` // WAV file
	Volume float64 `yaml:"volume"`
}

// CaptureConfig controls F12 screenshots of the overlay.
type CaptureConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:        "Desk Pet",
			Width:        800,
			Height:       600,
			VSync:        true,
			MarginRight:  20,
			MarginBottom: 60,
		},
		Model: ModelConfig{
			Fill: 0.8,
		},
		Animation: AnimationConfig{
			BreathSpeed:      2.0,
			BreathAmplitude:  0.5,
			MaxHeadAngle:     30,
			HeadSmoothing:    0.15,
			SwayAmplitudeX:   5,
			SwayAmplitudeY:   3,
			SwaySpeedX:       0.5,
			SwaySpeedY:       0.6,
			BlinkDuration:    150 * time.Millisecond,
			BlinkMinInterval: 2 * time.Second,
			BlinkMaxInterval: 5 * time.Second,
		},
		Bubble: BubbleConfig{
			X:                 50,
			Y:                 50,
			Width:             400,
			Height:            120,
			Padding:           15,
			Background:        [3]float32{0.15, 0.15, 0.2},
			BackgroundOpacity: 0.85,
			FontSize:          20,
			MinTextWidth:      100,
			Timeout:           10 * time.Second,
			FadeStep:          0.05,
		},
		Poller: PollerConfig{
			Endpoint: "http://localhost:8765/api/message",
			Interval: 10 * time.Second,
			Timeout:  3 * time.Second,
		},
		Sound: SoundConfig{
			Volume: 0.8,
		},
		Capture: CaptureConfig{
			Dir:    "screenshots",
			Prefix: "deskpet",
		},
		Server: ServerConfig{
			Addr: "localhost:8765",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
