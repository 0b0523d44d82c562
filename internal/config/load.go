package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate reports settings the overlay cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Model.Fill <= 0 || c.Model.Fill > 1 {
		errs = append(errs, fmt.Errorf("model fill %.2f must be in (0, 1]", c.Model.Fill))
	}

	a := c.Animation
	if a.BlinkDuration <= 0 {
		errs = append(errs, errors.New("blink_duration must be positive"))
	}
	if a.BlinkMinInterval <= 0 || a.BlinkMaxInterval < a.BlinkMinInterval {
		errs = append(errs, fmt.Errorf("blink interval [%v, %v] is not a valid range", a.BlinkMinInterval, a.BlinkMaxInterval))
	}
	if a.MaxHeadAngle <= 0 {
		errs = append(errs, fmt.Errorf("max_head_angle %.2f must be positive", a.MaxHeadAngle))
	}
	if a.SwaySpeedX <= 0 || a.SwaySpeedY <= 0 {
		errs = append(errs, fmt.Errorf("sway speed (%.2f, %.2f) must be positive", a.SwaySpeedX, a.SwaySpeedY))
	}
	if a.HeadSmoothing <= 0 || a.HeadSmoothing > 1 {
		errs = append(errs, fmt.Errorf("head_smoothing %.2f must be in (0, 1]", a.HeadSmoothing))
	}

	b := c.Bubble
	if b.Width <= 2*b.Padding || b.Height <= 0 {
		errs = append(errs, fmt.Errorf("bubble %gx%g leaves no room inside padding %g", b.Width, b.Height, b.Padding))
	}
	if b.FontSize < 2 {
		errs = append(errs, fmt.Errorf("font_size %g is too small", b.FontSize))
	}
	if b.FadeStep <= 0 || b.FadeStep > 1 {
		errs = append(errs, fmt.Errorf("fade_step %g must be in (0, 1]", b.FadeStep))
	}
	if b.Timeout <= 0 {
		errs = append(errs, errors.New("bubble timeout must be positive"))
	}

	p := c.Poller
	if p.Interval <= 0 || p.Timeout <= 0 {
		errs = append(errs, errors.New("poller interval and timeout must be positive"))
	}
	if u, err := url.Parse(p.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("poller endpoint %q is not an absolute URL", p.Endpoint))
	}

	if v := c.Sound.Volume; v < 0 || v > 1 {
		errs = append(errs, fmt.Errorf("sound volume %.2f must be in [0, 1]", v))
	}
	if c.Capture.Prefix == "" {
		errs = append(errs, errors.New("capture prefix must not be empty"))
	}

	return errors.Join(errs...)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		UserConfigPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "DeskPet")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "DeskPet")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "deskpet")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "deskpet")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
