package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

type Config struct {
	Backend   string        `json:"backend"` // "malgo" or "portaudio"
	Audio     AudioConfig   `json:"audio"`
	Capture   CaptureConfig `json:"capture"`
	LogLevel  string        `json:"log_level"`
	OutputDir string        `json:"output_dir"`
}

type AudioConfig struct {
	DeviceID string `json:"device_id"`
}

type CaptureConfig struct {
	TargetRate     int `json:"target_rate"`      // output rate in Hz
	MaxToggleSecs  int `json:"max_toggle_secs"`  // safety bound for toggle mode
	GracePeriodMS  int `json:"grace_period_ms"`  // trailing audio after a stop request
	TickIntervalMS int `json:"tick_interval_ms"` // stop-signal poll period
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()

	cfg := &Config{
		Backend: "malgo",
		Audio: AudioConfig{
			DeviceID: "",
		},
		Capture: CaptureConfig{
			TargetRate:     16000,
			MaxToggleSecs:  300,
			GracePeriodMS:  1000,
			TickIntervalMS: 100,
		},
		LogLevel:  "info",
		OutputDir: ".",
	}

	// Load existing config if it exists
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "micdrop", "config.json")
}
