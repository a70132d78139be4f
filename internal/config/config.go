// Package config loads mudra's settings from a YAML file, an optional .env
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/gesture"
)

// ErrInvalid is returned when the loaded configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every tunable of the process.
type Config struct {
	Addr string `yaml:"addr" validate:"required"`

	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Log      LogConfig      `yaml:"log"`

	// WebDir is served at / when set.
	WebDir string `yaml:"web_dir"`

	Gesture gesture.Thresholds `yaml:"gesture"`

	// Tray shows the system tray menu.
	Tray bool `yaml:"tray"`
}

// CameraConfig controls capture and the frame pipeline.
type CameraConfig struct {
	Enabled  bool `yaml:"enabled"`
	DeviceID int  `yaml:"device_id" validate:"gte=0"`
	Width    int  `yaml:"width" validate:"gte=160,lte=3840"`
	Height   int  `yaml:"height" validate:"gte=120,lte=2160"`
	FPS      int  `yaml:"fps" validate:"gt=0,lte=60"`
}

// DetectorConfig controls the landmark detector service.
type DetectorConfig struct {
	MaxHands      int     `yaml:"max_hands" validate:"gte=1,lte=4"`
	MinConfidence float64 `yaml:"min_confidence" validate:"gte=0,lte=1"`
	Faces         bool    `yaml:"faces"`
	Humans        bool    `yaml:"humans"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr: ":8080",
		Camera: CameraConfig{
			Enabled:  false,
			DeviceID: 0,
			Width:    640,
			Height:   480,
			FPS:      15,
		},
		Detector: DetectorConfig{
			MaxHands:      2,
			MinConfidence: 0.5,
			Faces:         true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Gesture: gesture.DefaultThresholds(),
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then .env and environment overrides. The result is
// validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// A missing .env is normal.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("MUDRA_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("MUDRA_CAMERA_ID"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MUDRA_CAMERA_ID: %w", err)
		}
		cfg.Camera.DeviceID = id
		cfg.Camera.Enabled = true
	}
	if v := os.Getenv("MUDRA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MUDRA_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("MUDRA_TRAY"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MUDRA_TRAY: %w", err)
		}
		cfg.Tray = on
	}
	return nil
}
