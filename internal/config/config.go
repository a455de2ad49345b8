// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/fitmirror/fitmirror/internal/analyzer"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Capture  CaptureConfig  `yaml:"capture"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type CaptureConfig struct {
	// Device is the camera device ID; Video, when set, reads a recorded
	// file instead.
	Device int    `yaml:"device"`
	Video  string `yaml:"video"`

	// ActiveFPS is the capture rate while the subject is moving; IdleFPS
	// applies while they rest between sets.
	ActiveFPS int `yaml:"active_fps"`
	IdleFPS   int `yaml:"idle_fps"`

	// MotionThreshold is the percentage of changed pixels that counts as
	// motion.
	MotionThreshold float64 `yaml:"motion_threshold"`
}

type AnalysisConfig struct {
	// Exercise is the exercise type to analyze.
	Exercise string `yaml:"exercise"`

	// ModelComplexity selects the pose model variant (0 lite, 1 full,
	// 2 heavy).
	ModelComplexity int     `yaml:"model_complexity"`
	MinConfidence   float64 `yaml:"min_confidence"`
}

// Addr returns the server listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8750,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(os.Getenv("HOME"), ".fitmirror", "fitmirror.db"),
		},
		Capture: CaptureConfig{
			Device:          0,
			ActiveFPS:       15,
			IdleFPS:         2,
			MotionThreshold: 1.0,
		},
		Analysis: AnalysisConfig{
			Exercise:        "squat",
			ModelComplexity: 1,
			MinConfidence:   0.5,
		},
	}
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix FITMIRROR_ and underscore-separated
// paths:
//
//	FITMIRROR_SERVER_HOST, FITMIRROR_SERVER_PORT,
//	FITMIRROR_DB_PATH,
//	FITMIRROR_CAPTURE_DEVICE, FITMIRROR_CAPTURE_VIDEO,
//	FITMIRROR_CAPTURE_ACTIVE_FPS, FITMIRROR_CAPTURE_IDLE_FPS,
//	FITMIRROR_ANALYSIS_EXERCISE
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FITMIRROR_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FITMIRROR_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FITMIRROR_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("FITMIRROR_CAPTURE_DEVICE"); v != "" {
		if device, err := strconv.Atoi(v); err == nil {
			cfg.Capture.Device = device
		}
	}
	if v := os.Getenv("FITMIRROR_CAPTURE_VIDEO"); v != "" {
		cfg.Capture.Video = v
	}
	if v := os.Getenv("FITMIRROR_CAPTURE_ACTIVE_FPS"); v != "" {
		if fps, err := strconv.Atoi(v); err == nil {
			cfg.Capture.ActiveFPS = fps
		}
	}
	if v := os.Getenv("FITMIRROR_CAPTURE_IDLE_FPS"); v != "" {
		if fps, err := strconv.Atoi(v); err == nil {
			cfg.Capture.IdleFPS = fps
		}
	}
	if v := os.Getenv("FITMIRROR_ANALYSIS_EXERCISE"); v != "" {
		cfg.Analysis.Exercise = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Capture.ActiveFPS <= 0 {
		return fmt.Errorf("capture.active_fps must be positive")
	}
	if c.Capture.IdleFPS <= 0 {
		return fmt.Errorf("capture.idle_fps must be positive")
	}
	if _, err := analyzer.ProfileFor(c.Analysis.Exercise); err != nil {
		return fmt.Errorf("analysis.exercise: %w", err)
	}
	return nil
}
