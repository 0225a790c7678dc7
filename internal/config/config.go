// Package config defines the hastaview configuration and how it is loaded.
package config

import (
	"fmt"

	"github.com/ayusman/hastaview/internal/capture"
	"github.com/ayusman/hastaview/internal/detector"
	"github.com/ayusman/hastaview/internal/gesture"
	"github.com/ayusman/hastaview/internal/logger"
)

// Config is the complete process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Image is the path of the picture to view.
	Image string `koanf:"image"`

	// Replay, when set, drives the pipeline from a recorded landmark script
	// instead of the camera and detector.
	Replay string `koanf:"replay"`

	// ShowCamera opens a second window with the camera feed and landmarks.
	ShowCamera bool `koanf:"show_camera"`

	Gesture  gesture.Params  `koanf:"gesture"`
	Camera   capture.Config  `koanf:"camera"`
	Detector detector.Config `koanf:"detector"`
	Motion   MotionConfig    `koanf:"motion"`
	Server   ServerConfig    `koanf:"server"`
	Store    StoreConfig     `koanf:"store"`
}

// MotionConfig controls the frame-difference gate in front of the detector.
type MotionConfig struct {
	Enabled bool `koanf:"enabled"`
	// Threshold is the percentage of changed pixels that counts as motion.
	Threshold float64 `koanf:"threshold"`
	// MaxSkip bounds how many static frames in a row reuse old landmarks.
	MaxSkip int `koanf:"max_skip"`
}

// ServerConfig controls the optional HTTP observer surface.
type ServerConfig struct {
	// Addr is the listen address. Empty disables the server.
	Addr string `koanf:"addr"`
	// Interpolation names the software warp kernel for snapshots:
	// nearest, approx, bilinear or catmullrom.
	Interpolation string `koanf:"interpolation"`
	// JPEGQuality is used for the MJPEG stream, 1-100.
	JPEGQuality int `koanf:"jpeg_quality"`
	// StreamFPS caps the MJPEG stream rate.
	StreamFPS int `koanf:"stream_fps"`
}

// StoreConfig controls session history.
type StoreConfig struct {
	// Path is the SQLite database file. Empty disables history.
	Path string `koanf:"path"`
}

// Option overrides a loaded value.
type Option func(*Config)

// WithImage sets the image path when p is not empty.
func WithImage(p string) Option {
	return func(c *Config) {
		if p != "" {
			c.Image = p
		}
	}
}

// WithReplay sets the replay script path when p is not empty.
func WithReplay(p string) Option {
	return func(c *Config) {
		if p != "" {
			c.Replay = p
		}
	}
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:   "info",
		ShowCamera: true,
		Gesture:    gesture.DefaultParams(),
		Camera:     capture.DefaultConfig(),
		Detector:   detector.DefaultConfig(),
		Motion: MotionConfig{
			Enabled:   false,
			Threshold: 1.0,
			MaxSkip:   capture.DefaultMaxSkip,
		},
		Server: ServerConfig{
			Interpolation: "bilinear",
			JPEGQuality:   75,
			StreamFPS:     15,
		},
	}
}

// Validate checks every section and wraps the first failure in
// ErrInvalidConfig.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Image == "" {
		return fmt.Errorf("%w: image must not be empty", ErrInvalidConfig)
	}
	if err := c.Gesture.Validate(); err != nil {
		return fmt.Errorf("%w: gesture: %v", ErrInvalidConfig, err)
	}
	if c.Replay == "" {
		if err := c.Detector.Validate(); err != nil {
			return fmt.Errorf("%w: detector: %v", ErrInvalidConfig, err)
		}
	}
	if c.Camera.DeviceID < 0 {
		return fmt.Errorf("%w: camera.device_id must not be negative, got %d", ErrInvalidConfig, c.Camera.DeviceID)
	}
	if c.Motion.Enabled && c.Motion.Threshold < 0 {
		return fmt.Errorf("%w: motion.threshold must not be negative, got %g", ErrInvalidConfig, c.Motion.Threshold)
	}
	if c.Server.Addr != "" {
		if c.Server.JPEGQuality < 1 || c.Server.JPEGQuality > 100 {
			return fmt.Errorf("%w: server.jpeg_quality must be in [1,100], got %d", ErrInvalidConfig, c.Server.JPEGQuality)
		}
		if c.Server.StreamFPS < 1 {
			return fmt.Errorf("%w: server.stream_fps must be positive, got %d", ErrInvalidConfig, c.Server.StreamFPS)
		}
	}
	return nil
}
