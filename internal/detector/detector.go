package detector

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid detector config")

// Detector defines the interface for hand-pose estimation.
type Detector interface {
	// Detect analyzes a video frame and returns the detected hands with
	// landmark positions in pixels of that frame.
	// Returns a Frame with no hands if none are detected.
	Detect(frame *gocv.Mat) (Frame, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int `koanf:"max_hands"`

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64 `koanf:"min_confidence"`

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64 `koanf:"min_tracking_confidence"`

	// StaticImageMode runs detection on every frame instead of tracking.
	StaticImageMode bool `koanf:"static_image_mode"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// Validate checks the config ranges.
func (c Config) Validate() error {
	if c.MaxHands < 1 {
		return fmt.Errorf("%w: max_hands must be at least 1, got %d", ErrInvalidConfig, c.MaxHands)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: min_confidence must be in [0,1], got %f", ErrInvalidConfig, c.MinConfidence)
	}
	if c.MinTrackingConf < 0 || c.MinTrackingConf > 1 {
		return fmt.Errorf("%w: min_tracking_confidence must be in [0,1], got %f", ErrInvalidConfig, c.MinTrackingConf)
	}
	return nil
}
