package gesture

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned when Params fail validation.
var ErrInvalidParams = errors.New("invalid gesture params")

// Params holds the tunable gesture constants.
type Params struct {
	// ZoomThreshold is the thumb-index distance in pixels below which pinch is active.
	ZoomThreshold float64 `koanf:"zoom_threshold"`
	// PanThreshold is the thumb-index distance above which pan is active.
	// Must exceed ZoomThreshold.
	PanThreshold float64 `koanf:"pan_threshold"`
	// ZoomGain is the scale change per pixel of pinch distance change.
	ZoomGain float64 `koanf:"zoom_gain"`
	// SmoothingFactor is the exponential smoothing weight of the newest value, in (0,1].
	SmoothingFactor float64 `koanf:"smoothing_factor"`
	// MinScale and MaxScale bound the raw scale.
	MinScale float64 `koanf:"min_scale"`
	MaxScale float64 `koanf:"max_scale"`
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		ZoomThreshold:   50,
		PanThreshold:    80,
		ZoomGain:        0.05,
		SmoothingFactor: 0.2,
		MinScale:        0.2,
		MaxScale:        5.0,
	}
}

// Validate checks that the thresholds leave a hysteresis gap and that the
// smoothing and scale bounds are usable.
func (p Params) Validate() error {
	if p.ZoomThreshold <= 0 {
		return fmt.Errorf("%w: zoom_threshold must be positive, got %g", ErrInvalidParams, p.ZoomThreshold)
	}
	if p.PanThreshold <= p.ZoomThreshold {
		return fmt.Errorf("%w: pan_threshold (%g) must exceed zoom_threshold (%g)", ErrInvalidParams, p.PanThreshold, p.ZoomThreshold)
	}
	if p.SmoothingFactor <= 0 || p.SmoothingFactor > 1 {
		return fmt.Errorf("%w: smoothing_factor must be in (0,1], got %g", ErrInvalidParams, p.SmoothingFactor)
	}
	if p.MinScale <= 0 || p.MaxScale < p.MinScale {
		return fmt.Errorf("%w: scale bounds [%g,%g] are invalid", ErrInvalidParams, p.MinScale, p.MaxScale)
	}
	return nil
}
