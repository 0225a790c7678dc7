package gesture

import (
	"math"

	"github.com/ayusman/hastaview/internal/transform"
)

// State is the persistent gesture state: the raw accumulated transform, its
// smoothed counterpart and the per-gesture anchors. One State is owned by the
// frame loop; detectors receive it by pointer.
type State struct {
	Scale       float64
	Angle       float64
	Translation transform.Vec

	// Smoothed lags the raw values above.
	Smoothed transform.View

	pinch    pinchAnchor
	pan      panAnchor
	rotation rotationAnchor
}

type pinchAnchor struct {
	set      bool
	distance float64
}

type panAnchor struct {
	set bool
	pos transform.Vec
}

type rotationAnchor struct {
	set        bool
	startVec   transform.Vec
	startAngle float64
	// palms holds the last palm positions in matched order.
	palms [2]transform.Vec
	// lastVec and turned track the direction change since startVec,
	// accumulated frame by frame so that it never jumps at ±180°.
	lastVec transform.Vec
	turned  float64
}

// NewState returns the initial state for an image centered at center:
// scale 1, no rotation, translation at the center, all anchors unset.
func NewState(center transform.Vec) *State {
	s := &State{
		Scale:       1,
		Translation: center,
	}
	s.Smoothed = s.Raw()
	return s
}

// Raw returns the un-smoothed transform.
func (s *State) Raw() transform.View {
	return transform.View{
		Scale:       s.Scale,
		Angle:       s.Angle,
		Translation: s.Translation,
	}
}

// View returns the smoothed transform used for rendering.
func (s *State) View() transform.View {
	return s.Smoothed
}

// PinchAnchor returns the last pinch distance, if set.
func (s *State) PinchAnchor() (float64, bool) {
	return s.pinch.distance, s.pinch.set
}

// PanAnchor returns the last palm position used for panning, if set.
func (s *State) PanAnchor() (transform.Vec, bool) {
	return s.pan.pos, s.pan.set
}

// RotationAnchor returns the vector and angle captured when the current
// two-hand rotation began, if set.
func (s *State) RotationAnchor() (transform.Vec, float64, bool) {
	return s.rotation.startVec, s.rotation.startAngle, s.rotation.set
}

// ClearPinch unsets the pinch anchor.
func (s *State) ClearPinch() { s.pinch = pinchAnchor{} }

// ClearPan unsets the pan anchor.
func (s *State) ClearPan() { s.pan = panAnchor{} }

// ClearRotation unsets the rotation anchor.
func (s *State) ClearRotation() { s.rotation = rotationAnchor{} }

// ClearAnchors unsets every anchor. The accumulated transform is untouched.
func (s *State) ClearAnchors() {
	s.ClearPinch()
	s.ClearPan()
	s.ClearRotation()
}

// ClampScale bounds the raw scale to [min, max].
func (s *State) ClampScale(min, max float64) {
	s.Scale = math.Max(min, math.Min(max, s.Scale))
}
