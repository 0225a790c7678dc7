package gesture

import "github.com/ayusman/hastaview/internal/detector"

// Pinch updates the scale from the change in thumb-index distance.
//
// While the distance is below ZoomThreshold, the scale moves by the
// frame-to-frame distance change times ZoomGain. The first pinching frame only
// records the distance. Leaving the pinch range clears the anchor.
func Pinch(s *State, h *detector.Hand, p Params) {
	d := h.PinchDistance()

	if d >= p.ZoomThreshold {
		s.ClearPinch()
		return
	}

	if s.pinch.set {
		s.Scale += (d - s.pinch.distance) * p.ZoomGain
	}
	s.pinch = pinchAnchor{set: true, distance: d}
}
