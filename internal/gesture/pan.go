package gesture

import (
	"github.com/ayusman/hastaview/internal/detector"
	"github.com/ayusman/hastaview/internal/transform"
)

// Pan drags the view with the palm while the hand is open, that is while the
// thumb-index distance exceeds PanThreshold.
//
// The translation moves opposite to the palm so the content follows the hand.
// The first open-hand frame only records the palm position.
func Pan(s *State, h *detector.Hand, p Params) {
	if h.PinchDistance() <= p.PanThreshold {
		s.ClearPan()
		return
	}

	palm := transform.VecOf(h.Point(detector.PalmBase))
	if s.pan.set {
		s.Translation = s.Translation.Sub(palm.Sub(s.pan.pos))
	}
	s.pan = panAnchor{set: true, pos: palm}
}
