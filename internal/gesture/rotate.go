package gesture

import (
	"math"

	"github.com/ayusman/hastaview/internal/detector"
	"github.com/ayusman/hastaview/internal/transform"
)

// Rotate sets the angle from the direction of the palm-to-palm vector.
//
// The first two-hand frame records the vector and the current angle. Later
// frames set the angle to the recorded angle plus the change in vector
// direction since then. The change is summed from per-frame steps wrapped
// into (-180, 180], so a vector crossing the ±180° direction keeps turning
// smoothly.
//
// The provider does not keep hand order stable, so each frame's hands are
// matched to the previous frame's palms by nearest position before the vector
// is formed. A swap in provider order therefore cannot flip the vector.
func Rotate(s *State, a, b *detector.Hand) {
	pa := transform.VecOf(a.Point(detector.PalmBase))
	pb := transform.VecOf(b.Point(detector.PalmBase))

	if !s.rotation.set {
		s.rotation = rotationAnchor{
			set:        true,
			startVec:   pb.Sub(pa),
			startAngle: s.Angle,
			palms:      [2]transform.Vec{pa, pb},
			lastVec:    pb.Sub(pa),
		}
		return
	}

	pa, pb = matchPalms(s.rotation.palms, pa, pb)
	s.rotation.palms = [2]transform.Vec{pa, pb}

	current := pb.Sub(pa)
	s.rotation.turned += wrapDegrees(current.Degrees() - s.rotation.lastVec.Degrees())
	s.rotation.lastVec = current
	s.Angle = s.rotation.startAngle + s.rotation.turned
}

// wrapDegrees maps d into (-180, 180].
func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}
	return d
}

// matchPalms returns a and b reordered so that the total movement from prev
// is smallest.
func matchPalms(prev [2]transform.Vec, a, b transform.Vec) (transform.Vec, transform.Vec) {
	kept := a.Sub(prev[0]).Len() + b.Sub(prev[1]).Len()
	swapped := b.Sub(prev[0]).Len() + a.Sub(prev[1]).Len()
	if swapped < kept {
		return b, a
	}
	return a, b
}
