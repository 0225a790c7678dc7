package gesture

import "github.com/ayusman/hastaview/internal/detector"

// Interpreter runs the per-frame gesture pipeline: classify, run the active
// detector, clamp, smooth.
type Interpreter struct {
	params   Params
	smoother Smoother
}

// NewInterpreter creates an Interpreter. The params must already be valid.
func NewInterpreter(p Params) *Interpreter {
	return &Interpreter{
		params:   p,
		smoother: NewSmoother(p.SmoothingFactor),
	}
}

// Step applies one landmark frame to s and returns the mode that was active.
//
// Exactly one mode is active per frame. Anchors owned by inactive modes are
// cleared; the accumulated transform is never reset by a mode change.
func (in *Interpreter) Step(s *State, f detector.Frame) Mode {
	c := Classify(f)

	switch c.Mode {
	case ModeOneHand:
		s.ClearRotation()
		Pinch(s, &c.Hands[0], in.params)
		Pan(s, &c.Hands[0], in.params)
	case ModeTwoHands:
		s.ClearPinch()
		s.ClearPan()
		Rotate(s, &c.Hands[0], &c.Hands[1])
	default:
		s.ClearAnchors()
	}

	s.ClampScale(in.params.MinScale, in.params.MaxScale)
	in.smoother.Apply(s)

	return c.Mode
}
