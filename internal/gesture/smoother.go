package gesture

// Smoother is an exponential low-pass filter applied independently to scale,
// angle and both translation components.
type Smoother struct {
	alpha float64
}

// NewSmoother creates a Smoother giving weight alpha to the newest value.
// Values outside (0,1] disable smoothing (alpha 1).
func NewSmoother(alpha float64) Smoother {
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	return Smoother{alpha: alpha}
}

// Apply moves each smoothed value toward its raw value.
func (sm Smoother) Apply(s *State) {
	s.Smoothed.Scale = sm.step(s.Smoothed.Scale, s.Scale)
	s.Smoothed.Angle = sm.step(s.Smoothed.Angle, s.Angle)
	s.Smoothed.Translation.X = sm.step(s.Smoothed.Translation.X, s.Translation.X)
	s.Smoothed.Translation.Y = sm.step(s.Smoothed.Translation.Y, s.Translation.Y)
}

func (sm Smoother) step(prev, raw float64) float64 {
	return (1-sm.alpha)*prev + sm.alpha*raw
}
