// Package gesture interprets per-frame hand landmarks as pan, pinch-zoom and
// two-hand rotate gestures and accumulates them into a smoothed view transform.
package gesture

import "github.com/ayusman/hastaview/internal/detector"

// Mode is the gesture mode active for a single frame.
type Mode int

const (
	// ModeNoHands means no hand is visible.
	ModeNoHands Mode = iota
	// ModeOneHand drives pinch-zoom and pan.
	ModeOneHand
	// ModeTwoHands drives rotation.
	ModeTwoHands
	// ModeOther covers any other hand count and behaves like ModeNoHands.
	ModeOther
)

// String returns the mode name used in logs, metrics and the store.
func (m Mode) String() string {
	switch m {
	case ModeNoHands:
		return "none"
	case ModeOneHand:
		return "one_hand"
	case ModeTwoHands:
		return "two_hands"
	default:
		return "other"
	}
}

// Classification is the result of classifying one frame.
type Classification struct {
	Mode  Mode
	Hands []detector.Hand
}

// Classify maps a frame to its gesture mode by hand count.
func Classify(f detector.Frame) Classification {
	switch len(f.Hands) {
	case 0:
		return Classification{Mode: ModeNoHands}
	case 1:
		return Classification{Mode: ModeOneHand, Hands: f.Hands[:1]}
	case 2:
		return Classification{Mode: ModeTwoHands, Hands: f.Hands[:2]}
	default:
		return Classification{Mode: ModeOther}
	}
}
