// Package detector defines the hand landmark data contract and the hand-pose
// providers that produce it.
package detector

import (
	"image"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21

	// PalmBase is the landmark used as the hand's anchor for panning and rotation.
	PalmBase = Wrist
)

// Landmark is a single joint position in image pixel coordinates.
type Landmark struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// Point returns the landmark position as an image.Point.
func (l Landmark) Point() image.Point {
	return image.Pt(l.X, l.Y)
}

// Hand is one detected hand: exactly NumLandmarks landmarks where index == ID.
type Hand struct {
	Landmarks  [NumLandmarks]Landmark `json:"landmarks"`
	Handedness string                 `json:"handedness,omitempty"` // "Left" or "Right"
	Score      float64                `json:"score,omitempty"`
}

// NewHand builds a Hand from pixel positions, assigning landmark IDs by index.
func NewHand(points [NumLandmarks]image.Point) Hand {
	var h Hand
	for i, p := range points {
		h.Landmarks[i] = Landmark{ID: i, X: p.X, Y: p.Y}
	}
	return h
}

// Point returns the position of landmark id.
func (h *Hand) Point(id int) image.Point {
	return h.Landmarks[id].Point()
}

// Distance returns the Euclidean pixel distance between landmarks a and b.
func (h *Hand) Distance(a, b int) float64 {
	pa, pb := h.Landmarks[a], h.Landmarks[b]
	return math.Hypot(float64(pb.X-pa.X), float64(pb.Y-pa.Y))
}

// PinchDistance is the thumb-tip to index-fingertip distance.
func (h *Hand) PinchDistance() float64 {
	return h.Distance(ThumbTip, IndexTip)
}

// Frame is the set of hands seen in one camera frame. Hand order is whatever
// the provider returned and is not stable across frames.
type Frame struct {
	Hands  []Hand `json:"hands"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Len returns the number of hands in the frame.
func (f Frame) Len() int {
	return len(f.Hands)
}

// clampInt bounds v to [0, limit-1]. A non-positive limit only clamps below.
func clampInt(v, limit int) int {
	if v < 0 {
		return 0
	}
	if limit > 0 && v >= limit {
		return limit - 1
	}
	return v
}

// FromNormalized converts normalized [0,1] coordinates into pixel landmarks
// for an image of the given size, clamping to the image bounds.
func FromNormalized(xs, ys []float64, width, height int) Hand {
	var h Hand
	for i := 0; i < NumLandmarks; i++ {
		var x, y float64
		if i < len(xs) {
			x = xs[i]
		}
		if i < len(ys) {
			y = ys[i]
		}
		h.Landmarks[i] = Landmark{
			ID: i,
			X:  clampInt(int(x*float64(width)), width),
			Y:  clampInt(int(y*float64(height)), height),
		}
	}
	return h
}
