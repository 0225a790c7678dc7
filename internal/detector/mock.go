package detector

import (
	"image"
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns queued frames in order, then repeats the fallback frame.
type MockDetector struct {
	queue    []Frame
	fallback Frame
	err      error
	calls    int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call once
// the queue is drained.
func (m *MockDetector) SetHands(hands []Hand) {
	m.fallback = Frame{Hands: hands}
}

// Enqueue appends frames to be returned by subsequent Detect calls.
func (m *MockDetector) Enqueue(frames ...Frame) {
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the next queued frame, the fallback frame, or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) (Frame, error) {
	m.calls++
	if m.err != nil {
		return Frame{}, m.err
	}

	var f Frame
	if len(m.queue) > 0 {
		f = m.queue[0]
		m.queue = m.queue[1:]
	} else {
		f = m.fallback
	}

	if frame != nil && !frame.Empty() {
		f.Width, f.Height = frame.Cols(), frame.Rows()
	}
	return f, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// openHandOffsets lays out an open right hand relative to the palm base,
// in pixels, fingers pointing up (negative Y).
var openHandOffsets = [NumLandmarks]image.Point{
	Wrist:     {0, 0},
	ThumbCMC:  {30, -20},
	ThumbMCP:  {55, -45},
	ThumbIP:   {75, -70},
	ThumbTip:  {90, -95},
	IndexMCP:  {35, -85},
	IndexPIP:  {40, -125},
	IndexDIP:  {42, -150},
	IndexTip:  {44, -170},
	MiddleMCP: {10, -90},
	MiddlePIP: {10, -135},
	MiddleDIP: {10, -160},
	MiddleTip: {10, -185},
	RingMCP:   {-15, -85},
	RingPIP:   {-18, -125},
	RingDIP:   {-20, -148},
	RingTip:   {-21, -168},
	PinkyMCP:  {-38, -75},
	PinkyPIP:  {-44, -105},
	PinkyDIP:  {-47, -122},
	PinkyTip:  {-49, -138},
}

// HandAt returns a synthetic open hand with its palm base at palm and the
// thumb tip placed pinch pixels to the right of the index fingertip.
// The palm should be far enough from the image edges to keep every landmark
// non-negative (at least 200px from the top and 50px from the left).
func HandAt(palm image.Point, pinch float64) Hand {
	var points [NumLandmarks]image.Point
	for i, off := range openHandOffsets {
		points[i] = palm.Add(off)
	}

	index := points[IndexTip]
	points[ThumbTip] = image.Pt(index.X+int(math.Round(pinch)), index.Y)

	h := NewHand(points)
	h.Handedness = "Right"
	h.Score = 0.95
	return h
}

// PinchLandmarks returns a hand pinching with thumb and index fingertips
// pinch pixels apart.
func PinchLandmarks(palm image.Point, pinch float64) Hand {
	return HandAt(palm, pinch)
}

// OpenPalmLandmarks returns a hand with thumb and index spread 120px apart,
// wide enough to count as an open palm for panning.
func OpenPalmLandmarks(palm image.Point) Hand {
	return HandAt(palm, 120)
}
