package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion gate constants
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
	// DefaultMaxSkip is how many static frames may reuse old landmarks
	// before estimation is forced.
	DefaultMaxSkip = 5
)

// MotionGate decides whether a frame differs enough from the previous one to
// be worth running hand-pose estimation on. Static frames can reuse the last
// landmarks, but never more than maxSkip in a row.
type MotionGate struct {
	threshold   float64
	maxSkip     int
	skipped     int
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionGate creates a gate that opens when more than threshold percent of
// pixels change. maxSkip <= 0 uses DefaultMaxSkip.
func NewMotionGate(threshold float64, maxSkip int) *MotionGate {
	if maxSkip <= 0 {
		maxSkip = DefaultMaxSkip
	}
	return &MotionGate{
		threshold: threshold,
		maxSkip:   maxSkip,
		prevGray:  gocv.NewMat(),
	}
}

// Open reports whether frame should go through estimation. The first frame,
// any frame with motion, and every frame after maxSkip static ones open the
// gate.
func (g *MotionGate) Open(frame *gocv.Mat) bool {
	moved, _ := g.Changed(frame)

	g.mu.Lock()
	defer g.mu.Unlock()

	if moved || g.skipped >= g.maxSkip {
		g.skipped = 0
		return true
	}
	g.skipped++
	return false
}

// Changed compares frame with the previous one and returns whether motion was
// seen and the percentage of pixels that changed. The first frame counts as
// changed.
func (g *MotionGate) Changed(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prevGray)
		g.initialized = true
		return true, 100
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0

	blurred.CopyTo(&g.prevGray)

	return changed > g.threshold, changed
}

// Close releases the stored reference frame.
func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prevGray.Close()
	g.prevGray = gocv.NewMat()
	g.initialized = false
	g.skipped = 0
}
