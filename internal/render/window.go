package render

import (
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"
	"golang.org/x/image/math/f64"

	"github.com/ayusman/hastaview/internal/detector"
)

// Window renders with OpenCV HighGUI windows.
type Window struct {
	windows map[string]*gocv.Window
	mu      sync.Mutex
}

// NewWindow creates a HighGUI renderer. Windows are opened on first Show.
func NewWindow() *Window {
	return &Window{
		windows: make(map[string]*gocv.Window),
	}
}

// Warp applies m to src with cv::warpAffine.
func (w *Window) Warp(src gocv.Mat, m f64.Aff3) gocv.Mat {
	return WarpMat(src, m)
}

// Show displays img in the window named label, opening it if needed.
func (w *Window) Show(label string, img gocv.Mat) {
	w.mu.Lock()
	win, ok := w.windows[label]
	if !ok {
		win = gocv.NewWindow(label)
		w.windows[label] = win
	}
	w.mu.Unlock()

	win.IMShow(img)
}

// PollKey pumps the HighGUI event loop for 1ms and returns the pressed key.
func (w *Window) PollKey() int {
	w.mu.Lock()
	var win *gocv.Window
	for _, v := range w.windows {
		win = v
		break
	}
	w.mu.Unlock()

	if win == nil {
		return KeyNone
	}

	k := win.WaitKey(1)
	if k < 0 {
		return KeyNone
	}
	return k & 0xFF
}

// Close closes every window.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	for label, win := range w.windows {
		if err := win.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(w.windows, label)
	}
	return firstErr
}

// handConnections are the landmark pairs drawn as bones.
var handConnections = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.MiddleMCP, detector.RingMCP}, {detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.RingMCP, detector.PinkyMCP}, {detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP}, {detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

var (
	boneColor  = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	jointColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	pinchColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
)

// DrawHands overlays the landmarks of f on img.
func DrawHands(img *gocv.Mat, f detector.Frame) {
	for i := range f.Hands {
		h := &f.Hands[i]
		for _, c := range handConnections {
			gocv.Line(img, h.Point(c[0]), h.Point(c[1]), boneColor, 2)
		}
		for _, lm := range h.Landmarks {
			gocv.Circle(img, lm.Point(), 4, jointColor, -1)
		}
		gocv.Line(img, h.Point(detector.ThumbTip), h.Point(detector.IndexTip), pinchColor, 2)
	}
}

// Annotate writes a status line such as the active gesture mode onto img.
func Annotate(img *gocv.Mat, text string) {
	gocv.PutText(img, text, image.Pt(10, 24), gocv.FontHersheyPlain, 1.4, pinchColor, 2)
}
