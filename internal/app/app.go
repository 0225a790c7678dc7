// Package app runs the hastaview frame loop: camera, hand-pose estimation,
// gesture interpretation, composition and display.
package app

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/hastaview/internal/capture"
	"github.com/ayusman/hastaview/internal/detector"
	"github.com/ayusman/hastaview/internal/gesture"
	"github.com/ayusman/hastaview/internal/logger"
	"github.com/ayusman/hastaview/internal/metrics"
	"github.com/ayusman/hastaview/internal/render"
	"github.com/ayusman/hastaview/internal/store"
	"github.com/ayusman/hastaview/internal/transform"
)

// Window labels.
const (
	ViewerWindow = "hastaview"
	CameraWindow = "hastaview camera"
)

// ErrImageNotLoaded is returned by LoadImage when the file cannot be decoded.
var ErrImageNotLoaded = errors.New("image could not be loaded")

// Config holds the per-run settings of the App.
type Config struct {
	// Params tunes the gesture interpreter. It must be valid.
	Params gesture.Params
	// ImagePath is recorded with the session.
	ImagePath string
	// Source is recorded with the session.
	Source store.Source
	// ShowCamera opens a second window with the camera feed and landmarks.
	ShowCamera bool
}

// App owns the gesture state and drives one iteration per camera frame.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	renderer render.Renderer
	interp   *gesture.Interpreter

	image   gocv.Mat
	picture image.Image
	size    image.Point

	gate    *capture.MotionGate
	store   *store.Store
	metrics *metrics.Metrics
	log     logger.Logger

	// Loop-owned state.
	state     *gesture.State
	mode      gesture.Mode
	lastHands detector.Frame
	frames    int
	session   *store.Session

	mu      sync.RWMutex
	current Snapshot
	subs    map[chan Snapshot]struct{}
}

// Option configures optional collaborators of the App.
type Option func(*App)

// WithMotionGate skips estimation on static frames, reusing the previous
// landmarks.
func WithMotionGate(g *capture.MotionGate) Option {
	return func(a *App) { a.gate = g }
}

// WithStore records the session and its mode transitions.
func WithStore(s *store.Store) Option {
	return func(a *App) { a.store = s }
}

// WithMetrics records per-frame metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithLogger replaces the default component logger.
func WithLogger(l logger.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// New creates an App viewing img. The App takes ownership of img and of the
// camera, detector and renderer, releasing them when Run returns.
func New(config Config, img gocv.Mat, cam capture.Camera, det detector.Detector, r render.Renderer, opts ...Option) (*App, error) {
	if img.Empty() {
		return nil, ErrImageNotLoaded
	}
	if err := config.Params.Validate(); err != nil {
		return nil, err
	}
	if config.Source == "" {
		config.Source = store.SourceCamera
	}

	picture, err := img.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}

	a := &App{
		config:   config,
		camera:   cam,
		detector: det,
		renderer: r,
		interp:   gesture.NewInterpreter(config.Params),
		image:    img,
		picture:  picture,
		size:     image.Pt(img.Cols(), img.Rows()),
		log:      logger.Named("app"),
		subs:     make(map[chan Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.state = gesture.NewState(transform.Center(a.size))
	a.current = a.snapshot()

	return a, nil
}

// LoadImage reads the image at path in BGR color. The caller owns the Mat.
func LoadImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return gocv.NewMat(), fmt.Errorf("load %s: %w", path, ErrImageNotLoaded)
	}
	return img, nil
}

// Picture returns the viewed image as a Go image. It is never modified.
func (a *App) Picture() image.Image {
	return a.picture
}

// Size returns the dimensions of the viewed image.
func (a *App) Size() image.Point {
	return a.size
}

// Session returns the session being recorded, or nil without a store.
func (a *App) Session() *store.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}
