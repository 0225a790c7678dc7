// Package capture provides camera capture functionality using GoCV (OpenCV).
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrEndOfStream is returned when the camera yields no more frames.
	ErrEndOfStream = errors.New("end of stream")
)

// Config describes the capture device.
type Config struct {
	DeviceID int  `koanf:"device_id"`
	Width    int  `koanf:"width"`
	Height   int  `koanf:"height"`
	FPS      int  `koanf:"fps"`
	Mirror   bool `koanf:"mirror"`
}

// DefaultConfig returns the default capture settings: device 0, 640x480,
// mirrored so that moving a hand right moves it right on screen.
func DefaultConfig() Config {
	return Config{
		DeviceID: 0,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
		Mirror:   true,
	}
}

// Camera defines the interface for camera capture implementations.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame blocks until the next frame is available. The caller owns
	// the returned Mat. Any failure means the stream has ended.
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	config  Config
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewCamera creates a new Camera. Zero fields in config take the defaults.
func NewCamera(config Config) Camera {
	if config.Width <= 0 {
		config.Width = DefaultWidth
	}
	if config.Height <= 0 {
		config.Height = DefaultHeight
	}
	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}
	return &cameraImpl{
		config: config,
	}
}

// Open opens the camera for capturing frames.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.config.DeviceID)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.config.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.config.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.config.FPS))

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the camera, mirrored if configured.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrEndOfStream
	}

	if c.config.Mirror {
		Mirror(&mat)
	}

	return &mat, nil
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// Mirror flips img horizontally in place.
func Mirror(img *gocv.Mat) {
	flipped := gocv.NewMat()
	gocv.Flip(*img, &flipped, 1)
	img.Close()
	*img = flipped
}
