package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera plays back pre-recorded frames for testing and replay.
type MockCamera struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	limit   int
	reads   int
	mu      sync.Mutex
	running bool
}

// NewMockCamera creates a camera that returns clones of frames in order.
// With loop set it starts over after the last frame.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
	}
}

// NewBlankCamera returns a looping camera of empty black frames of the given
// size that ends after limit reads (0 means never). It drives the frame loop
// when landmarks come from a replay script instead of a real camera.
func NewBlankCamera(width, height, limit int) *MockCamera {
	blank := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	c := NewMockCamera([]*gocv.Mat{&blank}, true)
	c.limit = limit
	return c
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	c.reads = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if len(c.frames) == 0 || (c.limit > 0 && c.reads >= c.limit) {
		return nil, ErrEndOfStream
	}

	if c.index >= len(c.frames) {
		if !c.loop {
			return nil, ErrEndOfStream
		}
		c.index = 0
	}

	// Clone the frame so the original isn't modified
	frame := c.frames[c.index].Clone()
	c.index++
	c.reads++

	return &frame, nil
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Reads returns how many frames have been read since Open.
func (c *MockCamera) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}
