package capture

import (
	"errors"
	"testing"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantFPS int
	}{
		{
			name:    "default config",
			config:  DefaultConfig(),
			wantFPS: DefaultFPS,
		},
		{
			name:    "zero fps takes default",
			config:  Config{DeviceID: 1},
			wantFPS: DefaultFPS,
		},
		{
			name:    "custom fps",
			config:  Config{DeviceID: 2, FPS: 15},
			wantFPS: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.config)

			if cam == nil {
				t.Fatal("NewCamera returned nil")
			}

			if got := cam.(*cameraImpl).config.FPS; got != tt.wantFPS {
				t.Errorf("config FPS = %d, want %d", got, tt.wantFPS)
			}

			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Mirror {
		t.Error("default config should mirror the camera")
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, DefaultWidth, DefaultHeight)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(DefaultConfig())

	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Logf("ReadFrame() failed: %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadFrame() returned empty mat")
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}
