package render

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/hastaview/internal/transform"
)

func TestKeys(t *testing.T) {
	tests := []struct {
		key   int
		quit  bool
		reset bool
	}{
		{'q', true, false},
		{KeyEscape, true, false},
		{'r', false, true},
		{'x', false, false},
		{KeyNone, false, false},
	}

	for _, tt := range tests {
		if got := IsQuit(tt.key); got != tt.quit {
			t.Errorf("IsQuit(%d) = %v, want %v", tt.key, got, tt.quit)
		}
		if got := IsReset(tt.key); got != tt.reset {
			t.Errorf("IsReset(%d) = %v, want %v", tt.key, got, tt.reset)
		}
	}
}

func TestSoftware_Warp(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.SetRGBA(1, 1, red)

	t.Run("identity keeps pixels", func(t *testing.T) {
		dst := NewSoftware("nearest").Warp(src, transform.Identity(), image.Point{})

		if dst.Bounds().Size() != image.Pt(4, 4) {
			t.Fatalf("size = %v, want 4x4", dst.Bounds().Size())
		}
		if got := dst.RGBAAt(1, 1); got != red {
			t.Errorf("pixel (1,1) = %v, want %v", got, red)
		}
	})

	t.Run("translation moves pixels", func(t *testing.T) {
		m := transform.Identity()
		m[2], m[5] = 2, 1

		dst := NewSoftware("nearest").Warp(src, m, image.Pt(6, 6))

		if got := dst.RGBAAt(3, 2); got != red {
			t.Errorf("pixel (3,2) = %v, want %v", got, red)
		}
		if got := dst.RGBAAt(1, 1); got == red {
			t.Error("pixel (1,1) should no longer be red")
		}
		if got := dst.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
			t.Errorf("uncovered pixel = %v, want opaque black", got)
		}
	})

	t.Run("unknown quality falls back", func(t *testing.T) {
		if NewSoftware("bogus").interp == nil {
			t.Error("expected a default interpolator")
		}
	})
}

func TestAffineMat(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	m := transform.RotationMatrix2D(transform.Vec{X: 10, Y: 20}, 30, 1.5)
	mat := AffineMat(m)
	defer mat.Close()

	if mat.Rows() != 2 || mat.Cols() != 3 {
		t.Fatalf("mat size = %dx%d, want 2x3", mat.Rows(), mat.Cols())
	}
	for i, want := range m {
		if got := mat.GetDoubleAt(i/3, i%3); got != want {
			t.Errorf("element %d = %f, want %f", i, got, want)
		}
	}
}

func TestWarpMat(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	src := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer src.Close()

	dst := WarpMat(src, transform.Compose(transform.View{Scale: 2, Angle: 45, Translation: transform.Vec{X: 32, Y: 24}}, image.Pt(64, 48)))
	defer dst.Close()

	if dst.Rows() != 48 || dst.Cols() != 64 {
		t.Errorf("warped size = %dx%d, want 64x48", dst.Cols(), dst.Rows())
	}
}
