// Package render warps the target image with the view matrix and shows it.
package render

import (
	"image"

	"gocv.io/x/gocv"
	"golang.org/x/image/math/f64"
)

// Key codes returned by PollKey.
const (
	KeyNone   = -1
	KeyEscape = 27
	KeyQuit   = 'q'
	KeyReset  = 'r'
)

// Renderer warps images and displays them in labelled windows.
type Renderer interface {
	// Warp returns src transformed by m, at the size of src.
	// The caller owns the returned Mat.
	Warp(src gocv.Mat, m f64.Aff3) gocv.Mat

	// Show displays img in the window named label.
	Show(label string, img gocv.Mat)

	// PollKey returns the key pressed since the last call, or KeyNone.
	PollKey() int

	// Close releases windows.
	Close() error
}

// IsQuit reports whether k asks the viewer to exit.
func IsQuit(k int) bool {
	return k == KeyQuit || k == KeyEscape
}

// IsReset reports whether k asks the viewer to reset the view.
func IsReset(k int) bool {
	return k == KeyReset
}

// AffineMat converts m to a 2x3 CV_64F Mat. The caller owns the Mat.
func AffineMat(m f64.Aff3) gocv.Mat {
	mat := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	for i, v := range m {
		mat.SetDoubleAt(i/3, i%3, v)
	}
	return mat
}

// WarpMat applies m to src with OpenCV, keeping the size of src.
func WarpMat(src gocv.Mat, m f64.Aff3) gocv.Mat {
	mat := AffineMat(m)
	defer mat.Close()

	dst := gocv.NewMat()
	gocv.WarpAffine(src, &dst, mat, image.Pt(src.Cols(), src.Rows()))
	return dst
}
