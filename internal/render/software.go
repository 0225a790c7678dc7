package render

import (
	"image"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Software warps Go images without OpenCV. It serves snapshots of the view
// to the HTTP server, which runs off the frame loop.
type Software struct {
	interp draw.Interpolator
}

// NewSoftware creates a software renderer. quality is one of "nearest",
// "approx", "bilinear" or "catmullrom"; anything else means "approx".
func NewSoftware(quality string) *Software {
	var interp draw.Interpolator
	switch strings.ToLower(quality) {
	case "nearest":
		interp = draw.NearestNeighbor
	case "bilinear":
		interp = draw.BiLinear
	case "catmullrom":
		interp = draw.CatmullRom
	default:
		interp = draw.ApproxBiLinear
	}
	return &Software{interp: interp}
}

// Warp maps src through m onto a black canvas of the given size. A zero size
// uses the size of src.
func (s *Software) Warp(src image.Image, m f64.Aff3, size image.Point) *image.RGBA {
	if size.X <= 0 || size.Y <= 0 {
		size = src.Bounds().Size()
	}

	dst := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	// Aff3 maps source to destination pixels, the same convention as cv::warpAffine.
	s.interp.Transform(dst, m, src, src.Bounds(), draw.Src, nil)
	return dst
}
