// Package transform builds the 2x3 similarity matrix that maps the source
// image onto the viewport.
//
// Matrices use golang.org/x/image/math/f64.Aff3 in row-major order:
//
//	| m[0] m[1] m[2] |
//	| m[3] m[4] m[5] |
//
// which maps a source point (x, y) to
//
//	x' = m[0]*x + m[1]*y + m[2]
//	y' = m[3]*x + m[4]*y + m[5]
package transform

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Vec is a 2D vector in image pixel space.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// VecOf converts an image.Point.
func VecOf(p image.Point) Vec {
	return Vec{X: float64(p.X), Y: float64(p.Y)}
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Degrees returns the direction of v in degrees, atan2(y, x).
// Image coordinates have Y pointing down.
func (v Vec) Degrees() float64 {
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}

// View is a similarity transform expressed as its parameters.
type View struct {
	Scale float64 `json:"scale"`
	// Angle is in degrees; positive rotates counter-clockwise on screen.
	Angle float64 `json:"angle"`
	// Translation is the source point that is re-centered in the output.
	Translation Vec `json:"translation"`
}

// Identity returns the identity matrix.
func Identity() f64.Aff3 {
	return f64.Aff3{
		1, 0, 0,
		0, 1, 0,
	}
}

// Center returns the geometric center of an image of the given size.
func Center(size image.Point) Vec {
	return Vec{X: float64(size.X) / 2, Y: float64(size.Y) / 2}
}

// RotationMatrix2D returns the matrix that rotates by angle degrees and
// scales by scale about center, using the same convention as OpenCV's
// getRotationMatrix2D.
func RotationMatrix2D(center Vec, angle, scale float64) f64.Aff3 {
	rad := angle * math.Pi / 180
	alpha := scale * math.Cos(rad)
	beta := scale * math.Sin(rad)

	return f64.Aff3{
		alpha, beta, (1-alpha)*center.X - beta*center.Y,
		-beta, alpha, beta*center.X + (1-alpha)*center.Y,
	}
}

// Compose builds the viewport matrix for v on an image of the given size:
// rotate and scale about the image center, then shift so that
// v.Translation lands on the center of the output.
func Compose(v View, size image.Point) f64.Aff3 {
	c := Center(size)
	m := RotationMatrix2D(c, v.Angle, v.Scale)
	m[2] += c.X - v.Translation.X
	m[5] += c.Y - v.Translation.Y
	return m
}

// Apply maps p through m.
func Apply(m f64.Aff3, p Vec) Vec {
	return Vec{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// Invert returns the inverse of m. The second result is false when m is
// singular (for example when the scale is zero).
func Invert(m f64.Aff3) (f64.Aff3, bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if math.Abs(det) < 1e-12 {
		return f64.Aff3{}, false
	}

	inv := 1 / det
	a := m[4] * inv
	b := -m[1] * inv
	d := -m[3] * inv
	e := m[0] * inv

	return f64.Aff3{
		a, b, -(a*m[2] + b*m[5]),
		d, e, -(d*m[2] + e*m[5]),
	}, true
}
