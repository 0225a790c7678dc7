package transform

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f64"
)

const delta = 1e-9

func assertVec(t *testing.T, want, got Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
}

func TestVec(t *testing.T) {
	v := Vec{3, 4}

	assert.InDelta(t, 5.0, v.Len(), delta)
	assert.Equal(t, Vec{4, 6}, v.Add(Vec{1, 2}))
	assert.Equal(t, Vec{2, 2}, v.Sub(Vec{1, 2}))
	assert.Equal(t, Vec{7, 9}, VecOf(image.Pt(7, 9)))

	assert.InDelta(t, 0.0, Vec{100, 0}.Degrees(), delta)
	assert.InDelta(t, 90.0, Vec{0, 100}.Degrees(), delta)
	assert.InDelta(t, 180.0, Vec{-1, 0}.Degrees(), delta)
}

func TestRotationMatrix2D(t *testing.T) {
	center := Vec{320, 240}

	t.Run("identity at zero angle and unit scale", func(t *testing.T) {
		m := RotationMatrix2D(center, 0, 1)
		for i, want := range Identity() {
			assert.InDelta(t, want, m[i], delta, "element %d", i)
		}
	})

	t.Run("center is fixed", func(t *testing.T) {
		m := RotationMatrix2D(center, 37, 2.5)
		assertVec(t, center, Apply(m, center))
	})

	t.Run("positive angle is counter-clockwise on screen", func(t *testing.T) {
		m := RotationMatrix2D(Vec{0, 0}, 90, 1)
		// a point to the right of the center moves up (negative Y).
		assertVec(t, Vec{0, -10}, Apply(m, Vec{10, 0}))
	})

	t.Run("scales distances from center", func(t *testing.T) {
		m := RotationMatrix2D(center, 0, 2)
		assertVec(t, Vec{340, 240}, Apply(m, Vec{330, 240}))
	})
}

func TestCompose(t *testing.T) {
	size := image.Pt(640, 480)
	c := Center(size)

	t.Run("initial view is identity", func(t *testing.T) {
		m := Compose(View{Scale: 1, Translation: c}, size)
		for i, want := range Identity() {
			assert.InDelta(t, want, m[i], delta, "element %d", i)
		}
	})

	t.Run("held point maps to output center without rotation", func(t *testing.T) {
		held := Vec{400, 300}
		m := Compose(View{Scale: 1, Translation: held}, size)
		assertVec(t, c, Apply(m, held))
	})

	t.Run("translation offset is added after rotation", func(t *testing.T) {
		v := View{Scale: 1.5, Angle: 30, Translation: Vec{300, 200}}
		m := Compose(v, size)
		base := RotationMatrix2D(c, v.Angle, v.Scale)

		assert.InDelta(t, base[2]+c.X-300, m[2], delta)
		assert.InDelta(t, base[5]+c.Y-200, m[5], delta)
		assert.Equal(t, base[0], m[0])
		assert.Equal(t, base[4], m[4])
	})

	t.Run("pure function", func(t *testing.T) {
		v := View{Scale: 2, Angle: -45, Translation: Vec{10, 20}}
		assert.Equal(t, Compose(v, size), Compose(v, size))
		assert.Equal(t, View{Scale: 2, Angle: -45, Translation: Vec{10, 20}}, v)
	})
}

func TestInvert(t *testing.T) {
	m := Compose(View{Scale: 0.7, Angle: 123, Translation: Vec{50, 80}}, image.Pt(640, 480))

	inv, ok := Invert(m)
	require.True(t, ok)

	p := Vec{12, 345}
	assertVec(t, p, Apply(inv, Apply(m, p)))

	_, ok = Invert(f64.Aff3{})
	assert.False(t, ok, "zero matrix must not invert")
}
