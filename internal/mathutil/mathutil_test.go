package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3Midpoint(t *testing.T) {
	m, err := Vec3{0, 0, 0}.Midpoint(Vec3{2, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, Vec3{1, 0, 0}, m)

	m, err = Vec3{2, 0, 0}.Midpoint(Vec3{0, 2, 0})
	require.NoError(t, err)
	assert.Equal(t, Vec3{1, 1, 0}, m)

	// Halving first keeps huge but finite inputs finite.
	big := math.MaxFloat64
	m, err = Vec3{big, big, big}.Midpoint(Vec3{big, big, big})
	require.NoError(t, err)
	assert.Equal(t, Vec3{big, big, big}, m)
}

func TestVec3MidpointNotFinite(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
	}{
		{"nan", Vec3{math.NaN(), 0, 0}, Vec3{}},
		{"opposite infinities", Vec3{math.Inf(1), 0, 0}, Vec3{math.Inf(-1), 0, 0}},
		{"infinity", Vec3{0, math.Inf(1), 0}, Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.a.Midpoint(tt.b)
			assert.ErrorIs(t, err, ErrNotFinite)
		})
	}
}

func TestVec2Midpoint(t *testing.T) {
	m, err := Vec2{0, 1}.Midpoint(Vec2{1, 0})
	require.NoError(t, err)
	assert.Equal(t, Vec2{0.5, 0.5}, m)

	_, err = Vec2{math.NaN(), 0}.Midpoint(Vec2{})
	assert.ErrorIs(t, err, ErrNotFinite)
}

func TestMatrices(t *testing.T) {
	v := Vec3{1, 2, 3}
	assert.Equal(t, v, Mat3Identity().MulVec3(v))
	assert.Equal(t, Vec3{-1, 2, 3}, MirrorX.MulVec3(v))

	r := RotY(math.Pi / 2).MulVec3(Vec3{1, 0, 0})
	assert.InDelta(t, 0, r[0], 1e-12)
	assert.InDelta(t, -1, r[2], 1e-12)

	assert.Equal(t, Mat3Identity(), EulerXYZ(0, 0, 0))
	rx := EulerXYZ(0.3, 0, 0)
	want := RotX(0.3)
	for i := range rx {
		assert.InDelta(t, want[i], rx[i], 1e-12)
	}

	m := Affine(Mat3Identity(), Vec3{10, 0, -1})
	assert.Equal(t, Vec3{11, 2, 2}, m.MulPoint(v))
	assert.False(t, m.IsIdentity())
	assert.True(t, Mat4Mul(Mat4Identity(), Mat4Identity()).IsIdentity())

	back := Mat4Mul(m, Affine(Mat3Identity(), Vec3{-10, 0, 1}))
	assert.True(t, back.IsIdentity())
}

func TestBounds(t *testing.T) {
	var b Bounds
	assert.True(t, b.Empty())

	b.Extend(Vec3{1, -1, 0})
	b.Extend(Vec3{-3, 5, 2})
	assert.False(t, b.Empty())
	assert.Equal(t, Vec3{-3, -1, 0}, b.Min)
	assert.Equal(t, Vec3{1, 5, 2}, b.Max)
	assert.Equal(t, Vec3{-1, 2, 1}, b.Center())
	assert.Equal(t, Vec3{4, 6, 2}, b.Size())
}
