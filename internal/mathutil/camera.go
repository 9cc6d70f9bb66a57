package mathutil

import "math"

var (
	// ModelFlip converts Z-up model space to Y-up view space: Rx(-90°).
	ModelFlip = RotX(math.Pi / -2)

	// MirrorX converts left-handed to right-handed: diag(-1, 1, 1).
	MirrorX = Mat3Diag(-1, 1, 1)

	// ViewFallback is the default three-quarter preview camera:
	// MirrorX × Rx(-15°) × Ry(12°) × ModelFlip.
	ViewFallback = Mat3Mul(Mat3Mul(Mat3Mul(MirrorX, RotX(Deg2Rad(-15))), RotY(Deg2Rad(12))), ModelFlip)
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Bounds is an axis-aligned bounding box. The zero value is empty.
type Bounds struct {
	Min, Max Vec3
	valid    bool
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p Vec3) {
	if !b.valid {
		b.Min, b.Max, b.valid = p, p, true
		return
	}
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool { return !b.valid }

// Center returns the midpoint of the box.
func (b Bounds) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent along each axis.
func (b Bounds) Size() Vec3 {
	return b.Max.Sub(b.Min)
}
