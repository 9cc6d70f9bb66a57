package mathutil

import "fmt"

// Vec2 is a 2-component vector, used for texture coordinates and planar meshes.
type Vec2 [2]float64

// Vec2From widens a float32 pair as stored in model files.
func Vec2From(v [2]float32) Vec2 {
	return Vec2{float64(v[0]), float64(v[1])}
}

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a[0] + b[0], a[1] + b[1]} }

func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a[0] - b[0], a[1] - b[1]} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v[0] * s, v[1] * s} }

func (v Vec2) IsFinite() bool { return isFinite(v[0]) && isFinite(v[1]) }

// Midpoint returns the point halfway between a and b.
func (a Vec2) Midpoint(b Vec2) (Vec2, error) {
	m := Vec2{0.5*a[0] + 0.5*b[0], 0.5*a[1] + 0.5*b[1]}
	if !m.IsFinite() {
		return Vec2{}, fmt.Errorf("midpoint of %v and %v: %w", a, b, ErrNotFinite)
	}
	return m, nil
}
