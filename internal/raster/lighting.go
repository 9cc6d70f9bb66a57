package raster

import (
	"math"

	"meshrefine/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	LightDir mathutil.Vec3
	RimDir   mathutil.Vec3
	HalfMain mathutil.Vec3 // half-vector between light and view for Blinn-Phong
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// NewLightConfig normalizes the key, rim and view directions and fills in
// the default intensities.
func NewLightConfig(light, rim, view mathutil.Vec3) LightConfig {
	light, rim, view = light.Normalize(), rim.Normalize(), view.Normalize()
	return LightConfig{
		LightDir: light,
		RimDir:   rim,
		HalfMain: light.Sub(view).Normalize(),
		Ambient:  0.55,
		Hemi:     0.50,
		Direct:   1.50,
		Rim:      0.60,
		SpecInt:  0.45,
		SpecPow:  12.0,
		Exposure: 1.05,
		InvGamma: 1.0 / 2.2,
	}
}

// DefaultLightConfig returns the standard three-point preview lighting.
func DefaultLightConfig() LightConfig {
	return NewLightConfig(
		mathutil.Vec3{180, 260, 140},
		mathutil.Vec3{-160, 130, -210},
		mathutil.Vec3{0, -110, -400},
	)
}

// ComputeShade returns the combined lighting scalar for a unit face normal.
// Faces are lit double-sided.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))

	// Hemisphere fill
	hemi := ((1.0-math.Abs(normal[1]))*0.5 + 0.5) * lc.Hemi

	spec := 0.0
	if ndh := normal.Dot(lc.HalfMain); ndh > 0 {
		spec = math.Pow(ndh, lc.SpecPow) * lc.SpecInt
	}

	return lc.Ambient + hemi + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
