package raster

import (
	"image"
	"image/color"
	"math"

	"meshrefine/internal/mathutil"
)

// RasterizeTriangle rasterizes a single screen-space triangle with texture
// mapping, z-buffer, sRGB color space, lighting, and ACES tone mapping.
// pts carry pixel X/Y and view depth in Z (larger is closer). When tex is
// nil every covered pixel takes def.
//
// This is the hot path: no allocation in the inner loop. Lighting is
// flat-shaded (per-face, not per-pixel).
func RasterizeTriangle(
	fb *FrameBuffer,
	pts [3]mathutil.Vec3,
	uvs [3]mathutil.Vec2,
	tex *image.NRGBA,
	def color.NRGBA,
	lc *LightConfig,
) {
	x0, y0, z0 := pts[0][0], pts[0][1], pts[0][2]
	x1, y1, z1 := pts[1][0], pts[1][1], pts[1][2]
	x2, y2, z2 := pts[2][0], pts[2][1], pts[2][2]

	normal := pts[1].Sub(pts[0]).Cross(pts[2].Sub(pts[0]))
	if normal.Len() < 1e-8 {
		return
	}
	shade := lc.ComputeShade(normal.Normalize())

	// Bounding box
	minX := max(int(math.Min(math.Min(x0, x1), x2)), 0)
	maxX := min(int(math.Max(math.Max(x0, x1), x2))+1, fb.Width-1)
	minY := max(int(math.Min(math.Min(y0, y1), y2)), 0)
	maxY := min(int(math.Max(math.Max(y0, y1), y2))+1, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	scale := shade * lc.Exposure
	invGamma := lc.InvGamma

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			c := def
			if tex != nil {
				u := w0*uvs[0][0] + w1*uvs[1][0] + w2*uvs[2][0]
				v := w0*uvs[0][1] + w1*uvs[1][1] + w2*uvs[2][1]
				c.R, c.G, c.B, c.A = SampleTexture(tex, u, v)
			}

			// Skip transparent texels
			if c.A < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = encode(c.R, scale, invGamma)
			fb.Color[pxIdx+1] = encode(c.G, scale, invGamma)
			fb.Color[pxIdx+2] = encode(c.B, scale, invGamma)
			fb.Color[pxIdx+3] = c.A
		}
	}
}

// encode shades one sRGB channel in linear space and maps it back.
func encode(c uint8, scale, invGamma float64) uint8 {
	return clamp255(math.Pow(ACESTonemap(srgbToLinear[c]*scale), invGamma) * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
