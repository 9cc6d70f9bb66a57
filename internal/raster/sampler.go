package raster

import (
	"image"
	"math"
)

// SampleTexture performs bilinear filtering with UV wrapping (repeat mode)
// and returns the filtered NRGBA channels. It reads tex.Pix directly.
func SampleTexture(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w, h := tex.Rect.Dx(), tex.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0, 0, 0
	}

	u -= math.Floor(u)
	v -= math.Floor(v)

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0, y0 := int(fx), int(fy)
	x1, y1 := (x0+1)%w, (y0+1)%h
	dx, dy := fx-float64(x0), fy-float64(y0)

	taps := [4]int{
		y0*tex.Stride + x0*4,
		y0*tex.Stride + x1*4,
		y1*tex.Stride + x0*4,
		y1*tex.Stride + x1*4,
	}
	weights := [4]float64{(1 - dx) * (1 - dy), dx * (1 - dy), (1 - dx) * dy, dx * dy}

	var out [4]uint8
	for ch := range out {
		var sum float64
		for k, off := range taps {
			sum += float64(tex.Pix[off+ch]) * weights[k]
		}
		out[ch] = uint8(sum + 0.5)
	}
	return out[0], out[1], out[2], out[3]
}
