package preview

import "image"

// RemoveSpecks clears every 8-connected group of non-transparent pixels
// smaller than minRatio of all non-transparent pixels. img is not modified;
// when nothing is removed img itself is returned.
func RemoveSpecks(img *image.NRGBA, minRatio float64) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	opaque := func(x, y int) bool { return img.Pix[y*img.Stride+x*4+3] > 0 }

	labels := make([]int32, w*h)
	for i := range labels {
		labels[i] = -1
	}
	var sizes []int
	total := 0
	queue := make([]int, 0, 1024)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			start := y*w + x
			if labels[start] >= 0 || !opaque(x, y) {
				continue
			}
			id := int32(len(sizes))
			labels[start] = id
			queue = append(queue[:0], start)
			size := 0
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				size++
				cx, cy := cur%w, cur/w
				for ny := max(cy-1, 0); ny <= min(cy+1, h-1); ny++ {
					for nx := max(cx-1, 0); nx <= min(cx+1, w-1); nx++ {
						ni := ny*w + nx
						if labels[ni] < 0 && opaque(nx, ny) {
							labels[ni] = id
							queue = append(queue, ni)
						}
					}
				}
			}
			sizes = append(sizes, size)
			total += size
		}
	}

	if len(sizes) <= 1 {
		return img
	}
	minSize := int(float64(total) * minRatio)

	var out *image.NRGBA
	for i, l := range labels {
		if l < 0 || sizes[l] >= minSize {
			continue
		}
		if out == nil {
			out = image.NewNRGBA(b)
			copy(out.Pix, img.Pix)
		}
		off := (i/w)*out.Stride + (i%w)*4
		clear(out.Pix[off : off+4])
	}
	if out == nil {
		return img
	}
	return out
}
