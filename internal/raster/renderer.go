package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"meshrefine/internal/bmd"
	"meshrefine/internal/mathutil"
	"meshrefine/internal/mesh"
	"meshrefine/internal/texture"
)

// ErrBadSize is returned when Options.Size is not positive.
var ErrBadSize = errors.New("raster: render size must be positive")

// Layer is one textured surface of a model.
type Layer struct {
	Mesh    mesh.Reader[bmd.Vertex]
	TexPath string
}

// Options controls projection and output resolution.
type Options struct {
	// Size is the edge length of the square output in pixels.
	Size int
	// Supersample multiplies Size for the internal framebuffer. Values below 1 mean 1.
	Supersample int
	// Camera rotates model space into view space. Nil selects mathutil.ViewFallback.
	Camera *mathutil.Mat3
	// FOV enables perspective projection with the given field of view in degrees.
	FOV float64
}

func (o Options) scale() int {
	if o.Supersample < 1 {
		return 1
	}
	return o.Supersample
}

// Render rasterizes all layers into a (Size*Supersample)² NRGBA image with a
// transparent background. The model is fitted to the frame by the bounding
// box of its view-space vertices. res may be nil, in which case every layer
// is drawn in a neutral grey.
func Render(layers []Layer, res texture.Resolver, opts Options) (*image.NRGBA, error) {
	if opts.Size <= 0 {
		return nil, ErrBadSize
	}
	ss := opts.scale()
	renderSize := opts.Size * ss

	R := mathutil.ViewFallback
	if opts.Camera != nil {
		R = *opts.Camera
	}

	views := make([][]mathutil.Vec3, len(layers))
	var box mathutil.Bounds
	for li, l := range layers {
		n := l.Mesh.NumVertices()
		vs := make([]mathutil.Vec3, n)
		for i := 0; i < n; i++ {
			v, err := l.Mesh.Vertex(mesh.NewVertexID(i))
			if err != nil {
				return nil, fmt.Errorf("raster: layer %d: %w", li, err)
			}
			vs[i] = R.MulVec3(v.Pos)
			box.Extend(vs[i])
		}
		views[li] = vs
	}

	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	if box.Empty() {
		return img, nil
	}

	proj := newProjection(box, renderSize, 16*ss, opts.FOV)
	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	for li, l := range layers {
		screen := make([]mathutil.Vec3, len(views[li]))
		for i, v := range views[li] {
			screen[i] = proj.apply(v)
		}

		var tex *image.NRGBA
		if res != nil {
			tex = res.Resolve(l.TexPath)
		}
		def := color.NRGBA{160, 160, 170, 255}
		if tex != nil {
			def = averageColor(tex)
		}

		for f := 0; f < l.Mesh.NumFaces(); f++ {
			face, err := l.Mesh.FaceTopology(mesh.NewFaceID(f))
			if err != nil {
				return nil, fmt.Errorf("raster: layer %d: %w", li, err)
			}
			var pts [3]mathutil.Vec3
			var uvs [3]mathutil.Vec2
			for k, id := range face {
				if id.Index() >= len(screen) {
					return nil, fmt.Errorf("raster: layer %d face %s: %w", li, face, mesh.ErrInvalidVertexID)
				}
				pts[k] = screen[id.Index()]
				v, err := l.Mesh.Vertex(id)
				if err != nil {
					return nil, fmt.Errorf("raster: layer %d: %w", li, err)
				}
				uvs[k] = v.UV
			}
			RasterizeTriangle(fb, pts, uvs, tex, def, &lc)
		}
	}

	copy(img.Pix, fb.Color)
	return img, nil
}

// projection maps view space to pixel coordinates, keeping view depth in Z.
type projection struct {
	center  mathutil.Vec3
	scale   float64
	half    float64
	camDist float64 // > 0 enables perspective
	zCenter float64
}

func newProjection(box mathutil.Bounds, renderSize, margin int, fov float64) projection {
	size := box.Size()
	span := math.Max(size[0], size[1])
	if span < 0.001 {
		span = 0.001
	}
	p := projection{
		center: box.Center(),
		scale:  float64(renderSize-2*margin) / span,
		half:   float64(renderSize) / 2,
	}
	if fov > 0 {
		halfFOV := mathutil.Deg2Rad(fov / 2)
		xyMax := math.Max(math.Max(size[0], size[1])/2, 0.001)
		p.camDist = xyMax / math.Tan(halfFOV)
		p.zCenter = p.center[2]
	}
	return p
}

func (p projection) apply(t mathutil.Vec3) mathutil.Vec3 {
	x, y := t[0]-p.center[0], t[1]-p.center[1]
	if p.camDist > 0 {
		depth := math.Max(p.camDist-(t[2]-p.zCenter), 0.1)
		factor := p.camDist / depth
		x *= factor
		y *= factor
	}
	return mathutil.Vec3{x*p.scale + p.half, -y*p.scale + p.half, t[2]}
}

func averageColor(tex *image.NRGBA) color.NRGBA {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return color.NRGBA{160, 160, 170, 255}
	}

	var sumR, sumG, sumB float64
	for y := 0; y < h; y++ {
		off := y * tex.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return color.NRGBA{uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255}
}
