// Package preview turns meshes into small WebP thumbnails: a supersampled
// software render, a filtered downsample and a lossless WebP encode.
package preview

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"

	"meshrefine/internal/raster"
	"meshrefine/internal/texture"
)

// Options configures a preview.
type Options struct {
	raster.Options
	// Extended writes the VP8X extended container instead of plain VP8L.
	Extended bool
	// SpeckRatio removes pixel islands smaller than this fraction of the
	// covered area after downsampling. Zero keeps everything.
	SpeckRatio float64
}

// Render draws the layers at Size*Supersample, downsamples to Size and
// removes specks.
func Render(layers []raster.Layer, res texture.Resolver, opts Options) (*image.NRGBA, error) {
	img, err := raster.Render(layers, res, opts.Options)
	if err != nil {
		return nil, err
	}
	if opts.Supersample > 1 {
		img = Downsample(img, opts.Size)
	}
	if opts.SpeckRatio > 0 {
		img = RemoveSpecks(img, opts.SpeckRatio)
	}
	return img, nil
}

// Encode writes img as lossless WebP.
func Encode(w io.Writer, img image.Image, extended bool) error {
	var o *nativewebp.Options
	if extended {
		o = &nativewebp.Options{UseExtendedFormat: true}
	}
	if err := nativewebp.Encode(w, img, o); err != nil {
		return fmt.Errorf("preview: webp encode: %w", err)
	}
	return nil
}

// Write encodes img to path, creating parent directories as needed.
func Write(path string, img image.Image, extended bool) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return Encode(f, img, extended)
}
