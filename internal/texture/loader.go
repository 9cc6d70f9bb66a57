package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
)

// Container header sizes in front of the embedded JPEG/TGA stream.
const (
	ozjHeader = 24
	oztHeader = 4
)

// Load reads a texture file and returns it as NRGBA. OZJ and OZT files are
// JPEG and TGA streams behind a short header; TGA, JPEG and PNG files are
// decoded directly.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	imgData := raw
	var decode func(io.Reader) (image.Image, error)

	// The decoder is picked by extension: tga registers an empty magic
	// string, so image.Decode would hand every stream to it.
	switch ext {
	case ".ozj":
		if len(raw) <= ozjHeader {
			return nil, fmt.Errorf("texture: OZJ too short: %s", path)
		}
		imgData, decode = raw[ozjHeader:], jpeg.Decode
	case ".ozt":
		if len(raw) <= oztHeader {
			return nil, fmt.Errorf("texture: OZT too short: %s", path)
		}
		imgData, decode = raw[oztHeader:], tga.Decode
	case ".tga":
		decode = tga.Decode
	case ".jpg", ".jpeg":
		decode = jpeg.Decode
	case ".png":
		decode = png.Decode
	default:
		return nil, fmt.Errorf("texture: unknown extension: %s", ext)
	}

	img, err := decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}
