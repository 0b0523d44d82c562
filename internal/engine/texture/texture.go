// Package texture decodes model texture files into GPU-ready pixel buffers.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for files whose extension names no
// registered decoder.
var ErrUnsupportedFormat = errors.New("unsupported texture format")

var extensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".webp": true,
}

// Decode reads and decodes an image file.
func Decode(path string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !extensions[ext] {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// ToNRGBA converts any image into a tightly packed, non-premultiplied RGBA
// buffer with its origin at (0,0), the layout glTexImage2D expects.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Load decodes a file and converts it with ToNRGBA.
func Load(path string) (*image.NRGBA, error) {
	img, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return ToNRGBA(img), nil
}

// LoadAll loads every path relative to dir, failing on the first error.
func LoadAll(dir string, paths []string) ([]*image.NRGBA, error) {
	out := make([]*image.NRGBA, 0, len(paths))
	for i, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		img, err := Load(p)
		if err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, err)
		}
		out = append(out, img)
	}
	return out, nil
}
