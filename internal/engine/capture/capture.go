// Package capture saves frames of the overlay as PNG files.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshot writes captured frames into a directory.
type Screenshot struct {
	dir    string
	prefix string
	now    func() time.Time
}

// New creates a screenshot writer. An empty dir writes to the working directory.
func New(dir, prefix string) *Screenshot {
	return &Screenshot{dir: dir, prefix: prefix, now: time.Now}
}

// Filename returns the path the next capture will be written to.
func (s *Screenshot) Filename() string {
	name := fmt.Sprintf("%s_%s.png", s.prefix, s.now().Format("2006-01-02_15-04-05.000"))
	if s.dir != "" {
		name = filepath.Join(s.dir, name)
	}
	return name
}

// SavePixels saves bottom-up RGBA rows, as read back from OpenGL, keeping
// the alpha channel so the transparent background survives.
func (s *Screenshot) SavePixels(pixels []byte, width, height int) (string, error) {
	img, err := FromBottomUp(pixels, width, height)
	if err != nil {
		return "", err
	}
	return s.SaveImage(img)
}

// SaveImage encodes img as PNG.
func (s *Screenshot) SaveImage(img image.Image) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := s.Filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// FromBottomUp flips RGBA rows so row 0 is the top of the image. The GL
// framebuffer holds straight alpha, so the result is non-premultiplied.
func FromBottomUp(pixels []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid capture size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}
