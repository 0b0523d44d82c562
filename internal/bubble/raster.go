package bubble

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/Faultbox/deskpet/internal/config"
)

// Rasterizer renders wrapped text into an alpha coverage mask.
type Rasterizer struct {
	face       font.Face
	columns    int
	lineHeight int
	ascent     int
	minWidth   int
}

// NewRasterizer loads the configured font, or Go Regular when none is set.
// The line length follows the classic half-em estimate: content width
// divided by half the font size.
func NewRasterizer(cfg config.BubbleConfig) (*Rasterizer, error) {
	data := goregular.TTF
	if cfg.FontPath != "" {
		b, err := os.ReadFile(cfg.FontPath)
		if err != nil {
			return nil, fmt.Errorf("reading font: %w", err)
		}
		data = b
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    cfg.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}

	half := max(1, int(cfg.FontSize)/2)
	m := face.Metrics()
	return &Rasterizer{
		face:       face,
		columns:    max(1, int(cfg.Width-2*cfg.Padding)/half),
		lineHeight: m.Height.Ceil(),
		ascent:     m.Ascent.Ceil(),
		minWidth:   max(1, cfg.MinTextWidth),
	}, nil
}

// Columns returns the wrap width in display columns.
func (r *Rasterizer) Columns() int {
	return r.columns
}

// LineHeight returns the pixel distance between baselines.
func (r *Rasterizer) LineHeight() int {
	return r.lineHeight
}

// Render wraps text and draws it white-on-transparent. The mask is at least
// minWidth pixels wide and one line tall.
func (r *Rasterizer) Render(text string) *image.Alpha {
	lines := Wrap(text, r.columns)

	w := r.minWidth
	for _, line := range lines {
		w = max(w, font.MeasureString(r.face, line).Ceil())
	}
	h := max(1, len(lines)) * r.lineHeight

	img := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.Opaque,
		Face: r.face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(0, i*r.lineHeight+r.ascent)
		d.DrawString(line)
	}
	return img
}

// Close releases the font face.
func (r *Rasterizer) Close() error {
	return r.face.Close()
}
