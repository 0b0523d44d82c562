// Package paint holds colour values shared by the GL renderers and the
// packages that decide what they draw.
package paint

// Color represents an RGBA color with float components (0.0 to 1.0).
// Alpha is straight, not premultiplied.
type Color struct {
	R, G, B, A float32
}

var (
	Transparent = Color{0, 0, 0, 0}
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
)

// RGB creates an opaque color from float components.
func RGB(c [3]float32) Color {
	return Color{c[0], c[1], c[2], 1}
}

// RGBA8 creates a color from 8-bit RGBA values (0-255).
func RGBA8(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Fade scales alpha by f, clamping the result to [0, 1].
func (c Color) Fade(f float32) Color {
	a := c.A * f
	switch {
	case a < 0:
		a = 0
	case a > 1:
		a = 1
	}
	return c.WithAlpha(a)
}
