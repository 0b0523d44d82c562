package model

import (
	"image"
	"image/color"
	"math"
)

// Placeholder texture slots.
const (
	texBody = iota
	texSkin
	texInk
	texBlush
)

var placeholderPalette = []color.NRGBA{
	texBody:  {R: 0x6c, G: 0x8e, B: 0xd9, A: 0xff},
	texSkin:  {R: 0xfb, G: 0xe3, B: 0xcf, A: 0xff},
	texInk:   {R: 0x2b, G: 0x24, B: 0x30, A: 0xff},
	texBlush: {R: 0xf2, G: 0x9c, B: 0xa3, A: 0xc0},
}

const rimSegments = 32

// Placeholder returns the built-in character used when no model file is
// configured: a round head with blinking eyes, a mouth and a body that breathes.
func Placeholder() *Description {
	d := &Description{
		Canvas: CanvasDesc{Width: 1, Height: 1, PixelsPerUnit: 1},
		Textures: []string{
			"placeholder:body",
			"placeholder:skin",
			"placeholder:ink",
			"placeholder:blush",
		},
		Parameters: []ParameterDesc{
			{ID: "ParamAngleX", Min: -30, Max: 30},
			{ID: "ParamAngleY", Min: -30, Max: 30},
			{ID: "ParamBodyAngleX", Min: -10, Max: 10},
			{ID: "ParamBreath", Min: -1, Max: 1},
			{ID: "ParamEyeLOpen", Min: 0, Max: 1, Default: 1},
			{ID: "ParamEyeROpen", Min: 0, Max: 1, Default: 1},
			{ID: "ParamEyeBallX", Min: -1, Max: 1},
			{ID: "ParamEyeBallY", Min: -1, Max: 1},
			{ID: "ParamMouthOpenY", Min: 0, Max: 1},
			{ID: "ParamMouthForm", Min: -1, Max: 1},
		},
	}

	body := ellipse("body", texBody, 100, 0, -0.30, 0.20, 0.15)
	body.Deformers = []DeformerDesc{
		shift(body, "ParamBodyAngleX", 0.004, 0),
		stretch(body, "ParamBreath", 0, -0.30, 0, 0.06),
	}

	head := ellipse("head", texSkin, 200, 0, 0.02, 0.22, 0.2)
	head.Deformers = []DeformerDesc{
		shift(head, "ParamAngleX", 0.0015, 0),
		shift(head, "ParamAngleY", 0, 0.0015),
		shift(head, "ParamBodyAngleX", 0.004, 0),
	}

	d.Drawables = []DrawableDesc{body, head}

	for _, side := range []struct {
		id, param string
		x         float32
	}{
		{"eye_l", "ParamEyeLOpen", -0.08},
		{"eye_r", "ParamEyeROpen", 0.08},
	} {
		// Authored closed; the open parameter grows the eye to full height.
		const cy, rx, ry, closed = 0.06, 0.03, 0.045, 0.1
		eye := ellipse(side.id, texInk, 300, side.x, cy, rx, ry*closed)
		eye.Deformers = []DeformerDesc{
			stretch(eye, side.param, side.x, cy, 0, 1/closed-1),
			shift(eye, "ParamAngleX", 0.0025, 0),
			shift(eye, "ParamAngleY", 0, 0.0025),
			shift(eye, "ParamEyeBallX", 0.01, 0),
			shift(eye, "ParamEyeBallY", 0, 0.01),
			shift(eye, "ParamBodyAngleX", 0.004, 0),
		}
		d.Drawables = append(d.Drawables, eye)

		cheek := ellipse(side.id+"_cheek", texBlush, 250, side.x*1.6, -0.02, 0.035, 0.018)
		cheek.Deformers = []DeformerDesc{
			shift(cheek, "ParamAngleX", 0.0025, 0),
			shift(cheek, "ParamBodyAngleX", 0.004, 0),
		}
		d.Drawables = append(d.Drawables, cheek)
	}

	mouth := ellipse("mouth", texInk, 300, 0, -0.07, 0.04, 0.008)
	mouth.Deformers = []DeformerDesc{
		stretch(mouth, "ParamMouthOpenY", 0, -0.07, 0, 12),
		stretch(mouth, "ParamMouthForm", 0, -0.07, 0.5, 0),
		shift(mouth, "ParamAngleX", 0.002, 0),
		shift(mouth, "ParamAngleY", 0, 0.002),
		shift(mouth, "ParamBodyAngleX", 0.004, 0),
	}
	d.Drawables = append(d.Drawables, mouth)

	return d
}

// PlaceholderTextures returns solid-colour images matching Placeholder().Textures.
func PlaceholderTextures() []*image.NRGBA {
	out := make([]*image.NRGBA, len(placeholderPalette))
	for i, c := range placeholderPalette {
		img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p+0] = c.R
			img.Pix[p+1] = c.G
			img.Pix[p+2] = c.B
			img.Pix[p+3] = c.A
		}
		out[i] = img
	}
	return out
}

// ellipse builds a triangle fan around (cx, cy).
func ellipse(id string, tex, order int, cx, cy, rx, ry float32) DrawableDesc {
	d := DrawableDesc{ID: id, Texture: tex, Order: order}
	d.Vertices = append(d.Vertices, [2]float32{cx, cy})
	for i := 0; i < rimSegments; i++ {
		a := 2 * math.Pi * float64(i) / rimSegments
		d.Vertices = append(d.Vertices, [2]float32{
			cx + rx*float32(math.Cos(a)),
			cy + ry*float32(math.Sin(a)),
		})
	}
	for range d.Vertices {
		d.UVs = append(d.UVs, [2]float32{0.5, 0.5})
	}
	for i := 1; i <= rimSegments; i++ {
		next := i%rimSegments + 1
		d.Triangles = append(d.Triangles, 0, uint16(i), uint16(next))
	}
	return d
}

// shift moves every vertex by (dx, dy) per parameter unit.
func shift(d DrawableDesc, param string, dx, dy float32) DeformerDesc {
	def := DeformerDesc{Parameter: param, Offsets: make([][2]float32, len(d.Vertices))}
	for i := range def.Offsets {
		def.Offsets[i] = [2]float32{dx, dy}
	}
	return def
}

// stretch scales vertices away from (cx, cy) by (sx, sy) per parameter unit.
func stretch(d DrawableDesc, param string, cx, cy, sx, sy float32) DeformerDesc {
	def := DeformerDesc{Parameter: param, Offsets: make([][2]float32, len(d.Vertices))}
	for i, v := range d.Vertices {
		def.Offsets[i] = [2]float32{(v[0] - cx) * sx, (v[1] - cy) * sy}
	}
	return def
}
