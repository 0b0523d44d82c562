// Package ui2d draws the speech bubble layer: solid quads and a single
// alpha-mask text texture, composited over the model.
package ui2d

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/deskpet/internal/engine/paint"
	"github.com/Faultbox/deskpet/internal/engine/shader"
)

const quadVertexShader = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;

uniform mat4 uProjection;

out vec2 vUV;

void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vUV = aUV;
}
`

const solidFragmentShader = `
#version 410 core

out vec4 FragColor;

uniform vec4 uColor;

void main() {
	FragColor = uColor;
}
`

// The mask is uploaded as a single red channel holding glyph coverage.
const maskFragmentShader = `
#version 410 core

in vec2 vUV;
out vec4 FragColor;

uniform sampler2D uTexture;
uniform vec4 uColor;

void main() {
	float coverage = texture(uTexture, vUV).r;
	FragColor = vec4(uColor.rgb, uColor.a * coverage);
}
`

// Renderer implements the bubble canvas with OpenGL.
type Renderer struct {
	solid *shader.Program
	mask  *shader.Program

	vao uint32
	vbo uint32

	maskTex    uint32
	maskWidth  int
	maskHeight int

	proj     mgl32.Mat4
	vertices [24]float32

	prevBlend bool
	prevDepth bool
	prevCull  bool
}

// New creates the bubble renderer. Must be called after GL is initialized.
func New() (*Renderer, error) {
	solid, err := shader.New("bubble-solid", quadVertexShader, solidFragmentShader, "uProjection", "uColor")
	if err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	mask, err := shader.New("bubble-mask", quadVertexShader, maskFragmentShader, "uProjection", "uTexture", "uColor")
	if err != nil {
		solid.Delete()
		return nil, fmt.Errorf("create mask shader: %w", err)
	}

	r := &Renderer{solid: solid, mask: mask}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.vertices)*4, nil, gl.DYNAMIC_DRAW)

	// 4 floats per vertex: pos2 + uv2
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.GenTextures(1, &r.maskTex)
	gl.BindTexture(gl.TEXTURE_2D, r.maskTex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return r, nil
}

// Begin saves the GL state it changes and sets up pixel-space drawing.
func (r *Renderer) Begin(width, height int) {
	r.prevBlend = gl.IsEnabled(gl.BLEND)
	r.prevDepth = gl.IsEnabled(gl.DEPTH_TEST)
	r.prevCull = gl.IsEnabled(gl.CULL_FACE)

	gl.Enable(gl.BLEND)
	gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	r.proj = mgl32.Ortho2D(0, float32(width), float32(height), 0)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
}

// FillRect draws a solid rectangle.
func (r *Renderer) FillRect(x, y, w, h float32, c paint.Color) {
	r.solid.Use()
	r.solid.SetMat4("uProjection", r.proj)
	r.solid.SetVec4("uColor", c.R, c.G, c.B, c.A)
	r.drawQuad(x, y, w, h)
}

// UploadMask replaces the text texture with mask.
func (r *Renderer) UploadMask(mask *image.Alpha) error {
	if mask == nil || mask.Rect.Empty() {
		return fmt.Errorf("empty text mask")
	}
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	if mask.Stride != w {
		packed := image.NewAlpha(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			copy(packed.Pix[y*w:(y+1)*w], mask.Pix[mask.PixOffset(mask.Rect.Min.X, mask.Rect.Min.Y+y):])
		}
		mask = packed
	}

	gl.BindTexture(gl.TEXTURE_2D, r.maskTex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if w == r.maskWidth && h == r.maskHeight {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RED, gl.UNSIGNED_BYTE, unsafe.Pointer(&mask.Pix[0]))
	} else {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(w), int32(h), 0, gl.RED, gl.UNSIGNED_BYTE, unsafe.Pointer(&mask.Pix[0]))
		r.maskWidth, r.maskHeight = w, h
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("upload text mask %dx%d: GL error 0x%x", w, h, code)
	}
	return nil
}

// DrawMask draws the last uploaded mask with its top-left corner at (x, y).
func (r *Renderer) DrawMask(x, y float32, tint paint.Color) {
	if r.maskWidth == 0 {
		return
	}
	r.mask.Use()
	r.mask.SetMat4("uProjection", r.proj)
	r.mask.SetInt("uTexture", 0)
	r.mask.SetVec4("uColor", tint.R, tint.G, tint.B, tint.A)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.maskTex)
	r.drawQuad(x, y, float32(r.maskWidth), float32(r.maskHeight))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// End restores the state saved by Begin.
func (r *Renderer) End() {
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	gl.UseProgram(0)

	if !r.prevBlend {
		gl.Disable(gl.BLEND)
	}
	if r.prevDepth {
		gl.Enable(gl.DEPTH_TEST)
	}
	if r.prevCull {
		gl.Enable(gl.CULL_FACE)
	}
}

// drawQuad draws two triangles covering the rectangle. UV (0,0) maps to the
// top-left corner, matching image row order.
func (r *Renderer) drawQuad(x, y, w, h float32) {
	x1, y1 := x+w, y+h
	r.vertices = [24]float32{
		x, y, 0, 0,
		x1, y, 1, 0,
		x1, y1, 1, 1,
		x, y, 0, 0,
		x1, y1, 1, 1,
		x, y1, 0, 1,
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.vertices)*4, unsafe.Pointer(&r.vertices[0]))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	if r.maskTex != 0 {
		gl.DeleteTextures(1, &r.maskTex)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	r.solid.Delete()
	r.mask.Delete()
}
