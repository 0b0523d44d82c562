// Package renderer draws textured model meshes with OpenGL.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/deskpet/internal/engine/shader"
	"github.com/Faultbox/deskpet/internal/logger"
)

const meshVertexShader = `
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

const meshFragmentShader = `
#version 410 core

in vec2 vUV;
out vec4 FragColor;

uniform sampler2D uTexture;

void main() {
	FragColor = texture(uTexture, vUV);
}
`

// Init loads OpenGL function pointers and logs the driver.
// Must be called after the GL context is current.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return nil
}

// UploadTexture creates a linear-filtered, edge-clamped RGBA texture.
func UploadTexture(img *image.NRGBA) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	w, h := int32(img.Rect.Dx()), int32(img.Rect.Dy())
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// UploadTextures uploads every image and returns the texture IDs in order.
func UploadTextures(imgs []*image.NRGBA) []uint32 {
	ids := make([]uint32, len(imgs))
	for i, img := range imgs {
		ids[i] = UploadTexture(img)
	}
	return ids
}

// DeleteTextures releases textures created by UploadTexture.
func DeleteTextures(ids []uint32) {
	if len(ids) > 0 {
		gl.DeleteTextures(int32(len(ids)), &ids[0])
	}
}

// ReadPixels reads the current framebuffer as bottom-up RGBA rows.
func ReadPixels(width, height int) []byte {
	buf := make([]byte, width*height*4)
	if len(buf) == 0 {
		return buf
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&buf[0]))
	return buf
}

// MeshRenderer draws indexed, textured triangle lists in window pixel space.
// Vertex data is streamed every frame since the model deforms continuously.
type MeshRenderer struct {
	program *shader.Program

	vao    uint32
	posVBO uint32
	uvVBO  uint32
	ebo    uint32

	fbWidth, fbHeight int32
}

// NewMeshRenderer compiles the mesh shader and allocates stream buffers.
func NewMeshRenderer() (*MeshRenderer, error) {
	prog, err := shader.New("mesh", meshVertexShader, meshFragmentShader, "uProjection", "uTexture")
	if err != nil {
		return nil, err
	}
	r := &MeshRenderer{program: prog}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.posVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.posVBO)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &r.uvVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.uvVBO)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	logger.Debug("mesh renderer created", zap.Uint32("vao", r.vao))
	return r, nil
}

// SetFramebufferSize sets the viewport size in physical pixels. On high-DPI
// displays it is larger than the logical size passed to Begin.
func (r *MeshRenderer) SetFramebufferSize(width, height int) {
	r.fbWidth, r.fbHeight = int32(width), int32(height)
}

// Begin clears to fully transparent and sets up a top-left origin projection.
func (r *MeshRenderer) Begin(width, height int) {
	vw, vh := r.fbWidth, r.fbHeight
	if vw <= 0 || vh <= 0 {
		vw, vh = int32(width), int32(height)
	}
	gl.Viewport(0, 0, vw, vh)

	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	// Destination alpha must hold coverage for the desktop compositor.
	gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	r.program.Use()
	r.program.SetMat4("uProjection", mgl32.Ortho2D(0, float32(width), float32(height), 0))
	r.program.SetInt("uTexture", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(r.vao)
}

// DrawMesh streams one drawable's vertices and issues an indexed draw.
func (r *MeshRenderer) DrawMesh(texture uint32, positions, uvs []float32, indices []uint16) {
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.posVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, unsafe.Pointer(&positions[0]), gl.STREAM_DRAW)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.uvVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(uvs)*4, unsafe.Pointer(&uvs[0]), gl.STREAM_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, unsafe.Pointer(&indices[0]), gl.STREAM_DRAW)

	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(len(indices)), gl.UNSIGNED_SHORT, 0)
}

// End unbinds per-frame state.
func (r *MeshRenderer) End() {
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

// Close releases GL resources.
func (r *MeshRenderer) Close() {
	logger.Info("closing mesh renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	buffers := []uint32{r.posVBO, r.uvVBO, r.ebo}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
	r.program.Delete()
}
