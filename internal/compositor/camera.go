package compositor

import "github.com/Faultbox/deskpet/internal/model"

// CameraTransform maps model space to window pixels.
type CameraTransform struct {
	WindowWidth, WindowHeight int
	CanvasOriginX             float32
	CanvasOriginY             float32
	PixelsPerUnit             float32
	ModelScale                float32
	OffsetX, OffsetY          float32
}

// NewCameraTransform fits the canvas into fill of the smaller window
// dimension and centers the character.
func NewCameraTransform(width, height int, canvas model.CanvasInfo, fill float32) CameraTransform {
	c := CameraTransform{
		WindowWidth:   width,
		WindowHeight:  height,
		CanvasOriginX: canvas.OriginX,
		CanvasOriginY: canvas.OriginY,
		PixelsPerUnit: canvas.PixelsPerUnit,
		ModelScale:    1,
		OffsetX:       float32(width) / 2,
		OffsetY:       float32(height) / 2,
	}
	cw := canvas.Width * canvas.PixelsPerUnit
	ch := canvas.Height * canvas.PixelsPerUnit
	if extent := max(cw, ch); extent > 0 {
		c.ModelScale = c.minDim() * fill / extent
	}
	return c
}

func (c CameraTransform) minDim() float32 {
	return float32(min(c.WindowWidth, c.WindowHeight))
}

// ToScreen converts a model-space vertex to window pixels (y down).
func (c CameraTransform) ToScreen(v model.Vec2) (float32, float32) {
	d := c.minDim()
	k := c.PixelsPerUnit * c.ModelScale
	sx := v.X*d + c.CanvasOriginX*k + c.OffsetX
	sy := -v.Y*d + c.CanvasOriginY*k + c.OffsetY
	return sx, sy
}

// Pan moves the character by a pixel delta.
func (c *CameraTransform) Pan(dx, dy float32) {
	c.OffsetX += dx
	c.OffsetY += dy
}

// Resize keeps the character at the same relative position in a resized window.
func (c *CameraTransform) Resize(width, height int) {
	if c.WindowWidth > 0 && c.WindowHeight > 0 {
		c.OffsetX *= float32(width) / float32(c.WindowWidth)
		c.OffsetY *= float32(height) / float32(c.WindowHeight)
	}
	c.WindowWidth = width
	c.WindowHeight = height
}
