// Package model defines the character model facade the overlay animates and
// draws, plus an in-memory implementation driven by a YAML description.
package model

import "errors"

// ErrNotLoaded is returned when a model is queried before it was loaded or after Close.
var ErrNotLoaded = errors.New("model not loaded")

// Vec2 is a 2D point in model space (vertices) or texture space (UVs).
type Vec2 struct {
	X, Y float32
}

// ParameterValue is a named animation control value.
type ParameterValue struct {
	Name  string
	Value float32
}

// CanvasInfo describes the model's native canvas.
type CanvasInfo struct {
	Width, Height    float32
	OriginX, OriginY float32
	PixelsPerUnit    float32
}

// Drawable is a per-frame view of one textured mesh part.
// Slices alias model storage and are only valid until the next Tick.
type Drawable struct {
	Index        int
	RenderOrder  int
	Visible      bool
	TextureIndex int
	Vertices     []Vec2
	UVs          []Vec2
	Indices      []uint16
}

// Model is the capability the overlay needs from a character runtime.
//
// Before a model is loaded and after Close every method returns zero values:
// 0, -1 for unknown indices, false, nil slices and an empty CanvasInfo.
// Writes to unknown parameters are ignored.
type Model interface {
	ParameterCount() int
	ParameterIndex(name string) int
	SetParameterValue(name string, v float32)
	SetParameterValueAt(i int, v float32)
	ParameterValue(name string) float32
	ParameterValueAt(i int) float32

	DrawableCount() int
	IsVisible(i int) bool
	Vertices(i int) []Vec2
	UVs(i int) []Vec2
	Indices(i int) []uint16
	TextureIndex(i int) int
	RenderOrders() []int

	CanvasInfo() CanvasInfo

	// Tick recomputes deformed geometry from the current parameter values.
	Tick()
	Close() error
}

// Snapshot collects the drawables of m into dst, reusing its capacity.
// It returns ErrNotLoaded when m exposes no drawables.
func Snapshot(dst []Drawable, m Model) ([]Drawable, error) {
	dst = dst[:0]
	n := m.DrawableCount()
	if n == 0 {
		return dst, ErrNotLoaded
	}
	orders := m.RenderOrders()
	for i := 0; i < n; i++ {
		d := Drawable{
			Index:        i,
			Visible:      m.IsVisible(i),
			TextureIndex: m.TextureIndex(i),
			Vertices:     m.Vertices(i),
			UVs:          m.UVs(i),
			Indices:      m.Indices(i),
		}
		if i < len(orders) {
			d.RenderOrder = orders[i]
		}
		dst = append(dst, d)
	}
	return dst, nil
}
