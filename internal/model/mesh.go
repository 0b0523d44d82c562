package model

import "math"

type parameter struct {
	id       string
	min, max float32
	value    float32
}

type deformer struct {
	param   int
	offsets []Vec2
}

type part struct {
	id        string
	visible   bool
	texture   int
	base      []Vec2
	uvs       []Vec2
	indices   []uint16
	deformers []deformer
	deformed  []Vec2
}

// Mesh is an in-memory Model whose parts are deformed linearly by parameters.
// It is not safe for concurrent use; the render thread owns it.
type Mesh struct {
	canvas   CanvasInfo
	textures []string
	params   []parameter
	byName   map[string]int
	parts    []part
	orders   []int
	loaded   bool
}

// FromDescription builds a Mesh from a validated description and runs an
// initial Tick so geometry is available immediately.
func FromDescription(d *Description) (*Mesh, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	m := &Mesh{
		canvas: CanvasInfo{
			Width:         d.Canvas.Width,
			Height:        d.Canvas.Height,
			OriginX:       d.Canvas.OriginX,
			OriginY:       d.Canvas.OriginY,
			PixelsPerUnit: d.Canvas.PixelsPerUnit,
		},
		textures: append([]string(nil), d.Textures...),
		byName:   make(map[string]int, len(d.Parameters)),
		params:   make([]parameter, len(d.Parameters)),
		parts:    make([]part, len(d.Drawables)),
		orders:   make([]int, len(d.Drawables)),
		loaded:   true,
	}

	for i, p := range d.Parameters {
		m.params[i] = parameter{id: p.ID, min: p.Min, max: p.Max, value: clamp(p.Default, p.Min, p.Max)}
		m.byName[p.ID] = i
	}

	for i, dr := range d.Drawables {
		pt := part{
			id:       dr.ID,
			visible:  !dr.Hidden,
			texture:  dr.Texture,
			base:     toVecs(dr.Vertices),
			uvs:      toVecs(dr.UVs),
			indices:  append([]uint16(nil), dr.Triangles...),
			deformed: make([]Vec2, len(dr.Vertices)),
		}
		for _, def := range dr.Deformers {
			pt.deformers = append(pt.deformers, deformer{param: m.byName[def.Parameter], offsets: toVecs(def.Offsets)})
		}
		m.parts[i] = pt
		m.orders[i] = dr.Order
	}

	m.Tick()
	return m, nil
}

func toVecs(in [][2]float32) []Vec2 {
	out := make([]Vec2, len(in))
	for i, v := range in {
		out[i] = Vec2{X: v[0], Y: v[1]}
	}
	return out
}

// clamp maps NaN to lo so a bad input cannot reach the deformed vertices.
func clamp(v, lo, hi float32) float32 {
	if math.IsNaN(float64(v)) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TexturePaths returns the texture file names in texture-index order.
func (m *Mesh) TexturePaths() []string {
	if !m.loaded {
		return nil
	}
	return m.textures
}

func (m *Mesh) ParameterCount() int {
	if !m.loaded {
		return 0
	}
	return len(m.params)
}

func (m *Mesh) ParameterIndex(name string) int {
	if !m.loaded {
		return -1
	}
	if i, ok := m.byName[name]; ok {
		return i
	}
	return -1
}

// SetParameterValue clamps v to the parameter's range. Unknown names are ignored.
func (m *Mesh) SetParameterValue(name string, v float32) {
	m.SetParameterValueAt(m.ParameterIndex(name), v)
}

func (m *Mesh) SetParameterValueAt(i int, v float32) {
	if !m.loaded || i < 0 || i >= len(m.params) {
		return
	}
	p := &m.params[i]
	p.value = clamp(v, p.min, p.max)
}

func (m *Mesh) ParameterValue(name string) float32 {
	return m.ParameterValueAt(m.ParameterIndex(name))
}

func (m *Mesh) ParameterValueAt(i int) float32 {
	if !m.loaded || i < 0 || i >= len(m.params) {
		return 0
	}
	return m.params[i].value
}

func (m *Mesh) DrawableCount() int {
	if !m.loaded {
		return 0
	}
	return len(m.parts)
}

func (m *Mesh) part(i int) *part {
	if !m.loaded || i < 0 || i >= len(m.parts) {
		return nil
	}
	return &m.parts[i]
}

func (m *Mesh) IsVisible(i int) bool {
	if p := m.part(i); p != nil {
		return p.visible
	}
	return false
}

// Vertices returns the deformed positions computed by the last Tick.
func (m *Mesh) Vertices(i int) []Vec2 {
	if p := m.part(i); p != nil {
		return p.deformed
	}
	return nil
}

func (m *Mesh) UVs(i int) []Vec2 {
	if p := m.part(i); p != nil {
		return p.uvs
	}
	return nil
}

func (m *Mesh) Indices(i int) []uint16 {
	if p := m.part(i); p != nil {
		return p.indices
	}
	return nil
}

func (m *Mesh) TextureIndex(i int) int {
	if p := m.part(i); p != nil {
		return p.texture
	}
	return -1
}

// RenderOrders returns the draw priority of each drawable. Callers must not modify it.
func (m *Mesh) RenderOrders() []int {
	if !m.loaded {
		return nil
	}
	return m.orders
}

func (m *Mesh) CanvasInfo() CanvasInfo {
	if !m.loaded {
		return CanvasInfo{}
	}
	return m.canvas
}

// Tick rewrites every part's deformed vertices in place.
func (m *Mesh) Tick() {
	if !m.loaded {
		return
	}
	for pi := range m.parts {
		p := &m.parts[pi]
		copy(p.deformed, p.base)
		for _, d := range p.deformers {
			w := m.params[d.param].value
			if w == 0 {
				continue
			}
			for vi, off := range d.offsets {
				p.deformed[vi].X += off.X * w
				p.deformed[vi].Y += off.Y * w
			}
		}
	}
}

// Close releases model storage. The Mesh answers with zero values afterwards.
func (m *Mesh) Close() error {
	m.loaded = false
	m.params = nil
	m.byName = nil
	m.parts = nil
	m.orders = nil
	m.textures = nil
	return nil
}
