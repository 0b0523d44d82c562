package model

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDescription wraps every structural problem found in a model description.
var ErrInvalidDescription = errors.New("invalid model description")

// Description is the on-disk YAML form of a Mesh.
type Description struct {
	Canvas     CanvasDesc      `yaml:"canvas"`
	Textures   []string        `yaml:"textures"`
	Parameters []ParameterDesc `yaml:"parameters"`
	Drawables  []DrawableDesc  `yaml:"drawables"`
}

// CanvasDesc mirrors CanvasInfo.
type CanvasDesc struct {
	Width         float32 `yaml:"width"`
	Height        float32 `yaml:"height"`
	OriginX       float32 `yaml:"origin_x"`
	OriginY       float32 `yaml:"origin_y"`
	PixelsPerUnit float32 `yaml:"pixels_per_unit"`
}

// ParameterDesc declares one animation parameter and its legal range.
type ParameterDesc struct {
	ID      string  `yaml:"id"`
	Min     float32 `yaml:"min"`
	Max     float32 `yaml:"max"`
	Default float32 `yaml:"default"`
}

// DrawableDesc declares one textured part.
type DrawableDesc struct {
	ID        string         `yaml:"id"`
	Texture   int            `yaml:"texture"`
	Order     int            `yaml:"order"`
	Hidden    bool           `yaml:"hidden"`
	Vertices  [][2]float32   `yaml:"vertices"`
	UVs       [][2]float32   `yaml:"uvs"`
	Triangles []uint16       `yaml:"triangles"`
	Deformers []DeformerDesc `yaml:"deformers"`
}

// DeformerDesc moves every vertex by Value(Parameter) * Offsets[i].
type DeformerDesc struct {
	Parameter string       `yaml:"parameter"`
	Offsets   [][2]float32 `yaml:"offsets"`
}

// LoadFile reads and validates a YAML model description.
func LoadFile(path string) (*Mesh, *Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading model: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML model description.
func Parse(data []byte) (*Mesh, *Description, error) {
	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDescription, err)
	}
	m, err := FromDescription(&desc)
	if err != nil {
		return nil, nil, err
	}
	return m, &desc, nil
}

// Validate checks the description for structural problems that would make
// the mesh unrenderable.
func (d *Description) Validate() error {
	if d.Canvas.PixelsPerUnit <= 0 {
		return fmt.Errorf("%w: canvas pixels_per_unit must be positive", ErrInvalidDescription)
	}
	if len(d.Drawables) == 0 {
		return fmt.Errorf("%w: no drawables", ErrInvalidDescription)
	}

	params := make(map[string]bool, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.ID == "" {
			return fmt.Errorf("%w: parameter without id", ErrInvalidDescription)
		}
		if params[p.ID] {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidDescription, p.ID)
		}
		if p.Min > p.Max {
			return fmt.Errorf("%w: parameter %q has min %g > max %g", ErrInvalidDescription, p.ID, p.Min, p.Max)
		}
		params[p.ID] = true
	}

	for i, dr := range d.Drawables {
		name := dr.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if len(dr.Vertices) == 0 {
			return fmt.Errorf("%w: drawable %s has no vertices", ErrInvalidDescription, name)
		}
		if len(dr.Vertices) > 1<<16 {
			return fmt.Errorf("%w: drawable %s has %d vertices, limit is 65536", ErrInvalidDescription, name, len(dr.Vertices))
		}
		if len(dr.UVs) != len(dr.Vertices) {
			return fmt.Errorf("%w: drawable %s has %d uvs for %d vertices", ErrInvalidDescription, name, len(dr.UVs), len(dr.Vertices))
		}
		if len(dr.Triangles) == 0 || len(dr.Triangles)%3 != 0 {
			return fmt.Errorf("%w: drawable %s index count %d is not a triangle list", ErrInvalidDescription, name, len(dr.Triangles))
		}
		for _, idx := range dr.Triangles {
			if int(idx) >= len(dr.Vertices) {
				return fmt.Errorf("%w: drawable %s references vertex %d of %d", ErrInvalidDescription, name, idx, len(dr.Vertices))
			}
		}
		if dr.Texture < 0 || dr.Texture >= len(d.Textures) {
			return fmt.Errorf("%w: drawable %s uses texture %d of %d", ErrInvalidDescription, name, dr.Texture, len(d.Textures))
		}
		for _, def := range dr.Deformers {
			if !params[def.Parameter] {
				return fmt.Errorf("%w: drawable %s deformer uses unknown parameter %q", ErrInvalidDescription, name, def.Parameter)
			}
			if len(def.Offsets) != len(dr.Vertices) {
				return fmt.Errorf("%w: drawable %s deformer %q has %d offsets for %d vertices",
					ErrInvalidDescription, name, def.Parameter, len(def.Offsets), len(dr.Vertices))
			}
		}
	}
	return nil
}
