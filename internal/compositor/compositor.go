// Package compositor turns model drawables into textured triangle draws.
//
// The package decides what to draw and where. A Backend does the drawing,
// which keeps ordering, guards and coordinate mapping testable without a
// GL context.
package compositor

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/deskpet/internal/logger"
	"github.com/Faultbox/deskpet/internal/model"
)

// Backend issues the actual draw calls for one frame.
type Backend interface {
	// Begin clears the frame and prepares pixel-space drawing for a w×h viewport.
	Begin(width, height int)
	// DrawMesh draws one indexed triangle list with straight alpha blending.
	// positions are window pixels (x, y pairs); uvs are (u, v) pairs with v already flipped.
	DrawMesh(texture uint32, positions, uvs []float32, indices []uint16)
	End()
}

// SkipReason explains why a drawable was not drawn.
type SkipReason uint8

const (
	SkipHidden SkipReason = iota
	SkipEmpty
	SkipUVMismatch
	SkipBadIndices
	SkipNoTexture
	skipReasons
)

func (r SkipReason) String() string {
	switch r {
	case SkipHidden:
		return "hidden"
	case SkipEmpty:
		return "empty"
	case SkipUVMismatch:
		return "uv_mismatch"
	case SkipBadIndices:
		return "bad_indices"
	case SkipNoTexture:
		return "no_texture"
	default:
		return "unknown"
	}
}

// FrameStats counts what happened to each drawable in a frame.
type FrameStats struct {
	Drawn   int
	Skipped [skipReasons]int
}

// TotalSkipped sums skips of every reason.
func (s FrameStats) TotalSkipped() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// Compositor draws a model's drawables in render order. It belongs to the
// render thread.
type Compositor struct {
	backend  Backend
	textures []uint32
	log      *zap.Logger

	order     []int
	positions []float32
	uvs       []float32
	warned    [skipReasons]bool
}

// New returns a compositor drawing through backend. textures maps a
// drawable's texture index to a backend texture handle; 0 means missing.
func New(backend Backend, textures []uint32, log *zap.Logger) *Compositor {
	return &Compositor{
		backend:  backend,
		textures: textures,
		log:      logger.OrNamed(log, "compositor"),
	}
}

// DrawOrder returns drawable indices sorted by ascending RenderOrder.
// Ties keep their original index order.
func DrawOrder(drawables []model.Drawable) []int {
	order := sortedPositions(make([]int, 0, len(drawables)), drawables)
	for i, pos := range order {
		order[i] = drawables[pos].Index
	}
	return order
}

// sortedPositions fills dst with slice positions of drawables in draw order.
func sortedPositions(dst []int, drawables []model.Drawable) []int {
	dst = dst[:0]
	for i := range drawables {
		dst = append(dst, i)
	}
	sort.SliceStable(dst, func(a, b int) bool {
		return drawables[dst[a]].RenderOrder < drawables[dst[b]].RenderOrder
	})
	return dst
}

// RenderFrame clears the frame and draws every drawable that passes the
// guards. Bad drawables are skipped and counted, never fatal.
func (c *Compositor) RenderFrame(drawables []model.Drawable, cam CameraTransform) FrameStats {
	var stats FrameStats

	c.backend.Begin(cam.WindowWidth, cam.WindowHeight)
	defer c.backend.End()

	c.order = sortedPositions(c.order, drawables)
	for _, pos := range c.order {
		d := &drawables[pos]
		tex, reason, ok := c.check(d)
		if !ok {
			stats.Skipped[reason]++
			if !c.warned[reason] && reason != SkipHidden {
				c.warned[reason] = true
				c.log.Warn("skipping drawable",
					zap.Int("index", d.Index),
					zap.Stringer("reason", reason))
			}
			continue
		}

		c.positions = c.positions[:0]
		c.uvs = c.uvs[:0]
		for i, v := range d.Vertices {
			sx, sy := cam.ToScreen(v)
			uv := d.UVs[i]
			c.positions = append(c.positions, sx, sy)
			c.uvs = append(c.uvs, uv.X, 1-uv.Y)
		}
		c.backend.DrawMesh(tex, c.positions, c.uvs, d.Indices)
		stats.Drawn++
	}
	return stats
}

func (c *Compositor) check(d *model.Drawable) (uint32, SkipReason, bool) {
	switch {
	case !d.Visible:
		return 0, SkipHidden, false
	case len(d.Vertices) == 0 || len(d.UVs) == 0 || len(d.Indices) == 0:
		return 0, SkipEmpty, false
	case len(d.UVs) != len(d.Vertices):
		return 0, SkipUVMismatch, false
	case len(d.Indices)%3 != 0:
		return 0, SkipBadIndices, false
	}
	for _, idx := range d.Indices {
		if int(idx) >= len(d.Vertices) {
			return 0, SkipBadIndices, false
		}
	}
	if d.TextureIndex < 0 || d.TextureIndex >= len(c.textures) || c.textures[d.TextureIndex] == 0 {
		return 0, SkipNoTexture, false
	}
	return c.textures[d.TextureIndex], 0, true
}
