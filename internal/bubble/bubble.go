// Package bubble implements the speech bubble: it consumes text events from
// the mailbox, keeps the show/fade state machine and decides what to draw.
package bubble

import (
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/deskpet/internal/config"
	"github.com/Faultbox/deskpet/internal/engine/paint"
	"github.com/Faultbox/deskpet/internal/logger"
	"github.com/Faultbox/deskpet/internal/mailbox"
)

// Canvas draws the bubble. The GL implementation lives in engine/ui2d.
type Canvas interface {
	Begin(width, height int)
	FillRect(x, y, w, h float32, c paint.Color)
	// UploadMask replaces the text texture with mask.
	UploadMask(mask *image.Alpha) error
	// DrawMask draws the text texture at (x, y) using its alpha as coverage.
	DrawMask(x, y float32, tint paint.Color)
	End()
}

// TextRenderer turns text into a coverage mask.
type TextRenderer interface {
	Render(text string) *image.Alpha
}

// Compositor owns the bubble state on the render thread.
type Compositor struct {
	cfg    config.BubbleConfig
	inbox  *mailbox.Mailbox
	text   TextRenderer
	canvas Canvas
	log    *zap.Logger

	state     State
	mask      image.Rectangle
	uploads   int
	lastPhase Phase

	// pending holds an update whose upload failed; it is retried each
	// frame until it succeeds or a newer event replaces it.
	pending *mailbox.Event
}

// New wires a bubble to its mailbox, text renderer and canvas.
func New(cfg config.BubbleConfig, inbox *mailbox.Mailbox, text TextRenderer, canvas Canvas, log *zap.Logger) *Compositor {
	return &Compositor{
		cfg:    cfg,
		inbox:  inbox,
		text:   text,
		canvas: canvas,
		log:    logger.OrNamed(log, "bubble"),
	}
}

// State returns a copy of the current state.
func (c *Compositor) State() State {
	return c.state
}

// Phase reports the lifecycle stage at now.
func (c *Compositor) Phase(now time.Time) Phase {
	return c.state.Phase(now, c.cfg.Timeout)
}

// Uploads counts text texture regenerations.
func (c *Compositor) Uploads() int {
	return c.uploads
}

// Update consumes at most one mailbox event and advances the fade by one frame.
// An update whose upload failed is retried on later frames.
func (c *Compositor) Update(now time.Time) {
	if ev, ok := c.inbox.Take(); ok {
		c.pending = nil
		c.apply(ev, now)
	} else if c.pending != nil {
		ev := *c.pending
		c.pending = nil
		c.apply(ev, now)
	}
	c.state.Step(now, c.cfg.Timeout, c.cfg.FadeStep)

	if p := c.Phase(now); p != c.lastPhase {
		c.log.Debug("bubble phase", zap.Stringer("from", c.lastPhase), zap.Stringer("to", p))
		c.lastPhase = p
	}
}

func (c *Compositor) apply(ev mailbox.Event, now time.Time) {
	if ev.Kind == mailbox.KindClear || ev.Text == "" {
		c.state.Clear()
		return
	}

	mask := c.text.Render(ev.Text)
	if err := c.canvas.UploadMask(mask); err != nil {
		c.log.Warn("text upload failed, retrying next frame", zap.Error(err))
		c.pending = &ev
		return
	}
	c.uploads++
	c.mask = mask.Bounds()
	c.state.Show(ev.Text, now)
	c.log.Debug("bubble text", zap.Int("chars", len([]rune(ev.Text))), zap.Int("mask_w", c.mask.Dx()), zap.Int("mask_h", c.mask.Dy()))
}

// Render draws the bubble into a width×height viewport. Nothing is drawn
// while the bubble is hidden.
func (c *Compositor) Render(width, height int) {
	if c.state.Alpha <= 0 || c.state.Text == "" {
		return
	}
	alpha := c.state.Alpha

	c.canvas.Begin(width, height)
	bg := paint.RGB(c.cfg.Background).WithAlpha(c.cfg.BackgroundOpacity).Fade(alpha)
	c.canvas.FillRect(c.cfg.X, c.cfg.Y, c.cfg.Width, c.cfg.Height, bg)
	c.canvas.DrawMask(c.cfg.X+c.cfg.Padding, c.cfg.Y+c.cfg.Padding, paint.White.Fade(alpha))
	c.canvas.End()
}
