// Package overlay wires the desk pet together and runs the frame loop.
package overlay

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/deskpet/internal/anim"
	"github.com/Faultbox/deskpet/internal/bubble"
	"github.com/Faultbox/deskpet/internal/compositor"
	"github.com/Faultbox/deskpet/internal/config"
	"github.com/Faultbox/deskpet/internal/engine/audio"
	"github.com/Faultbox/deskpet/internal/engine/capture"
	"github.com/Faultbox/deskpet/internal/engine/input"
	"github.com/Faultbox/deskpet/internal/engine/renderer"
	"github.com/Faultbox/deskpet/internal/engine/texture"
	"github.com/Faultbox/deskpet/internal/engine/ui2d"
	"github.com/Faultbox/deskpet/internal/engine/window"
	"github.com/Faultbox/deskpet/internal/gesture"
	"github.com/Faultbox/deskpet/internal/logger"
	"github.com/Faultbox/deskpet/internal/mailbox"
	"github.com/Faultbox/deskpet/internal/model"
	"github.com/Faultbox/deskpet/internal/poller"
)

const fpsLogInterval = 5 * time.Second

// App is the running overlay.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window *window.Window
	input  *input.Input
	drag   gesture.Tracker

	model    model.Model
	textures []uint32
	meshes   *renderer.MeshRenderer
	scene    *compositor.Compositor
	camera   compositor.CameraTransform
	driver   *anim.Driver

	inbox  *mailbox.Mailbox
	text   *bubble.Rasterizer
	canvas *ui2d.Renderer
	bubble *bubble.Compositor
	poller *poller.Poller

	sound   *audio.Player
	uploads int
	shots   *capture.Screenshot

	drawables []model.Drawable
}

// New creates the window and GL context, loads the model and prepares every
// component. Any failure here is fatal to startup.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg, log: logger.Named("overlay")}
	ready := false
	defer func() {
		if !ready {
			a.Close()
		}
	}()

	a.log.Info("initializing overlay",
		zap.String("model", modelName(cfg.Model.Path)),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	// Window first: every GL resource below needs its context.
	var err error
	a.window, err = window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	if err := renderer.Init(); err != nil {
		return nil, err
	}
	a.input = input.New()

	mesh, images, err := loadModel(cfg.Model.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	a.model = mesh
	a.textures = renderer.UploadTextures(images)

	a.meshes, err = renderer.NewMeshRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create mesh renderer: %w", err)
	}
	a.scene = compositor.New(a.meshes, a.textures, logger.Named("compositor"))

	w, h := a.window.Size()
	a.camera = compositor.NewCameraTransform(w, h, a.model.CanvasInfo(), cfg.Model.Fill)
	a.driver = anim.New(cfg.Animation, rand.Float64)

	a.text, err = bubble.NewRasterizer(cfg.Bubble)
	if err != nil {
		return nil, fmt.Errorf("failed to create text rasterizer: %w", err)
	}
	a.canvas, err = ui2d.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create bubble renderer: %w", err)
	}
	a.inbox = mailbox.New()
	a.bubble = bubble.New(cfg.Bubble, a.inbox, a.text, a.canvas, logger.Named("bubble"))
	a.poller = poller.New(cfg.Poller, &http.Client{}, a.inbox, logger.Named("poller"))

	a.sound = a.openSound(cfg.Sound)
	a.shots = capture.New(cfg.Capture.Dir, cfg.Capture.Prefix)

	a.log.Info("overlay initialized",
		zap.Int("drawables", a.model.DrawableCount()),
		zap.Int("parameters", a.model.ParameterCount()),
		zap.Int("textures", len(a.textures)),
		zap.Float32("scale", a.camera.ModelScale),
	)
	ready = true
	return a, nil
}

func modelName(path string) string {
	if path == "" {
		return "placeholder"
	}
	return path
}

// openSound prepares the message chime. Audio is optional: any failure is
// logged and the overlay runs silent.
func (a *App) openSound(cfg config.SoundConfig) *audio.Player {
	if cfg.Chime == "" {
		return nil
	}
	data, err := os.ReadFile(cfg.Chime)
	if err != nil {
		a.log.Warn("chime unavailable", zap.Error(err))
		return nil
	}
	p := audio.New(cfg.Volume)
	if err := p.LoadChime(data); err != nil {
		a.log.Warn("chime unavailable", zap.String("path", cfg.Chime), zap.Error(err))
		return nil
	}
	if err := p.Init(); err != nil {
		a.log.Warn("audio device unavailable", zap.Error(err))
		return nil
	}
	return p
}

// loadModel reads the model description at path, or builds the placeholder
// character when path is empty. Texture paths are resolved relative to the
// description file.
func loadModel(path string) (*model.Mesh, []*image.NRGBA, error) {
	if path == "" {
		mesh, err := model.FromDescription(model.Placeholder())
		if err != nil {
			return nil, nil, err
		}
		return mesh, model.PlaceholderTextures(), nil
	}

	mesh, _, err := model.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	images, err := texture.LoadAll(filepath.Dir(path), mesh.TexturePaths())
	if err != nil {
		mesh.Close()
		return nil, nil, err
	}
	return mesh, images, nil
}

// Run starts the poller and drives frames until ctx is cancelled or the
// user quits. The poller is stopped and awaited before Run returns.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		a.poller.Wait()
	}()
	a.poller.Start(ctx)

	start := time.Now()
	frames := 0
	fpsTimer := start

	a.log.Info("starting frame loop")

	for ctx.Err() == nil {
		if a.input.Update() {
			a.log.Info("quit requested")
			break
		}
		a.handleInput()

		now := time.Now()
		a.frame(now, now.Sub(start).Seconds())
		if a.input.IsKeyPressed(input.KeyScreenshot) {
			a.screenshot()
		}
		a.window.SwapBuffers()

		frames++
		if since := now.Sub(fpsTimer); since >= fpsLogInterval {
			a.log.Debug("fps", zap.Float64("fps", float64(frames)/since.Seconds()))
			frames = 0
			fpsTimer = now
		}
	}

	return nil
}

func (a *App) handleInput() {
	for _, ev := range a.input.Events() {
		switch ev.Type {
		case input.EventMouseDown:
			a.drag.Press(ev.Button, ev.GlobalX, ev.GlobalY)
		case input.EventMouseUp:
			a.drag.Release(ev.Button)
		case input.EventMouseMove:
			d, ok := a.drag.Move(ev.GlobalX, ev.GlobalY)
			if !ok {
				continue
			}
			switch d.Button {
			case gesture.ButtonLeft:
				x, y := a.window.Position()
				a.window.SetPosition(x+d.DX, y+d.DY)
			case gesture.ButtonRight:
				a.camera.Pan(float32(d.DX), float32(d.DY))
			}
		}
	}
}

// frame advances animation, draws the model and then the bubble on top.
func (a *App) frame(now time.Time, elapsed float64) {
	w, h := a.window.Size()
	if w != a.camera.WindowWidth || h != a.camera.WindowHeight {
		a.camera.Resize(w, h)
	}
	a.meshes.SetFramebufferSize(a.window.DrawableSize())

	gx, gy := input.Global()
	wx, wy := a.window.Position()
	px, py := gesture.Normalize(gx, gy, wx, wy, w, h)

	params := a.driver.Advance(elapsed, px, py)
	a.driver.Apply(a.model, params)
	a.model.Tick()

	var err error
	a.drawables, err = model.Snapshot(a.drawables, a.model)
	if err != nil {
		a.log.Debug("model snapshot unavailable", zap.Error(err))
	}
	a.scene.RenderFrame(a.drawables, a.camera)

	a.bubble.Update(now)
	if n := a.bubble.Uploads(); n != a.uploads {
		a.uploads = n
		a.chime()
	}
	a.bubble.Render(w, h)
}

func (a *App) chime() {
	if a.sound == nil {
		return
	}
	if err := a.sound.PlayChime(); err != nil {
		a.log.Debug("chime failed", zap.Error(err))
	}
}

func (a *App) screenshot() {
	w, h := a.window.DrawableSize()
	path, err := a.shots.SavePixels(renderer.ReadPixels(w, h), w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases everything New created, in reverse order.
func (a *App) Close() {
	a.log.Info("closing overlay")

	if a.sound != nil {
		a.sound.Close()
	}
	if a.canvas != nil {
		a.canvas.Close()
	}
	if a.text != nil {
		a.text.Close()
	}
	if a.meshes != nil {
		a.meshes.Close()
	}
	if a.textures != nil {
		renderer.DeleteTextures(a.textures)
	}
	if a.model != nil {
		if err := a.model.Close(); err != nil {
			a.log.Warn("failed to close model", zap.Error(err))
		}
	}
	if a.window != nil {
		a.window.Close()
	}
}
