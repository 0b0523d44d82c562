// Package anim computes the procedural parameter values that bring the
// character to life: breathing, head tracking, blinking and idle sway.
package anim

import (
	"math"

	"github.com/Faultbox/deskpet/internal/config"
	"github.com/Faultbox/deskpet/internal/model"
)

// Parameter names written by the driver, in write order.
const (
	ParamBreath     = "ParamBreath"
	ParamAngleX     = "ParamAngleX"
	ParamAngleY     = "ParamAngleY"
	ParamAngleZ     = "ParamAngleZ"
	ParamEyeBallX   = "ParamEyeBallX"
	ParamEyeBallY   = "ParamEyeBallY"
	ParamBodyAngleX = "ParamBodyAngleX"
	ParamBodyAngleY = "ParamBodyAngleY"
	ParamBodyAngleZ = "ParamBodyAngleZ"
	ParamMouthForm  = "ParamMouthForm"
	ParamMouthOpenY = "ParamMouthOpenY"
	ParamBrowLY     = "ParamBrowLY"
	ParamBrowRY     = "ParamBrowRY"
	ParamHairFront  = "ParamHairFront"
	ParamHairSide   = "ParamHairSide"
	ParamHairBack   = "ParamHairBack"
	ParamEyeLOpen   = "ParamEyeLOpen"
	ParamEyeROpen   = "ParamEyeROpen"
)

// Secondary motion: frequency (rad/s) and amplitude of the mouth, brow and
// hair oscillators, plus how strongly the head drags the hair along.
const (
	mouthFormSpeed, mouthFormAmp = 3.0, 0.15
	mouthOpenSpeed, mouthOpenAmp = 2.5, 0.1
	browSpeed, browAmp, browLag  = 1.5, 0.1, 0.5
	hairFrontSpeed, hairFrontAmp = 2.0, 0.3
	hairSideSpeed, hairSideAmp   = 1.8, 0.25
	hairBackSpeed, hairBackAmp   = 1.5, 0.2
	hairFrontDrag, hairSideDrag  = 0.02, 0.03
	hairBackDrag                 = 0.02
	eyeBallGain                  = 0.8
)

var paramOrder = [...]string{
	ParamBreath,
	ParamAngleX, ParamAngleY, ParamAngleZ,
	ParamEyeBallX, ParamEyeBallY,
	ParamBodyAngleX, ParamBodyAngleY, ParamBodyAngleZ,
	ParamMouthForm, ParamMouthOpenY,
	ParamBrowLY, ParamBrowRY,
	ParamHairFront, ParamHairSide, ParamHairBack,
	ParamEyeLOpen, ParamEyeROpen,
}

// Params is one frame of driver output in a fixed order.
type Params []model.ParameterValue

// Get returns the value written for name.
func (p Params) Get(name string) (float32, bool) {
	for _, v := range p {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}

// Driver turns elapsed time and pointer position into parameter values.
// It is owned by the render thread.
type Driver struct {
	cfg    config.AnimationConfig
	blink  *Blinker
	headX  float64
	headY  float64
	params Params
}

// New returns a driver whose first blink is scheduled relative to time zero.
// rand supplies blink jitter in [0, 1); pass rand.Float64 from math/rand/v2
// in production and a fixed sequence in tests.
func New(cfg config.AnimationConfig, rand func() float64) *Driver {
	d := &Driver{
		cfg:    cfg,
		blink:  NewBlinker(cfg.BlinkDuration, cfg.BlinkMinInterval, cfg.BlinkMaxInterval, 0, rand),
		params: make(Params, len(paramOrder)),
	}
	for i, name := range paramOrder {
		d.params[i].Name = name
	}
	return d
}

// Blink exposes the blink FSM state.
func (d *Driver) Blink() BlinkState {
	return d.blink.State()
}

// Head returns the smoothed head angles in degrees.
func (d *Driver) Head() (x, y float64) {
	return d.headX, d.headY
}

// Advance computes the parameter values for elapsed seconds since start with
// the pointer at (px, py), both normalized to [0, 1] across the window.
// The returned slice is reused by the next call.
func (d *Driver) Advance(elapsed, px, py float64) Params {
	t := elapsed
	maxAngle := d.cfg.MaxHeadAngle

	targetX := (px - 0.5) * 2 * maxAngle
	targetY := -(py - 0.5) * 2 * maxAngle
	d.headX += (targetX - d.headX) * d.cfg.HeadSmoothing
	d.headY += (targetY - d.headY) * d.cfg.HeadSmoothing
	hx, hy := d.headX, d.headY

	swayX := math.Sin(t*d.cfg.SwaySpeedX)*d.cfg.SwayAmplitudeX + hx*0.2
	swayY := math.Cos(t*d.cfg.SwaySpeedY)*d.cfg.SwayAmplitudeY + hy*0.1

	eye := d.blink.Update(t)

	values := [...]float64{
		math.Sin(t*d.cfg.BreathSpeed) * d.cfg.BreathAmplitude,
		hx, hy, hx * 0.3,
		hx / maxAngle * eyeBallGain, hy / maxAngle * eyeBallGain,
		swayX, swayY, swayX * 0.5,
		math.Sin(t*mouthFormSpeed) * mouthFormAmp,
		math.Max(0, math.Sin(t*mouthOpenSpeed)*mouthOpenAmp),
		math.Sin(t*browSpeed+browLag) * browAmp,
		math.Sin(t*browSpeed) * browAmp,
		math.Sin(t*hairFrontSpeed)*hairFrontAmp + hx*hairFrontDrag,
		math.Cos(t*hairSideSpeed)*hairSideAmp + hx*hairSideDrag,
		math.Sin(t*hairBackSpeed)*hairBackAmp - hy*hairBackDrag,
		float64(eye), float64(eye),
	}
	for i, v := range values {
		d.params[i].Value = float32(v)
	}
	return d.params
}

// Apply writes params to m by name. Names m does not know are ignored by m.
func (d *Driver) Apply(m model.Model, params Params) {
	for _, p := range params {
		m.SetParameterValue(p.Name, p.Value)
	}
}
