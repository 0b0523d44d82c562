package anim

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Faultbox/deskpet/internal/config"
	"github.com/Faultbox/deskpet/internal/model"
)

const blinkSeconds = 0.15

func fixedRand(v float64) func() float64 {
	return func() float64 { return v }
}

func TestEnvelopeShape(t *testing.T) {
	tests := []struct {
		name    string
		elapsed float64
		want    float32
	}{
		{"before start", -0.01, 1},
		{"start", 0, 1},
		{"midpoint", blinkSeconds / 2, 0},
		{"end", blinkSeconds, 1},
		{"after end", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Envelope(tt.elapsed, blinkSeconds); got != tt.want {
				t.Errorf("Envelope(%v) = %v, want %v", tt.elapsed, got, tt.want)
			}
		})
	}

	// 1 - sin(u*pi) on the way down, sin((u-0.5)*pi) on the way up.
	for _, u := range []float64{0.1, 0.25, 0.4, 0.6, 0.75, 0.9} {
		var want float64
		if u < 0.5 {
			want = 1 - math.Sin(u*math.Pi)
		} else {
			want = math.Sin((u - 0.5) * math.Pi)
		}
		got := Envelope(u*blinkSeconds, blinkSeconds)
		if math.Abs(float64(got)-want) > 1e-4 {
			t.Errorf("Envelope at u=%v = %v, want %v", u, got, want)
		}
		if got < 0 || got > 1 {
			t.Errorf("Envelope at u=%v out of range: %v", u, got)
		}
	}
}

// Two blinkers sampled at 30 and 60 frames per second agree wherever their
// frame times coincide.
func TestBlinkSamplingIndependence(t *testing.T) {
	slow := NewBlinker(150*time.Millisecond, 2*time.Second, 5*time.Second, 0, fixedRand(0))
	fast := NewBlinker(150*time.Millisecond, 2*time.Second, 5*time.Second, 0, fixedRand(0))

	fastAt := make(map[int]float32)
	for i := 0; i <= 180; i++ {
		fastAt[i] = fast.Update(float64(i) / 60)
	}

	sawClosed := false
	for j := 0; j <= 90; j++ {
		v := slow.Update(float64(j) / 30)
		if w := fastAt[2*j]; v != w {
			t.Errorf("frame time %d/30: 30fps=%v 60fps=%v", j, v, w)
		}
		if v < 0.5 {
			sawClosed = true
		}
	}
	if !sawClosed {
		t.Error("no blink observed in the sampled window")
	}
}

func TestBlinkerCycle(t *testing.T) {
	// 125ms keeps the phase boundaries exactly representable.
	b := NewBlinker(125*time.Millisecond, 2*time.Second, 5*time.Second, 0, fixedRand(0))

	if got := b.State().NextBlink; got != 2 {
		t.Fatalf("initial NextBlink = %v, want 2", got)
	}
	if got := b.Update(1.9); got != 1 || b.State().Phase != PhaseOpen {
		t.Errorf("before NextBlink: openness %v phase %v", got, b.State().Phase)
	}

	if got := b.Update(2.0); got != 1 || b.State().Phase != PhaseClosing {
		t.Errorf("blink start: openness %v phase %v", got, b.State().Phase)
	}
	if got := b.Update(2.04); got <= 0 || got >= 1 || b.State().Phase != PhaseClosing {
		t.Errorf("closing: openness %v phase %v", got, b.State().Phase)
	}
	if got := b.Update(2.0625); got != 0 || b.State().Phase != PhaseOpening {
		t.Errorf("midpoint: openness %v phase %v", got, b.State().Phase)
	}
	if got := b.Update(2.1); got <= 0 || got >= 1 {
		t.Errorf("opening: openness %v", got)
	}

	if got := b.Update(2.2); got != 1 {
		t.Errorf("after blink: openness %v", got)
	}
	s := b.State()
	if s.Phase != PhaseOpen {
		t.Errorf("phase after blink = %v", s.Phase)
	}
	if math.Abs(s.NextBlink-4.2) > 1e-9 {
		t.Errorf("NextBlink = %v, want 4.2", s.NextBlink)
	}
}

func TestBlinkerIntervalRange(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	b := NewBlinker(150*time.Millisecond, 2*time.Second, 5*time.Second, 0, r.Float64)

	now := 0.0
	for i := 0; i < 200; i++ {
		next := b.State().NextBlink
		if d := next - now; d < 2 || d >= 5 {
			t.Fatalf("blink %d scheduled %.3fs ahead", i, d)
		}
		now = next
		b.Update(now)
		now += 0.2
		b.Update(now)
	}
}

func TestDriverParamOrder(t *testing.T) {
	d := New(config.Default().Animation, fixedRand(0.5))
	params := d.Advance(0, 0.5, 0.5)

	if len(params) != len(paramOrder) {
		t.Fatalf("got %d params, want %d", len(params), len(paramOrder))
	}
	for i, p := range params {
		if p.Name != paramOrder[i] {
			t.Errorf("param %d = %s, want %s", i, p.Name, paramOrder[i])
		}
	}
}

func TestDriverBreathPeriodic(t *testing.T) {
	d := New(config.Default().Animation, fixedRand(0.5))

	at := func(t float64) float32 {
		v, _ := d.Advance(t, 0.5, 0.5).Get(ParamBreath)
		return v
	}

	// sin(2t) repeats every pi seconds.
	for _, ts := range []float64{0.3, 1.1, 2.7} {
		a, b := at(ts), at(ts+math.Pi)
		if math.Abs(float64(a-b)) > 1e-5 {
			t.Errorf("breath(%v)=%v, breath(%v+pi)=%v", ts, a, ts, b)
		}
	}
	if v := at(math.Pi / 4); math.Abs(float64(v)-0.5) > 1e-5 {
		t.Errorf("breath peak = %v, want 0.5", v)
	}
}

func TestDriverSwayPeriodic(t *testing.T) {
	cfg := config.Default().Animation
	d := New(cfg, fixedRand(0.5))

	// A centered pointer keeps the head at rest, leaving pure sway.
	at := func(name string, t float64) float64 {
		v, _ := d.Advance(t, 0.5, 0.5).Get(name)
		return float64(v)
	}

	tests := []struct {
		name   string
		param  string
		period float64
		peak   float64
	}{
		{"body x", ParamBodyAngleX, 2 * math.Pi / cfg.SwaySpeedX, cfg.SwayAmplitudeX},
		{"body y", ParamBodyAngleY, 2 * math.Pi / cfg.SwaySpeedY, cfg.SwayAmplitudeY},
		{"body z", ParamBodyAngleZ, 2 * math.Pi / cfg.SwaySpeedX, cfg.SwayAmplitudeX * 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxAbs := 0.0
			for _, ts := range []float64{0.4, 1.9, 3.3, 7.25} {
				a, b := at(tt.param, ts), at(tt.param, ts+tt.period)
				if math.Abs(a-b) > 1e-4 {
					t.Errorf("%s(%v)=%v, one period later=%v", tt.param, ts, a, b)
				}
				maxAbs = math.Max(maxAbs, math.Abs(a))
			}
			if maxAbs > tt.peak+1e-5 {
				t.Errorf("%s swings to %v, want within +-%v", tt.param, maxAbs, tt.peak)
			}
		})
	}
}

func TestDriverSwayFromConfig(t *testing.T) {
	cfg := config.Default().Animation
	cfg.SwayAmplitudeX = 8
	cfg.SwaySpeedX = 1
	d := New(cfg, fixedRand(0.5))

	v, _ := d.Advance(math.Pi/2, 0.5, 0.5).Get(ParamBodyAngleX)
	if math.Abs(float64(v)-8) > 1e-4 {
		t.Errorf("BodyAngleX at quarter period = %v, want 8", v)
	}
}

func TestDriverBounds(t *testing.T) {
	d := New(config.Default().Animation, rand.New(rand.NewPCG(3, 4)).Float64)
	r := rand.New(rand.NewPCG(5, 6))

	limits := map[string]float64{
		ParamBreath:     0.5,
		ParamAngleX:     30,
		ParamAngleY:     30,
		ParamAngleZ:     9,
		ParamEyeBallX:   0.8,
		ParamEyeBallY:   0.8,
		ParamBodyAngleX: 11,
		ParamBodyAngleY: 6,
		ParamMouthForm:  0.15,
		ParamMouthOpenY: 0.1,
		ParamBrowLY:     0.1,
		ParamBrowRY:     0.1,
	}

	for frame := 0; frame < 6000; frame++ {
		elapsed := float64(frame) / 60
		params := d.Advance(elapsed, r.Float64(), r.Float64())
		for name, limit := range limits {
			v, _ := params.Get(name)
			if math.Abs(float64(v)) > limit+1e-4 {
				t.Fatalf("frame %d: %s = %v exceeds %v", frame, name, v, limit)
			}
		}
		if v, _ := params.Get(ParamMouthOpenY); v < 0 {
			t.Fatalf("frame %d: mouth open %v < 0", frame, v)
		}
		for _, eye := range []string{ParamEyeLOpen, ParamEyeROpen} {
			if v, _ := params.Get(eye); v < 0 || v > 1 {
				t.Fatalf("frame %d: %s = %v", frame, eye, v)
			}
		}
	}
}

func TestDriverHeadTracking(t *testing.T) {
	d := New(config.Default().Animation, fixedRand(0.5))

	d.Advance(0, 1, 0)
	x, y := d.Head()
	if math.Abs(x-4.5) > 1e-9 || math.Abs(y-4.5) > 1e-9 {
		t.Errorf("first step head = (%v, %v), want (4.5, 4.5)", x, y)
	}

	for i := 0; i < 200; i++ {
		d.Advance(float64(i)/60, 1, 0)
	}
	x, y = d.Head()
	if math.Abs(x-30) > 1e-3 || math.Abs(y-30) > 1e-3 {
		t.Errorf("head did not converge: (%v, %v)", x, y)
	}

	params := d.Advance(4, 1, 0)
	if v, _ := params.Get(ParamAngleZ); math.Abs(float64(v)-9) > 1e-3 {
		t.Errorf("ParamAngleZ = %v, want 9", v)
	}
	if v, _ := params.Get(ParamEyeBallX); math.Abs(float64(v)-0.8) > 1e-3 {
		t.Errorf("ParamEyeBallX = %v, want 0.8", v)
	}
}

func TestDriverApply(t *testing.T) {
	m, err := model.FromDescription(model.Placeholder())
	if err != nil {
		t.Fatal(err)
	}

	d := New(config.Default().Animation, fixedRand(0))
	var params Params
	for i := 0; i < 100; i++ {
		params = d.Advance(float64(i)/60, 0, 1)
	}
	d.Apply(m, params)

	want, _ := params.Get(ParamAngleX)
	if got := m.ParameterValue(ParamAngleX); got != want {
		t.Errorf("model ParamAngleX = %v, want %v", got, want)
	}
	if m.ParameterValue(ParamHairBack) != 0 {
		t.Error("unknown parameter should not appear in the model")
	}
}
