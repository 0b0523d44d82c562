package anim

import (
	"time"

	"github.com/tanema/gween/ease"
)

// Phase is the blink state.
type Phase uint8

const (
	PhaseOpen Phase = iota
	PhaseClosing
	PhaseOpening
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseClosing:
		return "closing"
	case PhaseOpening:
		return "opening"
	default:
		return "unknown"
	}
}

// BlinkState is the blink FSM snapshot. Times are seconds since animation start.
type BlinkState struct {
	Phase      Phase
	PhaseStart float64
	NextBlink  float64
}

// Envelope returns eye openness for a blink that started elapsed seconds ago.
// The lid closes over the first half of duration and reopens over the second,
// reaching exactly 0 at the midpoint and 1 at the end.
func Envelope(elapsed, duration float64) float32 {
	if elapsed <= 0 {
		return 1
	}
	if elapsed >= duration {
		return 1
	}
	half := float32(duration / 2)
	t := float32(elapsed)
	var v float32
	if t < half {
		v = ease.OutSine(t, 1, -1, half)
	} else {
		v = ease.OutSine(t-half, 0, 1, half)
	}
	return max(v, 0)
}

// Blinker drives the blink FSM with randomized intervals.
type Blinker struct {
	duration    float64
	minInterval float64
	spread      float64
	rand        func() float64
	state       BlinkState
}

// NewBlinker returns a blinker whose first blink is scheduled from now.
// rand must return values in [0, 1).
func NewBlinker(duration, minInterval, maxInterval time.Duration, now float64, rand func() float64) *Blinker {
	b := &Blinker{
		duration:    duration.Seconds(),
		minInterval: minInterval.Seconds(),
		spread:      (maxInterval - minInterval).Seconds(),
		rand:        rand,
	}
	b.state.NextBlink = b.schedule(now)
	return b
}

func (b *Blinker) schedule(now float64) float64 {
	return now + b.minInterval + b.rand()*b.spread
}

// State returns the current FSM snapshot.
func (b *Blinker) State() BlinkState {
	return b.state
}

// Update advances the FSM to now and returns eye openness in [0, 1].
func (b *Blinker) Update(now float64) float32 {
	s := &b.state
	if s.Phase == PhaseOpen {
		if now < s.NextBlink {
			return 1
		}
		s.Phase = PhaseClosing
		s.PhaseStart = now
	}

	elapsed := now - s.PhaseStart
	switch {
	case elapsed >= b.duration:
		s.Phase = PhaseOpen
		s.NextBlink = b.schedule(now)
		return 1
	case elapsed >= b.duration/2:
		s.Phase = PhaseOpening
	}
	return Envelope(elapsed, b.duration)
}
