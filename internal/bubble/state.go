package bubble

import "time"

// Phase is the visible lifecycle stage of the bubble.
type Phase uint8

const (
	PhaseHidden Phase = iota
	PhaseVisible
	PhaseFadingOut
)

func (p Phase) String() string {
	switch p {
	case PhaseHidden:
		return "hidden"
	case PhaseVisible:
		return "visible"
	case PhaseFadingOut:
		return "fading_out"
	default:
		return "unknown"
	}
}

// State is the bubble's text and fade bookkeeping. A zero LastMessage means
// no message is being timed.
type State struct {
	Text        string
	Alpha       float32
	LastMessage time.Time
}

// Show replaces the text and restarts the timeout at full opacity.
// Calling it mid-fade brings the bubble straight back.
func (s *State) Show(text string, now time.Time) {
	s.Text = text
	s.LastMessage = now
	s.Alpha = max(s.Alpha, 1)
}

// Clear hides the bubble at once.
func (s *State) Clear() {
	s.Text = ""
	s.Alpha = 0
	s.LastMessage = time.Time{}
}

// Step applies one frame of fading. Once the timeout has passed, alpha drops
// by fadeStep per call; reaching zero clears the bubble.
func (s *State) Step(now time.Time, timeout time.Duration, fadeStep float32) {
	if s.LastMessage.IsZero() || s.Alpha <= 0 {
		return
	}
	if now.Sub(s.LastMessage) <= timeout {
		return
	}
	s.Alpha -= fadeStep
	if s.Alpha <= 0 {
		s.Clear()
	}
}

// Phase reports the lifecycle stage at now.
func (s *State) Phase(now time.Time, timeout time.Duration) Phase {
	switch {
	case s.Alpha <= 0:
		return PhaseHidden
	case !s.LastMessage.IsZero() && now.Sub(s.LastMessage) > timeout:
		return PhaseFadingOut
	default:
		return PhaseVisible
	}
}
