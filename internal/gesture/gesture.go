// Package gesture turns raw mouse button and motion events into drag deltas
// and normalized pointer coordinates.
package gesture

// Button identifies the mouse button driving a drag.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// Drag is the movement produced by one motion event while a button is held.
type Drag struct {
	Button Button
	DX, DY int
}

// Tracker follows a single active drag. Only one button drags at a time;
// presses of other buttons while a drag is active are ignored.
type Tracker struct {
	active       Button
	lastX, lastY int
}

// Press starts a drag at the given global position.
func (t *Tracker) Press(b Button, gx, gy int) {
	if b == ButtonNone || t.active != ButtonNone {
		return
	}
	t.active = b
	t.lastX, t.lastY = gx, gy
}

// Release ends the drag if b is the active button.
func (t *Tracker) Release(b Button) {
	if b == t.active {
		t.active = ButtonNone
	}
}

// Active returns the button currently dragging.
func (t *Tracker) Active() Button {
	return t.active
}

// Move reports how far the cursor travelled since the previous event. ok is
// false when no drag is active or the cursor did not move.
func (t *Tracker) Move(gx, gy int) (d Drag, ok bool) {
	if t.active == ButtonNone {
		return Drag{}, false
	}
	d = Drag{Button: t.active, DX: gx - t.lastX, DY: gy - t.lastY}
	t.lastX, t.lastY = gx, gy
	return d, d.DX != 0 || d.DY != 0
}

// Normalize maps a global cursor position into the window's [0,1] range.
// Positions outside the window are clamped to its edges; a degenerate window
// yields the center.
func Normalize(gx, gy, winX, winY, width, height int) (float64, float64) {
	if width <= 0 || height <= 0 {
		return 0.5, 0.5
	}
	nx := float64(gx-winX) / float64(width)
	ny := float64(gy-winY) / float64(height)
	return clamp01(nx), clamp01(ny)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
