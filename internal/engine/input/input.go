// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/deskpet/internal/gesture"
)

// EventType classifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// KeyScreenshot saves the current frame.
const KeyScreenshot = sdl.SCANCODE_F12

// Event represents a processed input event. Mouse positions are in global
// desktop coordinates so drags keep working while the window moves under
// the cursor.
type Event struct {
	Type    EventType
	Key     sdl.Scancode
	GlobalX int
	GlobalY int
	Button  gesture.Button
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to overlay events.
// Returns true if the overlay should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
				if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					quit = true
				}
			}

		case *sdl.MouseMotionEvent:
			gx, gy := Global()
			i.events = append(i.events, Event{Type: EventMouseMove, GlobalX: gx, GlobalY: gy})

		case *sdl.MouseButtonEvent:
			gx, gy := Global()
			ev := Event{GlobalX: gx, GlobalY: gy, Button: button(e.Button)}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = EventMouseDown
			} else {
				ev.Type = EventMouseUp
			}
			i.events = append(i.events, ev)
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// Global returns the cursor position on the desktop, regardless of which
// window has focus.
func Global() (int, int) {
	x, y, _ := sdl.GetGlobalMouseState()
	return int(x), int(y)
}

func button(b uint8) gesture.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return gesture.ButtonLeft
	case sdl.BUTTON_RIGHT:
		return gesture.ButtonRight
	default:
		return gesture.ButtonNone
	}
}
