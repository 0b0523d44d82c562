// Package mailbox hands speech bubble events from the poller goroutine to
// the render thread.
//
// The mailbox holds at most one event. Put overwrites whatever is waiting,
// Take empties the slot. A burst of events between two frames collapses to
// the last one, which is all the bubble needs since every update carries
// the whole text.
package mailbox

import "sync/atomic"

// Kind tells the bubble what to do with an event.
type Kind uint8

const (
	// KindUpdate replaces the bubble text and restarts its timeout.
	KindUpdate Kind = iota + 1
	// KindClear hides the bubble immediately.
	KindClear
)

func (k Kind) String() string {
	switch k {
	case KindUpdate:
		return "update"
	case KindClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Event is a single bubble instruction.
type Event struct {
	Kind Kind
	Text string
}

// Update returns an event that replaces the bubble text.
func Update(text string) Event {
	return Event{Kind: KindUpdate, Text: text}
}

// Clear returns an event that hides the bubble.
func Clear() Event {
	return Event{Kind: KindClear}
}

// Mailbox is a single-slot, last-write-wins handoff. The zero value is ready to use.
type Mailbox struct {
	slot atomic.Pointer[Event]
}

// New returns an empty mailbox.
func New() *Mailbox {
	return &Mailbox{}
}

// Put stores ev, replacing any event that has not been taken yet.
func (m *Mailbox) Put(ev Event) {
	m.slot.Store(&ev)
}

// Take removes and returns the waiting event.
func (m *Mailbox) Take() (Event, bool) {
	ev := m.slot.Swap(nil)
	if ev == nil {
		return Event{}, false
	}
	return *ev, true
}

// Pending reports whether an event is waiting.
func (m *Mailbox) Pending() bool {
	return m.slot.Load() != nil
}
