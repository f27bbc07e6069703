package controller

import "fmt"

// EventKind identifies a key event.
type EventKind int

// Event kinds.
const (
	EventRune EventKind = iota
	EventBackspace
	EventAbort
)

func (k EventKind) String() string {
	switch k {
	case EventRune:
		return "rune"
	case EventBackspace:
		return "backspace"
	case EventAbort:
		return "abort"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is one decoded key press.
type Event struct {
	Kind EventKind
	Rune rune
}

// RuneEvent returns a printable key event.
func RuneEvent(r rune) Event {
	return Event{Kind: EventRune, Rune: r}
}

// BackspaceEvent returns a backspace event.
func BackspaceEvent() Event {
	return Event{Kind: EventBackspace}
}

// AbortEvent returns an abort event.
func AbortEvent() Event {
	return Event{Kind: EventAbort}
}
