// Package session implements the typing round state machine.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/textnorm"
)

var (
	// ErrEmptyQuote is returned when a session is created without text.
	ErrEmptyQuote = errors.New("quote text is empty")
	// ErrInvalidTransition signals an operation the current state does not allow.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrEmptyBuffer is returned by Backspace when nothing has been typed.
	ErrEmptyBuffer = errors.New("typed buffer is empty")
)

// State is the lifecycle stage of a session.
type State int

// Session states.
const (
	Idle State = iota
	InProgress
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InProgress:
		return "in-progress"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further input is accepted.
func (s State) Terminal() bool {
	return s == Completed || s == Aborted
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session tracks one attempt at typing a quote.
type Session struct {
	quote       model.Quote
	targetRunes []rune
	typed       []rune
	errorCount  int
	startedAt   time.Time
	endedAt     time.Time
	state       State
	now         func() time.Time
}

// New creates an idle session for q.
func New(q model.Quote, opts ...Option) (*Session, error) {
	if q.Text == "" {
		return nil, ErrEmptyQuote
	}
	q.Text = textnorm.NormalizePunct(q.Text)
	s := &Session{
		quote:       q,
		targetRunes: []rune(q.Text),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Feed appends a typed rune and scores it against the target.
func (s *Session) Feed(r rune) error {
	if s.state.Terminal() {
		return fmt.Errorf("%w: feed in %s state", ErrInvalidTransition, s.state)
	}
	if s.startedAt.IsZero() {
		s.startedAt = s.now()
	}
	s.state = InProgress

	r = textnorm.NormalizePunctRune(r)
	pos := len(s.typed)
	s.typed = append(s.typed, r)
	// Runes past the end of the target are not scored.
	if pos < len(s.targetRunes) && !textnorm.Equal(r, s.targetRunes[pos]) {
		s.errorCount++
	}
	if s.IsComplete() {
		s.state = Completed
		s.endedAt = s.now()
	}
	return nil
}

// Backspace removes the last typed rune. The error count is kept.
func (s *Session) Backspace() error {
	if s.state.Terminal() {
		return fmt.Errorf("%w: backspace in %s state", ErrInvalidTransition, s.state)
	}
	if len(s.typed) == 0 {
		return ErrEmptyBuffer
	}
	s.typed = s.typed[:len(s.typed)-1]
	return nil
}

// Abort ends the session early.
func (s *Session) Abort() error {
	if s.state.Terminal() {
		return fmt.Errorf("%w: abort in %s state", ErrInvalidTransition, s.state)
	}
	now := s.now()
	if s.startedAt.IsZero() {
		s.startedAt = now
	}
	s.endedAt = now
	s.state = Aborted
	return nil
}

// IsComplete reports whether the typed buffer matches the target exactly.
func (s *Session) IsComplete() bool {
	if len(s.typed) != len(s.targetRunes) {
		return false
	}
	for i, r := range s.targetRunes {
		if !textnorm.Equal(s.typed[i], r) {
			return false
		}
	}
	return true
}

// AtTargetLength reports whether further runes would overflow the target.
func (s *Session) AtTargetLength() bool {
	return len(s.typed) >= len(s.targetRunes)
}

// Quote returns the target quote.
func (s *Session) Quote() model.Quote {
	return s.quote
}

// Target returns a copy of the target runes.
func (s *Session) Target() []rune {
	return append([]rune(nil), s.targetRunes...)
}

// Typed returns a copy of the typed runes.
func (s *Session) Typed() []rune {
	return append([]rune(nil), s.typed...)
}

// ErrorCount returns the number of mistakes made so far.
func (s *Session) ErrorCount() int {
	return s.errorCount
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// StartedAt returns the first keystroke time, or the zero time.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// EndedAt returns the completion or abort time, or the zero time.
func (s *Session) EndedAt() time.Time {
	return s.endedAt
}
