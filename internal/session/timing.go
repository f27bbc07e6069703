package session

import "math"

const charsPerWord = 5.0

// ElapsedSeconds returns the time spent typing. A running session is
// measured against the clock.
func (s *Session) ElapsedSeconds() float64 {
	if s.startedAt.IsZero() {
		return 0
	}
	end := s.endedAt
	if end.IsZero() {
		end = s.now()
	}
	secs := end.Sub(s.startedAt).Seconds()
	if secs < 0 {
		return 0
	}
	return secs
}

// WPM returns words per minute over every typed rune, rounded to one decimal.
func (s *Session) WPM() float64 {
	if s.startedAt.IsZero() || len(s.typed) == 0 {
		return 0
	}
	elapsed := s.ElapsedSeconds()
	if elapsed <= 0 {
		return 0
	}
	minutes := elapsed / 60.0
	return Round1((float64(len(s.typed)) / charsPerWord) / minutes)
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
