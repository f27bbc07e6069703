package session

import "github.com/verte-zerg/typeracer/internal/textnorm"

// Correctness of a typed position.
type Correctness int

// Correctness values.
const (
	Unknown Correctness = iota
	Correct
	Incorrect
)

// Cell pairs a target rune with what was typed at the same index.
type Cell struct {
	Target      rune
	HasTarget   bool
	Typed       rune
	HasTyped    bool
	Correctness Correctness
}

// Cells returns the renderer view of the session. Positions typed past the
// end of the target have no target rune and are always incorrect.
func (s *Session) Cells() []Cell {
	n := len(s.targetRunes)
	if len(s.typed) > n {
		n = len(s.typed)
	}
	cells := make([]Cell, n)
	for i := range cells {
		c := &cells[i]
		if i < len(s.targetRunes) {
			c.Target = s.targetRunes[i]
			c.HasTarget = true
		}
		if i >= len(s.typed) {
			continue
		}
		c.Typed = s.typed[i]
		c.HasTyped = true
		if c.HasTarget && textnorm.Equal(c.Typed, c.Target) {
			c.Correctness = Correct
		} else {
			c.Correctness = Incorrect
		}
	}
	return cells
}
