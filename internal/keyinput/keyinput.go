// Package keyinput decodes a raw terminal byte stream into key events.
package keyinput

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/ansi/parser"

	"github.com/verte-zerg/typeracer/internal/controller"
)

// Control bytes understood by the reader.
const (
	keyCtrlC     = 0x03
	keyCtrlH     = 0x08
	keyCtrlX     = 0x18
	keyBackspace = 0x7f
)

// Reader turns raw terminal input into controller events.
//
// Bytes are fed one at a time through an ANSI parser, so escape sequences
// split across reads are still recognised and dropped. Alt+key and other
// ESC sequences produce no events.
type Reader struct {
	in          *bufio.Reader
	parser      *ansi.Parser
	pending     []controller.Event
	skipNext    bool
	interrupted bool
}

// NewReader wraps r. r should be a terminal in raw mode.
func NewReader(r io.Reader) *Reader {
	rd := &Reader{in: bufio.NewReader(r), parser: ansi.NewParser()}
	rd.parser.SetHandler(ansi.Handler{
		Print:     rd.print,
		Execute:   rd.execute,
		HandleEsc: rd.handleEsc,
	})
	return rd
}

// Interrupted reports whether Ctrl+C was read. The round it ended is
// reported as aborted and the caller should stop playing.
func (r *Reader) Interrupted() bool {
	return r.interrupted
}

// Next blocks until a key that maps to an event arrives.
func (r *Reader) Next(ctx context.Context) (controller.Event, error) {
	for len(r.pending) == 0 {
		if err := ctx.Err(); err != nil {
			return controller.Event{}, err
		}
		b, err := r.in.ReadByte()
		if err != nil {
			if err == io.EOF {
				return controller.Event{}, io.EOF
			}
			return controller.Event{}, fmt.Errorf("failed to read key: %w", err)
		}
		r.parser.Advance(b)
		if stringState(r.parser.State()) {
			// Keyboards never send DCS, OSC, SOS, PM or APC strings. Only
			// Alt+P and similar keys start one, so drop it here.
			r.parser.Reset()
		}
	}
	ev := r.pending[0]
	r.pending = r.pending[1:]
	return ev, nil
}

func (r *Reader) print(ch rune) {
	if r.skipNext {
		r.skipNext = false
		return
	}
	if ch == unicode.ReplacementChar || !unicode.IsPrint(ch) {
		return
	}
	r.pending = append(r.pending, controller.RuneEvent(ch))
}

func (r *Reader) execute(b byte) {
	r.skipNext = false
	switch b {
	case keyBackspace, keyCtrlH:
		r.pending = append(r.pending, controller.BackspaceEvent())
	case keyCtrlX:
		r.pending = append(r.pending, controller.AbortEvent())
	case keyCtrlC:
		r.interrupted = true
		r.pending = append(r.pending, controller.AbortEvent())
	}
}

func stringState(s parser.State) bool {
	switch s {
	case parser.DcsEntryState, parser.OscStringState, parser.SosStringState,
		parser.PmStringState, parser.ApcStringState:
		return true
	}
	return false
}

// handleEsc drops ESC sequences. SS3 (ESC O) carries its key in the
// following byte, which is dropped too.
func (r *Reader) handleEsc(cmd ansi.Cmd) {
	r.skipNext = cmd.Intermediate() == 0 && cmd.Final() == 'O'
}
