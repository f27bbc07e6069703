// Package controller drives rounds: it pulls quotes, feeds key events into a
// session, classifies the result and persists it.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/session"
	"github.com/verte-zerg/typeracer/internal/stats"
	"github.com/verte-zerg/typeracer/internal/tier"
)

var (
	// ErrNoActiveRound is returned when a round operation is called before Begin.
	ErrNoActiveRound = errors.New("no active round")
	// ErrRoundInProgress is returned by Begin while a round is still open.
	ErrRoundInProgress = errors.New("round already in progress")
	// ErrRecordNotSaved accompanies a valid summary whose record could not be stored.
	ErrRecordNotSaved = errors.New("round record not saved")
)

// QuoteProvider supplies target quotes.
type QuoteProvider interface {
	Next() (model.Quote, error)
}

// RecordAppender persists finished rounds.
type RecordAppender interface {
	Append(ctx context.Context, rec model.SessionRecord) error
}

// Classifier maps a result to a tier.
type Classifier interface {
	Classify(wpm float64, errors int) tier.ID
}

// InputSource blocks until the next key event is available.
type InputSource interface {
	Next(ctx context.Context) (Event, error)
}

// Options configures a Controller. The zero value is usable.
type Options struct {
	Logger zerolog.Logger
	// Clock overrides time.Now for sessions.
	Clock func() time.Time
	// NewID overrides the round ID generator.
	NewID func() string
	// OnChange is called after Begin and after every applied event.
	OnChange func(*session.Session)
}

// Controller owns the round lifecycle.
type Controller struct {
	provider   QuoteProvider
	store      RecordAppender
	classifier Classifier
	opts       Options

	current *session.Session
	rounds  []model.RoundSummary
}

// New returns a Controller. A nil store disables persistence.
func New(provider QuoteProvider, store RecordAppender, classifier Classifier, opts Options) *Controller {
	if classifier == nil {
		classifier = tier.NewClassifier(tier.DefaultThresholds())
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	return &Controller{
		provider:   provider,
		store:      store,
		classifier: classifier,
		opts:       opts,
	}
}

// Current returns the open session, or nil.
func (c *Controller) Current() *session.Session {
	return c.current
}

// Begin starts a new round with the next quote.
func (c *Controller) Begin(ctx context.Context) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.current != nil && !c.current.State().Terminal() {
		return nil, ErrRoundInProgress
	}
	quote, err := c.provider.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}
	var sessOpts []session.Option
	if c.opts.Clock != nil {
		sessOpts = append(sessOpts, session.WithClock(c.opts.Clock))
	}
	s, err := session.New(quote, sessOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start round: %w", err)
	}
	c.current = s
	c.opts.Logger.Debug().
		Str("source", quote.Source).
		Int("length", len(s.Target())).
		Msg("round started")
	c.notify()
	return s, nil
}

// Apply feeds one event into the open round and reports whether it ended.
func (c *Controller) Apply(ev Event) (bool, error) {
	s := c.current
	if s == nil {
		return false, ErrNoActiveRound
	}
	if s.State().Terminal() {
		c.opts.Logger.Debug().
			Str("event", ev.Kind.String()).
			Str("state", s.State().String()).
			Msg("key after round ended")
		return true, nil
	}
	switch ev.Kind {
	case EventRune:
		if s.AtTargetLength() || !unicode.IsPrint(ev.Rune) {
			return false, nil
		}
		if err := s.Feed(ev.Rune); err != nil {
			return false, err
		}
	case EventBackspace:
		if len(s.Typed()) == 0 {
			return false, nil
		}
		if err := s.Backspace(); err != nil {
			return false, err
		}
	case EventAbort:
		if err := s.Abort(); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown event kind %d", ev.Kind)
	}
	c.notify()
	return s.State().Terminal(), nil
}

// Finish closes the ended round, classifies it and appends its record.
// When storing fails the summary is still returned alongside ErrRecordNotSaved.
func (c *Controller) Finish(ctx context.Context) (model.RoundSummary, error) {
	s := c.current
	if s == nil {
		return model.RoundSummary{}, ErrNoActiveRound
	}
	if !s.State().Terminal() {
		return model.RoundSummary{}, fmt.Errorf("%w: round is %s", session.ErrInvalidTransition, s.State())
	}
	wpm := s.WPM()
	summary := model.RoundSummary{
		ID:              c.opts.NewID(),
		WPM:             wpm,
		DurationSeconds: s.ElapsedSeconds(),
		ErrorCount:      s.ErrorCount(),
		Tier:            c.classifier.Classify(wpm, s.ErrorCount()),
		CompletedFully:  s.State() == session.Completed,
		Quote:           s.Quote(),
		EndedAt:         s.EndedAt(),
	}
	c.rounds = append(c.rounds, summary)
	c.current = nil

	c.opts.Logger.Info().
		Str("id", summary.ID).
		Float64("wpm", summary.WPM).
		Int("errors", summary.ErrorCount).
		Str("tier", string(summary.Tier)).
		Bool("completed", summary.CompletedFully).
		Msg("round finished")

	if c.store == nil {
		return summary, nil
	}
	if err := c.store.Append(ctx, model.RecordFromSummary(summary)); err != nil {
		c.opts.Logger.Error().Err(err).Str("id", summary.ID).Msg("failed to save round")
		return summary, fmt.Errorf("%w: %w", ErrRecordNotSaved, err)
	}
	return summary, nil
}

// PlayRound runs a full round, reading events from src until it ends.
// An input error discards the open round without recording it.
func (c *Controller) PlayRound(ctx context.Context, src InputSource) (model.RoundSummary, error) {
	if _, err := c.Begin(ctx); err != nil {
		return model.RoundSummary{}, err
	}
	for {
		ev, err := src.Next(ctx)
		if err != nil {
			c.current = nil
			return model.RoundSummary{}, fmt.Errorf("failed to read input: %w", err)
		}
		done, err := c.Apply(ev)
		if err != nil {
			c.current = nil
			return model.RoundSummary{}, err
		}
		if done {
			return c.Finish(ctx)
		}
	}
}

// Rounds returns the summaries produced so far in this run.
func (c *Controller) Rounds() []model.RoundSummary {
	return append([]model.RoundSummary(nil), c.rounds...)
}

// RunSummary aggregates the rounds of this run.
func (c *Controller) RunSummary() model.RunSummary {
	return stats.Summarize(c.rounds)
}

func (c *Controller) notify() {
	if c.opts.OnChange != nil && c.current != nil {
		c.opts.OnChange(c.current)
	}
}
