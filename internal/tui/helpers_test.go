package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/typeracer/internal/controller"
	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/session"
)

type fakeProvider struct {
	quote model.Quote
	err   error
}

func (p fakeProvider) Next() (model.Quote, error) {
	if p.err != nil {
		return model.Quote{}, p.err
	}
	return p.quote, nil
}

type fakeReader struct {
	records []model.SessionRecord
	err     error
}

func (r *fakeReader) ReadAll(context.Context) ([]model.SessionRecord, error) {
	return r.records, r.err
}

func (r *fakeReader) Append(_ context.Context, rec model.SessionRecord) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

var errNoQuotes = errors.New("no quotes")

func newTestController(q model.Quote, store controller.RecordAppender) *controller.Controller {
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return controller.New(fakeProvider{quote: q}, store, nil, controller.Options{
		Logger: zerolog.Nop(),
		Clock: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	})
}

func cellsFor(t *testing.T, target, typed string) []session.Cell {
	t.Helper()
	s, err := session.New(model.Quote{Text: target})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	for _, r := range typed {
		if err := s.Feed(r); err != nil {
			t.Fatalf("feed %q: %v", r, err)
		}
	}
	return s.Cells()
}
