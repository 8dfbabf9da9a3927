package app

import (
	"io"
	"log/slog"
	"time"

	"study-session-service/internal/study"

	"github.com/google/uuid"
)

// Option customises a service.
type Option func(*options)

type options struct {
	newRandom func() study.RandomSource
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger
	reveals   *study.RevealScheduler
}

func defaultOptions(tuning study.Tuning) options {
	return options{
		newRandom: func() study.RandomSource { return study.NewTimeSeededRandom() },
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		reveals:   study.NewRevealScheduler(tuning.FlipDelay),
	}
}

func applyOptions(tuning study.Tuning, opts []Option) options {
	o := defaultOptions(tuning)
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRandom makes every quiz and session draw from sources built by f.
func WithRandom(f func() study.RandomSource) Option {
	return func(o *options) { o.newRandom = f }
}

// WithClock is mainly for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDs replaces uuid generation.
func WithIDs(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRevealScheduler replaces the timer-backed flip reveal scheduler.
func WithRevealScheduler(s *study.RevealScheduler) Option {
	return func(o *options) { o.reveals = s }
}
