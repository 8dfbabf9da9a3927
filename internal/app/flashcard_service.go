package app

import (
	"context"
	"fmt"
	"log/slog"

	"study-session-service/internal/domain"
	"study-session-service/internal/study"
)

// SessionRepository abstracts how flashcard sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Save(ctx context.Context, session *FlashcardSession) error
	Get(ctx context.Context, sessionID string) (*FlashcardSession, bool)
	Delete(ctx context.Context, sessionID string) error
}

// FlashcardService runs flashcard review sessions.
type FlashcardService struct {
	sets     SetRepository
	sessions SessionRepository
	opts     options
	logger   *slog.Logger
}

func NewFlashcardService(sets SetRepository, sessions SessionRepository, tuning study.Tuning, opts ...Option) *FlashcardService {
	o := applyOptions(tuning, opts)
	return &FlashcardService{
		sets:     sets,
		sessions: sessions,
		opts:     o,
		logger:   o.logger,
	}
}

// Begin starts a session over the set's cards.
func (s *FlashcardService) Begin(ctx context.Context, setID string, fo study.FlashcardOptions) (FlashcardSnapshot, error) {
	set, err := s.sets.GetSet(ctx, setID)
	if err != nil {
		return FlashcardSnapshot{}, err
	}

	rnd := s.opts.newRandom()
	state, err := study.Begin(set.Cards, fo, rnd)
	if err != nil {
		return FlashcardSnapshot{}, err
	}

	session := NewFlashcardSession(s.opts.newID(), set.ID, state, rnd, s.opts.now)
	if err := s.sessions.Save(ctx, session); err != nil {
		return FlashcardSnapshot{}, err
	}
	s.logger.Info("flashcards started", "set_id", set.ID, "session_id", session.ID(), "mode", fo.Mode)
	return session.Snapshot(), nil
}

// Apply runs one event against a session. A flip schedules the side swap;
// navigation drops any swap still pending so it cannot land on the next card.
func (s *FlashcardService) Apply(ctx context.Context, sessionID string, ev study.Event) (FlashcardSnapshot, error) {
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return FlashcardSnapshot{}, domain.ErrSessionNotFound
	}

	if ev.Navigates() || ev == study.EventContinue {
		s.opts.reveals.Cancel(sessionID)
	}

	if ev == study.EventReveal {
		return session.Snapshot(), fmt.Errorf("%w: %q is scheduled by flip", domain.ErrUnknownEvent, ev)
	}
	snap, face, err := session.apply(ev)
	if err != nil {
		return snap, err
	}

	if ev == study.EventFlip {
		s.opts.reveals.Schedule(sessionID, func() { s.reveal(sessionID, face) })
	}
	s.persist(ctx, session)
	return snap, nil
}

// reveal runs off the request path; face ties it to the card that was flipped.
func (s *FlashcardService) reveal(sessionID string, face uint64) {
	ctx := context.Background()
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return
	}
	if _, err := session.reveal(face); err != nil {
		s.logger.Debug("reveal skipped", "session_id", sessionID, "error", err)
		return
	}
	s.persist(ctx, session)
}

func (s *FlashcardService) persist(ctx context.Context, session *FlashcardSession) {
	saved, err := session.saveIfOpen(func() error { return s.sessions.Save(ctx, session) })
	if err != nil {
		s.logger.Warn("failed to save flashcard session", "session_id", session.ID(), "error", err)
		return
	}
	if !saved {
		s.logger.Debug("skipped save of closed session", "session_id", session.ID())
	}
}

// Snapshot returns the current view of a session.
func (s *FlashcardService) Snapshot(ctx context.Context, sessionID string) (FlashcardSnapshot, error) {
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return FlashcardSnapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel that receives a snapshot after every transition.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *FlashcardService) Subscribe(ctx context.Context, sessionID string) (<-chan FlashcardSnapshot, func(), error) {
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave tears the session down. Pending reveals are cancelled first.
func (s *FlashcardService) Leave(ctx context.Context, sessionID string) {
	if dropped := s.opts.reveals.Cancel(sessionID); dropped > 0 {
		s.logger.Debug("cancelled pending reveals", "session_id", sessionID, "count", dropped)
	}
	session, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return
	}
	session.close()
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("failed to delete flashcard session", "session_id", sessionID, "error", err)
	}
}
