package redis

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"study-session-service/internal/app"
	"study-session-service/internal/study"

	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-backed implementation of app.SessionRepository.
// Live sessions stay in a local map so subscribers keep working in-process;
// every save also writes the session state to Redis so another instance
// (or this one after a restart) can restore it.
type SessionStore struct {
	client    *redis.Client
	ttl       time.Duration
	newRandom func() study.RandomSource
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*app.FlashcardSession
}

type sessionRecord struct {
	ID        string               `json:"id"`
	SetID     string               `json:"setId"`
	State     study.FlashcardState `json:"state"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:    client,
		ttl:       ttl,
		newRandom: func() study.RandomSource { return study.NewTimeSeededRandom() },
		now:       time.Now,
		sessions:  make(map[string]*app.FlashcardSession),
	}
}

func (s *SessionStore) Save(ctx context.Context, session *app.FlashcardSession) error {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	payload, err := json.Marshal(sessionRecord{
		ID:        session.ID(),
		SetID:     session.SetID(),
		State:     session.State(),
		UpdatedAt: s.now(),
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.ID()), payload, s.ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (*app.FlashcardSession, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return session, true
	}

	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		return nil, false
	}
	var record sessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, false
	}
	if record.State.KnownCardIDs == nil {
		record.State.KnownCardIDs = map[string]bool{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// another caller may have restored it while we were reading
	if existing, ok := s.sessions[sessionID]; ok {
		return existing, true
	}
	restored := app.NewFlashcardSession(record.ID, record.SetID, record.State, s.newRandom(), s.now)
	s.sessions[sessionID] = restored
	return restored, true
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "study:flashcards:" + sessionID
}
