package memory

import (
	"context"
	"sync"
	"time"

	"study-session-service/internal/domain"
)

// AttemptStore keeps quiz attempts in memory until they expire.
type AttemptStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.RWMutex
	attempts map[string]storedAttempt
}

type storedAttempt struct {
	attempt   domain.QuizAttempt
	expiresAt time.Time
}

// NewAttemptStore keeps attempts for ttl after their last save; zero keeps them forever.
func NewAttemptStore(ttl time.Duration) *AttemptStore {
	return &AttemptStore{
		ttl:      ttl,
		clock:    time.Now,
		attempts: make(map[string]storedAttempt),
	}
}

func (s *AttemptStore) SaveAttempt(_ context.Context, attempt domain.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expires time.Time
	if s.ttl > 0 {
		expires = s.clock().Add(s.ttl)
	}
	s.attempts[attempt.ID] = storedAttempt{attempt: attempt, expiresAt: expires}
	s.evictLocked()
	return nil
}

func (s *AttemptStore) GetAttempt(_ context.Context, attemptID string) (domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.attempts[attemptID]
	if !ok || s.expired(stored) {
		return domain.QuizAttempt{}, domain.ErrAttemptNotFound
	}
	return stored.attempt, nil
}

func (s *AttemptStore) expired(stored storedAttempt) bool {
	return !stored.expiresAt.IsZero() && !stored.expiresAt.After(s.clock())
}

func (s *AttemptStore) evictLocked() {
	for id, stored := range s.attempts {
		if s.expired(stored) {
			delete(s.attempts, id)
		}
	}
}
