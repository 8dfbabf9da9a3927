package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"study-session-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// AttemptStore persists quiz attempts as JSON documents with a TTL.
type AttemptStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{client: client, ttl: ttl}
}

func (s *AttemptStore) SaveAttempt(ctx context.Context, attempt domain.QuizAttempt) error {
	payload, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("encode attempt %s: %w", attempt.ID, err)
	}
	if err := s.client.Set(ctx, s.key(attempt.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save attempt %s: %w", attempt.ID, err)
	}
	return nil
}

func (s *AttemptStore) GetAttempt(ctx context.Context, attemptID string) (domain.QuizAttempt, error) {
	payload, err := s.client.Get(ctx, s.key(attemptID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QuizAttempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.QuizAttempt{}, fmt.Errorf("load attempt %s: %w", attemptID, err)
	}

	var attempt domain.QuizAttempt
	if err := json.Unmarshal(payload, &attempt); err != nil {
		return domain.QuizAttempt{}, fmt.Errorf("decode attempt %s: %w", attemptID, err)
	}
	return attempt, nil
}

func (s *AttemptStore) key(attemptID string) string {
	return "study:attempt:" + attemptID
}
