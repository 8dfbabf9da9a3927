package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"study-session-service/internal/domain"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestAttemptStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewAttemptStore(newClient(mr), time.Hour)
	attempt := domain.QuizAttempt{
		ID:    "a1",
		SetID: "set-1",
		Questions: []domain.QuizQuestion{
			{Type: domain.Written, Prompt: "Mitochondria", Answer: "the powerhouse of the cell"},
		},
		Result: &domain.GradeResult{CorrectCount: 1, PercentCorrect: 100},
	}

	if err := store.SaveAttempt(context.Background(), attempt); err != nil {
		t.Fatalf("save attempt: %v", err)
	}
	if ttl := mr.TTL("study:attempt:a1"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", ttl)
	}

	got, err := store.GetAttempt(context.Background(), "a1")
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	if got.SetID != "set-1" || len(got.Questions) != 1 || got.Result == nil || got.Result.PercentCorrect != 100 {
		t.Fatalf("unexpected attempt %+v", got)
	}
}

func TestAttemptStoreMissing(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewAttemptStore(newClient(mr), time.Hour)
	if _, err := store.GetAttempt(context.Background(), "nope"); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
}
