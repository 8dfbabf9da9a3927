package redis

import (
	"context"
	"testing"
	"time"

	"study-session-service/internal/app"
	"study-session-service/internal/domain"
	"study-session-service/internal/study"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	ctx := context.Background()

	if err := store.Save(ctx, newSession(t, "s1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("study:flashcards:s1") {
		t.Fatalf("expected redis key to be set")
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("study:flashcards:s1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get(ctx, "s1"); ok {
		t.Fatalf("expected session gone")
	}
}

func TestSessionStoreRestoresFromRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	first := NewSessionStore(newClient(mr), time.Minute)
	session := newSession(t, "s1")

	next, err := study.Transition(session.State(), study.EventNext, study.NewRandom(1))
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	session = app.NewFlashcardSession("s1", "set-1", next, study.NewRandom(1), time.Now)
	if err := first.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	// a fresh store has no local copy and must read Redis
	second := NewSessionStore(newClient(mr), time.Minute)
	restored, ok := second.Get(ctx, "s1")
	if !ok {
		t.Fatalf("expected session restored from redis")
	}
	if restored.SetID() != "set-1" || restored.State().Index != 1 {
		t.Fatalf("unexpected restored state %+v", restored.State())
	}
	again, _ := second.Get(ctx, "s1")
	if again != restored {
		t.Fatalf("expected restored session cached locally")
	}
}

func newSession(t *testing.T, id string) *app.FlashcardSession {
	t.Helper()
	rnd := study.NewRandom(1)
	state, err := study.Begin(sampleSet().Cards, study.FlashcardOptions{Mode: study.Traditional, AnswerWith: domain.SideDefinition}, rnd)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return app.NewFlashcardSession(id, "set-1", state, rnd, time.Now)
}
