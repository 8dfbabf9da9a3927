package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"study-session-service/internal/app"
	"study-session-service/internal/domain"
	"study-session-service/internal/infra/memory"
	"study-session-service/internal/study"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.QuizService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sets := memory.NewSetRepository(memory.NewStaticSetLoader(sampleSets()), time.Minute)
	var seed atomic.Uint64
	seed.Store(7)
	opts := []app.Option{
		app.WithLogger(logger),
		app.WithRandom(func() study.RandomSource {
			return study.NewRandom(seed.Add(1))
		}),
		app.WithRevealScheduler(study.NewRevealScheduler(5 * time.Millisecond)),
	}

	quizzes := app.NewQuizService(sets, memory.NewAttemptStore(time.Hour), study.DefaultTuning(), opts...)
	flashcards := app.NewFlashcardService(sets, memory.NewSessionStore(), study.DefaultTuning(), opts...)

	mux := http.NewServeMux()
	NewQuizHandler(quizzes, logger).Register(mux)
	mux.HandleFunc("/ws/flashcards", NewWSHandler(flashcards, logger).ServeWS)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, quizzes
}

func sampleSets() map[string]domain.Set {
	return map[string]domain.Set{
		"set-1": {
			ID:    "set-1",
			Title: "Biology",
			Cards: []domain.Card{
				{ID: "c1", Term: "Mitochondria", Definition: "the powerhouse of the cell", Index: 0},
				{ID: "c2", Term: "Chlorophyll", Definition: "green pigment", Index: 1},
				{ID: "c3", Term: "Ribosome", Definition: "builds proteins", Index: 2},
				{ID: "c4", Term: "Nucleus", Definition: "holds the genome", Index: 3},
			},
		},
		"empty": {ID: "empty", Title: "Nothing yet"},
	}
}
