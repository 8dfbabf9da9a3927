package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"study-session-service/internal/app"
	"study-session-service/internal/infra/memory"
	"study-session-service/internal/study"

	"github.com/gorilla/websocket"
)

func TestWebSocketFlashcardFlow(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server.URL, "/ws/flashcards?setId=set-1&mode=traditional&answerWith=definition")

	_, started := readNext(conn, t, "started")
	if started["sideText"] != "Mitochondria" || started["progress"] != "1/4" {
		t.Fatalf("unexpected start payload %v", started)
	}

	// the start payload is the only copy of the opening card
	writeEvent(t, conn, "flip")
	_, flipped := readNext(conn, t, "state")
	if flipped["flipped"] != true || flipped["sideText"] != "Mitochondria" {
		t.Fatalf("expected the flipped card right after start, got %v", flipped)
	}
	_, revealed := readNext(conn, t, "state")
	if revealed["sideText"] != "the powerhouse of the cell" {
		t.Fatalf("expected revealed definition, got %v", revealed)
	}

	writeEvent(t, conn, "next")
	_, moved := readNext(conn, t, "state")
	if moved["sideText"] != "Chlorophyll" || moved["flipped"] != false || moved["progress"] != "2/4" {
		t.Fatalf("expected second card face up, got %v", moved)
	}

	writeEvent(t, conn, "reveal")
	_, errPayload := readNext(conn, t, "error")
	if errPayload["message"] != "unsupported message type" {
		t.Fatalf("unexpected error payload %v", errPayload)
	}
}

func TestWebSocketProgressiveRoundNeedsContinue(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server.URL, "/ws/flashcards?setId=set-1&mode=progressive&answerWith=term")

	readNext(conn, t, "started")

	for i := 0; i < 4; i++ {
		writeEvent(t, conn, "know")
		readNext(conn, t, "state")
	}
	// every card known: the session is over
	writeEvent(t, conn, "next")
	_, errPayload := readNext(conn, t, "error")
	if errPayload["message"] == "" {
		t.Fatalf("expected error after completion")
	}
}

func TestWebSocketRejectsBadRequests(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/ws/flashcards")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without setId, got %d", resp.StatusCode)
	}

	conn := dial(t, server.URL, "/ws/flashcards?setId=missing")
	_, payload := readNext(conn, t, "error")
	if payload["message"] != "set not found" {
		t.Fatalf("unexpected error payload %v", payload)
	}
}

func TestWebSocketClientThatStopsReadingIsReleased(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sets := memory.NewSetRepository(memory.NewStaticSetLoader(sampleSets()), time.Minute)
	sessions := memory.NewSessionStore()
	flashcards := app.NewFlashcardService(sets, sessions, study.DefaultTuning(), app.WithLogger(logger))
	server := httptest.NewServer(http.HandlerFunc(NewWSHandler(flashcards, logger).ServeWS))
	t.Cleanup(server.Close)

	conn := dial(t, server.URL, "/?setId=set-1")
	readNext(conn, t, "started")

	// every message earns an error reply that this client never reads
	_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < 50000; i++ {
		if err := conn.WriteJSON(map[string]string{"type": "bogus"}); err != nil {
			break
		}
	}
	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for sessions.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("handler still holds the session after the client went away")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func dial(t *testing.T, serverURL, path string) *websocket.Conn {
	t.Helper()
	u := "ws" + serverURL[len("http"):] + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func writeEvent(t *testing.T, conn *websocket.Conn, typ string) {
	t.Helper()
	if err := conn.WriteJSON(map[string]string{"type": typ}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}
