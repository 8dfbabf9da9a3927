package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"study-session-service/internal/app"
	"study-session-service/internal/domain"
	"study-session-service/internal/study"

	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.FlashcardService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.FlashcardService, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type string `json:"type"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// clientEvents are the events a client may send; reveal is only ever scheduled server-side.
var clientEvents = map[string]study.Event{
	"flip":     study.EventFlip,
	"next":     study.EventNext,
	"previous": study.EventPrevious,
	"know":     study.EventKnow,
	"continue": study.EventContinue,
}

// ServeWS upgrades HTTP requests to websockets and runs one flashcard session per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	setID := q.Get("setId")
	if setID == "" {
		http.Error(w, "missing setId", http.StatusBadRequest)
		return
	}
	opts := study.FlashcardOptions{
		Mode:       study.Mode(q.Get("mode")),
		AnswerWith: domain.Side(q.Get("answerWith")),
	}
	if opts.Mode == "" {
		opts.Mode = study.Traditional
	}
	if opts.AnswerWith == "" {
		opts.AnswerWith = domain.SideDefinition
	}
	if raw := q.Get("shuffle"); raw != "" {
		shuffle, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "invalid shuffle flag", http.StatusBadRequest)
			return
		}
		opts.Shuffle = shuffle
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// the request context ends with the hijacked connection; cleanup must still run
	ctx := context.WithoutCancel(r.Context())

	begun, err := h.service.Begin(ctx, setID, opts)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	sessionID := begun.SessionID
	defer h.service.Leave(ctx, sessionID)

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	// the subscription opens with the current snapshot; it goes out as "started"
	started, ok := <-updates
	if !ok {
		return
	}
	if err := conn.WriteJSON(outboundMessage[app.FlashcardSnapshot]{Type: "started", Payload: started}); err != nil {
		return
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", "session_id", sessionID, "error", err)
				// unblocks the read loop below
				_ = conn.Close()
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	h.readEvents(ctx, conn, sessionID, send, writerDone)

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// readEvents applies client events until the connection fails or the writer gives up.
func (h *WSHandler) readEvents(ctx context.Context, conn *websocket.Conn, sessionID string, send chan<- outboundMessage[any], writerDone <-chan struct{}) {
	reply := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		ev, ok := clientEvents[inbound.Type]
		if !ok {
			if !reply(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}) {
				return
			}
			continue
		}
		// successful transitions reach the client through the subscription
		if _, err := h.service.Apply(ctx, sessionID, ev); err != nil {
			if !reply(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}) {
				return
			}
		}
	}
}
