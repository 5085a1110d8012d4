package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"timed-quiz/internal/app"
	"timed-quiz/internal/domain"
)

// WSHandler runs one Game per websocket connection.
type WSHandler struct {
	base     app.Config
	upgrader websocket.Upgrader
}

// NewWSHandler takes a template game config; the presenter, player and set are filled per connection.
func NewWSHandler(base app.Config) *WSHandler {
	return &WSHandler{
		base: base,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Choice *int `json:"choice"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// wsPresenter forwards views to the connection writer until the connection closes.
type wsPresenter struct {
	send   chan<- outboundMessage[any]
	closed <-chan struct{}
}

func (p wsPresenter) Render(v app.View) {
	select {
	case p.send <- outboundMessage[any]{Type: string(v.Kind), Payload: v}:
	case <-p.closed:
	}
}

// ServeWS upgrades HTTP requests to websockets and plays a game over them.
// Query: name (player, required), set (question set relative to the configured source, optional).
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}
	set := r.URL.Query().Get("set")
	if set != "" {
		if err := domain.ValidateSetID(set); err != nil {
			http.Error(w, "invalid set", http.StatusBadRequest)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	// single writer; gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				slog.WarnContext(r.Context(), "ws write error", "error", err)
				return
			}
		}
	}()

	cfg := h.base
	cfg.PlayerName = name
	if set != "" {
		cfg.SetID = set
	}
	cfg.Presenter = wsPresenter{send: send, closed: closeSignals}
	game := app.NewGame(cfg)

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	gameDone := make(chan struct{})
	go func() {
		defer close(gameDone)
		if err := game.Run(ctx); err != nil {
			slog.WarnContext(ctx, "ws game stopped", "player", name, "error", err)
		}
	}()

	h.readLoop(conn, game, send, closeSignals)

	close(closeSignals)
	cancel()
	<-gameDone
	close(send)
	<-writerDone
}

func (h *WSHandler) readLoop(conn *websocket.Conn, game *app.Game, send chan<- outboundMessage[any], closed <-chan struct{}) {
	reply := func(msg string) {
		select {
		case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}:
		case <-closed:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Choice == nil || *payload.Choice < 0 {
				reply("invalid answer payload")
				continue
			}
			game.Answer(*payload.Choice)
		case "next":
			game.Next()
		case "restart":
			game.Restart()
		default:
			reply("unsupported message type")
		}
	}
}
