package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"timed-quiz/internal/app"
	"timed-quiz/internal/domain"
	"timed-quiz/internal/infra/memory"
)

func TestWebSocketGameFlow(t *testing.T) {
	store := memory.NewLeaderboardStore(0)
	conn := dialGame(t, newTestConfig(store), "name=Alice")

	msgType, payload := readNext(conn, t, "question")
	if payload["question"] != "What is 2 + 2?" {
		t.Fatalf("unexpected question payload: %v", payload)
	}
	if msgType != "question" {
		t.Fatalf("expected question, got %s", msgType)
	}

	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"choice": 1}})
	_, payload = readNext(conn, t, "answered")
	outcome, _ := payload["outcome"].(map[string]any)
	if outcome["correct"] != true || payload["score"] != float64(1) {
		t.Fatalf("expected correct answer with score 1, got %v", payload)
	}

	// second answer on the same question is ignored; next goes to the results
	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"choice": 0}})
	send(t, conn, map[string]any{"type": "next"})
	_, payload = readNext(conn, t, "finished")
	if payload["finished"] != true || payload["score"] != float64(1) {
		t.Fatalf("unexpected finished payload: %v", payload)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		entries, _ := store.Load(context.Background())
		if len(entries) == 1 && entries[0].Name == "Alice" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected leaderboard entry for Alice, got %+v", entries)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketRejectsBadMessages(t *testing.T) {
	conn := dialGame(t, newTestConfig(nil), "name=Bob")
	readNext(conn, t, "question")

	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{}})
	_, payload := readNext(conn, t, "error")
	if payload["message"] != "invalid answer payload" {
		t.Fatalf("unexpected error payload: %v", payload)
	}

	send(t, conn, map[string]any{"type": "dance"})
	readNext(conn, t, "error")
}

func TestWebSocketRejectsNegativeChoice(t *testing.T) {
	conn := dialGame(t, newTestConfig(nil), "name=Bob")
	readNext(conn, t, "question")

	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"choice": -1}})
	_, payload := readNext(conn, t, "error")
	if payload["message"] != "invalid answer payload" {
		t.Fatalf("unexpected error payload: %v", payload)
	}

	// the question is still open
	send(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"choice": 1}})
	_, payload = readNext(conn, t, "answered")
	outcome, _ := payload["outcome"].(map[string]any)
	if outcome["correct"] != true || outcome["timedOut"] == true {
		t.Fatalf("expected correct answer after rejected choice, got %v", payload)
	}
}

func TestWebSocketRejectsSetOutsideSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(NewWSHandler(newTestConfig(nil)).ServeWS))
	defer server.Close()

	for _, set := range []string{"http://other/x.json", "../x.json", "/etc/passwd"} {
		t.Run(set, func(t *testing.T) {
			q := url.Values{"name": {"Bob"}, "set": {set}}
			resp, err := http.Get(server.URL + "?" + q.Encode())
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400 for %q, got %d", set, resp.StatusCode)
			}
		})
	}
}

func TestWebSocketUnknownSet(t *testing.T) {
	conn := dialGame(t, newTestConfig(nil), "name=Bob&set=missing.json")

	_, payload := readNext(conn, t, "error")
	if payload["error"] == "" || payload["error"] == nil {
		t.Fatalf("expected load error message, got %v", payload)
	}
}

func TestWebSocketRequiresName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(NewWSHandler(newTestConfig(nil)).ServeWS))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func dialGame(t *testing.T, cfg app.Config, query string) *websocket.Conn {
	t.Helper()
	wsHandler := NewWSHandler(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	u := "ws" + server.URL[len("http"):] + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %v: %v", msg["type"], err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	for {
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		// countdown ticks interleave with everything else
		if msg.Type == "tick" && expect != "tick" {
			continue
		}
		if expect != "" && msg.Type != expect {
			t.Fatalf("expected type %s, got %s", expect, msg.Type)
		}
		return msg.Type, msg.Payload
	}
}

func newTestConfig(store app.LeaderboardStore) app.Config {
	cfg := app.Config{
		Questions: memory.NewQuestionRepository(memory.NewStaticQuestionLoader(sampleQuestionSets()), time.Minute),
		SetID:     "questions.json",
		TimeLimit: 30,
	}
	if store != nil {
		cfg.Leaderboard = store
	}
	return cfg
}

func sampleQuestionSets() map[string][]domain.Question {
	return map[string][]domain.Question{
		"questions.json": {
			{Text: "What is 2 + 2?", Choices: []string{"3", "4", "5"}, CorrectIndex: 1},
		},
	}
}
