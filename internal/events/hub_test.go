package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"alphaDash/internal/services"
)

func startHub(t *testing.T, origins []string) (*Hub, string) {
	t.Helper()
	hub := NewHub(origins, nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("sid"))
	}))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string, header http.Header) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForCount(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Count(sessionID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("session %s: expected %d sockets, got %d", sessionID, want, hub.Count(sessionID))
}

func TestPublishReachesEverySocketOfSession(t *testing.T) {
	hub, url := startHub(t, nil)
	a := dial(t, url+"?sid=s1", nil)
	b := dial(t, url+"?sid=s1", nil)
	other := dial(t, url+"?sid=s2", nil)
	waitForCount(t, hub, "s1", 2)
	waitForCount(t, hub, "s2", 1)

	hub.Publish("s1", services.Event{Type: services.EventCartUpdated, Data: map[string]int{"count": 3}})

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got struct {
			Type string         `json:"type"`
			Data map[string]int `json:"data"`
		}
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("read: %v", err)
		}
		if got.Type != services.EventCartUpdated || got.Data["count"] != 3 {
			t.Fatalf("unexpected event %+v", got)
		}
	}

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Fatal("event leaked to another session")
	}
}

func TestTextPingIsAnswered(t *testing.T) {
	hub, url := startHub(t, nil)
	conn := dial(t, url+"?sid=s1", nil)
	waitForCount(t, hub, "s1", 1)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "pong" {
		t.Fatalf("expected pong, got %q", msg)
	}
}

func TestLogoutClosesSockets(t *testing.T) {
	hub, url := startHub(t, nil)
	conn := dial(t, url+"?sid=s1", nil)
	waitForCount(t, hub, "s1", 1)

	hub.Publish("s1", services.Event{Type: services.EventLoggedOut})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got services.Event
	if err := conn.ReadJSON(&got); err != nil || got.Type != services.EventLoggedOut {
		t.Fatalf("expected logged_out event, got %+v (%v)", got, err)
	}
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected socket to be closed")
	}
	waitForCount(t, hub, "s1", 0)
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub, url := startHub(t, nil)
	conn := dial(t, url+"?sid=s1", nil)
	waitForCount(t, hub, "s1", 1)

	conn.Close()
	waitForCount(t, hub, "s1", 0)
}

func TestOriginCheck(t *testing.T) {
	_, url := startHub(t, []string{"http://localhost:3000"})

	dial(t, url+"?sid=s1", http.Header{"Origin": {"http://localhost:3000"}})

	if _, _, err := websocket.DefaultDialer.Dial(url+"?sid=s1", http.Header{"Origin": {"http://evil.example"}}); err == nil {
		t.Fatal("expected foreign origin to be rejected")
	}
}

func TestMissingSessionRejected(t *testing.T) {
	_, url := startHub(t, nil)
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial without session to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}
