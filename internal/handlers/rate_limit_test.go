package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(10*time.Second, 2)
	l.now = func() time.Time { return now }

	handler := l.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/otp/send", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := call("10.0.0.1:5000"); rec.Code != http.StatusNoContent {
			t.Fatalf("call %d: expected 204, got %d", i, rec.Code)
		}
	}
	rec := call("10.0.0.1:5001")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once burst is spent, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "10" {
		t.Fatalf("unexpected Retry-After %q", rec.Header().Get("Retry-After"))
	}

	if rec := call("10.0.0.2:5000"); rec.Code != http.StatusNoContent {
		t.Fatalf("other clients must not share the bucket, got %d", rec.Code)
	}

	now = now.Add(10 * time.Second)
	if rec := call("10.0.0.1:5000"); rec.Code != http.StatusNoContent {
		t.Fatalf("expected a token after refill, got %d", rec.Code)
	}
}

func TestRateLimiterDropsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(time.Second, 1)
	l.now = func() time.Time { return now }

	l.allow("a")
	now = now.Add(idleClient + time.Minute)
	l.allow("b")

	if _, ok := l.visitors["a"]; ok {
		t.Fatal("idle client was not dropped")
	}
	if _, ok := l.visitors["b"]; !ok {
		t.Fatal("active client was dropped")
	}
}
